// Package rewards собирает представления с баллами поверх источника транзакций:
// загружает список, считает нужное представление, применяет колоночные
// фильтры, сортировку и пагинацию.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/aggregate"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/filter"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/table"
	"github.com/magabrotheeeer/rewards-aggregator/internal/metrics"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// ErrSourceUnavailable отделяет сбой загрузки от ошибок вычисления.
var ErrSourceUnavailable = errors.New("transactions source unavailable")

// Имена представлений для метрик и логов.
const (
	ViewTransactions = "transactions"
	ViewMonthly      = "monthly"
	ViewTotal        = "total"
)

// Source отдаёт текущий список транзакций.
type Source interface {
	Transactions(ctx context.Context) ([]models.Transaction, error)
}

var (
	transactionColumns = map[string]filter.Rule{
		models.ColumnFilterProduct: {Field: models.ColumnProduct, Op: filter.OpIncludes},
		models.ColumnFilterMonth:   {Field: models.ColumnPurchaseDate, Op: filter.OpMonthEquals},
		models.ColumnFilterYear:    {Field: models.ColumnPurchaseDate, Op: filter.OpYearEquals},
	}
	monthlyColumns = map[string]filter.Rule{
		models.ColumnFilterMonth: {Field: models.ColumnMonth, Op: filter.OpMonthEquals},
		models.ColumnFilterYear:  {Field: models.ColumnYear, Op: filter.OpYearEquals},
	}
)

// Service считает представления. Состояния между вызовами нет.
type Service struct {
	source Source
	log    *slog.Logger
}

// NewService создаёт сервис поверх источника транзакций.
func NewService(source Source, log *slog.Logger) *Service {
	return &Service{
		source: source,
		log:    log,
	}
}

func (s *Service) load(ctx context.Context, op string) ([]models.Transaction, error) {
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		s.log.Error("failed to load transactions", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrSourceUnavailable, err)
	}
	return txs, nil
}

// ListTransactions возвращает страницу отфильтрованных транзакций с баллами.
func (s *Service) ListTransactions(ctx context.Context, q models.Query) (models.Page[models.ScoredTransaction], error) {
	const op = "services.rewards.ListTransactions"

	txs, err := s.load(ctx, op)
	if err != nil {
		return models.Page[models.ScoredTransaction]{}, err
	}
	metrics.ViewRequests.WithLabelValues(ViewTransactions).Inc()

	rows := aggregate.ScoreTransactions(txs, q.Filter)
	rows = filter.Rows(rows, filter.Build[models.ScoredTransaction](s.log, q.Columns, transactionColumns))

	s.log.Debug("transactions view computed", slog.String("op", op), slog.Int("count", len(rows)))
	return table.Paginate(rows, q.Sort, q.Page), nil
}

// MonthlyRewards возвращает страницу помесячных сумм баллов.
// Транзакции без разбираемой даты пропускаются и попадают в лог и метрику.
func (s *Service) MonthlyRewards(ctx context.Context, q models.Query) (models.Page[models.MonthlyRewardRecord], error) {
	const op = "services.rewards.MonthlyRewards"

	txs, err := s.load(ctx, op)
	if err != nil {
		return models.Page[models.MonthlyRewardRecord]{}, err
	}
	metrics.ViewRequests.WithLabelValues(ViewMonthly).Inc()

	if undated := aggregate.Undated(txs, q.Filter); len(undated) > 0 {
		metrics.UndatedSkipped.Add(float64(len(undated)))
		for _, tx := range undated {
			s.log.Warn("transaction skipped: unparsable purchase date",
				slog.String("op", op),
				slog.String("id", string(tx.ID)),
				slog.String("purchase_date", tx.PurchaseDate),
			)
		}
	}

	rows := aggregate.MonthlyRewards(txs, q.Filter)
	rows = filter.Rows(rows, filter.Build[models.MonthlyRewardRecord](s.log, q.Columns, monthlyColumns))

	s.log.Debug("monthly view computed", slog.String("op", op), slog.Int("count", len(rows)))
	return table.Paginate(rows, q.Sort, q.Page), nil
}

// TotalRewards возвращает страницу сумм баллов по клиентам за всё время.
func (s *Service) TotalRewards(ctx context.Context, q models.Query) (models.Page[models.TotalRewardRecord], error) {
	const op = "services.rewards.TotalRewards"

	txs, err := s.load(ctx, op)
	if err != nil {
		return models.Page[models.TotalRewardRecord]{}, err
	}
	metrics.ViewRequests.WithLabelValues(ViewTotal).Inc()

	rows := aggregate.TotalRewards(txs, q.Filter)

	s.log.Debug("total view computed", slog.String("op", op), slog.Int("count", len(rows)))
	return table.Paginate(rows, q.Sort, q.Page), nil
}
