// Package transactions отдаёт отфильтрованные транзакции с начисленными баллами.
package transactions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/params"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/response"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
	"github.com/magabrotheeeer/rewards-aggregator/internal/services/rewards"
)

// Service считает представление.
type Service interface {
	ListTransactions(ctx context.Context, q models.Query) (models.Page[models.ScoredTransaction], error)
}

// DefaultSort — сортировка представления, если клиент её не задал.
var DefaultSort = models.SortSpec{Column: models.ColumnCustomerID, Order: models.OrderAsc}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
	defaults params.Defaults
}

func New(log *slog.Logger, service Service, rowsPerPage, maxRowsPerPage int) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: params.NewValidator(),
		defaults: params.Defaults{
			Sort:           DefaultSort,
			RowsPerPage:    rowsPerPage,
			MaxRowsPerPage: maxRowsPerPage,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transactions.ServeHTTP"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q, ok := params.FromRequest(w, r, log, h.validate, h.defaults)
	if !ok {
		return
	}

	page, err := h.service.ListTransactions(r.Context(), q)
	if err != nil {
		log.Error("failed to compute transactions view", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		if errors.Is(err, rewards.ErrSourceUnavailable) {
			render.JSON(w, r, response.Error("failed to load transactions"))
			return
		}
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("transactions view", slog.Int("count", page.Count), slog.Int("page", page.Page))
	render.JSON(w, r, response.StatusOKWithData(page))
}
