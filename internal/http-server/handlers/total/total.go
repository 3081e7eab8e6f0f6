// Package total отдаёт суммы баллов по клиентам за всё время.
package total

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
	TotalRewards(ctx context.Context, q models.Query) (models.Page[models.TotalRewardRecord], error)
}

// DefaultSort — сортировка представления, если клиент её не задал.
var DefaultSort = models.SortSpec{Column: models.ColumnCustomerName, Order: models.OrderAsc}

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
	const op = "handlers.total.ServeHTTP"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q, ok := params.FromRequest(w, r, log, h.validate, h.defaults)
	if !ok {
		return
	}

	page, err := h.service.TotalRewards(r.Context(), q)
	if err != nil {
		log.Error("failed to compute total view", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		if errors.Is(err, rewards.ErrSourceUnavailable) {
			render.JSON(w, r, response.Error("failed to load transactions"))
			return
		}
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("total view", slog.Int("count", page.Count), slog.Int("page", page.Page))
	render.JSON(w, r, response.StatusOKWithData(page))
}
