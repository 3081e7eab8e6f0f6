// Package refresh сбрасывает закешированный список транзакций, чтобы
// следующий запрос перечитал источник.
package refresh

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/response"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
)

// Invalidator сбрасывает кеш источника.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Handler struct {
	log         *slog.Logger
	invalidator Invalidator
}

func New(log *slog.Logger, invalidator Invalidator) *Handler {
	return &Handler{
		log:         log,
		invalidator: invalidator,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.refresh.ServeHTTP"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.invalidator.Invalidate(r.Context()); err != nil {
		log.Error("failed to invalidate transactions cache", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to refresh transactions"))
		return
	}

	log.Info("transactions cache invalidated")
	render.JSON(w, r, response.OK())
}
