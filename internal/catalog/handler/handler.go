// Package handler exposes the read-only catalog endpoints kiosks use to
// populate their service and branch pickers.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"turnero/internal/catalog"
	"turnero/internal/transport/http/shared"
	dErrors "turnero/pkg/domain-errors"
	"turnero/pkg/requestcontext"
)

// Service lists the catalog.
type Service interface {
	ListServices(ctx context.Context) ([]*catalog.Service, error)
	ListBranches(ctx context.Context) ([]*catalog.Branch, error)
}

type Handler struct {
	logger  *slog.Logger
	catalog Service
}

func New(cat Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, catalog: cat}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/servicios", h.handleListServices)
	r.Get("/sucursales", h.handleListBranches)
}

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services, err := h.catalog.ListServices(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list services failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list services"))
		return
	}
	if services == nil {
		services = []*catalog.Service{}
	}
	shared.WriteJSON(w, http.StatusOK, services)
}

func (h *Handler) handleListBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	branches, err := h.catalog.ListBranches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list branches failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list branches"))
		return
	}
	if branches == nil {
		branches = []*catalog.Branch{}
	}
	shared.WriteJSON(w, http.StatusOK, branches)
}
