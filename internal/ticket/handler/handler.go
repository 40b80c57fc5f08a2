// Package handler exposes the ticket lifecycle over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"turnero/internal/platform/middleware"
	"turnero/internal/ticket/models"
	"turnero/internal/ticket/service"
	"turnero/internal/transport/http/shared"
	id "turnero/pkg/domain"
	dErrors "turnero/pkg/domain-errors"
	"turnero/pkg/requestcontext"
)

// Service defines the lifecycle operations the handler delegates to.
type Service interface {
	Create(ctx context.Context, in service.CreateInput) (*models.Ticket, error)
	AssignedTicket(ctx context.Context, counterID id.CounterID) (*models.Ticket, error)
	Accept(ctx context.Context, ticketID id.TicketID, counterID id.CounterID) (*models.Ticket, error)
	Finalize(ctx context.Context, ticketID id.TicketID, counterID id.CounterID) (*models.Ticket, error)
}

// Handler handles ticket endpoints.
type Handler struct {
	logger    *slog.Logger
	tickets   Service
	validator middleware.TokenValidator
}

// New creates a ticket Handler.
func New(tickets Service, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		tickets:   tickets,
		validator: validator,
	}
}

// Register mounts the ticket routes. Creation is public (kiosk-facing);
// monitor, accept, and finalize require an operator token.
func (h *Handler) Register(r chi.Router) {
	r.Post("/turnos", h.handleCreate)

	r.Group(func(op chi.Router) {
		op.Use(middleware.RequireOperator(h.validator, h.logger))
		op.Get("/monitor/turno", h.handleMonitor)
		op.Post("/turnos/{turnoID}/aceptar", h.handleAccept)
		op.Post("/turnos/{turnoID}/finalizar", h.handleFinalize)
	})
}

// handleCreate issues a new ticket for a client joining the queue.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	serviceID, err := id.ParseServiceID(req.ServiceID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "service_id must be a valid UUID"))
		return
	}
	branchID, err := id.ParseBranchID(req.BranchID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "branch_id must be a valid UUID"))
		return
	}

	t, err := h.tickets.Create(ctx, service.CreateInput{
		ClientFirstName: req.ClientFirstName,
		ClientLastName:  req.ClientLastName,
		ClientLastName2: req.ClientLastName2,
		ServiceID:       serviceID,
		BranchID:        branchID,
	})
	if err != nil {
		h.logFailure(ctx, "create ticket failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, t)
}

// handleMonitor returns the ticket currently relevant to the operator's
// counter: the one being served, else the oldest one reserved for it, else
// null.
func (h *Handler) handleMonitor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, err := h.tickets.AssignedTicket(ctx, requestcontext.CounterID(ctx))
	if err != nil {
		h.logFailure(ctx, "monitor lookup failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticketID, ok := h.ticketIDFromPath(w, r)
	if !ok {
		return
	}

	t, err := h.tickets.Accept(ctx, ticketID, requestcontext.CounterID(ctx))
	if err != nil {
		h.logFailure(ctx, "accept ticket failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticketID, ok := h.ticketIDFromPath(w, r)
	if !ok {
		return
	}

	t, err := h.tickets.Finalize(ctx, ticketID, requestcontext.CounterID(ctx))
	if err != nil {
		h.logFailure(ctx, "finalize ticket failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) ticketIDFromPath(w http.ResponseWriter, r *http.Request) (id.TicketID, bool) {
	ticketID, err := id.ParseTicketID(chi.URLParam(r, "turnoID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "ticket not found"))
		return id.TicketID{}, false
	}
	return ticketID, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
}
