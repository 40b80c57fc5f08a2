// Package service orchestrates the ticket lifecycle: creation with counter
// matching and number allocation, operator accept/finalize, and requeueing
// freed counters. Every mutating operation runs inside one serializable
// transaction so eligibility checks and the writes they justify cannot be
// split by a concurrent caller.
package service

import (
	"context"
	"errors"
	"log/slog"

	"turnero/internal/catalog"
	"turnero/internal/platform/metrics"
	"turnero/internal/ticket/allocator"
	"turnero/internal/ticket/announce"
	"turnero/internal/ticket/matcher"
	"turnero/internal/ticket/models"
	"turnero/internal/ticket/store"
	id "turnero/pkg/domain"
	dErrors "turnero/pkg/domain-errors"
	"turnero/pkg/platform/sentinel"
	"turnero/pkg/requestcontext"
)

// Service drives tickets through their lifecycle.
type Service struct {
	tickets   store.TicketStore
	counters  store.CounterStore
	catalog   catalog.Store
	tx        store.Tx
	alloc     *allocator.Allocator
	match     *matcher.Matcher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	announcer announce.Announcer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAnnouncer(a announce.Announcer) Option {
	return func(s *Service) {
		s.announcer = a
	}
}

// New constructs a Service. The allocator and matcher are built over the
// same stores so their reads happen inside the caller's transaction.
func New(tickets store.TicketStore, counters store.CounterStore, cat catalog.Store, tx store.Tx, opts ...Option) *Service {
	s := &Service{
		tickets:   tickets,
		counters:  counters,
		catalog:   cat,
		tx:        tx,
		alloc:     allocator.New(tickets),
		match:     matcher.New(counters, tickets),
		logger:    slog.Default(),
		announcer: announce.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput is the validated, typed creation request.
type CreateInput struct {
	ClientFirstName string
	ClientLastName  string
	ClientLastName2 string
	ServiceID       id.ServiceID
	BranchID        id.BranchID
}

// Create mints a ticket: resolves the service and branch, reserves an idle
// capable counter when one exists, allocates the next number for the
// service's prefix, and persists the ticket, all in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Ticket, error) {
	now := requestcontext.Now(ctx)

	var created *models.Ticket
	err := s.runLifecycleTx(ctx, func(txCtx context.Context) error {
		svc, err := s.catalog.FindService(txCtx, in.ServiceID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "service not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve service")
		}
		if _, err := s.catalog.FindBranch(txCtx, in.BranchID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "branch not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve branch")
		}

		t, err := models.NewTicket(id.NewTicketID(),
			in.ClientFirstName, in.ClientLastName, in.ClientLastName2,
			in.ServiceID, in.BranchID, now)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeValidation, err.Error())
			}
			return err
		}

		// Reserve an idle counter if the branch has one; the ticket stays
		// waiting either way; binding is not the start of service.
		counter, err := s.match.Match(txCtx, in.BranchID, in.ServiceID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to match counter")
		}
		if counter != nil {
			t.Bind(counter.ID, now)
			if err := s.counters.Touch(txCtx, counter.ID, now); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record counter assignment")
			}
		}

		number, err := s.alloc.Next(txCtx, svc.Prefix())
		if err != nil {
			return err
		}
		t.Number = number

		if err := s.tickets.Insert(txCtx, t); err != nil {
			if errors.Is(err, sentinel.ErrRetry) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist ticket")
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.count(func(m *metrics.Metrics) { m.TicketsCreated.Inc() })
	s.announce(ctx, announce.NewEvent(announce.EventTicketCreated, created, now))
	s.logger.InfoContext(ctx, "ticket created",
		"ticket_id", created.ID,
		"number", created.Number,
		"assigned", created.Assigned(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return created, nil
}

// AssignedTicket returns what the operator's monitor should show: the
// counter's serving ticket, else its oldest reserved waiting ticket, else
// nil with no error.
func (s *Service) AssignedTicket(ctx context.Context, counterID id.CounterID) (*models.Ticket, error) {
	if counterID.IsZero() {
		return nil, dErrors.New(dErrors.CodeNotAssigned, "caller has no counter identity")
	}
	if _, err := s.counters.FindByID(ctx, counterID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "counter not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve counter")
	}

	t, err := s.tickets.FindServingByCounter(ctx, counterID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read serving ticket")
	}

	t, err = s.tickets.FindOldestWaitingBound(ctx, counterID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read waiting ticket")
	}
	return nil, nil
}

// Accept transitions a ticket reserved for the operator's counter from
// waiting to serving. Fails with CodeNotAssigned when the ticket is bound
// elsewhere, CodeConflict when the counter is already mid-service.
func (s *Service) Accept(ctx context.Context, ticketID id.TicketID, counterID id.CounterID) (*models.Ticket, error) {
	now := requestcontext.Now(ctx)

	var accepted *models.Ticket
	err := s.runLifecycleTx(ctx, func(txCtx context.Context) error {
		t, err := s.loadTicket(txCtx, ticketID)
		if err != nil {
			return err
		}
		if err := t.CanAccept(counterID); err != nil {
			return err
		}

		serving, err := s.tickets.FindServingByCounter(txCtx, counterID)
		if err == nil && serving.ID != t.ID {
			return dErrors.New(dErrors.CodeConflict, "counter is already serving another ticket")
		}
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check counter occupancy")
		}

		t.ApplyAccept(now)
		if err := s.tickets.Update(txCtx, t); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist accept")
		}
		accepted = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.count(func(m *metrics.Metrics) { m.TicketsAccepted.Inc() })
	s.announce(ctx, announce.NewEvent(announce.EventTicketAccepted, accepted, now))
	return accepted, nil
}

// Finalize completes the ticket the operator is serving and feeds the freed
// counter the oldest compatible unassigned waiting ticket, if any.
func (s *Service) Finalize(ctx context.Context, ticketID id.TicketID, counterID id.CounterID) (*models.Ticket, error) {
	now := requestcontext.Now(ctx)

	var completed, requeued *models.Ticket
	err := s.runLifecycleTx(ctx, func(txCtx context.Context) error {
		completed, requeued = nil, nil

		t, err := s.loadTicket(txCtx, ticketID)
		if err != nil {
			return err
		}
		if err := t.CanFinalize(counterID); err != nil {
			return err
		}

		t.ApplyFinalize(now)
		if err := s.tickets.Update(txCtx, t); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist finalize")
		}
		if err := s.counters.Touch(txCtx, counterID, now); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record counter release")
		}

		next, err := s.requeueCounter(txCtx, counterID, now)
		if err != nil {
			return err
		}
		completed, requeued = t, next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.count(func(m *metrics.Metrics) { m.TicketsCompleted.Inc() })
	s.announce(ctx, announce.NewEvent(announce.EventTicketCompleted, completed, now))
	if requeued != nil {
		s.count(func(m *metrics.Metrics) { m.TicketsRequeued.Inc() })
		s.announce(ctx, announce.NewEvent(announce.EventTicketRequeued, requeued, now))
	}
	return completed, nil
}

// Cancel abandons a waiting ticket. Not reachable from any operator route;
// kept as the hook for kiosk or timeout flows owned outside the engine. A
// cancelled ticket releases its reservation, so its counter is offered the
// next compatible waiting ticket.
func (s *Service) Cancel(ctx context.Context, ticketID id.TicketID) (*models.Ticket, error) {
	now := requestcontext.Now(ctx)

	var cancelled, requeued *models.Ticket
	err := s.runLifecycleTx(ctx, func(txCtx context.Context) error {
		cancelled, requeued = nil, nil

		t, err := s.loadTicket(txCtx, ticketID)
		if err != nil {
			return err
		}
		if err := t.CanCancel(); err != nil {
			return err
		}

		freedCounter := t.CounterID
		t.ApplyCancel(now)
		if err := s.tickets.Update(txCtx, t); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist cancel")
		}

		if !freedCounter.IsZero() {
			if err := s.counters.Touch(txCtx, freedCounter, now); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record counter release")
			}
			next, err := s.requeueCounter(txCtx, freedCounter, now)
			if err != nil {
				return err
			}
			requeued = next
		}
		cancelled = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if requeued != nil {
		s.count(func(m *metrics.Metrics) { m.TicketsRequeued.Inc() })
		s.announce(ctx, announce.NewEvent(announce.EventTicketRequeued, requeued, now))
	}
	return cancelled, nil
}

func (s *Service) loadTicket(ctx context.Context, ticketID id.TicketID) (*models.Ticket, error) {
	t, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "ticket not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ticket")
	}
	return t, nil
}

func (s *Service) count(inc func(*metrics.Metrics)) {
	if s.metrics != nil {
		inc(s.metrics)
	}
}

func (s *Service) announce(ctx context.Context, event announce.Event) {
	if err := s.announcer.Announce(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "announcement failed",
			"event", event.Type,
			"ticket_id", event.TicketID,
			"error", err,
		)
	}
}
