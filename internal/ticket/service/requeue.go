package service

import (
	"context"
	"errors"
	"time"

	"turnero/internal/ticket/models"
	id "turnero/pkg/domain"
	dErrors "turnero/pkg/domain-errors"
	"turnero/pkg/platform/sentinel"
)

// requeueCounter offers a freed counter the oldest unassigned waiting
// ticket it can serve. The bound ticket stays waiting; the operator still
// has to accept it. Returns nil when no compatible ticket is queued.
//
// Must run inside the transaction that freed the counter, so the oldest
// check and the bind are one atomic step.
func (s *Service) requeueCounter(ctx context.Context, counterID id.CounterID, now time.Time) (*models.Ticket, error) {
	counter, err := s.counters.FindByID(ctx, counterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load counter for requeue")
	}
	if len(counter.Services) == 0 {
		return nil, nil
	}

	next, err := s.tickets.FindOldestWaitingUnbound(ctx, counter.BranchID, counter.Services)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find ticket to requeue")
	}

	next.Bind(counter.ID, now)
	if err := s.tickets.Update(ctx, next); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist requeue binding")
	}
	if err := s.counters.Touch(ctx, counter.ID, now); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record counter assignment")
	}
	return next, nil
}
