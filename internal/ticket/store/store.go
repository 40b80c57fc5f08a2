// Package store persists tickets and counter occupancy state.
//
// Error contract: all methods return sentinel.ErrNotFound (possibly wrapped)
// when the requested entity does not exist, sentinel.ErrRetry when a
// serialization race was detected and the enclosing transaction must be
// re-run, nil on success, and wrapped errors for infrastructure failures.
package store

import (
	"context"
	"time"

	"turnero/internal/ticket/models"
	id "turnero/pkg/domain"
)

// TicketStore is the persistence boundary for tickets.
type TicketStore interface {
	Insert(ctx context.Context, t *models.Ticket) error
	FindByID(ctx context.Context, ticketID id.TicketID) (*models.Ticket, error)
	Update(ctx context.Context, t *models.Ticket) error

	// MaxSequenceForPrefix returns the highest sequence number ever issued
	// for the prefix, 0 if none. Numbers are compared numerically; lexical
	// ordering breaks past three digits.
	MaxSequenceForPrefix(ctx context.Context, prefix string) (int, error)

	// FindServingByCounter returns the ticket currently being served at the
	// counter, ErrNotFound if the counter is idle.
	FindServingByCounter(ctx context.Context, counterID id.CounterID) (*models.Ticket, error)

	// FindOldestWaitingBound returns the oldest waiting ticket reserved for
	// the counter, ErrNotFound if none.
	FindOldestWaitingBound(ctx context.Context, counterID id.CounterID) (*models.Ticket, error)

	// FindOldestWaitingUnbound returns the oldest waiting ticket in the
	// branch with no counter reservation whose service is in serviceIDs,
	// ErrNotFound if none.
	FindOldestWaitingUnbound(ctx context.Context, branchID id.BranchID, serviceIDs []id.ServiceID) (*models.Ticket, error)
}

// CounterStore is the persistence boundary for counters. The engine never
// changes a counter's capability set; Insert exists for seeding and tests,
// Touch records bind/release times for the longest-idle tie-break.
type CounterStore interface {
	Insert(ctx context.Context, c *models.Counter) error
	FindByID(ctx context.Context, counterID id.CounterID) (*models.Counter, error)
	ListByBranch(ctx context.Context, branchID id.BranchID) ([]*models.Counter, error)
	Touch(ctx context.Context, counterID id.CounterID, now time.Time) error
}

// Tx provides the serializable transaction boundary mutating lifecycle
// operations run inside. Implementations either open a real SERIALIZABLE
// database transaction or, in memory, hold a coarse lock for the duration
// of fn.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
