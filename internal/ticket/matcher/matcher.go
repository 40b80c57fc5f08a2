// Package matcher selects an idle counter for a new ticket.
//
// The matcher only advises; it performs no writes. TicketLifecycle binds the
// returned counter inside the same transaction that re-checked eligibility,
// so a counter cannot be handed to two tickets between check and bind.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"turnero/internal/ticket/models"
	id "turnero/pkg/domain"
	"turnero/pkg/platform/sentinel"
)

// CounterReader lists a branch's counters.
type CounterReader interface {
	ListByBranch(ctx context.Context, branchID id.BranchID) ([]*models.Counter, error)
}

// OccupancyReader answers whether a counter is mid-service.
type OccupancyReader interface {
	FindServingByCounter(ctx context.Context, counterID id.CounterID) (*models.Ticket, error)
}

// Matcher finds an idle, capable counter in a branch.
type Matcher struct {
	counters  CounterReader
	occupancy OccupancyReader
}

func New(counters CounterReader, occupancy OccupancyReader) *Matcher {
	return &Matcher{counters: counters, occupancy: occupancy}
}

// Match returns one eligible counter for the service in the branch, or nil
// when none is available. Eligible: belongs to the branch, capability set
// contains the service, and no ticket is currently serving there. Among
// eligible counters the one idle longest wins, spreading load evenly.
func (m *Matcher) Match(ctx context.Context, branchID id.BranchID, serviceID id.ServiceID) (*models.Counter, error) {
	counters, err := m.counters.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("list branch counters: %w", err)
	}

	capable := counters[:0:0]
	for _, c := range counters {
		if c.Serves(serviceID) {
			capable = append(capable, c)
		}
	}
	// Oldest state change first; label then id keep the order deterministic
	// when timestamps tie (fresh seeds, coarse clocks).
	sort.Slice(capable, func(i, j int) bool {
		if !capable[i].UpdatedAt.Equal(capable[j].UpdatedAt) {
			return capable[i].UpdatedAt.Before(capable[j].UpdatedAt)
		}
		if capable[i].Label != capable[j].Label {
			return capable[i].Label < capable[j].Label
		}
		return capable[i].ID.String() < capable[j].ID.String()
	})

	for _, c := range capable {
		_, err := m.occupancy.FindServingByCounter(ctx, c.ID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return c, nil
		}
		if err != nil {
			return nil, fmt.Errorf("check counter occupancy: %w", err)
		}
		// busy; try the next one
	}
	return nil, nil
}
