package matcher

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnero/internal/ticket/models"
	id "turnero/pkg/domain"
	"turnero/pkg/platform/sentinel"
)

type stubCounters struct {
	counters []*models.Counter
}

func (s *stubCounters) ListByBranch(_ context.Context, branchID id.BranchID) ([]*models.Counter, error) {
	var out []*models.Counter
	for _, c := range s.counters {
		if c.BranchID == branchID {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubOccupancy struct {
	busy map[id.CounterID]bool
}

func (s *stubOccupancy) FindServingByCounter(_ context.Context, counterID id.CounterID) (*models.Ticket, error) {
	if s.busy[counterID] {
		return &models.Ticket{CounterID: counterID, Status: models.StatusServing}, nil
	}
	return nil, fmt.Errorf("counter idle: %w", sentinel.ErrNotFound)
}

func TestMatch(t *testing.T) {
	ctx := context.Background()
	branchID := id.NewBranchID()
	serviceID := id.NewServiceID()
	otherService := id.NewServiceID()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	newCounter := func(label string, idleSince time.Time, services ...id.ServiceID) *models.Counter {
		return &models.Counter{
			ID:        id.NewCounterID(),
			Label:     label,
			BranchID:  branchID,
			Services:  services,
			CreatedAt: base.Add(-time.Hour),
			UpdatedAt: idleSince,
		}
	}

	t.Run("returns nil when no counter serves the service", func(t *testing.T) {
		counters := &stubCounters{counters: []*models.Counter{
			newCounter("V1", base, otherService),
		}}
		m := New(counters, &stubOccupancy{})

		c, err := m.Match(ctx, branchID, serviceID)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("returns nil when every capable counter is busy", func(t *testing.T) {
		c1 := newCounter("V1", base, serviceID)
		counters := &stubCounters{counters: []*models.Counter{c1}}
		m := New(counters, &stubOccupancy{busy: map[id.CounterID]bool{c1.ID: true}})

		c, err := m.Match(ctx, branchID, serviceID)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("picks the counter idle longest", func(t *testing.T) {
		recent := newCounter("V1", base.Add(10*time.Minute), serviceID)
		stale := newCounter("V2", base, serviceID)
		counters := &stubCounters{counters: []*models.Counter{recent, stale}}
		m := New(counters, &stubOccupancy{})

		c, err := m.Match(ctx, branchID, serviceID)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, stale.ID, c.ID)
	})

	t.Run("skips busy counters in idle order", func(t *testing.T) {
		stale := newCounter("V1", base, serviceID)
		recent := newCounter("V2", base.Add(10*time.Minute), serviceID)
		counters := &stubCounters{counters: []*models.Counter{stale, recent}}
		m := New(counters, &stubOccupancy{busy: map[id.CounterID]bool{stale.ID: true}})

		c, err := m.Match(ctx, branchID, serviceID)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, recent.ID, c.ID)
	})

	t.Run("breaks timestamp ties by label", func(t *testing.T) {
		v2 := newCounter("V2", base, serviceID)
		v1 := newCounter("V1", base, serviceID)
		counters := &stubCounters{counters: []*models.Counter{v2, v1}}
		m := New(counters, &stubOccupancy{})

		c, err := m.Match(ctx, branchID, serviceID)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "V1", c.Label)
	})

	t.Run("ignores counters of other branches", func(t *testing.T) {
		foreign := newCounter("V1", base, serviceID)
		foreign.BranchID = id.NewBranchID()
		counters := &stubCounters{counters: []*models.Counter{foreign}}
		m := New(counters, &stubOccupancy{})

		c, err := m.Match(ctx, branchID, serviceID)
		require.NoError(t, err)
		assert.Nil(t, c)
	})
}
