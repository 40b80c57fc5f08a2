package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"turnero/internal/ticket/models"
	id "turnero/pkg/domain"
	"turnero/pkg/platform/sentinel"
)

// Memory keeps tickets and counters in maps for dev and tests.
//
// Two locks are at play: mu guards the maps for individual operations, and
// txMu serializes whole transactions. A single transaction mutex (rather
// than the sharded scheme used for per-user state elsewhere) because a
// lifecycle transaction spans tickets and counters across one branch, and
// correctness of the numbering scan depends on full serialization.
type Memory struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	tickets  map[id.TicketID]*models.Ticket
	counters map[id.CounterID]*models.Counter
	// ticketOrder preserves insertion order; oldest-first scans and the
	// per-prefix max scan both walk it.
	ticketOrder []id.TicketID
}

func NewMemory() *Memory {
	return &Memory{
		tickets:  make(map[id.TicketID]*models.Ticket),
		counters: make(map[id.CounterID]*models.Counter),
	}
}

// RunInTx serializes mutating transactions behind a single mutex. With every
// mutation forced through here, concurrent Create calls cannot both read the
// same per-prefix maximum, so ErrRetry is never produced by this
// implementation.
func (s *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (s *Memory) Insert(_ context.Context, t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tickets[t.ID]; exists {
		return fmt.Errorf("ticket %s already exists: %w", t.ID, sentinel.ErrConflict)
	}
	for _, other := range s.tickets {
		if other.Number == t.Number {
			return fmt.Errorf("ticket number %s already issued: %w", t.Number, sentinel.ErrRetry)
		}
	}
	cp := *t
	s.tickets[t.ID] = &cp
	s.ticketOrder = append(s.ticketOrder, t.ID)
	return nil
}

func (s *Memory) FindByID(_ context.Context, ticketID id.TicketID) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, sentinel.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (s *Memory) Update(_ context.Context, t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[t.ID]; !ok {
		return fmt.Errorf("ticket %s: %w", t.ID, sentinel.ErrNotFound)
	}
	cp := *t
	s.tickets[t.ID] = &cp
	return nil
}

func (s *Memory) MaxSequenceForPrefix(_ context.Context, prefix string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maxSeq := 0
	for _, ticketID := range s.ticketOrder {
		seq, ok := sequenceOf(s.tickets[ticketID].Number, prefix)
		if ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

// sequenceOf extracts the numeric part of a ticket number when it carries the
// given prefix; ok is false for numbers of other prefixes.
func sequenceOf(number, prefix string) (int, bool) {
	rest, found := strings.CutPrefix(number, prefix)
	if !found || rest == "" {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

func (s *Memory) FindServingByCounter(_ context.Context, counterID id.CounterID) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ticketID := range s.ticketOrder {
		t := s.tickets[ticketID]
		if t.CounterID == counterID && t.Status == models.StatusServing {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no serving ticket at counter %s: %w", counterID, sentinel.ErrNotFound)
}

func (s *Memory) FindOldestWaitingBound(_ context.Context, counterID id.CounterID) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best := s.oldest(func(t *models.Ticket) bool {
		return t.Status == models.StatusWaiting && t.CounterID == counterID
	})
	if best == nil {
		return nil, fmt.Errorf("no waiting ticket bound to counter %s: %w", counterID, sentinel.ErrNotFound)
	}
	cp := *best
	return &cp, nil
}

func (s *Memory) FindOldestWaitingUnbound(_ context.Context, branchID id.BranchID, serviceIDs []id.ServiceID) (*models.Ticket, error) {
	capable := make(map[id.ServiceID]bool, len(serviceIDs))
	for _, serviceID := range serviceIDs {
		capable[serviceID] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	best := s.oldest(func(t *models.Ticket) bool {
		return t.Status == models.StatusWaiting &&
			t.BranchID == branchID &&
			!t.Assigned() &&
			capable[t.ServiceID]
	})
	if best == nil {
		return nil, fmt.Errorf("no unassigned waiting ticket in branch %s: %w", branchID, sentinel.ErrNotFound)
	}
	cp := *best
	return &cp, nil
}

// oldest walks insertion order and returns the first match with the earliest
// creation time. Caller must hold mu.
func (s *Memory) oldest(match func(*models.Ticket) bool) *models.Ticket {
	var best *models.Ticket
	for _, ticketID := range s.ticketOrder {
		t := s.tickets[ticketID]
		if !match(t) {
			continue
		}
		if best == nil || t.CreatedAt.Before(best.CreatedAt) {
			best = t
		}
	}
	return best
}

func (s *Memory) InsertCounter(_ context.Context, c *models.Counter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.counters[c.ID]; exists {
		return fmt.Errorf("counter %s already exists: %w", c.ID, sentinel.ErrConflict)
	}
	cp := *c
	s.counters[c.ID] = &cp
	return nil
}

func (s *Memory) FindCounterByID(_ context.Context, counterID id.CounterID) (*models.Counter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.counters[counterID]
	if !ok {
		return nil, fmt.Errorf("counter %s: %w", counterID, sentinel.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *Memory) ListCountersByBranch(_ context.Context, branchID id.BranchID) ([]*models.Counter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Counter
	for _, c := range s.counters {
		if c.BranchID == branchID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Memory) TouchCounter(_ context.Context, counterID id.CounterID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[counterID]
	if !ok {
		return fmt.Errorf("counter %s: %w", counterID, sentinel.ErrNotFound)
	}
	c.UpdatedAt = now
	return nil
}

// Counters adapts Memory to the CounterStore interface. Kept as a separate
// view so the ticket and counter boundaries stay distinct at call sites even
// though one struct backs both in memory.
func (s *Memory) Counters() CounterStore { return memoryCounters{s} }

type memoryCounters struct{ s *Memory }

func (v memoryCounters) Insert(ctx context.Context, c *models.Counter) error {
	return v.s.InsertCounter(ctx, c)
}

func (v memoryCounters) FindByID(ctx context.Context, counterID id.CounterID) (*models.Counter, error) {
	return v.s.FindCounterByID(ctx, counterID)
}

func (v memoryCounters) ListByBranch(ctx context.Context, branchID id.BranchID) ([]*models.Counter, error) {
	return v.s.ListCountersByBranch(ctx, branchID)
}

func (v memoryCounters) Touch(ctx context.Context, counterID id.CounterID, now time.Time) error {
	return v.s.TouchCounter(ctx, counterID, now)
}
