package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"turnero/internal/ticket/models"
	id "turnero/pkg/domain"
	"turnero/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
	ctx   context.Context

	branchID  id.BranchID
	serviceID id.ServiceID
	base      time.Time
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
	s.branchID = id.NewBranchID()
	s.serviceID = id.NewServiceID()
	s.base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newTicket(number string, createdAt time.Time) *models.Ticket {
	t, err := models.NewTicket(id.NewTicketID(), "Ana", "García", "", s.serviceID, s.branchID, createdAt)
	s.Require().NoError(err)
	t.Number = number
	return t
}

func (s *MemoryStoreSuite) TestInsertAndLookups() {
	s.Run("inserts and finds a ticket", func() {
		t := s.newTicket("S001", s.base)
		s.Require().NoError(s.store.Insert(s.ctx, t))

		found, err := s.store.FindByID(s.ctx, t.ID)
		s.Require().NoError(err)
		s.Equal("S001", found.Number)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.NewTicketID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects a duplicate number with ErrRetry", func() {
		t1 := s.newTicket("S010", s.base)
		t2 := s.newTicket("S010", s.base)
		s.Require().NoError(s.store.Insert(s.ctx, t1))

		err := s.store.Insert(s.ctx, t2)
		s.Require().ErrorIs(err, sentinel.ErrRetry)
	})

	s.Run("returned tickets are copies", func() {
		t := s.newTicket("S020", s.base)
		s.Require().NoError(s.store.Insert(s.ctx, t))

		found, err := s.store.FindByID(s.ctx, t.ID)
		s.Require().NoError(err)
		found.Status = models.StatusCancelled

		again, err := s.store.FindByID(s.ctx, t.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusWaiting, again.Status)
	})
}

func (s *MemoryStoreSuite) TestMaxSequenceForPrefix() {
	s.Run("returns zero for an unseen prefix", func() {
		maxSeq, err := s.store.MaxSequenceForPrefix(s.ctx, "S")
		s.Require().NoError(err)
		s.Zero(maxSeq)
	})

	s.Run("compares numerically, not lexically", func() {
		for _, number := range []string{"S999", "S1000"} {
			s.Require().NoError(s.store.Insert(s.ctx, s.newTicket(number, s.base)))
		}
		maxSeq, err := s.store.MaxSequenceForPrefix(s.ctx, "S")
		s.Require().NoError(err)
		s.Equal(1000, maxSeq)
	})

	s.Run("does not mix prefixes that share a leading letter", func() {
		s.Require().NoError(s.store.Insert(s.ctx, s.newTicket("R005", s.base)))
		s.Require().NoError(s.store.Insert(s.ctx, s.newTicket("RE900", s.base)))

		maxSeq, err := s.store.MaxSequenceForPrefix(s.ctx, "R")
		s.Require().NoError(err)
		// "RE900" is not a number of prefix R: its remainder is not numeric.
		s.Equal(5, maxSeq)
	})
}

func (s *MemoryStoreSuite) TestOccupancyQueries() {
	counterID := id.NewCounterID()

	s.Run("idle counter has no serving ticket", func() {
		_, err := s.store.FindServingByCounter(s.ctx, counterID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("finds the serving ticket", func() {
		t := s.newTicket("S001", s.base)
		t.Bind(counterID, s.base)
		t.ApplyAccept(s.base)
		s.Require().NoError(s.store.Insert(s.ctx, t))

		found, err := s.store.FindServingByCounter(s.ctx, counterID)
		s.Require().NoError(err)
		s.Equal(t.ID, found.ID)
	})

	s.Run("completed tickets do not occupy the counter", func() {
		t := s.newTicket("S002", s.base)
		t.Bind(counterID, s.base)
		t.ApplyAccept(s.base)
		t.ApplyFinalize(s.base)
		s.Require().NoError(s.store.Insert(s.ctx, t))

		_, err := s.store.FindServingByCounter(s.ctx, id.NewCounterID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestWaitingQueries() {
	counterID := id.NewCounterID()

	s.Run("oldest bound waiting ticket wins", func() {
		older := s.newTicket("S001", s.base)
		older.Bind(counterID, s.base)
		newer := s.newTicket("S002", s.base.Add(time.Minute))
		newer.Bind(counterID, s.base.Add(time.Minute))
		s.Require().NoError(s.store.Insert(s.ctx, newer))
		s.Require().NoError(s.store.Insert(s.ctx, older))

		found, err := s.store.FindOldestWaitingBound(s.ctx, counterID)
		s.Require().NoError(err)
		s.Equal(older.ID, found.ID)
	})

	s.Run("unbound query filters by branch, service, and assignment", func() {
		bound := s.newTicket("S003", s.base)
		bound.Bind(counterID, s.base)
		s.Require().NoError(s.store.Insert(s.ctx, bound))

		otherService := s.newTicket("X001", s.base)
		otherService.ServiceID = id.NewServiceID()
		s.Require().NoError(s.store.Insert(s.ctx, otherService))

		free := s.newTicket("S004", s.base.Add(time.Minute))
		s.Require().NoError(s.store.Insert(s.ctx, free))

		found, err := s.store.FindOldestWaitingUnbound(s.ctx, s.branchID, []id.ServiceID{s.serviceID})
		s.Require().NoError(err)
		s.Equal(free.ID, found.ID)
	})

	s.Run("no unbound compatible ticket yields ErrNotFound", func() {
		_, err := s.store.FindOldestWaitingUnbound(s.ctx, id.NewBranchID(), []id.ServiceID{s.serviceID})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestCounters() {
	counters := s.store.Counters()
	c := &models.Counter{
		ID:        id.NewCounterID(),
		Label:     "V1",
		BranchID:  s.branchID,
		Services:  []id.ServiceID{s.serviceID},
		CreatedAt: s.base,
		UpdatedAt: s.base,
	}
	s.Require().NoError(counters.Insert(s.ctx, c))

	s.Run("touch bumps the idle clock", func() {
		later := s.base.Add(5 * time.Minute)
		s.Require().NoError(counters.Touch(s.ctx, c.ID, later))

		found, err := counters.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.True(found.UpdatedAt.Equal(later))
	})

	s.Run("list filters by branch", func() {
		foreign := &models.Counter{ID: id.NewCounterID(), Label: "V9", BranchID: id.NewBranchID()}
		s.Require().NoError(counters.Insert(s.ctx, foreign))

		listed, err := counters.ListByBranch(s.ctx, s.branchID)
		s.Require().NoError(err)
		s.Len(listed, 1)
		s.Equal(c.ID, listed[0].ID)
	})

	s.Run("touching an unknown counter fails", func() {
		err := counters.Touch(s.ctx, id.NewCounterID(), s.base)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
