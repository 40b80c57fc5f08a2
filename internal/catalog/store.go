package catalog

import (
	"context"
	"fmt"
	"sync"

	id "turnero/pkg/domain"
	"turnero/pkg/platform/sentinel"
)

// Store exposes the reference catalog. Read-only from the engine's point of
// view; the Put methods exist for seeding and tests.
//
// Error contract: lookups return sentinel.ErrNotFound (possibly wrapped) for
// unknown ids, nil on success, and wrapped infrastructure errors otherwise.
type Store interface {
	FindService(ctx context.Context, serviceID id.ServiceID) (*Service, error)
	FindBranch(ctx context.Context, branchID id.BranchID) (*Branch, error)
	ListServices(ctx context.Context) ([]*Service, error)
	ListBranches(ctx context.Context) ([]*Branch, error)
}

// InMemory keeps the catalog in maps for dev and tests.
type InMemory struct {
	mu       sync.RWMutex
	services map[id.ServiceID]*Service
	branches map[id.BranchID]*Branch
	// insertion order preserved so listings are stable
	serviceOrder []id.ServiceID
	branchOrder  []id.BranchID
}

func NewInMemory() *InMemory {
	return &InMemory{
		services: make(map[id.ServiceID]*Service),
		branches: make(map[id.BranchID]*Branch),
	}
}

func (s *InMemory) PutService(svc *Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.services[svc.ID]; !exists {
		s.serviceOrder = append(s.serviceOrder, svc.ID)
	}
	s.services[svc.ID] = svc
}

func (s *InMemory) PutBranch(b *Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.branches[b.ID]; !exists {
		s.branchOrder = append(s.branchOrder, b.ID)
	}
	s.branches[b.ID] = b
}

func (s *InMemory) FindService(_ context.Context, serviceID id.ServiceID) (*Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if svc, ok := s.services[serviceID]; ok {
		return svc, nil
	}
	return nil, fmt.Errorf("service %s: %w", serviceID, sentinel.ErrNotFound)
}

func (s *InMemory) FindBranch(_ context.Context, branchID id.BranchID) (*Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.branches[branchID]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("branch %s: %w", branchID, sentinel.ErrNotFound)
}

func (s *InMemory) ListServices(_ context.Context) ([]*Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Service, 0, len(s.serviceOrder))
	for _, serviceID := range s.serviceOrder {
		out = append(out, s.services[serviceID])
	}
	return out, nil
}

func (s *InMemory) ListBranches(_ context.Context) ([]*Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Branch, 0, len(s.branchOrder))
	for _, branchID := range s.branchOrder {
		out = append(out, s.branches[branchID])
	}
	return out, nil
}
