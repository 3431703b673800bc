package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Aadhavan2906/task-manager/model"
)

// MemoryStore is an in-memory Store for testing and single-instance use.
type MemoryStore struct {
	mu      sync.RWMutex
	batches map[string]model.Batch // key: batch ID
}

// NewMemoryStore creates a new in-memory batch store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		batches: make(map[string]model.Batch),
	}
}

// CreateRun persists all batches of one run atomically.
func (s *MemoryStore) CreateRun(_ context.Context, batches []model.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate everything before touching the map so a failure leaves no
	// partial run behind.
	for i := range batches {
		if err := batches[i].Validate(); err != nil {
			return model.NewPersistenceError(err.Error())
		}
		if _, exists := s.batches[batches[i].ID]; exists {
			return model.NewPersistenceError(
				fmt.Sprintf("batch %q already exists", batches[i].ID),
			)
		}
	}

	for i := range batches {
		s.batches[batches[i].ID] = batches[i]
	}
	return nil
}

// Get retrieves a batch by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.batches[id]
	if !exists {
		return model.Batch{}, model.NewNotFoundError(
			fmt.Sprintf("batch %q not found", id),
		)
	}
	return b, nil
}

// FindByAgentEmail returns batches assigned to the given agent email.
func (s *MemoryStore) FindByAgentEmail(_ context.Context, email string) ([]model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Batch
	for _, b := range s.batches {
		if b.AgentEmail == email {
			result = append(result, b)
		}
	}
	sortByAssignedAtDesc(result)
	return result, nil
}

// FindByAssigner returns batches created by the given actor.
func (s *MemoryStore) FindByAssigner(_ context.Context, actorID string) ([]model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Batch
	for _, b := range s.batches {
		if b.AssignedBy == actorID {
			result = append(result, b)
		}
	}
	sortByAssignedAtDesc(result)
	return result, nil
}

// UpdateProgress overwrites status and completed count in place.
func (s *MemoryStore) UpdateProgress(_ context.Context, id, status string, completedCount int) (model.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.batches[id]
	if !exists {
		return model.Batch{}, model.NewNotFoundError(
			fmt.Sprintf("batch %q not found", id),
		)
	}

	b.Status = status
	b.CompletedCount = completedCount
	s.batches[id] = b
	return b, nil
}

// HealthCheck always succeeds for the memory store.
func (s *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

// Len returns the total number of stored batches. For testing.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}

func sortByAssignedAtDesc(batches []model.Batch) {
	sort.Slice(batches, func(i, j int) bool {
		if batches[i].AssignedAt.Equal(batches[j].AssignedAt) {
			return batches[i].ID < batches[j].ID
		}
		return batches[i].AssignedAt.After(batches[j].AssignedAt)
	})
}
