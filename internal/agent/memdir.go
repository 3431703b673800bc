package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Aadhavan2906/task-manager/model"
)

// MemoryDirectory is an in-memory Directory for testing and single-instance
// use.
type MemoryDirectory struct {
	mu     sync.RWMutex
	agents map[string]model.Agent // key: agent ID
}

// NewMemoryDirectory creates a new in-memory agent directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		agents: make(map[string]model.Agent),
	}
}

// Create persists a new agent.
func (d *MemoryDirectory) Create(_ context.Context, a model.Agent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.agents[a.ID]; exists {
		return model.NewConflictError(
			fmt.Sprintf("agent %q already exists", a.ID),
		)
	}
	for _, existing := range d.agents {
		if existing.Email == a.Email {
			return model.NewConflictError(
				fmt.Sprintf("agent with email %q already exists", a.Email),
			)
		}
	}

	d.agents[a.ID] = a
	return nil
}

// Get retrieves an agent by ID, scoped to its creator.
func (d *MemoryDirectory) Get(_ context.Context, creatorID, agentID string) (model.Agent, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, exists := d.agents[agentID]
	if !exists || a.CreatedBy != creatorID {
		return model.Agent{}, model.NewNotFoundError(
			fmt.Sprintf("agent %q not found", agentID),
		)
	}
	return a, nil
}

// ListActive returns the creator's active agents in creation order.
func (d *MemoryDirectory) ListActive(_ context.Context, creatorID string) ([]model.Agent, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var result []model.Agent
	for _, a := range d.agents {
		if a.CreatedBy != creatorID || !a.Active {
			continue
		}
		result = append(result, a)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Deactivate clears the active flag of an agent.
func (d *MemoryDirectory) Deactivate(_ context.Context, creatorID, agentID string) (model.Agent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, exists := d.agents[agentID]
	if !exists || a.CreatedBy != creatorID {
		return model.Agent{}, model.NewNotFoundError(
			fmt.Sprintf("agent %q not found", agentID),
		)
	}

	a.Active = false
	d.agents[agentID] = a
	return a, nil
}

// HealthCheck always succeeds for the memory directory.
func (d *MemoryDirectory) HealthCheck(_ context.Context) error {
	return nil
}
