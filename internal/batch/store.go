// Package batch persists distribution batches. The Store interface is the
// persistence boundary for the distribution service; MemoryStore backs tests
// and single-instance deployments, PgStore backs production.
package batch

import (
	"context"

	"github.com/Aadhavan2906/task-manager/model"
)

// Store is the durable home for batches.
type Store interface {
	// CreateRun persists all batches of one distribution run atomically.
	// Either every batch becomes visible or none do. Returns
	// PERSISTENCE_ERROR if any batch fails validation or the write fails.
	CreateRun(ctx context.Context, batches []model.Batch) error

	// Get retrieves a batch by ID. Returns NOT_FOUND if it does not exist.
	Get(ctx context.Context, id string) (model.Batch, error)

	// FindByAgentEmail returns the batches assigned to the agent with the
	// given email, ordered by assignment time descending.
	FindByAgentEmail(ctx context.Context, email string) ([]model.Batch, error)

	// FindByAssigner returns the batches created by the given actor,
	// ordered by assignment time descending.
	FindByAssigner(ctx context.Context, actorID string) ([]model.Batch, error)

	// UpdateProgress overwrites the status and completed count of a batch
	// and returns the updated batch. Returns NOT_FOUND for an unknown ID.
	// Validation of the new values belongs to the transition rules, not
	// the store; concurrent updates to the same batch are last-write-wins.
	UpdateProgress(ctx context.Context, id, status string, completedCount int) (model.Batch, error)

	// HealthCheck verifies the store can serve requests.
	HealthCheck(ctx context.Context) error
}
