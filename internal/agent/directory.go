// Package agent manages the directory of agents eligible to receive
// distributed work.
package agent

import (
	"context"

	"github.com/Aadhavan2906/task-manager/model"
)

// Directory supplies and manages agent records. Each admin sees only the
// agents they created.
type Directory interface {
	// Create persists a new agent. Returns CONFLICT if the email is
	// already taken.
	Create(ctx context.Context, a model.Agent) error

	// Get retrieves an agent by ID, scoped to its creator. Returns
	// NOT_FOUND if the agent does not exist or was created by someone else.
	Get(ctx context.Context, creatorID, agentID string) (model.Agent, error)

	// ListActive returns the creator's active agents in stable creation
	// order (created_at ascending, ID as tiebreak). Distribution relies on
	// this ordering: the first agents in the list absorb the remainder
	// items of an uneven split.
	ListActive(ctx context.Context, creatorID string) ([]model.Agent, error)

	// Deactivate soft-deletes an agent by clearing its active flag and
	// returns the updated record. Batches already assigned to the agent
	// are unaffected.
	Deactivate(ctx context.Context, creatorID, agentID string) (model.Agent, error)

	// HealthCheck verifies the directory can serve requests.
	HealthCheck(ctx context.Context) error
}
