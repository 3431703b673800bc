// Package distribution implements the task distribution core: the balanced
// split of uploaded records across active agents, the batch status rules,
// and progress aggregation.
package distribution

import (
	"time"

	"github.com/google/uuid"

	"github.com/Aadhavan2906/task-manager/model"
)

// UploadMeta carries the provenance of one distribution run.
type UploadMeta struct {
	AssignedBy     string
	FileName       string
	FileSize       int64
	IdempotencyKey string
}

// Split partitions items across agents with a balanced contiguous split and
// returns one pending batch per item-holding agent, in agent-list order.
//
// With N items and M agents, the first N%M agents receive N/M+1 items and the
// rest N/M, assigned as contiguous slices in source order. An agent whose
// share would be zero (N < M) receives no batch at all; empty batches are
// never created. Split has no side effects; persisting the result is the
// caller's job.
func Split(items []model.WorkItem, agents []model.Agent, meta UploadMeta, now time.Time) ([]model.Batch, error) {
	n, m := len(items), len(agents)
	if n == 0 {
		return nil, model.NewEmptySourceError()
	}
	if m == 0 {
		return nil, model.NewNoEligibleWorkersError()
	}

	base := n / m
	remainder := n % m

	batches := make([]model.Batch, 0, m)
	next := 0
	for i := range agents {
		count := base
		if i < remainder {
			count++
		}
		if count == 0 {
			// Explicit exclusion, not an arithmetic accident: agents
			// beyond the item supply get no batch.
			continue
		}

		slice := make([]model.WorkItem, count)
		copy(slice, items[next:next+count])
		next += count

		batches = append(batches, model.Batch{
			ID:             uuid.NewString(),
			AgentID:        agents[i].ID,
			AgentName:      agents[i].Name,
			AgentEmail:     agents[i].Email,
			Items:          slice,
			TotalCount:     count,
			CompletedCount: 0,
			Status:         model.BatchStatusPending,
			AssignedBy:     meta.AssignedBy,
			AssignedAt:     now,
			FileName:       meta.FileName,
			FileSize:       meta.FileSize,
		})
	}

	return batches, nil
}
