package model

import (
	"fmt"
	"time"
)

// Batch status constants.
const (
	BatchStatusPending    = "pending"
	BatchStatusInProgress = "in-progress"
	BatchStatusCompleted  = "completed"
)

// ValidBatchStatus reports whether s is a recognized batch status.
func ValidBatchStatus(s string) bool {
	switch s {
	case BatchStatusPending, BatchStatusInProgress, BatchStatusCompleted:
		return true
	}
	return false
}

// WorkItem is one record from an uploaded contact list. Items are immutable
// after creation and carry no identity of their own; their position in the
// source sequence is what matters.
type WorkItem struct {
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// Batch is one agent's contiguous slice of an uploaded record set, together
// with its lifecycle state. The agent name and email are snapshots taken at
// assignment time; later edits to the agent record do not touch the batch.
type Batch struct {
	ID             string     `json:"id"`
	AgentID        string     `json:"agent_id"`
	AgentName      string     `json:"agent_name"`
	AgentEmail     string     `json:"agent_email"`
	Items          []WorkItem `json:"items"`
	TotalCount     int        `json:"total_count"`
	CompletedCount int        `json:"completed_count"`
	Status         string     `json:"status"`
	AssignedBy     string     `json:"assigned_by"`
	AssignedAt     time.Time  `json:"assigned_at"`
	FileName       string     `json:"file_name"`
	FileSize       int64      `json:"file_size"`
}

// Validate checks the batch invariants that must hold at every point in its
// lifetime: at least one item, the item slice matching the recorded total,
// the completed counter within bounds, and a recognized status.
func (b *Batch) Validate() error {
	if b.TotalCount < 1 {
		return fmt.Errorf("batch %s: total count must be at least 1", b.ID)
	}
	if len(b.Items) != b.TotalCount {
		return fmt.Errorf("batch %s: %d items but total count %d", b.ID, len(b.Items), b.TotalCount)
	}
	if b.CompletedCount < 0 || b.CompletedCount > b.TotalCount {
		return fmt.Errorf("batch %s: completed count %d outside [0, %d]", b.ID, b.CompletedCount, b.TotalCount)
	}
	if !ValidBatchStatus(b.Status) {
		return fmt.Errorf("batch %s: unrecognized status %q", b.ID, b.Status)
	}
	return nil
}

// CompletionPercentage returns the completed share of this batch as a
// rounded whole percentage.
func (b *Batch) CompletionPercentage() int {
	if b.TotalCount == 0 {
		return 0
	}
	return int(float64(b.CompletedCount)/float64(b.TotalCount)*100 + 0.5)
}

// RunReceipt summarizes one distribution run for the caller who triggered it.
type RunReceipt struct {
	FileName    string         `json:"file_name"`
	FileSize    int64          `json:"file_size"`
	TotalItems  int            `json:"total_items"`
	TotalAgents int            `json:"total_agents"`
	Batches     []BatchReceipt `json:"batches"`
}

// BatchReceipt is the per-agent line of a RunReceipt.
type BatchReceipt struct {
	BatchID    string `json:"batch_id"`
	AgentName  string `json:"agent_name"`
	AgentEmail string `json:"agent_email"`
	TaskCount  int    `json:"task_count"`
	Status     string `json:"status"`
}

// Summary aggregates progress over a set of batches.
type Summary struct {
	TotalBatches    int            `json:"total_batches"`
	TotalAssigned   int            `json:"total_assigned"`
	TotalCompleted  int            `json:"total_completed"`
	CompletionRate  int            `json:"completion_rate"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
}
