package distribution

import "github.com/Aadhavan2906/task-manager/model"

// ApplyTransition validates a requested status/count update against b and
// returns the updated batch. b is passed by value; on failure the stored
// batch is untouched and the caller can retry with corrected input.
//
// Rules:
//   - status must be pending, in-progress, or completed (INVALID_STATUS
//     otherwise). Re-applying the current status is a no-op, and backward
//     moves such as completed → in-progress are allowed so a mistaken
//     update can be corrected.
//   - a nil completedCount leaves the counter untouched; marking a batch
//     completed does not force the counter to its total.
//   - a negative completedCount fails with INVALID_COUNT; a value above
//     the batch total is clamped to the total, never rejected.
func ApplyTransition(b model.Batch, status string, completedCount *int) (model.Batch, error) {
	if !model.ValidBatchStatus(status) {
		return model.Batch{}, model.NewInvalidStatusError(status)
	}

	if completedCount != nil {
		c := *completedCount
		if c < 0 {
			return model.Batch{}, model.NewInvalidCountError(c)
		}
		if c > b.TotalCount {
			c = b.TotalCount
		}
		b.CompletedCount = c
	}

	b.Status = status
	return b, nil
}
