package distribution

import (
	"math"

	"github.com/Aadhavan2906/task-manager/model"
)

// Summarize computes progress statistics over a set of batches: batch and
// item totals, the rounded completion percentage, and a per-status count.
// An empty set yields an all-zero summary, not an error.
func Summarize(batches []model.Batch) model.Summary {
	s := model.Summary{
		TotalBatches:    len(batches),
		StatusBreakdown: make(map[string]int),
	}

	for i := range batches {
		s.TotalAssigned += batches[i].TotalCount
		s.TotalCompleted += batches[i].CompletedCount
		s.StatusBreakdown[batches[i].Status]++
	}

	if s.TotalAssigned > 0 {
		s.CompletionRate = int(math.Round(float64(s.TotalCompleted) / float64(s.TotalAssigned) * 100))
	}
	return s
}
