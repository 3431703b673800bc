package model

import (
	"testing"
	"time"
)

func validBatch() *Batch {
	return &Batch{
		ID:         "b-1",
		AgentID:    "a-1",
		AgentName:  "Alice",
		AgentEmail: "alice@example.com",
		Items: []WorkItem{
			{FirstName: "Tom", Phone: "100", Notes: "call back"},
			{FirstName: "Ana", Phone: "101", Notes: "follow up"},
		},
		TotalCount:     2,
		CompletedCount: 0,
		Status:         BatchStatusPending,
		AssignedBy:     "admin-1",
		AssignedAt:     time.Now().UTC(),
		FileName:       "leads.csv",
		FileSize:       2048,
	}
}

func TestBatch_Validate(t *testing.T) {
	if err := validBatch().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestBatch_Validate_rejectsEmpty(t *testing.T) {
	b := validBatch()
	b.Items = nil
	b.TotalCount = 0
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for zero-item batch")
	}
}

func TestBatch_Validate_rejectsCountMismatch(t *testing.T) {
	b := validBatch()
	b.TotalCount = 5
	if err := b.Validate(); err == nil {
		t.Fatal("expected error when total count disagrees with items")
	}
}

func TestBatch_Validate_rejectsCompletedOutOfBounds(t *testing.T) {
	b := validBatch()
	b.CompletedCount = 3
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for completed count above total")
	}
	b.CompletedCount = -1
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for negative completed count")
	}
}

func TestBatch_Validate_rejectsUnknownStatus(t *testing.T) {
	b := validBatch()
	b.Status = "paused"
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for unrecognized status")
	}
}

func TestValidBatchStatus(t *testing.T) {
	for _, s := range []string{BatchStatusPending, BatchStatusInProgress, BatchStatusCompleted} {
		if !ValidBatchStatus(s) {
			t.Errorf("ValidBatchStatus(%q) = false, want true", s)
		}
	}
	if ValidBatchStatus("done") {
		t.Error(`ValidBatchStatus("done") = true, want false`)
	}
	if ValidBatchStatus("") {
		t.Error(`ValidBatchStatus("") = true, want false`)
	}
}

func TestBatch_CompletionPercentage(t *testing.T) {
	b := validBatch()
	b.TotalCount = 3
	b.Items = append(b.Items, WorkItem{FirstName: "Joe", Phone: "102", Notes: "n"})
	b.CompletedCount = 1
	if got := b.CompletionPercentage(); got != 33 {
		t.Errorf("CompletionPercentage() = %d, want 33", got)
	}
	b.CompletedCount = 2
	if got := b.CompletionPercentage(); got != 67 {
		t.Errorf("CompletionPercentage() = %d, want 67", got)
	}
}
