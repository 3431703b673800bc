package batch

import (
	"context"
	"testing"
	"time"

	"github.com/Aadhavan2906/task-manager/model"
)

func testBatch(id, agentEmail, assignedBy string, assignedAt time.Time) model.Batch {
	return model.Batch{
		ID:         id,
		AgentID:    "agent-1",
		AgentName:  "Alice",
		AgentEmail: agentEmail,
		Items: []model.WorkItem{
			{FirstName: "Tom", Phone: "100", Notes: "call back"},
			{FirstName: "Ana", Phone: "101", Notes: "follow up"},
		},
		TotalCount:     2,
		CompletedCount: 0,
		Status:         model.BatchStatusPending,
		AssignedBy:     assignedBy,
		AssignedAt:     assignedAt,
		FileName:       "leads.csv",
		FileSize:       2048,
	}
}

// --- CreateRun ---

func TestMemoryStore_CreateRun(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	batches := []model.Batch{
		testBatch("b-1", "alice@example.com", "admin-1", now),
		testBatch("b-2", "bob@example.com", "admin-1", now),
	}

	if err := store.CreateRun(context.Background(), batches); err != nil {
		t.Fatalf("CreateRun error: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestMemoryStore_CreateRun_invalidBatchLeavesNothing(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	good := testBatch("b-1", "alice@example.com", "admin-1", now)
	bad := testBatch("b-2", "bob@example.com", "admin-1", now)
	bad.Items = nil
	bad.TotalCount = 0

	err := store.CreateRun(context.Background(), []model.Batch{good, bad})
	if err == nil {
		t.Fatal("expected persistence error for invalid batch")
	}
	envErr, ok := err.(*model.ErrorEnvelope)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if envErr.Code != model.ErrPersistence {
		t.Errorf("code = %s, want %s", envErr.Code, model.ErrPersistence)
	}
	// Atomicity: the valid batch must not be visible either.
	if store.Len() != 0 {
		t.Errorf("Len() = %d after failed run, want 0", store.Len())
	}
}

func TestMemoryStore_CreateRun_duplicateID(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	b := testBatch("b-1", "alice@example.com", "admin-1", now)

	_ = store.CreateRun(context.Background(), []model.Batch{b})
	err := store.CreateRun(context.Background(), []model.Batch{b})
	if err == nil {
		t.Fatal("expected error for duplicate batch ID")
	}
}

// --- Get ---

func TestMemoryStore_Get(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	_ = store.CreateRun(context.Background(), []model.Batch{
		testBatch("b-1", "alice@example.com", "admin-1", now),
	})

	got, err := store.Get(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != "b-1" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.AgentEmail != "alice@example.com" {
		t.Errorf("AgentEmail = %q", got.AgentEmail)
	}
}

func TestMemoryStore_Get_notFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("expected not found error")
	}
	envErr, ok := err.(*model.ErrorEnvelope)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if envErr.Code != model.ErrNotFound {
		t.Errorf("code = %s, want %s", envErr.Code, model.ErrNotFound)
	}
}

// --- FindByAgentEmail / FindByAssigner ---

func TestMemoryStore_FindByAgentEmail_ordering(t *testing.T) {
	store := NewMemoryStore()
	base := time.Now().UTC()
	older := testBatch("b-old", "alice@example.com", "admin-1", base.Add(-time.Hour))
	newer := testBatch("b-new", "alice@example.com", "admin-2", base)
	other := testBatch("b-other", "bob@example.com", "admin-1", base)
	_ = store.CreateRun(context.Background(), []model.Batch{older, newer, other})

	got, err := store.FindByAgentEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByAgentEmail error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Most recent assignment first.
	if got[0].ID != "b-new" || got[1].ID != "b-old" {
		t.Errorf("order = [%s %s], want [b-new b-old]", got[0].ID, got[1].ID)
	}
}

func TestMemoryStore_FindByAssigner(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	_ = store.CreateRun(context.Background(), []model.Batch{
		testBatch("b-1", "alice@example.com", "admin-1", now),
		testBatch("b-2", "bob@example.com", "admin-1", now),
		testBatch("b-3", "carl@example.com", "admin-2", now),
	})

	got, err := store.FindByAssigner(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("FindByAssigner error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestMemoryStore_Find_empty(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.FindByAgentEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("FindByAgentEmail error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

// --- UpdateProgress ---

func TestMemoryStore_UpdateProgress(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	_ = store.CreateRun(context.Background(), []model.Batch{
		testBatch("b-1", "alice@example.com", "admin-1", now),
	})

	got, err := store.UpdateProgress(context.Background(), "b-1", model.BatchStatusInProgress, 1)
	if err != nil {
		t.Fatalf("UpdateProgress error: %v", err)
	}
	if got.Status != model.BatchStatusInProgress {
		t.Errorf("Status = %q", got.Status)
	}
	if got.CompletedCount != 1 {
		t.Errorf("CompletedCount = %d, want 1", got.CompletedCount)
	}

	// The stored copy reflects the update.
	stored, _ := store.Get(context.Background(), "b-1")
	if stored.CompletedCount != 1 {
		t.Errorf("stored CompletedCount = %d, want 1", stored.CompletedCount)
	}
}

func TestMemoryStore_UpdateProgress_notFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.UpdateProgress(context.Background(), "nonexistent", model.BatchStatusCompleted, 0)
	if err == nil {
		t.Fatal("expected not found error")
	}
	envErr, ok := err.(*model.ErrorEnvelope)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if envErr.Code != model.ErrNotFound {
		t.Errorf("code = %s, want %s", envErr.Code, model.ErrNotFound)
	}
}

func TestMemoryStore_UpdateProgress_doesNotTouchItems(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	_ = store.CreateRun(context.Background(), []model.Batch{
		testBatch("b-1", "alice@example.com", "admin-1", now),
	})

	got, err := store.UpdateProgress(context.Background(), "b-1", model.BatchStatusCompleted, 2)
	if err != nil {
		t.Fatalf("UpdateProgress error: %v", err)
	}
	if len(got.Items) != 2 || got.TotalCount != 2 {
		t.Errorf("items mutated: len=%d total=%d", len(got.Items), got.TotalCount)
	}
	if got.AgentName != "Alice" {
		t.Errorf("AgentName = %q, snapshot must survive updates", got.AgentName)
	}
}
