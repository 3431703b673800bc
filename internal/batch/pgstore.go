package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aadhavan2906/task-manager/model"
)

// PgStore is a PostgreSQL-backed Store using pgx/v5. Runs are inserted in a
// single transaction so readers never observe a partial run.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a new PostgreSQL batch store.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// CreateRun inserts all batches of one run inside one transaction.
func (s *PgStore) CreateRun(ctx context.Context, batches []model.Batch) error {
	for i := range batches {
		if err := batches[i].Validate(); err != nil {
			return model.NewPersistenceError(err.Error())
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.NewPersistenceError(fmt.Sprintf("begin run transaction: %v", err))
	}
	defer tx.Rollback(ctx)

	for i := range batches {
		b := &batches[i]
		itemsJSON, err := json.Marshal(b.Items)
		if err != nil {
			return model.NewPersistenceError(fmt.Sprintf("marshal items: %v", err))
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO batches (
				id, agent_id, agent_name, agent_email, items,
				total_count, completed_count, status,
				assigned_by, assigned_at, file_name, file_size
			) VALUES (
				$1, $2, $3, $4, $5,
				$6, $7, $8,
				$9, $10, $11, $12
			)`,
			b.ID, b.AgentID, b.AgentName, b.AgentEmail, itemsJSON,
			b.TotalCount, b.CompletedCount, b.Status,
			b.AssignedBy, b.AssignedAt, b.FileName, b.FileSize,
		)
		if err != nil {
			return model.NewPersistenceError(fmt.Sprintf("insert batch %s: %v", b.ID, err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.NewPersistenceError(fmt.Sprintf("commit run transaction: %v", err))
	}
	return nil
}

// Get retrieves a batch by ID.
func (s *PgStore) Get(ctx context.Context, id string) (model.Batch, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, agent_id, agent_name, agent_email, items,
		       total_count, completed_count, status,
		       assigned_by, assigned_at, file_name, file_size
		FROM batches
		WHERE id = $1`,
		id,
	)

	b, err := scanBatch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Batch{}, model.NewNotFoundError(
			fmt.Sprintf("batch %q not found", id),
		)
	}
	if err != nil {
		return model.Batch{}, fmt.Errorf("query batch: %w", err)
	}
	return b, nil
}

// FindByAgentEmail returns batches assigned to the given agent email.
func (s *PgStore) FindByAgentEmail(ctx context.Context, email string) ([]model.Batch, error) {
	return s.queryBatches(ctx, `
		SELECT id, agent_id, agent_name, agent_email, items,
		       total_count, completed_count, status,
		       assigned_by, assigned_at, file_name, file_size
		FROM batches
		WHERE agent_email = $1
		ORDER BY assigned_at DESC, id ASC`,
		email,
	)
}

// FindByAssigner returns batches created by the given actor.
func (s *PgStore) FindByAssigner(ctx context.Context, actorID string) ([]model.Batch, error) {
	return s.queryBatches(ctx, `
		SELECT id, agent_id, agent_name, agent_email, items,
		       total_count, completed_count, status,
		       assigned_by, assigned_at, file_name, file_size
		FROM batches
		WHERE assigned_by = $1
		ORDER BY assigned_at DESC, id ASC`,
		actorID,
	)
}

// UpdateProgress overwrites status and completed count in a single statement.
func (s *PgStore) UpdateProgress(ctx context.Context, id, status string, completedCount int) (model.Batch, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE batches
		SET status = $1, completed_count = $2
		WHERE id = $3
		RETURNING id, agent_id, agent_name, agent_email, items,
		          total_count, completed_count, status,
		          assigned_by, assigned_at, file_name, file_size`,
		status, completedCount, id,
	)

	b, err := scanBatch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Batch{}, model.NewNotFoundError(
			fmt.Sprintf("batch %q not found", id),
		)
	}
	if err != nil {
		return model.Batch{}, fmt.Errorf("update batch: %w", err)
	}
	return b, nil
}

// HealthCheck pings the database.
func (s *PgStore) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// queryBatches executes a query and scans all resulting batches.
func (s *PgStore) queryBatches(ctx context.Context, query string, args ...any) ([]model.Batch, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func scanBatch(row pgx.Row) (model.Batch, error) {
	var b model.Batch
	var itemsJSON []byte

	err := row.Scan(
		&b.ID, &b.AgentID, &b.AgentName, &b.AgentEmail, &itemsJSON,
		&b.TotalCount, &b.CompletedCount, &b.Status,
		&b.AssignedBy, &b.AssignedAt, &b.FileName, &b.FileSize,
	)
	if err != nil {
		return model.Batch{}, err
	}

	if itemsJSON != nil {
		if err := json.Unmarshal(itemsJSON, &b.Items); err != nil {
			return model.Batch{}, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	return b, nil
}
