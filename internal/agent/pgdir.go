package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aadhavan2906/task-manager/model"
)

// PgDirectory is a PostgreSQL-backed Directory using pgx/v5. The agents
// table carries a unique index on email.
type PgDirectory struct {
	pool *pgxpool.Pool
}

// NewPgDirectory creates a new PostgreSQL agent directory.
func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

// Create inserts a new agent.
func (d *PgDirectory) Create(ctx context.Context, a model.Agent) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO agents (id, name, email, mobile, created_by, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Name, a.Email, a.Mobile, a.CreatedBy, a.Active, a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.NewConflictError(
				fmt.Sprintf("agent with email %q already exists", a.Email),
			)
		}
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

// Get retrieves an agent by ID, scoped to its creator.
func (d *PgDirectory) Get(ctx context.Context, creatorID, agentID string) (model.Agent, error) {
	var a model.Agent
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, email, mobile, created_by, active, created_at
		FROM agents
		WHERE id = $1 AND created_by = $2`,
		agentID, creatorID,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Mobile, &a.CreatedBy, &a.Active, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Agent{}, model.NewNotFoundError(
			fmt.Sprintf("agent %q not found", agentID),
		)
	}
	if err != nil {
		return model.Agent{}, fmt.Errorf("query agent: %w", err)
	}
	return a, nil
}

// ListActive returns the creator's active agents in creation order.
func (d *PgDirectory) ListActive(ctx context.Context, creatorID string) ([]model.Agent, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, mobile, created_by, active, created_at
		FROM agents
		WHERE created_by = $1 AND active = TRUE
		ORDER BY created_at ASC, id ASC`,
		creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	defer rows.Close()

	var agents []model.Agent
	for rows.Next() {
		var a model.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Mobile, &a.CreatedBy, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// Deactivate clears the active flag of an agent.
func (d *PgDirectory) Deactivate(ctx context.Context, creatorID, agentID string) (model.Agent, error) {
	var a model.Agent
	err := d.pool.QueryRow(ctx, `
		UPDATE agents
		SET active = FALSE
		WHERE id = $1 AND created_by = $2
		RETURNING id, name, email, mobile, created_by, active, created_at`,
		agentID, creatorID,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Mobile, &a.CreatedBy, &a.Active, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Agent{}, model.NewNotFoundError(
			fmt.Sprintf("agent %q not found", agentID),
		)
	}
	if err != nil {
		return model.Agent{}, fmt.Errorf("deactivate agent: %w", err)
	}
	return a, nil
}

// HealthCheck pings the database.
func (d *PgDirectory) HealthCheck(ctx context.Context) error {
	return d.pool.Ping(ctx)
}
