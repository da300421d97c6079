// Package tasks provides repositories for owner-scoped task persistence:
// the canonical PostgreSQL implementation and a non-persistent in-memory
// variant.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectByOwner returns the owner's tasks, optionally narrowed by status
// equality and a case-sensitive substring match on title or description.
// Both conditions apply when both filter fields are set.
func (r *PostgresRepository) SelectByOwner(ctx context.Context, ownerID string, filter models.TaskFilter) ([]*models.Task, error) {
	query := `SELECT id, user_id, title, description, status, created_at, updated_at FROM tasks
		WHERE user_id = $1`
	args := []any{ownerID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title LIKE $%d OR description LIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Description, &item.Status,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID fetches one task constrained to ownership. Absent rows and rows
// owned by another user both yield common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string, ownerID string) (*models.Task, error) {
	query := `SELECT id, user_id, title, description, status, created_at, updated_at FROM tasks
		WHERE id = $1 AND user_id = $2`

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// Create inserts a new task with a generated id and status OPEN.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = uuid.NewString()
	task.Status = models.StatusOpen

	query := `INSERT INTO tasks (id, user_id, title, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Status).
		Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// UpdateStatus sets the task status. common.ErrorNotFound when no owned row
// matched.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, ownerID string, status models.TaskStatus) error {
	query := `UPDATE tasks SET status = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3`

	res, err := r.db.ExecContext(ctx, query, status, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes at most one owned task and returns the affected count.
func (r *PostgresRepository) Delete(ctx context.Context, id string, ownerID string) (int64, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
