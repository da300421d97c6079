package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
)

// TaskService orchestrates owner-scoped task CRUD over the task repository.
// It holds no task state of its own; ownership and not-found semantics come
// from the repository, which treats foreign rows as absent.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService. db may be nil when the repository
// manager is backed by in-memory stores; transactional paths then degrade to
// plain calls.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// List returns the user's tasks, narrowed by the filter.
func (s *TaskService) List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	result, err := repo.SelectByOwner(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error selecting tasks: %w", err)
	}
	return result, nil
}

// Get returns one of the user's tasks. common.ErrorNotFound propagates from
// the repository for absent or foreign tasks alike.
func (s *TaskService) Get(ctx context.Context, id string, userID string) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.GetByID(ctx, id, userID)
}

// Create persists a new task owned by userID; status defaults to OPEN.
func (s *TaskService) Create(ctx context.Context, userID string, title string, description string) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	task := &models.Task{UserID: userID, Title: title, Description: description}
	created, err := repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// Delete removes one of the user's tasks. common.ErrorNotFound when nothing
// was deleted, so deleting an already-deleted id is not silently successful.
func (s *TaskService) Delete(ctx context.Context, id string, userID string) error {
	repo := s.repomanager.Tasks(s.db)
	n, err := repo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// UpdateStatus fetches the task (propagating its not-found), sets the status,
// and returns the updated task. Transitions are unrestricted: any status may
// move to any other, including itself. Enum membership is validated at the
// HTTP boundary before this is reached. On the database path the
// read-modify-write runs in one transaction.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status models.TaskStatus, userID string) (*models.Task, error) {
	if s.db == nil {
		return s.updateStatus(ctx, s.repomanager.Tasks(nil), id, status, userID)
	}

	var task *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		task, txErr = s.updateStatus(ctx, s.repomanager.Tasks(tx), id, status, userID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) updateStatus(ctx context.Context, repo tasks.Repository, id string, status models.TaskStatus, userID string) (*models.Task, error) {
	task, err := repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateStatus(ctx, id, userID, status); err != nil {
		return nil, err
	}
	task.Status = status
	return task, nil
}
