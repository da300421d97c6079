package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository is the capability set services need for task persistence.
// Every method is owner-scoped: rows belonging to other users behave exactly
// like rows that do not exist.
type Repository interface {
	SelectByOwner(ctx context.Context, ownerID string, filter models.TaskFilter) ([]*models.Task, error)
	GetByID(ctx context.Context, id string, ownerID string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateStatus(ctx context.Context, id string, ownerID string, status models.TaskStatus) error
	Delete(ctx context.Context, id string, ownerID string) (int64, error)
}
