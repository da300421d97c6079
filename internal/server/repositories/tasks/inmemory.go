package tasks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository is a non-persistent Repository used when no database
// DSN is configured. All data is lost on restart. A mutex guards the task
// list; insertion order is preserved.
type InMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]*models.Task
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*models.Task)}
}

// SelectByOwner narrows by status first, then by search substring on the
// status-filtered set (title OR description, case-sensitive).
func (r *InMemoryRepository) SelectByOwner(ctx context.Context, ownerID string, filter models.TaskFilter) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Task, 0)
	for _, id := range r.order {
		t := r.items[id]
		if t.UserID == ownerID {
			cp := *t
			result = append(result, &cp)
		}
	}

	if filter.Status != "" {
		narrowed := result[:0]
		for _, t := range result {
			if t.Status == filter.Status {
				narrowed = append(narrowed, t)
			}
		}
		result = narrowed
	}

	if filter.Search != "" {
		narrowed := result[:0]
		for _, t := range result {
			if strings.Contains(t.Title, filter.Search) || strings.Contains(t.Description, filter.Search) {
				narrowed = append(narrowed, t)
			}
		}
		result = narrowed
	}

	return result, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string, ownerID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok || t.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	task.ID = uuid.NewString()
	task.Status = models.StatusOpen
	task.CreatedAt = now
	task.UpdatedAt = now

	cp := *task
	r.items[cp.ID] = &cp
	r.order = append(r.order, cp.ID)
	return task, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, ownerID string, status models.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || t.UserID != ownerID {
		return common.ErrorNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || t.UserID != ownerID {
		return 0, nil
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}
