package models

import "time"

// TaskStatus is a free-form enum, not a workflow: any status may move to any
// other status directly, including back to itself.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "OPEN"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the enumerated statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task belongs to exactly one user; only the owner may read, update, or
// delete it.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskFilter is a query-time projection, not persisted. A zero value matches
// everything. When both fields are set, both conditions apply.
type TaskFilter struct {
	Status TaskStatus
	Search string
}
