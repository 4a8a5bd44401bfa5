package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents the structure of a task in the system.
type Task struct {
	ID              int64        `json:"id"`
	CreatedByID     int          `json:"created_by_id"`
	AssignedToID    int          `json:"assigned_to_id"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	StartDate       *time.Time   `json:"start_date,omitempty"`
	EndDate         *time.Time   `json:"end_date,omitempty"`
	Priority        TaskPriority `json:"priority"`
	Status          TaskStatus   `json:"status"`
	IsAdminAssigned bool         `json:"is_admin_assigned"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	AssignedToID *int
	CreatedByID  *int
	Status       *TaskStatus
	Priority     *TaskPriority
	StartsAfter  *time.Time
	EndsBefore   *time.Time
	Limit        int
	Offset       int
}
