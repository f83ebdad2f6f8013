package models

import (
	"time"

	"github.com/lib/pq"
)

// TaskPriority orders tasks when no explicit time ordering applies.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Rank returns the sort rank of the priority, high first. Unknown
// priorities sort last.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether the priority is one of the known levels.
func (p TaskPriority) Valid() bool { return p.Rank() < 3 }

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
	StatusArchived   TaskStatus = "archived"
)

// Valid reports whether the status is a known lifecycle state.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusArchived:
		return true
	default:
		return false
	}
}

// Task represents an assignment stored in the tasks table. A task is
// schedulable either on specific weekdays within a date window (Days
// non-empty) or on its start date alone.
type Task struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	UserID      string         `db:"user_id" json:"user_id"`
	Days        pq.StringArray `db:"days" json:"days"`
	StartDate   Date           `db:"start_date" json:"start_date"`
	EndDate     *Date          `db:"end_date" json:"end_date,omitempty"`
	StartTime   *ClockTime     `db:"start_time" json:"start_time,omitempty"`
	Duration    *int           `db:"duration" json:"duration,omitempty"`
	Priority    TaskPriority   `db:"priority" json:"priority"`
	Status      TaskStatus     `db:"status" json:"status"`
	Notes       string         `db:"notes" json:"notes"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// RecurrenceDays returns the task's weekday set, dropping any value that
// is not a canonical weekday name.
func (t Task) RecurrenceDays() []Weekday {
	if len(t.Days) == 0 {
		return nil
	}
	days := make([]Weekday, 0, len(t.Days))
	for _, raw := range t.Days {
		if day := Weekday(raw); day.Valid() {
			days = append(days, day)
		}
	}
	return days
}

// Timed reports whether the task is pinned to a clock time.
func (t Task) Timed() bool { return t.StartTime != nil }

// DurationMinutes returns the task duration, defaulting to the given
// slot duration when unset.
func (t Task) DurationMinutes(fallback int) int {
	if t.Duration != nil && *t.Duration > 0 {
		return *t.Duration
	}
	return fallback
}

// TaskFilter narrows down tasks for list queries.
type TaskFilter struct {
	UserID   string
	Status   *TaskStatus
	Priority *TaskPriority
	Search   string
	Page     int
	PageSize int
}
