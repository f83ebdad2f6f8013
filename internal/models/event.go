package models

import "time"

// EventType distinguishes informational events from blocking ones.
type EventType string

const (
	EventInfo    EventType = "info"
	EventBlocker EventType = "blocker"
)

// Valid reports whether the event type is known.
func (t EventType) Valid() bool { return t == EventInfo || t == EventBlocker }

// CalendarEvent represents an organization-wide interval such as a
// holiday or maintenance window. Events do not recur.
type CalendarEvent struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	EventType   EventType `db:"event_type" json:"event_type"`
	StartDate   Date      `db:"start_date" json:"start_date"`
	EndDate     Date      `db:"end_date" json:"end_date"`
	AllDay      bool      `db:"all_day" json:"all_day"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Covers reports whether the event interval contains the given date.
func (e CalendarEvent) Covers(date Date) bool {
	return date.Within(e.StartDate, e.EndDate)
}

// EventFilter narrows down calendar events for list queries.
type EventFilter struct {
	StartDate *Date
	EndDate   *Date
	Type      *EventType
	Page      int
	PageSize  int
}
