package schedule

import (
	"github.com/teamagenda/agenda-api/internal/models"
)

// Snapshot bundles the entity collections a compute cycle runs over.
// Callers load it fresh from the repositories before resolving a view;
// the core never mutates it.
type Snapshot struct {
	Users  []models.User
	Tasks  []models.Task
	Events []models.CalendarEvent
}

// HasActivity reports whether anything is schedulable on the date: a
// user working that weekday, a task due, or a calendar event covering it.
func (s Snapshot) HasActivity(date models.Date) bool {
	weekday := date.Weekday()
	for _, u := range s.Users {
		if u.WorkWeek.Day(weekday).Active {
			return true
		}
	}
	for _, t := range s.Tasks {
		if IsDue(t, date) {
			return true
		}
	}
	for _, e := range s.Events {
		if e.Covers(date) {
			return true
		}
	}
	return false
}

// NextDay advances the selected date. From a Friday it strides three
// days to Monday; any weekend day reached without activity is skipped
// one day at a time until a weekday or a busy weekend day is found.
func NextDay(s Snapshot, current models.Date) models.Date {
	next := current.AddDays(1)
	if current.Weekday() == models.Friday {
		next = current.AddDays(3)
	}
	for next.Weekday().IsWeekend() && !s.HasActivity(next) {
		next = next.AddDays(1)
	}
	return next
}

// PrevDay is the mirror of NextDay: from a Monday it strides back three
// days to Friday, then retreats past idle weekend days.
func PrevDay(s Snapshot, current models.Date) models.Date {
	prev := current.AddDays(-1)
	if current.Weekday() == models.Monday {
		prev = current.AddDays(-3)
	}
	for prev.Weekday().IsWeekend() && !s.HasActivity(prev) {
		prev = prev.AddDays(-1)
	}
	return prev
}

// InitialDay picks the date the views open on: today, unless today is a
// weekend with nothing scheduled, in which case the following Monday.
func InitialDay(s Snapshot, today models.Date) models.Date {
	if !today.Weekday().IsWeekend() || s.HasActivity(today) {
		return today
	}
	day := today.AddDays(1)
	for day.Weekday() != models.Monday {
		day = day.AddDays(1)
	}
	return day
}

// WeekStartOf returns the Monday of the week containing the date.
func WeekStartOf(date models.Date) models.Date {
	for date.Weekday() != models.Monday {
		date = date.AddDays(-1)
	}
	return date
}

// WeekBounds returns the Monday and Sunday of the week containing the
// date, the inclusive interval used for week-mode overlap tests.
func WeekBounds(date models.Date) (models.Date, models.Date) {
	start := WeekStartOf(date)
	return start, start.AddDays(6)
}
