package schedule

import (
	"sort"

	"github.com/teamagenda/agenda-api/internal/models"
)

// IsDue decides whether a task is scheduled on the given date.
//
// Rules, in priority order:
//  1. Archived tasks are never due.
//  2. A done task whose end date has passed is no longer due.
//  3. A task with recurrence days is due when the date's weekday is in
//     the set and the date falls inside [StartDate, EndDate] (open ended
//     when EndDate is unset).
//  4. Otherwise the task is due throughout [StartDate, EndDate]; without
//     an end date that window is the start date alone.
//
// A task with a zero start date is malformed and never due.
func IsDue(task models.Task, date models.Date) bool {
	if task.Status == models.StatusArchived {
		return false
	}
	if task.StartDate.IsZero() {
		return false
	}
	if task.Status == models.StatusDone && task.EndDate != nil && date.After(*task.EndDate) {
		return false
	}

	if days := task.RecurrenceDays(); len(days) > 0 {
		if date.Before(task.StartDate) {
			return false
		}
		if task.EndDate != nil && date.After(*task.EndDate) {
			return false
		}
		weekday := date.Weekday()
		for _, day := range days {
			if day == weekday {
				return true
			}
		}
		return false
	}

	end := task.StartDate
	if task.EndDate != nil {
		end = *task.EndDate
	}
	return date.Within(task.StartDate, end)
}

// ScheduledOn reports whether a user is relevant on the given weekday,
// either working on site or virtually.
func ScheduledOn(user models.User, day models.Weekday) bool {
	wd := user.WorkWeek.Day(day)
	return wd.Active || wd.Virtual
}

// UsersForDay filters users scheduled on the weekday and orders them by
// their work start time, earliest first. Users without an explicit start
// keep their incoming relative order.
func UsersForDay(users []models.User, day models.Weekday) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if ScheduledOn(u, day) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a := out[i].WorkWeek.Day(day).Start
		b := out[j].WorkWeek.Day(day).Start
		if a == nil || b == nil {
			return false
		}
		return *a < *b
	})
	return out
}

// TasksDueOn returns the tasks due on the given date, in input order.
func TasksDueOn(tasks []models.Task, date models.Date) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if IsDue(t, date) {
			out = append(out, t)
		}
	}
	return out
}

// TasksForUser filters tasks belonging to the given user.
func TasksForUser(tasks []models.Task, userID string) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// SortTasks orders tasks for rendering: timed tasks first in
// chronological order, then untimed tasks by priority, high first. The
// sort is stable so same-priority tasks keep their incoming order.
func SortTasks(tasks []models.Task) []models.Task {
	out := append([]models.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Timed() && b.Timed():
			return *a.StartTime < *b.StartTime
		case a.Timed():
			return true
		case b.Timed():
			return false
		default:
			return a.Priority.Rank() < b.Priority.Rank()
		}
	})
	return out
}

// SortByPriority orders tasks by priority alone, high first, preserving
// the incoming order inside each level. Used by the weekly agenda where
// no time axis exists.
func SortByPriority(tasks []models.Task) []models.Task {
	out := append([]models.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}
