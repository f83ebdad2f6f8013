package schedule

import (
	"github.com/teamagenda/agenda-api/internal/models"
)

const (
	defaultActiveColumnWidth  = 250
	defaultVirtualColumnWidth = 120
	minColumnWidth            = 100
)

// Band is a positioned vertical block on the time axis.
type Band struct {
	Label  string           `json:"label"`
	Start  models.ClockTime `json:"start"`
	End    models.ClockTime `json:"end"`
	Top    int              `json:"top"`
	Height int              `json:"height"`
}

// TaskBlock is a timed task card positioned absolutely on the axis.
type TaskBlock struct {
	Task   models.Task `json:"task"`
	Top    int         `json:"top"`
	Height int         `json:"height"`
}

// SlotRow is one row of the rendered time ruler.
type SlotRow struct {
	Time   models.ClockTime `json:"time"`
	Active bool             `json:"active"`
	Height int              `json:"height"`
}

// UserColumn is the layout of one scheduled user's column for a day.
type UserColumn struct {
	User         models.User    `json:"user"`
	WorkDay      models.WorkDay `json:"work_day"`
	Width        int            `json:"width"`
	Band         *Band          `json:"band,omitempty"`
	TimedTasks   []TaskBlock    `json:"timed_tasks"`
	UntimedTasks []models.Task  `json:"untimed_tasks"`
}

// DayLayout is the fully positioned daily timeline for one date.
type DayLayout struct {
	Date        models.Date            `json:"date"`
	Weekday     models.Weekday         `json:"weekday"`
	TotalHeight int                    `json:"total_height"`
	Slots       []SlotRow              `json:"slots"`
	Shifts      []Band                 `json:"shifts"`
	Users       []UserColumn           `json:"users"`
	Events      []models.CalendarEvent `json:"events"`
}

// ComposeDay resolves and positions everything visible on the daily
// timeline for the given date: the collapsible slot ruler, one band per
// organization shift, one column per scheduled user carrying their work
// band, timed task cards and the untimed task stack, plus the calendar
// events covering the date. Column width overrides affect horizontal
// geometry only; passing nil uses the defaults.
func ComposeDay(cfg GridConfig, snap Snapshot, date models.Date, widths map[string]int) DayLayout {
	weekday := date.Weekday()
	users := UsersForDay(snap.Users, weekday)
	due := TasksDueOn(snap.Tasks, date)

	slotMap := cfg.ActiveSlots(collectIntervals(cfg, users, due, weekday))

	layout := DayLayout{
		Date:        date,
		Weekday:     weekday,
		TotalHeight: slotMap.TotalHeight(),
		Slots:       slotRows(slotMap),
		Shifts:      shiftBands(cfg, slotMap),
		Users:       make([]UserColumn, 0, len(users)),
	}

	for _, e := range snap.Events {
		if e.Covers(date) {
			layout.Events = append(layout.Events, e)
		}
	}

	for _, user := range users {
		layout.Users = append(layout.Users, composeUserColumn(cfg, slotMap, user, due, weekday, widths))
	}
	return layout
}

// Reassign produces the task as it would be after being dropped on a
// target user and date. Pure transform; persisting the change is the
// caller's job.
func Reassign(task models.Task, targetUserID string, targetDate models.Date) models.Task {
	task.UserID = targetUserID
	task.StartDate = targetDate
	return task
}

func collectIntervals(cfg GridConfig, users []models.User, due []models.Task, weekday models.Weekday) []Interval {
	intervals := make([]Interval, 0, len(cfg.Shifts)+len(users)+len(due))
	for _, shift := range cfg.Shifts {
		intervals = append(intervals, Interval{Start: shift.Start, End: shift.End})
	}
	for _, user := range users {
		wd := user.WorkWeek.Day(weekday)
		if wd.Active && wd.Timed() {
			intervals = append(intervals, Interval{Start: *wd.Start, End: *wd.End})
		}
	}
	for _, task := range due {
		if !task.Timed() {
			continue
		}
		start := *task.StartTime
		end := start + models.ClockTime(task.DurationMinutes(cfg.SlotDuration))
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals
}

func slotRows(m SlotMap) []SlotRow {
	rows := make([]SlotRow, len(m.Slots()))
	for i, slot := range m.Slots() {
		rows[i] = SlotRow{Time: slot, Active: m.active[i], Height: m.HeightAt(i)}
	}
	return rows
}

func shiftBands(cfg GridConfig, m SlotMap) []Band {
	bands := make([]Band, 0, len(cfg.Shifts))
	for _, shift := range cfg.Shifts {
		top, height := m.SpanExtent(shift.Start, shift.End)
		if height <= 0 {
			continue
		}
		bands = append(bands, Band{Label: shift.Name, Start: shift.Start, End: shift.End, Top: top, Height: height})
	}
	return bands
}

func composeUserColumn(cfg GridConfig, m SlotMap, user models.User, due []models.Task, weekday models.Weekday, widths map[string]int) UserColumn {
	wd := user.WorkWeek.Day(weekday)
	col := UserColumn{
		User:         user,
		WorkDay:      wd,
		Width:        columnWidth(user.ID, wd, widths),
		TimedTasks:   []TaskBlock{},
		UntimedTasks: []models.Task{},
	}

	for _, task := range SortTasks(TasksForUser(due, user.ID)) {
		if !task.Timed() {
			col.UntimedTasks = append(col.UntimedTasks, task)
			continue
		}
		start := *task.StartTime
		end := start + models.ClockTime(task.DurationMinutes(cfg.SlotDuration))
		top, height := m.SpanExtent(start, end)
		col.TimedTasks = append(col.TimedTasks, TaskBlock{Task: task, Top: top, Height: height})
	}

	if !wd.Active {
		return col
	}

	var start, end models.ClockTime
	if wd.Timed() {
		start, end = *wd.Start, *wd.End
	} else {
		span0, span1, ok := cfg.ShiftSpan()
		if !ok {
			return col
		}
		start, end = span0, span1
	}
	top, height := m.BlockExtent(start, end)
	if height > 0 {
		col.Band = &Band{Start: start, End: end, Top: top, Height: height}
	}
	return col
}

func columnWidth(userID string, wd models.WorkDay, widths map[string]int) int {
	if w, ok := widths[userID]; ok {
		if w < minColumnWidth {
			return minColumnWidth
		}
		return w
	}
	if wd.Active {
		return defaultActiveColumnWidth
	}
	return defaultVirtualColumnWidth
}

// WeekUserAgenda is one user's card inside a weekly agenda day.
type WeekUserAgenda struct {
	User    models.User    `json:"user"`
	WorkDay models.WorkDay `json:"work_day"`
	Tasks   []models.Task  `json:"tasks"`
}

// WeekDayAgenda is one weekday column of the weekly agenda.
type WeekDayAgenda struct {
	Date    models.Date            `json:"date"`
	Weekday models.Weekday         `json:"weekday"`
	Events  []models.CalendarEvent `json:"events"`
	Users   []WeekUserAgenda       `json:"users"`
}

// WeekAgenda is the Monday-to-Friday weekly canvas view.
type WeekAgenda struct {
	WeekStart models.Date     `json:"week_start"`
	WeekEnd   models.Date     `json:"week_end"`
	Days      []WeekDayAgenda `json:"days"`
}

// ComposeWeek resolves the weekly agenda for the work week containing
// the anchor date: per day, the scheduled users with their due tasks
// ordered by priority, plus the events covering that day.
func ComposeWeek(snap Snapshot, anchor models.Date) WeekAgenda {
	start := WeekStartOf(anchor)
	agenda := WeekAgenda{
		WeekStart: start,
		WeekEnd:   start.AddDays(4),
		Days:      make([]WeekDayAgenda, 0, 5),
	}

	for offset := 0; offset < 5; offset++ {
		date := start.AddDays(offset)
		weekday := date.Weekday()
		day := WeekDayAgenda{Date: date, Weekday: weekday, Users: []WeekUserAgenda{}}

		for _, e := range snap.Events {
			if e.Covers(date) {
				day.Events = append(day.Events, e)
			}
		}

		due := TasksDueOn(snap.Tasks, date)
		for _, user := range UsersForDay(snap.Users, weekday) {
			day.Users = append(day.Users, WeekUserAgenda{
				User:    user,
				WorkDay: user.WorkWeek.Day(weekday),
				Tasks:   SortByPriority(TasksForUser(due, user.ID)),
			})
		}
		agenda.Days = append(agenda.Days, day)
	}
	return agenda
}
