// Package schedule implements the scheduling core of the agenda service:
// time-grid geometry, task recurrence resolution, day navigation, view
// placement and novelty visibility. Everything in this package is a pure
// function over entity snapshots; persistence and transport live in the
// repository and handler layers.
package schedule

import (
	"github.com/teamagenda/agenda-api/internal/models"
)

// Shift is a fixed organization-wide time window, independent of
// individual users.
type Shift struct {
	Name  string           `json:"name"`
	Start models.ClockTime `json:"start"`
	End   models.ClockTime `json:"end"`
}

// GridConfig describes the vertical time axis of the daily timeline.
type GridConfig struct {
	StartHour       int
	EndHour         int
	SlotDuration    int
	SlotHeight      int
	CollapsedHeight int
	Shifts          []Shift
}

// DefaultGridConfig mirrors the timeline the frontend renders: a
// 07:00-23:00 axis in 30 minute slots, 40px expanded and 1px collapsed,
// with a morning and an evening shift.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		StartHour:       7,
		EndHour:         23,
		SlotDuration:    30,
		SlotHeight:      40,
		CollapsedHeight: 1,
		Shifts: []Shift{
			{Name: "TM", Start: models.MustClock("08:00"), End: models.MustClock("13:00")},
			{Name: "TV", Start: models.MustClock("18:00"), End: models.MustClock("22:30")},
		},
	}
}

// Slots returns the slot boundary sequence, inclusive of the end hour.
func (c GridConfig) Slots() []models.ClockTime {
	if c.SlotDuration <= 0 {
		return nil
	}
	first := c.StartHour * 60
	last := c.EndHour * 60
	count := (last-first)/c.SlotDuration + 1
	if count <= 0 {
		return nil
	}
	slots := make([]models.ClockTime, count)
	for i := range slots {
		slots[i] = models.ClockTime(first + i*c.SlotDuration)
	}
	return slots
}

// ShiftSpan returns the clock interval covered by the configured shifts,
// from the first shift's start through the last shift's end. Users with
// an active work day but no explicit hours are rendered across this span.
func (c GridConfig) ShiftSpan() (models.ClockTime, models.ClockTime, bool) {
	if len(c.Shifts) == 0 {
		return 0, 0, false
	}
	return c.Shifts[0].Start, c.Shifts[len(c.Shifts)-1].End, true
}

// Interval is a half-open clock interval [Start, End).
type Interval struct {
	Start models.ClockTime
	End   models.ClockTime
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t models.ClockTime) bool {
	return t >= iv.Start && t < iv.End
}

// SlotMap is the computed activity map of the time axis: each slot is
// either expanded or collapsed depending on whether any input interval
// touches it.
type SlotMap struct {
	cfg    GridConfig
	slots  []models.ClockTime
	active []bool
}

// ActiveSlots computes the slot map for a set of activity intervals. A
// slot is active iff its boundary time falls inside at least one interval
// (half-open containment).
func (c GridConfig) ActiveSlots(intervals []Interval) SlotMap {
	slots := c.Slots()
	active := make([]bool, len(slots))
	for i, slot := range slots {
		for _, iv := range intervals {
			if iv.Contains(slot) {
				active[i] = true
				break
			}
		}
	}
	return SlotMap{cfg: c, slots: slots, active: active}
}

// Slots returns the slot boundary sequence of the map.
func (m SlotMap) Slots() []models.ClockTime { return m.slots }

// Active reports whether the slot at time t is expanded. Times between
// slot boundaries report the state of the preceding boundary.
func (m SlotMap) Active(t models.ClockTime) bool {
	for i, slot := range m.slots {
		if slot == t {
			return m.active[i]
		}
		if slot > t {
			if i == 0 {
				return false
			}
			return m.active[i-1]
		}
	}
	return false
}

// HeightAt returns the pixel height of slot i.
func (m SlotMap) HeightAt(i int) int {
	if i < 0 || i >= len(m.active) {
		return 0
	}
	if m.active[i] {
		return m.cfg.SlotHeight
	}
	return m.cfg.CollapsedHeight
}

// OffsetOf returns the pixel offset of the given clock time: the summed
// heights of all slots strictly before it.
func (m SlotMap) OffsetOf(t models.ClockTime) int {
	offset := 0
	for i, slot := range m.slots {
		if slot >= t {
			break
		}
		offset += m.HeightAt(i)
	}
	return offset
}

// TotalHeight returns the full height of the rendered axis.
func (m SlotMap) TotalHeight() int {
	total := 0
	for i := range m.slots {
		total += m.HeightAt(i)
	}
	return total
}

// BlockExtent computes the vertical extent of a band spanning
// [start, end]. The boundary slot equal to end is included so the
// rendered band reaches its end time exactly instead of stopping one
// slot early. Returns a zero height when the band covers no slots.
func (m SlotMap) BlockExtent(start, end models.ClockTime) (top, height int) {
	for i, slot := range m.slots {
		h := m.HeightAt(i)
		switch {
		case slot < start:
			top += h
		case slot <= end:
			height += h
		}
	}
	return top, height
}

// SpanExtent computes the vertical extent of the half-open span
// [start, end), the rule used for timed task cards so a 60 minute task
// covers exactly two 30 minute slots.
func (m SlotMap) SpanExtent(start, end models.ClockTime) (top, height int) {
	for i, slot := range m.slots {
		h := m.HeightAt(i)
		switch {
		case slot < start:
			top += h
		case slot < end:
			height += h
		}
	}
	return top, height
}
