package schedule

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamagenda/agenda-api/internal/models"
)

func intPtr(n int) *int { return &n }

func mondayUser(id, start, end string) models.User {
	var week models.WorkWeek
	week.SetDay(models.Monday, models.WorkDay{Active: true, Start: clockPtr(start), End: clockPtr(end)})
	return models.User{ID: id, Name: id, WorkWeek: week}
}

func TestComposeDayPositionsTimedTask(t *testing.T) {
	cfg := DefaultGridConfig()
	userA := mondayUser("user-a", "09:00", "13:00")
	task := models.Task{
		ID:        "t-1",
		UserID:    "user-a",
		Status:    models.StatusTodo,
		Priority:  models.PriorityHigh,
		StartDate: models.MustDate("2024-06-03"),
		StartTime: clockPtr("10:00"),
		Duration:  intPtr(60),
	}
	snap := Snapshot{Users: []models.User{userA}, Tasks: []models.Task{task}}

	layout := ComposeDay(cfg, snap, models.MustDate("2024-06-03"), nil)
	require.Len(t, layout.Users, 1)
	require.Len(t, layout.Users[0].TimedTasks, 1)

	block := layout.Users[0].TimedTasks[0]
	// 07:00 and 07:30 collapse ahead of the morning shift; 08:00 through
	// 09:30 are four expanded slots before the task starts.
	assert.Equal(t, 2*cfg.CollapsedHeight+4*cfg.SlotHeight, block.Top)
	// 60 minutes cover the expanded 10:00 and 10:30 slots exactly.
	assert.Equal(t, 2*cfg.SlotHeight, block.Height)
	assert.Equal(t, "t-1", block.Task.ID)
	assert.Empty(t, layout.Users[0].UntimedTasks)
}

func TestComposeDayWorkBandReachesEndTime(t *testing.T) {
	cfg := DefaultGridConfig()
	userA := mondayUser("user-a", "09:00", "13:00")
	snap := Snapshot{Users: []models.User{userA}}

	layout := ComposeDay(cfg, snap, models.MustDate("2024-06-03"), nil)
	require.Len(t, layout.Users, 1)
	band := layout.Users[0].Band
	require.NotNil(t, band)

	// Band top: two collapsed slots plus the expanded 08:00 and 08:30.
	assert.Equal(t, 2*cfg.CollapsedHeight+2*cfg.SlotHeight, band.Top)
	// Eight expanded slots from 09:00 through 12:30, plus the 13:00
	// boundary slot (collapsed) so the band reaches its end time.
	assert.Equal(t, 8*cfg.SlotHeight+cfg.CollapsedHeight, band.Height)
}

func TestComposeDayUntimedWorkDaySpansShifts(t *testing.T) {
	cfg := DefaultGridConfig()
	var week models.WorkWeek
	week.SetDay(models.Monday, models.WorkDay{Active: true})
	snap := Snapshot{Users: []models.User{{ID: "user-a", WorkWeek: week}}}

	layout := ComposeDay(cfg, snap, models.MustDate("2024-06-03"), nil)
	require.Len(t, layout.Users, 1)
	band := layout.Users[0].Band
	require.NotNil(t, band)
	assert.Equal(t, models.MustClock("08:00"), band.Start)
	assert.Equal(t, models.MustClock("22:30"), band.End)
}

func TestComposeDayShiftBands(t *testing.T) {
	cfg := DefaultGridConfig()
	layout := ComposeDay(cfg, Snapshot{}, models.MustDate("2024-06-03"), nil)

	require.Len(t, layout.Shifts, 2)
	assert.Equal(t, "TM", layout.Shifts[0].Label)
	assert.Equal(t, "TV", layout.Shifts[1].Label)
	assert.Greater(t, layout.Shifts[0].Height, 0)
	assert.Equal(t, layout.TotalHeight, sumRowHeights(layout.Slots))
}

func sumRowHeights(rows []SlotRow) int {
	total := 0
	for _, r := range rows {
		total += r.Height
	}
	return total
}

func TestComposeDayColumnWidths(t *testing.T) {
	cfg := DefaultGridConfig()
	userA := mondayUser("user-a", "09:00", "13:00")
	var virtualWeek models.WorkWeek
	virtualWeek.SetDay(models.Monday, models.WorkDay{Virtual: true})
	userB := models.User{ID: "user-b", WorkWeek: virtualWeek}
	snap := Snapshot{Users: []models.User{userA, userB}}

	layout := ComposeDay(cfg, snap, models.MustDate("2024-06-03"), map[string]int{"user-a": 40})
	require.Len(t, layout.Users, 2)
	assert.Equal(t, minColumnWidth, layout.Users[0].Width, "overrides are clamped to the minimum")
	assert.Equal(t, defaultVirtualColumnWidth, layout.Users[1].Width)

	layout = ComposeDay(cfg, snap, models.MustDate("2024-06-03"), nil)
	assert.Equal(t, defaultActiveColumnWidth, layout.Users[0].Width)
}

func TestComposeDayIncludesCoveringEvents(t *testing.T) {
	cfg := DefaultGridConfig()
	snap := Snapshot{Events: []models.CalendarEvent{
		{ID: "e-1", StartDate: models.MustDate("2024-06-01"), EndDate: models.MustDate("2024-06-05")},
		{ID: "e-2", StartDate: models.MustDate("2024-06-10"), EndDate: models.MustDate("2024-06-10")},
	}}

	layout := ComposeDay(cfg, snap, models.MustDate("2024-06-03"), nil)
	require.Len(t, layout.Events, 1)
	assert.Equal(t, "e-1", layout.Events[0].ID)
}

func TestReassignIsPure(t *testing.T) {
	original := models.Task{ID: "t-1", UserID: "user-a", StartDate: models.MustDate("2024-06-03")}
	moved := Reassign(original, "user-b", models.MustDate("2024-06-05"))

	assert.Equal(t, "user-b", moved.UserID)
	assert.Equal(t, models.MustDate("2024-06-05"), moved.StartDate)
	assert.Equal(t, "user-a", original.UserID, "input task is untouched")
	assert.Equal(t, models.MustDate("2024-06-03"), original.StartDate)
}

func TestComposeWeekMondayToFriday(t *testing.T) {
	userA := mondayUser("user-a", "09:00", "13:00")
	tasks := []models.Task{
		{ID: "low", UserID: "user-a", Status: models.StatusTodo, Priority: models.PriorityLow,
			Days: pq.StringArray{"Monday"}, StartDate: models.MustDate("2024-01-01")},
		{ID: "high", UserID: "user-a", Status: models.StatusTodo, Priority: models.PriorityHigh,
			Days: pq.StringArray{"Monday"}, StartDate: models.MustDate("2024-01-01")},
	}
	snap := Snapshot{Users: []models.User{userA}, Tasks: tasks}

	agenda := ComposeWeek(snap, models.MustDate("2024-06-05"))
	assert.Equal(t, models.MustDate("2024-06-03"), agenda.WeekStart)
	assert.Equal(t, models.MustDate("2024-06-07"), agenda.WeekEnd)
	require.Len(t, agenda.Days, 5)

	monday := agenda.Days[0]
	assert.Equal(t, models.Monday, monday.Weekday)
	require.Len(t, monday.Users, 1)
	require.Len(t, monday.Users[0].Tasks, 2)
	assert.Equal(t, "high", monday.Users[0].Tasks[0].ID, "priority order, high first")

	tuesday := agenda.Days[1]
	assert.Empty(t, tuesday.Users, "user only works Monday")
}
