package schedule

import (
	"github.com/teamagenda/agenda-api/internal/models"
)

// NoveltyMode selects how novelty visibility is matched against a date.
type NoveltyMode string

const (
	// NoveltyDay matches novelties whose interval contains the date.
	NoveltyDay NoveltyMode = "day"
	// NoveltyWeek matches novelties overlapping the Monday-Sunday week
	// containing the date.
	NoveltyWeek NoveltyMode = "week"
)

// ActiveNovelties returns the novelties visible to the user on the given
// date: those whose interval matches per the mode and that the user has
// not yet dismissed. Input order is preserved.
func ActiveNovelties(novelties []models.Novelty, date models.Date, userID string, mode NoveltyMode) []models.Novelty {
	var weekStart, weekEnd models.Date
	if mode == NoveltyWeek {
		weekStart, weekEnd = WeekBounds(date)
	}

	out := make([]models.Novelty, 0, len(novelties))
	for _, n := range novelties {
		var visible bool
		if mode == NoveltyWeek {
			// Inclusive interval overlap.
			visible = !n.StartDate.After(weekEnd) && !n.EndDate.Before(weekStart)
		} else {
			visible = date.Within(n.StartDate, n.EndDate)
		}
		if visible && !n.ViewedBy(userID) {
			out = append(out, n)
		}
	}
	return out
}
