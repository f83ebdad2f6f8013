package schedule

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamagenda/agenda-api/internal/models"
)

func TestActiveNoveltiesDayMode(t *testing.T) {
	novelties := []models.Novelty{
		{ID: "n-1", StartDate: models.MustDate("2024-06-01"), EndDate: models.MustDate("2024-06-10")},
		{ID: "n-2", StartDate: models.MustDate("2024-06-05"), EndDate: models.MustDate("2024-06-05")},
		{ID: "n-3", StartDate: models.MustDate("2024-06-20"), EndDate: models.MustDate("2024-06-25")},
	}

	got := ActiveNovelties(novelties, models.MustDate("2024-06-05"), "user-1", NoveltyDay)
	require.Len(t, got, 2)
	assert.Equal(t, "n-1", got[0].ID)
	assert.Equal(t, "n-2", got[1].ID)

	got = ActiveNovelties(novelties, models.MustDate("2024-06-12"), "user-1", NoveltyDay)
	assert.Empty(t, got)
}

func TestActiveNoveltiesWeekOverlap(t *testing.T) {
	novelties := []models.Novelty{
		// Ends on the Monday of the target week.
		{ID: "tail", StartDate: models.MustDate("2024-05-28"), EndDate: models.MustDate("2024-06-03")},
		// Starts on the Sunday of the target week.
		{ID: "head", StartDate: models.MustDate("2024-06-09"), EndDate: models.MustDate("2024-06-15")},
		// Entirely before the week.
		{ID: "past", StartDate: models.MustDate("2024-05-20"), EndDate: models.MustDate("2024-06-02")},
	}

	got := ActiveNovelties(novelties, models.MustDate("2024-06-05"), "user-1", NoveltyWeek)
	require.Len(t, got, 2)
	assert.Equal(t, "tail", got[0].ID)
	assert.Equal(t, "head", got[1].ID)
}

func TestActiveNoveltiesExcludesViewed(t *testing.T) {
	novelties := []models.Novelty{
		{ID: "n-1", StartDate: models.MustDate("2024-06-01"), EndDate: models.MustDate("2024-06-10"),
			Viewed: pq.StringArray{"user-1"}},
		{ID: "n-2", StartDate: models.MustDate("2024-06-01"), EndDate: models.MustDate("2024-06-10")},
	}

	got := ActiveNovelties(novelties, models.MustDate("2024-06-05"), "user-1", NoveltyDay)
	require.Len(t, got, 1)
	assert.Equal(t, "n-2", got[0].ID)

	got = ActiveNovelties(novelties, models.MustDate("2024-06-05"), "user-2", NoveltyDay)
	assert.Len(t, got, 2)
}

func TestMarkViewedIdempotent(t *testing.T) {
	n := models.Novelty{ID: "n-1"}

	n.Viewed = n.MarkViewed("user-1")
	n.Viewed = n.MarkViewed("user-1")

	count := 0
	for _, id := range n.Viewed {
		if id == "user-1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.True(t, n.ViewedBy("user-1"))
	assert.False(t, n.ViewedBy("user-2"))
}
