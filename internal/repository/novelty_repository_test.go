package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamagenda/agenda-api/internal/models"
)

func noveltyRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "start_date", "end_date", "viewed", "created_at", "updated_at"}).
		AddRow("n1", "New process", "", "2024-06-03", "2024-06-07", "{u1}", now, now)
}

func TestListOverlappingNovelties(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoveltyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, start_date, end_date, viewed, created_at, updated_at FROM novelties WHERE start_date <= $2 AND end_date >= $1 ORDER BY start_date ASC")).
		WillReturnRows(noveltyRows(time.Now()))

	novelties, err := repo.ListOverlapping(context.Background(), models.MustDate("2024-06-03"), models.MustDate("2024-06-09"))
	require.NoError(t, err)
	require.Len(t, novelties, 1)
	assert.True(t, novelties[0].ViewedBy("u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkViewedGuardsDuplicates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoveltyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE novelties SET viewed = array_append(viewed, $2), updated_at = $3 WHERE id = $1 AND NOT ($2 = ANY(viewed))")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkViewed(context.Background(), "n1", "u2")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
