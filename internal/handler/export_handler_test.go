package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/service"
)

type fakeExporter struct {
	result     *service.ExportResult
	err        error
	lastDate   models.Date
	lastFormat service.ExportFormat
}

func (f *fakeExporter) WeekExport(_ context.Context, date models.Date, format service.ExportFormat) (*service.ExportResult, error) {
	f.lastDate = date
	f.lastFormat = format
	return f.result, f.err
}

func TestExportHandlerWeekCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &fakeExporter{
		result: &service.ExportResult{
			Filename:    "agenda-week-2024-06-03.csv",
			ContentType: "text/csv",
			Payload:     []byte("Date,User\n"),
		},
	}
	handler := NewExportHandler(exporter)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/export/week?date=2024-06-05&format=csv", nil)

	handler.Week(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportCSV, exporter.lastFormat)
	assert.Equal(t, models.MustDate("2024-06-05"), exporter.lastDate)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "agenda-week-2024-06-03.csv")
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
}

func TestExportHandlerWeekUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExporter{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/export/week?format=xlsx", nil)

	handler.Week(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
