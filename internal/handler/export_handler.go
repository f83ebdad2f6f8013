package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/service"
	"github.com/teamagenda/agenda-api/pkg/response"
)

// WeekExporter is the slice of the export service the handler needs.
type WeekExporter interface {
	WeekExport(ctx context.Context, date models.Date, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams agenda exports.
type ExportHandler struct {
	service WeekExporter
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc WeekExporter) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Week godoc
// @Summary Export week agenda
// @Description Download the week agenda as CSV or PDF
// @Tags Export
// @Produce application/octet-stream
// @Param date query string false "Any date inside the week (YYYY-MM-DD, defaults to today)"
// @Param format query string false "csv or pdf, defaults to csv"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /export/week [get]
func (h *ExportHandler) Week(c *gin.Context) {
	date, err := dateQuery(c, "date", models.DateOf(time.Now()))
	if err != nil {
		response.Error(c, err)
		return
	}

	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.WeekExport(c.Request.Context(), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Payload)
}
