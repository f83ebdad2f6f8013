package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/schedule"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
	"github.com/teamagenda/agenda-api/pkg/response"
)

// AgendaComposer is the slice of the agenda service the handler needs.
type AgendaComposer interface {
	Grid() schedule.GridConfig
	DayLayout(ctx context.Context, date models.Date, widths map[string]int) (*schedule.DayLayout, bool, error)
	WeekAgenda(ctx context.Context, date models.Date) (*schedule.WeekAgenda, bool, error)
	NextDay(ctx context.Context, current models.Date) (models.Date, error)
	PrevDay(ctx context.Context, current models.Date) (models.Date, error)
	InitialDay(ctx context.Context, today models.Date) (models.Date, error)
}

// AgendaHandler serves composed day and week views.
type AgendaHandler struct {
	service AgendaComposer
}

// NewAgendaHandler creates a new agenda handler.
func NewAgendaHandler(svc AgendaComposer) *AgendaHandler {
	return &AgendaHandler{service: svc}
}

// Grid godoc
// @Summary Timeline configuration
// @Description Grid geometry used by clients to render the timeline
// @Tags Agenda
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /agenda/grid [get]
func (h *AgendaHandler) Grid(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Grid(), nil)
}

// Day godoc
// @Summary Day layout
// @Description Positioned tasks, collapsed slots and shift separators for one day
// @Tags Agenda
// @Produce json
// @Param date query string false "Day to compose (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /agenda/day [get]
func (h *AgendaHandler) Day(c *gin.Context) {
	date, err := dateQuery(c, "date", models.DateOf(time.Now()))
	if err != nil {
		response.Error(c, err)
		return
	}

	layout, cached, err := h.service.DayLayout(c.Request.Context(), date, nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, layout, nil, gin.H{"cached": cached})
}

// DayWithWidths godoc
// @Summary Day layout with column overrides
// @Description Compose a day with per-user column width overrides
// @Tags Agenda
// @Accept json
// @Produce json
// @Param date query string false "Day to compose (YYYY-MM-DD, defaults to today)"
// @Param payload body map[string]int true "Column widths keyed by user ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /agenda/day [post]
func (h *AgendaHandler) DayWithWidths(c *gin.Context) {
	date, err := dateQuery(c, "date", models.DateOf(time.Now()))
	if err != nil {
		response.Error(c, err)
		return
	}

	var widths map[string]int
	if err := c.ShouldBindJSON(&widths); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid widths payload"))
		return
	}

	layout, _, err := h.service.DayLayout(c.Request.Context(), date, widths)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, layout, nil)
}

// Week godoc
// @Summary Week agenda
// @Description Monday to Friday summary around the given date
// @Tags Agenda
// @Produce json
// @Param date query string false "Any date inside the week (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /agenda/week [get]
func (h *AgendaHandler) Week(c *gin.Context) {
	date, err := dateQuery(c, "date", models.DateOf(time.Now()))
	if err != nil {
		response.Error(c, err)
		return
	}

	week, cached, err := h.service.WeekAgenda(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, week, nil, gin.H{"cached": cached})
}

// Navigate godoc
// @Summary Resolve a navigation target
// @Description Next, previous or initial day relative to the given date
// @Tags Agenda
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD, defaults to today)"
// @Param direction query string true "next, prev or initial"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /agenda/navigate [get]
func (h *AgendaHandler) Navigate(c *gin.Context) {
	date, err := dateQuery(c, "date", models.DateOf(time.Now()))
	if err != nil {
		response.Error(c, err)
		return
	}

	var target models.Date
	switch c.Query("direction") {
	case "next":
		target, err = h.service.NextDay(c.Request.Context(), date)
	case "prev":
		target, err = h.service.PrevDay(c.Request.Context(), date)
	case "initial":
		target, err = h.service.InitialDay(c.Request.Context(), date)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "direction must be next, prev or initial"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"date": target}, nil)
}
