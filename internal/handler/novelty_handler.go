package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/service"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
	"github.com/teamagenda/agenda-api/pkg/response"
)

// NoveltyHandler handles announcement endpoints.
type NoveltyHandler struct {
	service *service.NoveltyService
}

// NewNoveltyHandler creates a new novelty handler.
func NewNoveltyHandler(svc *service.NoveltyService) *NoveltyHandler {
	return &NoveltyHandler{service: svc}
}

// List godoc
// @Summary List novelties
// @Description List announcements with pagination
// @Tags Novelties
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param active_on query string false "Only novelties active on this date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /novelties [get]
func (h *NoveltyHandler) List(c *gin.Context) {
	var filter models.NoveltyFilter
	filter.Page, filter.PageSize = pageQuery(c)

	if raw := c.Query("active_on"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid active_on date"))
			return
		}
		filter.ActiveOn = &date
	}

	novelties, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, novelties, pagination)
}

// Active godoc
// @Summary Active novelties for the caller
// @Description Unseen announcements overlapping the requested day or week
// @Tags Novelties
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD, defaults to today)"
// @Param view query string false "day or week"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /novelties/active [get]
func (h *NoveltyHandler) Active(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	date, err := dateQuery(c, "date", models.DateOf(time.Now()))
	if err != nil {
		response.Error(c, err)
		return
	}

	var novelties []models.Novelty
	switch c.DefaultQuery("view", "day") {
	case "week":
		novelties, err = h.service.ActiveForWeek(c.Request.Context(), claims.UserID, date)
	case "day":
		novelties, err = h.service.ActiveForDay(c.Request.Context(), claims.UserID, date)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "view must be day or week"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, novelties, nil)
}

// Get godoc
// @Summary Get novelty
// @Description Get announcement detail
// @Tags Novelties
// @Produce json
// @Param id path string true "Novelty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /novelties/{id} [get]
func (h *NoveltyHandler) Get(c *gin.Context) {
	novelty, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, novelty, nil)
}

// Create godoc
// @Summary Create novelty
// @Description Publish a new announcement
// @Tags Novelties
// @Accept json
// @Produce json
// @Param payload body service.NoveltyRequest true "Create novelty payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /novelties [post]
func (h *NoveltyHandler) Create(c *gin.Context) {
	var req service.NoveltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	novelty, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, novelty)
}

// UpsertMany godoc
// @Summary Bulk upsert novelties
// @Description Insert or update a batch of announcements, keeping existing dismissals
// @Tags Novelties
// @Accept json
// @Produce json
// @Param payload body []service.NoveltyRequest true "Novelty batch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /novelties/bulk [put]
func (h *NoveltyHandler) UpsertMany(c *gin.Context) {
	var reqs []service.NoveltyRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	novelties, err := h.service.UpsertMany(c.Request.Context(), reqs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, novelties, nil)
}

// Update godoc
// @Summary Update novelty
// @Description Update announcement details, dismissals are preserved
// @Tags Novelties
// @Accept json
// @Produce json
// @Param id path string true "Novelty ID"
// @Param payload body service.NoveltyRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /novelties/{id} [put]
func (h *NoveltyHandler) Update(c *gin.Context) {
	var req service.NoveltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	novelty, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, novelty, nil)
}

// Dismiss godoc
// @Summary Dismiss novelty
// @Description Mark the announcement as seen by the caller
// @Tags Novelties
// @Produce json
// @Param id path string true "Novelty ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /novelties/{id}/dismiss [post]
func (h *NoveltyHandler) Dismiss(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	novelty, err := h.service.Dismiss(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, novelty, nil)
}

// Delete godoc
// @Summary Delete novelty
// @Description Delete announcement permanently
// @Tags Novelties
// @Produce json
// @Param id path string true "Novelty ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /novelties/{id} [delete]
func (h *NoveltyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
