package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamagenda/agenda-api/internal/middleware"
	"github.com/teamagenda/agenda-api/internal/models"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
)

// claimsFromContext extracts the JWT claims set by the auth middleware.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	raw, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil, false
	}
	claims, ok := raw.(*models.JWTClaims)
	return claims, ok
}

// dateQuery parses a YYYY-MM-DD query parameter, falling back when absent.
func dateQuery(c *gin.Context, key string, fallback models.Date) (models.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	return date, nil
}

func pageQuery(c *gin.Context) (page, size int) {
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		size = v
	}
	return page, size
}
