package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	dashboarddomain "github.com/estilistapro/estilista/internal/dashboard/domain"
	settingsdomain "github.com/estilistapro/estilista/internal/settings/domain"
)

// GetWeekSummary returns the dashboard for the business week containing
// the date query parameter. Omitting date means the current week.
func (s *Server) GetWeekSummary(c *gin.Context) {
	var query struct {
		Date string `form:"date"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := dashboarddomain.SummaryRequest{}
	if trimmed := strings.TrimSpace(query.Date); trimmed != "" {
		date, err := parseRequiredDate(trimmed)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
			return
		}
		req.Date = date
	} else {
		req.Date = s.clock.Now()
	}

	resp, err := s.dashboardSvc.WeekSummary(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, settingsdomain.ErrMissingSettings) && s.obsMetrics != nil {
			s.obsMetrics.RecordResolveMiss(c.Request.Context())
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
