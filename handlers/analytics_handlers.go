// api/handlers/analytics_handlers.go
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"goplatform/api/analytics"
	"goplatform/api/middleware"
)

type AnalyticsHandlers struct {
	Service *analytics.Service
}

func NewAnalyticsHandlers(s *analytics.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{Service: s}
}

// GetReport serves GET /api/analytics: the full role-scoped report envelope.
// The dataset missing on disk is a not-found condition for the whole
// request; everything else surfaces as a 500.
func (h *AnalyticsHandlers) GetReport(c *gin.Context) {
	capabilities := middleware.CapabilitiesFrom(c)

	params := analytics.ReportParams{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		CmpMode:   c.Query("cmp_mode"),
		CmpLeft:   c.Query("cmp_left"),
		CmpRight:  c.Query("cmp_right"),
		CmpAStart: c.Query("cmp_a_start"),
		CmpAEnd:   c.Query("cmp_a_end"),
		CmpBStart: c.Query("cmp_b_start"),
		CmpBEnd:   c.Query("cmp_b_end"),
	}

	report, err := h.Service.BuildReport(c.Request.Context(), capabilities, params)
	if err != nil {
		if errors.Is(err, analytics.ErrDatasetNotFound) {
			log.Printf("Analytics dataset missing: %v", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "Analytics dataset not found"})
			return
		}
		log.Printf("Error building analytics report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build analytics report"})
		return
	}

	report.RequestID = middleware.RequestIDFrom(c)
	c.JSON(http.StatusOK, report)
}

// ListModules serves GET /api/analytics/modules: the registry entries the
// caller's role may see, so clients can render tabs without a full report.
func (h *AnalyticsHandlers) ListModules(c *gin.Context) {
	scope := analytics.ResolveScope(middleware.CapabilitiesFrom(c))
	profile := analytics.InferRoleProfile(scope)

	c.JSON(http.StatusOK, gin.H{
		"role_profile": profile,
		"modules":      analytics.ModulesForRole(profile.Role),
	})
}
