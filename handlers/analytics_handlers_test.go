package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goplatform/api/analytics"
	"goplatform/api/middleware"
	"goplatform/api/models"
)

type stubRefs struct{}

func (stubRefs) Countries(ctx context.Context) ([]models.Country, error) {
	return []models.Country{
		{Name: "Kenya", ISO2: "KE", ISO3: "KEN", RegionID: 0},
	}, nil
}

func (stubRefs) EventRelations(ctx context.Context, eventIDs []int) (map[int]models.EventRelations, error) {
	return map[int]models.EventRelations{}, nil
}

func analyticsRequest(t *testing.T, capabilities []string, query string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req, err := http.NewRequest(http.MethodGet, "/api/analytics?"+query, nil)
	require.NoError(t, err)
	c.Request = req
	c.Set(middleware.ContextCapabilities, capabilities)
	return w, c
}

func writeHandlerDataset(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "go_ga_data_sample_30_v2.csv")
	content := "date,fullPageUrl,emergency_name,viewer_country,views,is_active,emergency_id\n" +
		"2024-03-01,/emergencies/1,Kenya Floods,Kenya,10,yes,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("ANALYTICS_DATASET", path)
}

func TestGetReport_OK(t *testing.T) {
	writeHandlerDataset(t)
	h := NewAnalyticsHandlers(analytics.NewService(stubRefs{}))

	w, c := analyticsRequest(t, []string{"analytics_view_global"}, "start_date=2024-03-01&end_date=2024-03-31")
	h.GetReport(c)

	require.Equal(t, http.StatusOK, w.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.ContractVersion)
	assert.Equal(t, "global_im", report.RoleProfile.Role)
	assert.Equal(t, 10, report.Summary.TotalVisits)
	assert.Equal(t, "2024-03-01", report.FiltersApplied.StartDate)
	assert.Contains(t, report.ModuleData, "overview")
}

func TestGetReport_DatasetMissingIs404(t *testing.T) {
	t.Setenv("ANALYTICS_DATASET", filepath.Join(t.TempDir(), "missing.csv"))
	h := NewAnalyticsHandlers(analytics.NewService(stubRefs{}))

	w, c := analyticsRequest(t, []string{"analytics_view_global"}, "")
	h.GetReport(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListModules_OpsRole(t *testing.T) {
	h := NewAnalyticsHandlers(analytics.NewService(stubRefs{}))

	w, c := analyticsRequest(t, []string{"analytics_view_live"}, "")
	h.ListModules(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RoleProfile models.RoleProfile `json:"role_profile"`
		Modules     []analytics.Module `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ops_im", resp.RoleProfile.Role)

	keys := make([]string, 0, len(resp.Modules))
	for _, m := range resp.Modules {
		keys = append(keys, m.Key)
	}
	assert.Contains(t, keys, "live_monitoring")
	assert.NotContains(t, keys, "platform_adoption")
}
