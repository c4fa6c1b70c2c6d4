package analytics

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goplatform/api/models"
)

type fakeRefs struct {
	countries []models.Country
	relations map[int]models.EventRelations
}

func (f *fakeRefs) Countries(ctx context.Context) ([]models.Country, error) {
	return f.countries, nil
}

func (f *fakeRefs) EventRelations(ctx context.Context, eventIDs []int) (map[int]models.EventRelations, error) {
	return f.relations, nil
}

func reportService(t *testing.T) *Service {
	t.Helper()
	path := writeDataset(t, datasetHeader+
		"2024-03-01,/emergencies/1,Kenya Floods,Kenya,Nairobi,10,1,20.0,yes,search,Chrome,Android,mobile,New user,1\n"+
		"2024-03-02,/emergencies/2,France Heatwave,France,Paris,20,0,5.0,no,direct,Firefox,Linux,desktop,Returning,2\n"+
		"2024-03-03,/reports/7,,Japan,Tokyo,5,0,1.0,no,social,Safari,iOS,mobile,Returning,0\n")
	t.Setenv("ANALYTICS_DATASET", path)
	return NewService(&fakeRefs{countries: testCountries()})
}

func TestBuildReport_GlobalScope(t *testing.T) {
	svc := reportService(t)

	report, err := svc.BuildReport(context.Background(), []string{CapabilityGlobal}, ReportParams{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.ContractVersion)
	assert.Equal(t, RoleGlobal, report.RoleProfile.Role)
	assert.True(t, report.Scope.Global)
	assert.Equal(t, 35, report.Summary.TotalVisits)
	require.NotEmpty(t, report.Summary.TopPages)
	assert.Equal(t, "/emergencies/2", report.Summary.TopPages[0].Key)

	assert.Equal(t, GetAvailableModules(RoleGlobal), report.AvailableModules)
	for _, key := range report.AvailableModules {
		assert.Contains(t, report.ModuleData, key)
	}
	assert.NotContains(t, report.ModuleData, ModuleLiveMonitoring)
}

func TestBuildReport_OpsOverrideForcesLiveOnly(t *testing.T) {
	svc := reportService(t)

	// Declared region scope is discarded for live-operations principals.
	capabilities := []string{CapabilityLive, CapabilityRegionPrefix + "europe"}
	report, err := svc.BuildReport(context.Background(), capabilities, ReportParams{})
	require.NoError(t, err)

	assert.Equal(t, RoleOps, report.RoleProfile.Role)
	assert.False(t, report.Scope.Global)
	assert.True(t, report.Scope.Live)
	assert.Empty(t, report.Scope.Regions)

	// Only the active Kenya row survives the live-only scope.
	assert.Equal(t, 10, report.Summary.TotalVisits)
	assert.NotContains(t, report.ModuleData, ModulePlatformAdoption)
	assert.Contains(t, report.ModuleData, ModuleLiveMonitoring)
}

func TestBuildReport_RegionalScope(t *testing.T) {
	svc := reportService(t)

	report, err := svc.BuildReport(context.Background(), []string{CapabilityRegionPrefix + "africa"}, ReportParams{})
	require.NoError(t, err)

	assert.Equal(t, RoleRegional, report.RoleProfile.Role)
	assert.Equal(t, 10, report.Summary.TotalVisits, "only the Kenya emergency row is in scope")
}

func TestBuildReport_NoCapabilitiesSeesNothing(t *testing.T) {
	svc := reportService(t)

	report, err := svc.BuildReport(context.Background(), nil, ReportParams{})
	require.NoError(t, err)

	assert.Equal(t, RoleCountry, report.RoleProfile.Role)
	assert.Zero(t, report.Summary.TotalVisits)
	assert.Empty(t, report.Summary.TopPages)
}

func TestBuildReport_SwapsReversedDateRange(t *testing.T) {
	svc := reportService(t)

	params := ReportParams{StartDate: "2024-03-31", EndDate: "2024-03-01"}
	report, err := svc.BuildReport(context.Background(), []string{CapabilityGlobal}, params)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", report.FiltersApplied.StartDate)
	assert.Equal(t, "2024-03-31", report.FiltersApplied.EndDate)

	series := report.ModuleData[ModuleViewsByDate].([]models.DateBucket)
	require.NotEmpty(t, series)
	assert.Equal(t, "2024-03-01", series[0].Label, "single-month range buckets by day")
}

func TestBuildReport_DatasetMissing(t *testing.T) {
	t.Setenv("ANALYTICS_DATASET", filepath.Join(t.TempDir(), "nope.csv"))
	svc := NewService(&fakeRefs{countries: testCountries()})

	_, err := svc.BuildReport(context.Background(), []string{CapabilityGlobal}, ReportParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}
