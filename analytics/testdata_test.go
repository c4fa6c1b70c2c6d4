package analytics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"goplatform/api/models"
)

// testCountries is the reference snapshot shared by the package tests.
// Chad's 4-letter name sits right at the inference length threshold.
func testCountries() []models.Country {
	return []models.Country{
		{Name: "Kenya", ISO2: "KE", ISO3: "KEN", RegionID: 0},
		{Name: "Colombia", ISO2: "CO", ISO3: "COL", RegionID: 1},
		{Name: "Japan", ISO2: "JP", ISO3: "JPN", RegionID: 2},
		{Name: "France", ISO2: "FR", ISO3: "FRA", RegionID: 3},
		{Name: "Egypt", ISO2: "EG", ISO3: "EGY", RegionID: 4},
		{Name: "Chad", ISO2: "TD", ISO3: "TCD", RegionID: 0},
		{Name: "Atlantis", ISO2: "AA", ISO3: "AAA", RegionID: 9}, // unknown region id
	}
}

func testLookups() *Lookups {
	return BuildLookups(testCountries())
}

func testScopeIndex(relations map[int]models.EventRelations) *scopeIndex {
	return newScopeIndex(testLookups(), relations)
}

// writeDataset writes a CSV fact sheet into a temp dir and returns its path.
func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "go_ga_data_sample_30_v2.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const datasetHeader = "date,fullPageUrl,emergency_name,viewer_country,viewer_city,views,downloads,avg_engagement_time_sec,is_active,session_source,browser,os,device,new_vs_returning_user,emergency_id\n"

func day(offset int) string {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset).Format("2006-01-02")
}

// factRow builds a minimal normalized row for builder tests.
func factRow(date string, views int, mutate ...func(*models.ViewEvent)) models.ViewEvent {
	row := models.ViewEvent{
		Date:    date,
		PageURL: "/emergencies/1",
		Views:   views,
	}
	for _, m := range mutate {
		m(&row)
	}
	return row
}
