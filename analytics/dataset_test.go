package analytics

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRows_Normalization(t *testing.T) {
	path := writeDataset(t, datasetHeader+
		"2024-03-15T00:00:00,/emergencies/123,KEN: Flood,Kenya,Nairobi,5,2,12.5,yes,search,Chrome,Android,mobile,New user,123\n"+
		"2024-03-16,/reports/9,,colombia ,Bogota,,0,not-a-number,no,direct,Firefox,Linux,desktop,Returning,0\n"+
		"not-a-date,/emergencies/123,KEN: Flood,Nowhereland,,abc,-3,3.0,TRUE,,,,,,123\n"+
		",, ,Kenya,,4,1,1.0,yes,,,,,,5\n") // empty page path: skipped

	rows, err := LoadRows(path, testLookups())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, "2024-03-15", first.Date)
	assert.Equal(t, "/emergencies/123", first.PageURL)
	assert.Equal(t, "Kenya", first.Country)
	assert.Equal(t, "KE", first.CountryISO)
	assert.Equal(t, 5, first.Views)
	assert.Equal(t, 2, first.Downloads)
	assert.InDelta(t, 12.5, first.EngagementSecs, 0.001)
	assert.True(t, first.IsActive)
	assert.Equal(t, 123, first.EmergencyID)

	second := rows[1]
	assert.Equal(t, "2024-03-16", second.Date)
	assert.Equal(t, 1, second.Views, "empty views cell defaults to one observed view")
	assert.Equal(t, "Colombia", second.Country, "country enriched to canonical name")
	assert.Equal(t, "CO", second.CountryISO)
	assert.Zero(t, second.EngagementSecs, "bad float degrades to zero")
	assert.False(t, second.IsActive)

	third := rows[2]
	assert.Equal(t, "", third.Date, "unparsable date degrades to empty")
	assert.Zero(t, third.Views, "explicit invalid views value defaults to zero")
	assert.Zero(t, third.Downloads, "negative count clamps to zero")
	assert.Equal(t, "Nowhereland", third.Country, "unknown country keeps raw text")
	assert.Equal(t, "", third.CountryISO)
	assert.True(t, third.IsActive, "TRUE normalizes to active")
}

func TestLoadRows_ViewsColumnAbsent(t *testing.T) {
	path := writeDataset(t, "date,fullPageUrl\n2024-01-02,/emergencies/1\n")

	rows, err := LoadRows(path, testLookups())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Views, "absent views column defaults to one view per row")
}

func TestLoadRows_ViewsNeverNegative(t *testing.T) {
	path := writeDataset(t, datasetHeader+
		"2024-01-02,/a,,,,-7,0,0,no,,,,,,0\n"+
		"2024-01-02,/b,,,,3.9,0,0,no,,,,,,0\n")

	rows, err := LoadRows(path, testLookups())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Views, 0)
	}
	assert.Equal(t, 3, rows[1].Views, "float views truncate leniently")
}

func TestNormalizeDay_RoundTrip(t *testing.T) {
	dayLabel := normalizeDay("2024-03-15T00:00:00")
	assert.Equal(t, "2024-03-15", dayLabel)
	assert.Equal(t, "2024-03", monthLabel(dayLabel))
}

func TestFindDatasetPath_NotFound(t *testing.T) {
	t.Setenv("ANALYTICS_DATASET", filepath.Join(t.TempDir(), "missing.csv"))

	_, err := FindDatasetPath()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestFindDatasetPath_EnvOverride(t *testing.T) {
	path := writeDataset(t, datasetHeader)
	t.Setenv("ANALYTICS_DATASET", path)

	found, err := FindDatasetPath()
	require.NoError(t, err)
	assert.Equal(t, path, found)
}
