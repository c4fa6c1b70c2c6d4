package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"goplatform/api/models"
)

func TestInferScopeFromName_ISO3Prefix(t *testing.T) {
	scope := InferScopeFromName("COL: Flood Response", testLookups())

	assert.Contains(t, scope.Regions, RegionAmericas)
	assert.Contains(t, scope.Countries, "CO")
}

func TestInferScopeFromName_RegionMarkers(t *testing.T) {
	scope := InferScopeFromName("MENA Regional Update", testLookups())
	assert.Contains(t, scope.Regions, RegionMENA)

	scope = InferScopeFromName("North Africa Preparedness", testLookups())
	assert.Contains(t, scope.Regions, RegionMENA)
	assert.NotContains(t, scope.Regions, RegionAfrica, "north africa marker must not also match africa")

	scope = InferScopeFromName("Africa Hunger Crisis", testLookups())
	assert.Contains(t, scope.Regions, RegionAfrica)
}

func TestInferScopeFromName_CountryNameMatch(t *testing.T) {
	scope := InferScopeFromName("Flooding in Kenya 2024", testLookups())
	assert.Contains(t, scope.Regions, RegionAfrica)
	assert.Contains(t, scope.Countries, "KE")

	// Chad is exactly 4 characters, inside the threshold.
	scope = InferScopeFromName("Chad Drought", testLookups())
	assert.Contains(t, scope.Countries, "TD")

	// Word-boundary: "Chadwick" must not match Chad.
	scope = InferScopeFromName("Chadwick Memorial Appeal", testLookups())
	assert.NotContains(t, scope.Countries, "TD")
}

func TestInferScopeFromName_NoMatch(t *testing.T) {
	scope := InferScopeFromName("Unnamed operation", testLookups())
	assert.Empty(t, scope.Regions)
	assert.Empty(t, scope.Countries)

	scope = InferScopeFromName("", testLookups())
	assert.Empty(t, scope.Regions)
}

func TestScopeFor_StructuredRelationsWin(t *testing.T) {
	ix := testScopeIndex(map[int]models.EventRelations{
		42: {
			ID:           42,
			Name:         "Kenya Floods", // name would infer africa
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			RegionIDs:    []int{3},
			CountryISO2s: []string{"fr"},
		},
	})

	scope := ix.scopeFor(42, "Kenya Floods")
	assert.Contains(t, scope.Regions, RegionEurope)
	assert.Contains(t, scope.Countries, "FR")
	assert.NotContains(t, scope.Regions, RegionAfrica, "structured relations bypass name inference")
}

func TestScopeFor_FallsBackToNameInference(t *testing.T) {
	ix := testScopeIndex(map[int]models.EventRelations{
		7: {ID: 7, Name: "JPN: Earthquake", CountryISO2s: nil}, // no structured regions
	})

	scope := ix.scopeFor(7, "row-level name ignored when store has one")
	assert.Contains(t, scope.Regions, RegionAsiaPacific)
	assert.Contains(t, scope.Countries, "JP")
}

func TestScopeFor_CachesPerEvent(t *testing.T) {
	ix := testScopeIndex(nil)

	first := ix.scopeFor(9, "Kenya Floods")
	assert.Contains(t, first.Regions, RegionAfrica)

	// A different fallback name for the same id returns the cached scope.
	second := ix.scopeFor(9, "France Heatwave")
	assert.Contains(t, second.Regions, RegionAfrica)
	assert.NotContains(t, second.Regions, RegionEurope)
}

func TestScopeFor_UnknownRegionIDDropped(t *testing.T) {
	ix := testScopeIndex(map[int]models.EventRelations{
		5: {ID: 5, RegionIDs: []int{99, 0}},
	})

	scope := ix.scopeFor(5, "")
	assert.Equal(t, map[string]struct{}{RegionAfrica: {}}, scope.Regions)
}
