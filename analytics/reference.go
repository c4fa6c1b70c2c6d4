// api/analytics/reference.go
package analytics

import (
	"context"
	"strings"

	"goplatform/api/models"
)

// Region codes are a fixed 5-value enumeration matching the reference
// store's numeric region ids.
const (
	RegionAfrica      = "africa"
	RegionAmericas    = "americas"
	RegionAsiaPacific = "asia-pacific"
	RegionEurope      = "europe"
	RegionMENA        = "middle-east-north-africa"
)

// ReferenceSource is the external reference-data collaborator: country
// records and bulk event relations. Its consistency during a request is the
// collaborator's responsibility.
type ReferenceSource interface {
	Countries(ctx context.Context) ([]models.Country, error)
	EventRelations(ctx context.Context, eventIDs []int) (map[int]models.EventRelations, error)
}

// regionIDToCode maps the reference store's numeric region id to a region
// code. An unrecognized id maps to "" and the country is dropped from the
// region mappings.
func regionIDToCode(id int) string {
	switch id {
	case 0:
		return RegionAfrica
	case 1:
		return RegionAmericas
	case 2:
		return RegionAsiaPacific
	case 3:
		return RegionEurope
	case 4:
		return RegionMENA
	default:
		return ""
	}
}

// Lookups holds the pure country/region cross-maps built once per request
// from the reference snapshot. All keys are case/whitespace normalized at
// build time; ISO keys are upper-cased.
type Lookups struct {
	NameToRegion    map[string]string // lower name -> region code
	ISO2ToRegion    map[string]string
	ISO3ToRegion    map[string]string
	ISO2ToName      map[string]string // ISO2 -> canonical display name
	ISO2ToISO3      map[string]string
	NameToCanonical map[string]string // lower name -> canonical display name
	NameToISO2      map[string]string // lower name -> ISO2, used by row enrichment
}

// BuildLookups builds the lookup tables from a country snapshot. An empty
// snapshot yields empty (non-nil) maps.
func BuildLookups(countries []models.Country) *Lookups {
	lk := &Lookups{
		NameToRegion:    map[string]string{},
		ISO2ToRegion:    map[string]string{},
		ISO3ToRegion:    map[string]string{},
		ISO2ToName:      map[string]string{},
		ISO2ToISO3:      map[string]string{},
		NameToCanonical: map[string]string{},
		NameToISO2:      map[string]string{},
	}

	for _, c := range countries {
		name := strings.TrimSpace(c.Name)
		iso2 := strings.ToUpper(strings.TrimSpace(c.ISO2))
		iso3 := strings.ToUpper(strings.TrimSpace(c.ISO3))
		lower := strings.ToLower(name)

		if name != "" {
			lk.NameToCanonical[lower] = name
			if iso2 != "" {
				lk.NameToISO2[lower] = iso2
			}
		}
		if iso2 != "" {
			if name != "" {
				lk.ISO2ToName[iso2] = name
			}
			if iso3 != "" {
				lk.ISO2ToISO3[iso2] = iso3
			}
		}

		region := regionIDToCode(c.RegionID)
		if region == "" {
			continue
		}
		if name != "" {
			lk.NameToRegion[lower] = region
		}
		if iso2 != "" {
			lk.ISO2ToRegion[iso2] = region
		}
		if iso3 != "" {
			lk.ISO3ToRegion[iso3] = region
		}
	}

	return lk
}
