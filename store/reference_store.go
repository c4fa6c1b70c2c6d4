// api/store/reference_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"goplatform/api/models"
)

// ReferenceStore serves the country/region/event reference data the
// analytics pipeline resolves scopes against. It satisfies
// analytics.ReferenceSource.
type ReferenceStore struct {
	db *sql.DB
}

func NewReferenceStore(db *sql.DB) *ReferenceStore {
	return &ReferenceStore{db: db}
}

// Countries returns the full country snapshot (name, ISO codes, numeric
// region id). Rows that fail to scan are skipped rather than failing the
// snapshot.
func (s *ReferenceStore) Countries(ctx context.Context) ([]models.Country, error) {
	query := `
		SELECT name, iso2, iso3, region_id
		FROM countries
		ORDER BY name;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	countries := []models.Country{}
	for rows.Next() {
		var c models.Country
		var regionID sql.NullInt64
		if err := rows.Scan(&c.Name, &c.ISO2, &c.ISO3, &regionID); err != nil {
			log.Printf("Error scanning country row: %v", err)
			continue
		}
		if regionID.Valid {
			c.RegionID = int(regionID.Int64)
		} else {
			c.RegionID = -1 // no region; dropped from region mappings
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during country query: %w", err)
	}

	return countries, nil
}

// EventRelations bulk-fetches the emergencies referenced by the loaded fact
// rows together with their structured region/country links. Events missing
// from the store simply have no entry; the caller falls back to name
// inference.
func (s *ReferenceStore) EventRelations(ctx context.Context, eventIDs []int) (map[int]models.EventRelations, error) {
	relations := map[int]models.EventRelations{}
	if len(eventIDs) == 0 {
		return relations, nil
	}

	ids := make([]int64, 0, len(eventIDs))
	for _, id := range eventIDs {
		ids = append(ids, int64(id))
	}

	eventQuery := `
		SELECT id, name, is_active, created_at
		FROM events
		WHERE id = ANY($1);
	`
	rows, err := s.db.QueryContext(ctx, eventQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rel models.EventRelations
		if err := rows.Scan(&rel.ID, &rel.Name, &rel.IsActive, &rel.CreatedAt); err != nil {
			log.Printf("Error scanning event row: %v", err)
			continue
		}
		relations[rel.ID] = rel
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event query: %w", err)
	}

	regionQuery := `
		SELECT event_id, region_id
		FROM event_regions
		WHERE event_id = ANY($1);
	`
	regionRows, err := s.db.QueryContext(ctx, regionQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query event regions: %w", err)
	}
	defer regionRows.Close()

	for regionRows.Next() {
		var eventID, regionID int
		if err := regionRows.Scan(&eventID, &regionID); err != nil {
			log.Printf("Error scanning event region row: %v", err)
			continue
		}
		rel := relations[eventID]
		rel.ID = eventID
		rel.RegionIDs = append(rel.RegionIDs, regionID)
		relations[eventID] = rel
	}
	if err := regionRows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event region query: %w", err)
	}

	countryQuery := `
		SELECT event_id, country_iso2
		FROM event_countries
		WHERE event_id = ANY($1);
	`
	countryRows, err := s.db.QueryContext(ctx, countryQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query event countries: %w", err)
	}
	defer countryRows.Close()

	for countryRows.Next() {
		var eventID int
		var iso2 string
		if err := countryRows.Scan(&eventID, &iso2); err != nil {
			log.Printf("Error scanning event country row: %v", err)
			continue
		}
		rel := relations[eventID]
		rel.ID = eventID
		rel.CountryISO2s = append(rel.CountryISO2s, iso2)
		relations[eventID] = rel
	}
	if err := countryRows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event country query: %w", err)
	}

	return relations, nil
}
