// api/analytics/trends.go
package analytics

import (
	"sort"
	"strings"

	"goplatform/api/models"
)

// buildPlatformAdoption rolls the filtered rows up into per-month adoption
// counters: view-weighted active/new/returning users from the free-text
// new-vs-returning field, distinct publishing countries from event ownership
// (structured or inferred), and new-emergency creation counts. An emergency
// without a structured creation date counts in its first-seen month.
func buildPlatformAdoption(rows []models.ViewEvent, env *buildEnv) any {
	type monthAgg struct {
		active    int
		newUsers  int
		returning int
		countries map[string]struct{}
		created   int
	}
	byMonth := map[string]*monthAgg{}
	month := func(label string) *monthAgg {
		m, ok := byMonth[label]
		if !ok {
			m = &monthAgg{countries: map[string]struct{}{}}
			byMonth[label] = m
		}
		return m
	}

	firstSeen := map[int]string{}
	for _, r := range rows {
		label := monthLabel(r.Date)
		if label == "" {
			continue
		}

		m := month(label)
		m.active += r.Views
		kind := strings.ToLower(r.NewOrReturning)
		if strings.Contains(kind, "new") {
			m.newUsers += r.Views
		}
		if strings.Contains(kind, "return") {
			m.returning += r.Views
		}

		if r.EmergencyID != 0 {
			es := env.scopes.scopeFor(r.EmergencyID, r.EmergencyName)
			for iso2 := range es.Countries {
				m.countries[iso2] = struct{}{}
			}
			if prev, ok := firstSeen[r.EmergencyID]; !ok || label < prev {
				firstSeen[r.EmergencyID] = label
			}
		}
	}

	for id, seen := range firstSeen {
		created := seen
		if rel, ok := env.scopes.relations[id]; ok && !rel.CreatedAt.IsZero() {
			created = rel.CreatedAt.Format("2006-01")
		}
		month(created).created++
	}

	labels := make([]string, 0, len(byMonth))
	for label := range byMonth {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	trend := make([]models.AdoptionMonth, 0, len(labels))
	for _, label := range labels {
		m := byMonth[label]
		trend = append(trend, models.AdoptionMonth{
			Month:               label,
			ActiveUsers:         m.active,
			NewUsers:            m.newUsers,
			ReturningUsers:      m.returning,
			PublishingCountries: len(m.countries),
			NewEmergencies:      m.created,
		})
	}
	return trend
}

// buildEngagementComparison compares two caller-selected entities (countries
// or regions) across two independently selectable month ranges. Region mode
// is disabled for the country-scoped role. Month bounds are clamped to the
// months actually present in the filtered rows.
func buildEngagementComparison(rows []models.ViewEvent, env *buildEnv) any {
	mode := env.params.CmpMode
	if mode != "region" {
		mode = "country"
	}
	if env.role == RoleCountry {
		mode = "country"
	}
	cmp := models.EngagementComparison{Mode: mode, Cells: []models.ComparisonCell{}}

	minMonth, maxMonth := monthBounds(rows)
	if minMonth == "" {
		return cmp
	}

	aStart, aEnd := clampPeriod(env.params.CmpAStart, env.params.CmpAEnd, minMonth, maxMonth)
	bStart, bEnd := clampPeriod(env.params.CmpBStart, env.params.CmpBEnd, minMonth, maxMonth)

	for _, entity := range []string{env.params.CmpLeft, env.params.CmpRight} {
		entity = strings.TrimSpace(entity)
		if entity == "" {
			continue
		}
		for _, period := range [][2]string{{aStart, aEnd}, {bStart, bEnd}} {
			cmp.Cells = append(cmp.Cells, comparisonCell(rows, env.lookups, mode, entity, period[0], period[1]))
		}
	}
	return cmp
}

func comparisonCell(rows []models.ViewEvent, lk *Lookups, mode, entity, start, end string) models.ComparisonCell {
	cell := models.ComparisonCell{Entity: entity, PeriodStart: start, PeriodEnd: end}
	lower := strings.ToLower(entity)
	if mode == "country" {
		if canonical, ok := lk.NameToCanonical[lower]; ok {
			cell.Entity = canonical
		}
	}

	var weighted float64
	for _, r := range rows {
		label := monthLabel(r.Date)
		if label == "" || label < start || label > end {
			continue
		}
		if !entityMatches(r, lk, mode, lower) {
			continue
		}
		cell.Views += r.Views
		weighted += r.EngagementSecs * float64(r.Views)
	}
	cell.AvgEngagementSecs = weightedAverage(weighted, cell.Views)
	return cell
}

func entityMatches(r models.ViewEvent, lk *Lookups, mode, entityLower string) bool {
	country := strings.ToLower(r.Country)
	if mode == "region" {
		return lk.NameToRegion[country] == entityLower
	}
	return country == entityLower
}

func monthBounds(rows []models.ViewEvent) (string, string) {
	minMonth, maxMonth := "", ""
	for _, r := range rows {
		label := monthLabel(r.Date)
		if label == "" {
			continue
		}
		if minMonth == "" || label < minMonth {
			minMonth = label
		}
		if label > maxMonth {
			maxMonth = label
		}
	}
	return minMonth, maxMonth
}

// clampPeriod fills missing month bounds with the full available range,
// clamps both ends into it, and swaps a reversed pair.
func clampPeriod(start, end, minMonth, maxMonth string) (string, string) {
	start = clampMonth(start, minMonth, maxMonth, minMonth)
	end = clampMonth(end, minMonth, maxMonth, maxMonth)
	if start > end {
		start, end = end, start
	}
	return start, end
}

func clampMonth(m, minMonth, maxMonth, fallback string) string {
	m = strings.TrimSpace(m)
	if len(m) != 7 {
		return fallback
	}
	if m < minMonth {
		return minMonth
	}
	if m > maxMonth {
		return maxMonth
	}
	return m
}
