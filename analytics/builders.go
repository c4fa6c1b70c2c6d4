// api/analytics/builders.go
package analytics

import (
	"sort"
	"strings"
	"time"

	"goplatform/api/models"
)

// Every builder is a pure function of the filtered rows; all of them return
// empty containers on empty input and none fail on missing optional fields.

func buildOverview(rows []models.ViewEvent, env *buildEnv) any {
	ov := models.Overview{}
	pages := map[string]struct{}{}
	countries := map[string]struct{}{}
	active := map[int]struct{}{}
	var weighted float64

	for _, r := range rows {
		ov.TotalViews += r.Views
		ov.TotalDownloads += r.Downloads
		weighted += r.EngagementSecs * float64(r.Views)
		pages[r.PageURL] = struct{}{}
		if r.Country != "" {
			countries[strings.ToLower(r.Country)] = struct{}{}
		}
		if r.IsActive && r.EmergencyID != 0 {
			active[r.EmergencyID] = struct{}{}
		}
	}

	ov.AvgEngagementSecs = weightedAverage(weighted, ov.TotalViews)
	ov.DistinctPages = len(pages)
	ov.DistinctCountries = len(countries)
	ov.ActiveEmergencies = len(active)
	return ov
}

// buildViewsByDate buckets views by day when the requested date range sits
// inside a single month, otherwise by month. The caller-supplied date range
// applies to this series independently of the scope filter.
func buildViewsByDate(rows []models.ViewEvent, env *buildEnv) any {
	start, end := env.params.StartDate, env.params.EndDate
	byDay := start != "" && end != "" && monthLabel(start) == monthLabel(end)

	sums := map[string]int{}
	for _, r := range rows {
		if r.Date == "" {
			continue
		}
		if start != "" && r.Date < start {
			continue
		}
		if end != "" && r.Date > end {
			continue
		}
		label := r.Date
		if !byDay {
			label = monthLabel(r.Date)
		}
		sums[label] += r.Views
	}

	labels := make([]string, 0, len(sums))
	for label := range sums {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := make([]models.DateBucket, 0, len(labels))
	for _, label := range labels {
		series = append(series, models.DateBucket{Label: label, Views: sums[label]})
	}
	return series
}

func buildTopPages(rows []models.ViewEvent, env *buildEnv) any {
	return topN(sumViewsBy(rows, func(r models.ViewEvent) string { return r.PageURL }), 10)
}

func buildTopCountries(rows []models.ViewEvent, env *buildEnv) any {
	return topN(sumViewsBy(rows, func(r models.ViewEvent) string {
		if r.Country == "" {
			return "unknown"
		}
		return r.Country
	}), 10)
}

func buildMapHeatmap(rows []models.ViewEvent, env *buildEnv) any {
	order := []string{}
	sums := map[string]*models.CountryHeat{}
	for _, r := range rows {
		if r.CountryISO == "" {
			continue
		}
		cell, ok := sums[r.CountryISO]
		if !ok {
			cell = &models.CountryHeat{ISO2: r.CountryISO, Name: r.Country}
			sums[r.CountryISO] = cell
			order = append(order, r.CountryISO)
		}
		cell.Views += r.Views
	}

	heat := make([]models.CountryHeat, 0, len(order))
	for _, iso := range order {
		heat = append(heat, *sums[iso])
	}
	sort.SliceStable(heat, func(i, j int) bool { return heat[i].Views > heat[j].Views })
	return heat
}

func buildEngagementPerformance(rows []models.ViewEvent, env *buildEnv) any {
	type agg struct {
		perf     models.EventEngagement
		weighted float64
	}
	order := []int{}
	byEvent := map[int]*agg{}

	cutoff := last30Cutoff(rows)
	for _, r := range rows {
		if r.EmergencyID == 0 {
			continue
		}
		a, ok := byEvent[r.EmergencyID]
		if !ok {
			a = &agg{perf: models.EventEngagement{
				EmergencyID: r.EmergencyID,
				Name:        env.scopes.eventName(r.EmergencyID, r.EmergencyName),
			}}
			byEvent[r.EmergencyID] = a
			order = append(order, r.EmergencyID)
		}
		a.perf.Views += r.Views
		a.perf.Downloads += r.Downloads
		a.weighted += r.EngagementSecs * float64(r.Views)
		if cutoff != "" && r.Date > cutoff {
			a.perf.ViewsLast30Days += r.Views
		}
	}

	perf := make([]models.EventEngagement, 0, len(order))
	for _, id := range order {
		a := byEvent[id]
		a.perf.AvgEngagementSecs = weightedAverage(a.weighted, a.perf.Views)
		perf = append(perf, a.perf)
	}
	sort.SliceStable(perf, func(i, j int) bool { return perf[i].Views > perf[j].Views })
	return perf
}

func buildAudienceInsights(rows []models.ViewEvent, env *buildEnv) any {
	key := func(s string) string {
		if s == "" {
			return "unknown"
		}
		return s
	}
	return models.AudienceInsights{
		Devices:          sumViewsBy(rows, func(r models.ViewEvent) string { return key(r.Device) }),
		Browsers:         sumViewsBy(rows, func(r models.ViewEvent) string { return key(r.Browser) }),
		OperatingSystems: sumViewsBy(rows, func(r models.ViewEvent) string { return key(r.OS) }),
		Sources:          sumViewsBy(rows, func(r models.ViewEvent) string { return key(r.SessionSource) }),
	}
}

func buildLiveMonitoring(rows []models.ViewEvent, env *buildEnv) any {
	type agg struct {
		live    models.LiveEmergency
		daily   map[string]int
		sources map[string]int
	}
	order := []int{}
	byEvent := map[int]*agg{}

	for _, r := range rows {
		if !r.IsActive || r.EmergencyID == 0 {
			continue
		}
		a, ok := byEvent[r.EmergencyID]
		if !ok {
			a = &agg{
				live: models.LiveEmergency{
					EmergencyID: r.EmergencyID,
					Name:        env.scopes.eventName(r.EmergencyID, r.EmergencyName),
				},
				daily:   map[string]int{},
				sources: map[string]int{},
			}
			byEvent[r.EmergencyID] = a
			order = append(order, r.EmergencyID)
		}
		a.live.TotalViews += r.Views
		if r.Date != "" {
			a.daily[r.Date] += r.Views
			if r.Date > a.live.LatestDate {
				a.live.LatestDate = r.Date
			}
		}
		if r.SessionSource != "" {
			a.sources[r.SessionSource] += r.Views
		}
	}

	live := make([]models.LiveEmergency, 0, len(order))
	for _, id := range order {
		a := byEvent[id]
		a.live.LatestViews = a.daily[a.live.LatestDate]
		a.live.TopSource, _ = dominantKey(a.sources)
		live = append(live, a.live)
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].TotalViews > live[j].TotalViews })
	return live
}

func buildMetadataLookup(rows []models.ViewEvent, env *buildEnv) any {
	type dayAgg struct {
		views     int
		downloads int
		weighted  float64
	}
	type agg struct {
		meta    models.EventMetadata
		days    map[string]*dayAgg
		sources map[string]int
	}
	order := []int{}
	byEvent := map[int]*agg{}

	for _, r := range rows {
		if r.EmergencyID == 0 {
			continue
		}
		a, ok := byEvent[r.EmergencyID]
		if !ok {
			a = &agg{
				meta: models.EventMetadata{
					EmergencyID: r.EmergencyID,
					Name:        env.scopes.eventName(r.EmergencyID, r.EmergencyName),
				},
				days:    map[string]*dayAgg{},
				sources: map[string]int{},
			}
			byEvent[r.EmergencyID] = a
			order = append(order, r.EmergencyID)
		}
		a.meta.TotalViews += r.Views
		if r.SessionSource != "" {
			a.sources[r.SessionSource] += r.Views
		}
		if r.Date == "" {
			continue
		}
		d, ok := a.days[r.Date]
		if !ok {
			d = &dayAgg{}
			a.days[r.Date] = d
		}
		d.views += r.Views
		d.downloads += r.Downloads
		d.weighted += r.EngagementSecs * float64(r.Views)
		if r.Date > a.meta.LatestDate {
			a.meta.LatestDate = r.Date
		}
	}

	meta := make([]models.EventMetadata, 0, len(order))
	for _, id := range order {
		a := byEvent[id]
		if d, ok := a.days[a.meta.LatestDate]; ok {
			a.meta.LatestViews = d.views
			a.meta.LatestDownloads = d.downloads
			a.meta.AvgEngagementSecs = weightedAverage(d.weighted, d.views)
		}
		top, views := dominantKey(a.sources)
		a.meta.TopSource = top
		if a.meta.TotalViews > 0 {
			a.meta.TopSourceShare = round2(float64(views) / float64(a.meta.TotalViews))
		}
		meta = append(meta, a.meta)
	}
	sort.SliceStable(meta, func(i, j int) bool { return meta[i].TotalViews > meta[j].TotalViews })
	return meta
}

// sumViewsBy groups views by a key, preserving first-encounter order for
// stable top-N ties.
func sumViewsBy(rows []models.ViewEvent, keyFn func(models.ViewEvent) string) []models.KeyViews {
	order := []string{}
	sums := map[string]int{}
	for _, r := range rows {
		k := keyFn(r)
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += r.Views
	}

	grouped := make([]models.KeyViews, 0, len(order))
	for _, k := range order {
		grouped = append(grouped, models.KeyViews{Key: k, Views: sums[k]})
	}
	return grouped
}

func topN(grouped []models.KeyViews, n int) []models.KeyViews {
	sort.SliceStable(grouped, func(i, j int) bool { return grouped[i].Views > grouped[j].Views })
	if len(grouped) > n {
		grouped = grouped[:n]
	}
	return grouped
}

// dominantKey returns the highest-summing key of a counter; ties resolve to
// the lexicographically smaller key so output is deterministic.
func dominantKey(counts map[string]int) (string, int) {
	best, bestViews := "", -1
	for k, v := range counts {
		if v > bestViews || (v == bestViews && k < best) {
			best, bestViews = k, v
		}
	}
	if bestViews < 0 {
		return "", 0
	}
	return best, bestViews
}

// last30Cutoff returns the exclusive lower bound of the trailing 30-day
// window relative to the maximum date in the filtered set, or "" when no row
// carries a date.
func last30Cutoff(rows []models.ViewEvent) string {
	maxDay := ""
	for _, r := range rows {
		if r.Date > maxDay {
			maxDay = r.Date
		}
	}
	if maxDay == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", maxDay)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -30).Format("2006-01-02")
}

func weightedAverage(weighted float64, views int) float64 {
	if views <= 0 {
		return 0
	}
	return round2(weighted / float64(views))
}

func round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }
