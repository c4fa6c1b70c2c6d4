// api/analytics/spikes.go
package analytics

import (
	"math"
	"sort"
	"time"

	"goplatform/api/models"
)

// Spike detector tuning. A day is flagged only when all three gates pass:
// the z-score against the trailing baseline, an absolute view floor, and an
// absolute delta over the baseline mean.
const (
	spikeWindowDays  = 14
	spikeMinHistory  = 5
	spikeMinNonzero  = 3
	spikeStddevFloor = 1.0
	spikeZThreshold  = 3.5
	spikeMinViews    = 200
	spikeMinDelta    = 20.0
)

const maxSpikes = 10

func buildLiveSpikes(rows []models.ViewEvent, env *buildEnv) any {
	return detectSpikes(rows, env)
}

// detectSpikes builds a dense daily view series per emergency (zero-filled
// gap days between its first and last observed day) and flags days whose
// value breaks out of the trailing 14-day baseline. Baseline mean/stddev
// prefer non-zero history points when at least 3 exist; the stddev is
// floored at 1.0 to keep flat series from dividing by near-zero.
func detectSpikes(rows []models.ViewEvent, env *buildEnv) []models.Spike {
	type series struct {
		id    int
		name  string
		daily map[string]int
		first time.Time
		last  time.Time
	}
	order := []int{}
	byEvent := map[int]*series{}

	for _, r := range rows {
		if r.EmergencyID == 0 || r.Date == "" {
			continue
		}
		day, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		s, ok := byEvent[r.EmergencyID]
		if !ok {
			s = &series{
				id:    r.EmergencyID,
				name:  env.scopes.eventName(r.EmergencyID, r.EmergencyName),
				daily: map[string]int{},
				first: day,
				last:  day,
			}
			byEvent[r.EmergencyID] = s
			order = append(order, r.EmergencyID)
		}
		s.daily[r.Date] += r.Views
		if day.Before(s.first) {
			s.first = day
		}
		if day.After(s.last) {
			s.last = day
		}
	}

	spikes := []models.Spike{}
	for _, id := range order {
		s := byEvent[id]

		values := []int{}
		labels := []string{}
		for day := s.first; !day.After(s.last); day = day.AddDate(0, 0, 1) {
			label := day.Format("2006-01-02")
			labels = append(labels, label)
			values = append(values, s.daily[label])
		}

		for i := range values {
			start := i - spikeWindowDays
			if start < 0 {
				start = 0
			}
			history := values[start:i]
			if len(history) < spikeMinHistory {
				continue
			}

			points := nonzero(history)
			if len(points) < spikeMinNonzero {
				points = history
			}
			mean, stddev := meanStddev(points)
			if stddev < spikeStddevFloor {
				stddev = spikeStddevFloor
			}

			v := float64(values[i])
			z := (v - mean) / stddev
			if z >= spikeZThreshold && values[i] >= spikeMinViews && v-mean >= spikeMinDelta {
				spikes = append(spikes, models.Spike{
					EmergencyID: s.id,
					Name:        s.name,
					Date:        labels[i],
					Views:       values[i],
					Baseline:    round2(mean),
					ZScore:      round2(z),
				})
			}
		}
	}

	sort.SliceStable(spikes, func(i, j int) bool {
		if spikes[i].ZScore != spikes[j].ZScore {
			return spikes[i].ZScore > spikes[j].ZScore
		}
		return spikes[i].Views > spikes[j].Views
	})
	if len(spikes) > maxSpikes {
		spikes = spikes[:maxSpikes]
	}
	return spikes
}

func nonzero(values []int) []int {
	out := []int{}
	for _, v := range values {
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}

func meanStddev(values []int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
