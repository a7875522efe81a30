package service

import (
	"fmt"
	"time"

	"routeiq/backend/internal/domain"
)

// Stats periods.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// ActivityStats is the aggregate over the selected period.
type ActivityStats struct {
	TotalRuns          int     `json:"totalRuns"`
	TotalDistance      float64 `json:"totalDistance"`
	TotalDuration      int     `json:"totalDuration"`
	TotalElevationGain float64 `json:"totalElevationGain"`
	TotalCalories      int     `json:"totalCalories"`
	AveragePace        float64 `json:"averagePace"`
	AverageDistance    float64 `json:"averageDistance"`
}

// WeeklyStats is one 7-day bucket of the trailing 4-week breakdown.
type WeeklyStats struct {
	Week          string  `json:"week"`
	TotalRuns     int     `json:"totalRuns"`
	TotalDistance float64 `json:"totalDistance"`
	TotalDuration int     `json:"totalDuration"`
}

// resolvePeriod turns a named period into a lower time bound relative to
// now. "all" and unknown periods apply no bound unless an explicit start was
// supplied; explicit end is only honored alongside an explicit start.
func resolvePeriod(period string, start, end *time.Time, now time.Time) (from, to *time.Time, err error) {
	switch period {
	case PeriodWeek:
		t := now.AddDate(0, 0, -7)
		return &t, nil, nil
	case PeriodMonth:
		t := now.AddDate(0, -1, 0)
		return &t, nil, nil
	case PeriodYear:
		t := now.AddDate(-1, 0, 0)
		return &t, nil, nil
	case PeriodAll, "":
		if start != nil {
			return start, end, nil
		}
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown period %q", ErrValidationFailed, period)
	}
}

// computeActivityStats reduces the selected activities to their aggregate
// figures. Empty inputs yield zeroes, never errors.
func computeActivityStats(activities []domain.Activity) ActivityStats {
	stats := ActivityStats{TotalRuns: len(activities)}

	var paceSum float64
	var paceCount int
	for _, a := range activities {
		stats.TotalDistance += a.Distance
		stats.TotalDuration += a.Duration
		if a.ElevationGain != nil {
			stats.TotalElevationGain += *a.ElevationGain
		}
		if a.Calories != nil {
			stats.TotalCalories += *a.Calories
		}
		if a.AveragePace != nil {
			paceSum += *a.AveragePace
			paceCount++
		}
	}
	if paceCount > 0 {
		stats.AveragePace = paceSum / float64(paceCount)
	}
	if len(activities) > 0 {
		stats.AverageDistance = stats.TotalDistance / float64(len(activities))
	}
	return stats
}

// computeWeeklyBreakdown partitions the last 28 days before now into four
// consecutive 7-day buckets, oldest first. An activity belongs to the bucket
// whose half-open window [start, start+7d) contains its start timestamp, so
// no run is counted twice.
func computeWeeklyBreakdown(activities []domain.Activity, now time.Time) []WeeklyStats {
	breakdown := make([]WeeklyStats, 4)
	for i := 0; i < 4; i++ {
		// i=0 is the oldest bucket, [now-28d, now-21d).
		weekStart := now.AddDate(0, 0, -7*(4-i))
		weekEnd := weekStart.AddDate(0, 0, 7)

		bucket := WeeklyStats{Week: fmt.Sprintf("Week %d", i+1)}
		for _, a := range activities {
			if !a.StartedAt.Before(weekStart) && a.StartedAt.Before(weekEnd) {
				bucket.TotalRuns++
				bucket.TotalDistance += a.Distance
				bucket.TotalDuration += a.Duration
			}
		}
		breakdown[i] = bucket
	}
	return breakdown
}
