package service

import (
	"testing"
	"time"

	"routeiq/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("week", func(t *testing.T) {
		from, to, err := resolvePeriod(PeriodWeek, nil, nil, now)
		require.NoError(t, err)
		require.NotNil(t, from)
		assert.Equal(t, now.AddDate(0, 0, -7), *from)
		assert.Nil(t, to)
	})

	t.Run("month", func(t *testing.T) {
		from, _, err := resolvePeriod(PeriodMonth, nil, nil, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, -1, 0), *from)
	})

	t.Run("year", func(t *testing.T) {
		from, _, err := resolvePeriod(PeriodYear, nil, nil, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(-1, 0, 0), *from)
	})

	t.Run("all is unbounded", func(t *testing.T) {
		from, to, err := resolvePeriod(PeriodAll, nil, nil, now)
		require.NoError(t, err)
		assert.Nil(t, from)
		assert.Nil(t, to)
	})

	t.Run("explicit range", func(t *testing.T) {
		start := now.AddDate(0, 0, -10)
		end := now.AddDate(0, 0, -3)
		from, to, err := resolvePeriod("", &start, &end, now)
		require.NoError(t, err)
		assert.Equal(t, &start, from)
		assert.Equal(t, &end, to)
	})

	t.Run("unknown period", func(t *testing.T) {
		_, _, err := resolvePeriod("fortnight", nil, nil, now)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestComputeActivityStats(t *testing.T) {
	activities := []domain.Activity{
		{Distance: 5000, Duration: 1500, ElevationGain: f64(40), Calories: intp(350), AveragePace: f64(300)},
		{Distance: 10000, Duration: 3300, Calories: intp(700), AveragePace: f64(330)},
		{Distance: 3000, Duration: 1000}, // no pace reported
	}

	stats := computeActivityStats(activities)
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 18000.0, stats.TotalDistance)
	assert.Equal(t, 5800, stats.TotalDuration)
	assert.Equal(t, 40.0, stats.TotalElevationGain)
	assert.Equal(t, 1050, stats.TotalCalories)
	assert.Equal(t, 6000.0, stats.AverageDistance)
	// Pace averages only over activities that reported one.
	assert.Equal(t, 315.0, stats.AveragePace)
}

func TestComputeActivityStatsEmpty(t *testing.T) {
	stats := computeActivityStats(nil)
	assert.Equal(t, 0, stats.TotalRuns)
	assert.Equal(t, 0.0, stats.AveragePace)
	assert.Equal(t, 0.0, stats.AverageDistance)
}

func TestComputeWeeklyBreakdown(t *testing.T) {
	now := time.Date(2026, 3, 28, 10, 0, 0, 0, time.UTC)

	run := func(daysAgo int, distance float64) domain.Activity {
		return domain.Activity{
			StartedAt: now.AddDate(0, 0, -daysAgo),
			Distance:  distance,
			Duration:  1800,
		}
	}
	activities := []domain.Activity{
		run(26, 5000), // week 1
		run(20, 8000), // week 2
		run(15, 6000), // week 2
		run(10, 7000), // week 3
		run(2, 10000), // week 4
	}

	breakdown := computeWeeklyBreakdown(activities, now)
	require.Len(t, breakdown, 4)

	assert.Equal(t, "Week 1", breakdown[0].Week)
	assert.Equal(t, "Week 4", breakdown[3].Week)

	assert.Equal(t, 1, breakdown[0].TotalRuns)
	assert.Equal(t, 5000.0, breakdown[0].TotalDistance)
	assert.Equal(t, 2, breakdown[1].TotalRuns)
	assert.Equal(t, 14000.0, breakdown[1].TotalDistance)
	assert.Equal(t, 1, breakdown[2].TotalRuns)
	assert.Equal(t, 1, breakdown[3].TotalRuns)

	// Every run lands in exactly one bucket.
	var totalRuns int
	for _, b := range breakdown {
		totalRuns += b.TotalRuns
	}
	assert.Equal(t, len(activities), totalRuns)
}

func TestComputeWeeklyBreakdownBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC)

	onBoundary := domain.Activity{StartedAt: now.AddDate(0, 0, -21), Distance: 5000, Duration: 1800}
	breakdown := computeWeeklyBreakdown([]domain.Activity{onBoundary}, now)

	// A run exactly on a bucket boundary belongs to the later bucket.
	assert.Equal(t, 0, breakdown[0].TotalRuns)
	assert.Equal(t, 1, breakdown[1].TotalRuns)

	tooOld := domain.Activity{StartedAt: now.AddDate(0, 0, -30), Distance: 5000, Duration: 1800}
	breakdown = computeWeeklyBreakdown([]domain.Activity{tooOld}, now)
	for _, b := range breakdown {
		assert.Equal(t, 0, b.TotalRuns)
	}
}
