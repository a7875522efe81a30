package service

import (
	"testing"
	"time"

	"routeiq/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestExerciseTotals(t *testing.T) {
	sets := []domain.WorkoutSet{
		{Reps: 10, Weight: f64(20)},
		{Reps: 10, Weight: f64(30)},
		{Reps: 8}, // bodyweight set, no volume contribution
	}

	reps, volume, max := exerciseTotals(sets)
	assert.Equal(t, 28, reps)
	assert.Equal(t, 500.0, volume)
	require.NotNil(t, max)
	assert.Equal(t, 30.0, *max)
}

func TestExerciseTotalsNoWeights(t *testing.T) {
	sets := []domain.WorkoutSet{
		{Reps: 12},
		{Reps: 12, Weight: f64(0)},
	}

	reps, volume, max := exerciseTotals(sets)
	assert.Equal(t, 24, reps)
	assert.Equal(t, 0.0, volume)
	assert.Nil(t, max, "maxWeight must be nil when no set has weight above 0")
}

func TestRenumberSets(t *testing.T) {
	sets := []domain.WorkoutSet{
		{Set: 1, Reps: 10},
		{Set: 4, Reps: 8},
		{Set: 9, Reps: 6},
	}
	renumberSets(sets)

	for i, s := range sets {
		assert.Equal(t, i+1, s.Set)
	}
}

func TestWorkoutDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	t.Run("floors to whole seconds", func(t *testing.T) {
		end := start.Add(45*time.Minute + 30*time.Second + 700*time.Millisecond)
		d := workoutDuration(&start, &end)
		require.NotNil(t, d)
		assert.Equal(t, 45*60+30, *d)
	})

	t.Run("nil while incomplete", func(t *testing.T) {
		assert.Nil(t, workoutDuration(&start, nil))
		assert.Nil(t, workoutDuration(nil, nil))
	})

	t.Run("completion before start goes negative", func(t *testing.T) {
		end := start.Add(-90 * time.Second)
		d := workoutDuration(&start, &end)
		require.NotNil(t, d)
		assert.Equal(t, -90, *d)
	})
}

func TestAverageWorkingWeight(t *testing.T) {
	sets := []domain.WorkoutSet{
		{Reps: 10, Weight: f64(20)},
		{Reps: 10, Weight: f64(30)},
		{Reps: 8}, // ignored, no usable weight
	}
	assert.Equal(t, 25.0, averageWorkingWeight(sets))

	assert.Equal(t, 0.0, averageWorkingWeight([]domain.WorkoutSet{{Reps: 10}}))
	assert.Equal(t, 0.0, averageWorkingWeight(nil))
}

func TestRoundToHalf(t *testing.T) {
	assert.Equal(t, 26.5, roundToHalf(26.67))
	assert.Equal(t, 27.0, roundToHalf(26.8))
	assert.Equal(t, 25.0, roundToHalf(25.0))
	assert.Equal(t, 0.0, roundToHalf(0.2))
}
