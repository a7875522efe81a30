package service

import (
	"math"
	"time"

	"routeiq/backend/internal/domain"
)

// exerciseTotals derives the per-entry aggregates from a set list.
// Missing weights count as 0 toward volume; maxWeight is nil when no set
// recorded a weight above 0.
func exerciseTotals(sets []domain.WorkoutSet) (totalReps int, totalVolume float64, maxWeight *float64) {
	var max float64
	for _, set := range sets {
		w := 0.0
		if set.Weight != nil {
			w = *set.Weight
		}
		totalReps += set.Reps
		totalVolume += w * float64(set.Reps)
		if w > max {
			max = w
		}
	}
	if max > 0 {
		maxWeight = &max
	}
	return totalReps, totalVolume, maxWeight
}

// renumberSets rewrites set numbers to a dense 1..N in the order given, so
// removals on the client never leave gaps.
func renumberSets(sets []domain.WorkoutSet) {
	for i := range sets {
		sets[i].Set = i + 1
	}
}

// workoutDuration computes the total workout duration in whole seconds, or
// nil while the workout is not completed. A completion before the start
// yields a negative duration; that is stored as-is.
func workoutDuration(startedAt, completedAt *time.Time) *int {
	if startedAt == nil || completedAt == nil {
		return nil
	}
	d := int(math.Floor(completedAt.Sub(*startedAt).Seconds()))
	return &d
}

// averageWorkingWeight is the arithmetic mean of the weights above 0 in the
// set list, or 0 when no set carries a usable weight.
func averageWorkingWeight(sets []domain.WorkoutSet) float64 {
	var sum float64
	var n int
	for _, set := range sets {
		if set.Weight != nil && *set.Weight > 0 {
			sum += *set.Weight
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// roundToHalf rounds a weight to the nearest 0.5 kg.
func roundToHalf(w float64) float64 {
	return math.Round(w*2) / 2
}
