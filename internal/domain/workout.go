package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseStatus tracks the execution state of a single exercise entry while
// a workout is being performed.
type ExerciseStatus string

const (
	ExercisePending     ExerciseStatus = "pending"
	ExerciseSkipped     ExerciseStatus = "skipped"
	ExerciseSubstituted ExerciseStatus = "substituted"
	ExerciseCompleted   ExerciseStatus = "completed"
)

// WorkoutSet is one performed (or planned) set of an exercise.
// Set numbers are dense 1..N within their parent entry.
type WorkoutSet struct {
	Set         int      `bson:"set" json:"set"`
	Reps        int      `bson:"reps" json:"reps"`
	Weight      *float64 `bson:"weight,omitempty" json:"weight,omitempty"` // kilograms
	RestSeconds *int     `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	RPE         *int     `bson:"rpe,omitempty" json:"rpe,omitempty"` // 1..10
	Notes       string   `bson:"notes,omitempty" json:"notes,omitempty"`
	Completed   *bool    `bson:"completed,omitempty" json:"completed,omitempty"` // execute mode only
}

// WorkoutExercise links a workout to one exercise with its sets and the
// derived totals computed at log time.
type WorkoutExercise struct {
	ExerciseID          primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	ExerciseOrder       int                `bson:"exerciseOrder" json:"exerciseOrder"` // dense 1..N within the workout
	Sets                []WorkoutSet       `bson:"sets" json:"sets"`
	TotalSets           int                `bson:"totalSets" json:"totalSets"`
	TotalReps           int                `bson:"totalReps" json:"totalReps"`
	TotalVolume         float64            `bson:"totalVolume" json:"totalVolume"` // Σ weight×reps, kg
	MaxWeight           *float64           `bson:"maxWeight,omitempty" json:"maxWeight,omitempty"`
	Status              ExerciseStatus     `bson:"status" json:"status"`
	ProgressiveOverload bool               `bson:"progressiveOverload" json:"progressiveOverload"`
	Notes               string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Workout is either a logged (executed) strength session or, when IsTemplate
// is set, a reusable plan with no start/completion timestamps.
type Workout struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Name            string             `bson:"name,omitempty" json:"name,omitempty"`
	WorkoutType     string             `bson:"workoutType,omitempty" json:"workoutType,omitempty"`
	StartedAt       *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt     *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	TotalDuration   *int               `bson:"totalDuration,omitempty" json:"totalDuration,omitempty"` // whole seconds
	TotalVolume     float64            `bson:"totalVolume" json:"totalVolume"`
	TotalReps       int                `bson:"totalReps" json:"totalReps"`
	PerceivedEffort *int               `bson:"perceivedEffort,omitempty" json:"perceivedEffort,omitempty"` // 1..10
	EnergyLevel     *int               `bson:"energyLevel,omitempty" json:"energyLevel,omitempty"`         // 1..10
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Location        string             `bson:"location,omitempty" json:"location,omitempty"`
	IsTemplate      bool               `bson:"isTemplate" json:"isTemplate"`
	Exercises       []WorkoutExercise  `bson:"exercises" json:"exercises"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutDraft is the single in-progress workout a user may have parked.
// Loaded when the client starts a session, cleared on submit or cancel.
type WorkoutDraft struct {
	UserID      primitive.ObjectID `bson:"_id" json:"userId"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	WorkoutType string             `bson:"workoutType,omitempty" json:"workoutType,omitempty"`
	StartedAt   *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	Exercises   []WorkoutExercise  `bson:"exercises" json:"exercises"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	SavedAt     time.Time          `bson:"savedAt" json:"savedAt"`
}
