package mongo

import (
	"context"
	"log"

	"routeiq/backend/internal/domain"

	"go.mongodb.org/mongo-driver/mongo"
)

// seedExercises is the runner-focused reference library inserted when the
// exercises collection has no global entries yet.
var seedExercises = []domain.Exercise{
	// Lower body, compound
	{Name: "Back Squat", Category: domain.CategoryLowerBody, MuscleGroups: []string{"quadriceps", "glutes", "hamstrings", "core"}, Equipment: []string{"barbell", "squat_rack"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Foundation lower body exercise for building leg strength and power."},
	{Name: "Deadlift", Category: domain.CategoryLowerBody, MuscleGroups: []string{"hamstrings", "glutes", "lower_back", "core"}, Equipment: []string{"barbell"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Full posterior chain exercise, essential for running power."},
	{Name: "Bulgarian Split Squat", Category: domain.CategoryLowerBody, MuscleGroups: []string{"quadriceps", "glutes", "hamstrings"}, Equipment: []string{"dumbbells", "bench"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Unilateral leg exercise that mimics running mechanics."},
	{Name: "Walking Lunges", Category: domain.CategoryLowerBody, MuscleGroups: []string{"quadriceps", "glutes", "hamstrings"}, Equipment: []string{"dumbbells", "bodyweight"}, IsCompound: true, DifficultyLevel: "beginner", Description: "Dynamic leg exercise excellent for runners."},
	{Name: "Romanian Deadlift", Category: domain.CategoryLowerBody, MuscleGroups: []string{"hamstrings", "glutes", "lower_back"}, Equipment: []string{"barbell", "dumbbells"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Targets hamstrings and glutes for explosive running power."},
	{Name: "Box Step-Ups", Category: domain.CategoryLowerBody, MuscleGroups: []string{"quadriceps", "glutes"}, Equipment: []string{"box", "dumbbells"}, IsCompound: true, DifficultyLevel: "beginner", Description: "Unilateral exercise building single-leg strength."},

	// Lower body, isolation
	{Name: "Leg Press", Category: domain.CategoryLowerBody, MuscleGroups: []string{"quadriceps", "glutes"}, Equipment: []string{"machine"}, DifficultyLevel: "beginner", Description: "Machine-based leg exercise, safer alternative to squats."},
	{Name: "Leg Curl", Category: domain.CategoryLowerBody, MuscleGroups: []string{"hamstrings"}, Equipment: []string{"machine"}, DifficultyLevel: "beginner", Description: "Isolates hamstrings for injury prevention."},
	{Name: "Calf Raises", Category: domain.CategoryLowerBody, MuscleGroups: []string{"calves"}, Equipment: []string{"machine", "bodyweight", "dumbbells"}, DifficultyLevel: "beginner", Description: "Strengthens calves for better push-off power."},
	{Name: "Glute Bridges", Category: domain.CategoryLowerBody, MuscleGroups: []string{"glutes", "hamstrings"}, Equipment: []string{"bodyweight", "barbell"}, DifficultyLevel: "beginner", Description: "Activates and strengthens glutes for running power."},

	// Upper body, compound
	{Name: "Bench Press", Category: domain.CategoryUpperBody, MuscleGroups: []string{"chest", "triceps", "shoulders"}, Equipment: []string{"barbell", "bench"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Primary chest exercise for upper body strength."},
	{Name: "Pull-Ups", Category: domain.CategoryUpperBody, MuscleGroups: []string{"lats", "biceps", "upper_back"}, Equipment: []string{"pull_up_bar"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Essential back exercise for posture and upper body strength."},
	{Name: "Overhead Press", Category: domain.CategoryUpperBody, MuscleGroups: []string{"shoulders", "triceps", "core"}, Equipment: []string{"barbell", "dumbbells"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Builds shoulder strength and stability."},
	{Name: "Bent-Over Rows", Category: domain.CategoryUpperBody, MuscleGroups: []string{"lats", "upper_back", "biceps"}, Equipment: []string{"barbell", "dumbbells"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Strengthens back for better running posture."},
	{Name: "Dips", Category: domain.CategoryUpperBody, MuscleGroups: []string{"triceps", "chest", "shoulders"}, Equipment: []string{"dip_station", "bodyweight"}, IsCompound: true, DifficultyLevel: "intermediate", Description: "Bodyweight exercise for triceps and chest."},

	// Core
	{Name: "Plank", Category: domain.CategoryCore, MuscleGroups: []string{"abs", "core", "lower_back"}, Equipment: []string{"bodyweight"}, DifficultyLevel: "beginner", Description: "Essential core stability exercise for runners."},
	{Name: "Dead Bug", Category: domain.CategoryCore, MuscleGroups: []string{"abs", "core"}, Equipment: []string{"bodyweight"}, DifficultyLevel: "beginner", Description: "Core stability exercise that mimics running movement."},
	{Name: "Russian Twists", Category: domain.CategoryCore, MuscleGroups: []string{"obliques", "abs"}, Equipment: []string{"bodyweight", "medicine_ball"}, DifficultyLevel: "beginner", Description: "Rotational core exercise for better stability."},
	{Name: "Hanging Leg Raises", Category: domain.CategoryCore, MuscleGroups: []string{"abs", "hip_flexors"}, Equipment: []string{"pull_up_bar"}, DifficultyLevel: "advanced", Description: "Advanced ab exercise for core strength."},
	{Name: "Bird Dog", Category: domain.CategoryCore, MuscleGroups: []string{"core", "lower_back", "glutes"}, Equipment: []string{"bodyweight"}, DifficultyLevel: "beginner", Description: "Balance and stability exercise for runners."},

	// Mobility
	{Name: "Hip Flexor Stretch", Category: domain.CategoryMobility, MuscleGroups: []string{"hip_flexors"}, Equipment: []string{"bodyweight"}, DifficultyLevel: "beginner", Description: "Essential stretch for runners to prevent tightness."},
	{Name: "Foam Rolling - IT Band", Category: domain.CategoryMobility, MuscleGroups: []string{"it_band", "quads"}, Equipment: []string{"foam_roller"}, DifficultyLevel: "beginner", Description: "Self-myofascial release for IT band tightness."},
}

// SeedExerciseLibrary inserts the reference exercises when none exist yet.
// Safe to call on every startup.
func SeedExerciseLibrary(ctx context.Context, db *mongo.Database) error {
	count, err := CountSeeded(ctx, db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	repo := NewMongoExerciseRepository(db)
	for i := range seedExercises {
		ex := seedExercises[i]
		if _, err := repo.Create(ctx, &ex); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d reference exercises", len(seedExercises))
	return nil
}
