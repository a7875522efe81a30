package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrDraftNotFound   = errors.New("no workout draft saved")
)

// SetInput is one submitted set. The set number is recomputed server-side.
type SetInput struct {
	Reps        int
	Weight      *float64
	RestSeconds *int
	RPE         *int
	Notes       string
	Completed   *bool
}

// ExerciseEntryInput is one submitted exercise entry of a workout.
type ExerciseEntryInput struct {
	ExerciseID          primitive.ObjectID
	Sets                []SetInput
	Notes               string
	Status              domain.ExerciseStatus
	ProgressiveOverload bool
}

// WorkoutInput is the submitted shape of a workout or template.
type WorkoutInput struct {
	Name            string
	WorkoutType     string
	StartedAt       *time.Time
	CompletedAt     *time.Time
	PerceivedEffort *int
	EnergyLevel     *int
	Notes           string
	Location        string
	Exercises       []ExerciseEntryInput
}

// WeightSuggestion is the progressive-overload advisory result. A zero
// Suggested with nil LastWorkoutDate means the user has no history for the
// exercise.
type WeightSuggestion struct {
	Suggested       float64    `json:"suggestedWeight"`
	LastWorkoutDate *time.Time `json:"lastWorkoutDate"`
}

type WorkoutService interface {
	LogWorkout(ctx context.Context, userID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error)
	CreateTemplate(ctx context.Context, userID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, userID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.Workout, int64, error)
	ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, update WorkoutUpdate) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error
	SuggestNextWeight(ctx context.Context, userID, exerciseID primitive.ObjectID) (WeightSuggestion, error)
	GetDraft(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutDraft, error)
	SaveDraft(ctx context.Context, userID primitive.ObjectID, draft *domain.WorkoutDraft) error
	ClearDraft(ctx context.Context, userID primitive.ObjectID) error
}

// WorkoutUpdate carries the metadata fields editable after logging. Nil
// fields are left unchanged. Exercise entries and derived totals are
// immutable once logged.
type WorkoutUpdate struct {
	Name            *string
	WorkoutType     *string
	PerceivedEffort *int
	EnergyLevel     *int
	Notes           *string
	Location        *string
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	draftRepo    repository.DraftRepository
	userRepo     repository.UserRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	draftRepo repository.DraftRepository,
	userRepo repository.UserRepository,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		draftRepo:    draftRepo,
		userRepo:     userRepo,
	}
}

// LogWorkout validates the submission, computes the derived totals and
// persists the workout as an execution record.
func (s *workoutService) LogWorkout(ctx context.Context, userID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error) {
	if input.StartedAt == nil {
		return nil, fmt.Errorf("%w: startedAt is required for a logged workout", ErrValidationFailed)
	}
	workout, err := s.buildWorkout(ctx, userID, input, false)
	if err != nil {
		return nil, err
	}

	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = id

	// The client submitted its draft; the parked copy is stale now.
	_ = s.draftRepo.Clear(ctx, userID)

	return workout, nil
}

// CreateTemplate persists a reusable plan. Timestamps are ignored and no
// duration is derived.
func (s *workoutService) CreateTemplate(ctx context.Context, userID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error) {
	input.StartedAt = nil
	input.CompletedAt = nil
	workout, err := s.buildWorkout(ctx, userID, input, true)
	if err != nil {
		return nil, err
	}

	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = id
	return workout, nil
}

// buildWorkout validates the exercise entries against the library and
// assembles the workout document with all derived figures.
func (s *workoutService) buildWorkout(ctx context.Context, userID primitive.ObjectID, input WorkoutInput, isTemplate bool) (*domain.Workout, error) {
	if len(input.Exercises) == 0 {
		return nil, fmt.Errorf("%w: workout requires at least one exercise", ErrValidationFailed)
	}
	for _, entry := range input.Exercises {
		if len(entry.Sets) == 0 {
			return nil, fmt.Errorf("%w: each exercise requires at least one set", ErrValidationFailed)
		}
		for _, set := range entry.Sets {
			if set.Reps <= 0 {
				return nil, fmt.Errorf("%w: set reps must be positive", ErrValidationFailed)
			}
			if set.Weight != nil && *set.Weight < 0 {
				return nil, fmt.Errorf("%w: set weight cannot be negative", ErrValidationFailed)
			}
			if set.RPE != nil && (*set.RPE < 1 || *set.RPE > 10) {
				return nil, fmt.Errorf("%w: rpe must be between 1 and 10", ErrValidationFailed)
			}
		}
	}

	if err := s.verifyExercisesVisible(ctx, userID, input.Exercises); err != nil {
		return nil, err
	}

	exercises, totalVolume, totalReps := buildExerciseEntries(input.Exercises)

	return &domain.Workout{
		UserID:          userID,
		Name:            input.Name,
		WorkoutType:     input.WorkoutType,
		StartedAt:       input.StartedAt,
		CompletedAt:     input.CompletedAt,
		TotalDuration:   workoutDuration(input.StartedAt, input.CompletedAt),
		TotalVolume:     totalVolume,
		TotalReps:       totalReps,
		PerceivedEffort: input.PerceivedEffort,
		EnergyLevel:     input.EnergyLevel,
		Notes:           input.Notes,
		Location:        input.Location,
		IsTemplate:      isTemplate,
		Exercises:       exercises,
	}, nil
}

// buildExerciseEntries converts the submitted entries into stored ones with
// dense ordering and derived totals, and returns the workout-level sums.
func buildExerciseEntries(inputs []ExerciseEntryInput) ([]domain.WorkoutExercise, float64, int) {
	var workoutVolume float64
	var workoutReps int

	entries := make([]domain.WorkoutExercise, len(inputs))
	for i, in := range inputs {
		sets := make([]domain.WorkoutSet, len(in.Sets))
		for j, setIn := range in.Sets {
			sets[j] = domain.WorkoutSet{
				Reps:        setIn.Reps,
				Weight:      setIn.Weight,
				RestSeconds: setIn.RestSeconds,
				RPE:         setIn.RPE,
				Notes:       setIn.Notes,
				Completed:   setIn.Completed,
			}
		}
		renumberSets(sets)

		totalReps, totalVolume, maxWeight := exerciseTotals(sets)
		workoutVolume += totalVolume
		workoutReps += totalReps

		status := in.Status
		if status == "" {
			status = domain.ExercisePending
		}

		entries[i] = domain.WorkoutExercise{
			ExerciseID:          in.ExerciseID,
			ExerciseOrder:       i + 1,
			Sets:                sets,
			TotalSets:           len(sets),
			TotalReps:           totalReps,
			TotalVolume:         totalVolume,
			MaxWeight:           maxWeight,
			Status:              status,
			ProgressiveOverload: in.ProgressiveOverload,
			Notes:               in.Notes,
		}
	}
	return entries, workoutVolume, workoutReps
}

// verifyExercisesVisible checks that every referenced exercise exists and is
// visible to the user (global or their own custom entry).
func (s *workoutService) verifyExercisesVisible(ctx context.Context, userID primitive.ObjectID, entries []ExerciseEntryInput) error {
	seen := make(map[primitive.ObjectID]struct{}, len(entries))
	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.ExerciseID]; !ok {
			seen[entry.ExerciseID] = struct{}{}
			ids = append(ids, entry.ExerciseID)
		}
	}

	found, err := s.exerciseRepo.GetVisibleByIDs(ctx, userID, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return ErrExerciseNotFound
	}
	return nil
}

// ListWorkouts returns a page of logged workouts.
func (s *workoutService) ListWorkouts(ctx context.Context, userID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.Workout, int64, error) {
	return s.workoutRepo.List(ctx, userID, false, filter)
}

// ListTemplates returns the user's templates, name-sorted.
func (s *workoutService) ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	templates, _, err := s.workoutRepo.List(ctx, userID, true, repository.WorkoutFilter{Limit: 100})
	if err != nil {
		return nil, err
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// GetWorkout fetches a single workout or template owned by the user.
func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// UpdateWorkout applies metadata edits to a logged workout.
func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, update WorkoutUpdate) (*domain.Workout, error) {
	if update.PerceivedEffort != nil && (*update.PerceivedEffort < 1 || *update.PerceivedEffort > 10) {
		return nil, fmt.Errorf("%w: perceived effort must be between 1 and 10", ErrValidationFailed)
	}
	if update.EnergyLevel != nil && (*update.EnergyLevel < 1 || *update.EnergyLevel > 10) {
		return nil, fmt.Errorf("%w: energy level must be between 1 and 10", ErrValidationFailed)
	}

	workout, err := s.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		workout.Name = *update.Name
	}
	if update.WorkoutType != nil {
		workout.WorkoutType = *update.WorkoutType
	}
	if update.PerceivedEffort != nil {
		workout.PerceivedEffort = update.PerceivedEffort
	}
	if update.EnergyLevel != nil {
		workout.EnergyLevel = update.EnergyLevel
	}
	if update.Notes != nil {
		workout.Notes = *update.Notes
	}
	if update.Location != nil {
		workout.Location = *update.Location
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// DeleteWorkout removes a workout or template owned by the user.
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	err := s.workoutRepo.Delete(ctx, workoutID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

// SuggestNextWeight proposes a working weight for the exercise: the mean of
// the usable (weight > 0) set weights from the first matching entry of the
// user's most recent logged workout, rounded to the nearest 0.5 kg, plus the
// user's configured increment. No prior history is not an error; the result
// is {0, nil}.
func (s *workoutService) SuggestNextWeight(ctx context.Context, userID, exerciseID primitive.ObjectID) (WeightSuggestion, error) {
	increment := domain.DefaultSettings().OverloadIncrement
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		increment = user.Settings.OverloadIncrement
	}

	workout, err := s.workoutRepo.LatestWithExercise(ctx, userID, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return WeightSuggestion{Suggested: 0, LastWorkoutDate: nil}, nil
		}
		return WeightSuggestion{}, err
	}

	for _, entry := range workout.Exercises {
		if entry.ExerciseID != exerciseID {
			continue
		}
		base := roundToHalf(averageWorkingWeight(entry.Sets))
		return WeightSuggestion{
			Suggested:       base + increment,
			LastWorkoutDate: workout.StartedAt,
		}, nil
	}

	// The repository matched on exercises.exerciseId, so this only happens
	// if the workout changed between the two reads.
	return WeightSuggestion{Suggested: 0, LastWorkoutDate: nil}, nil
}

// GetDraft loads the user's parked workout draft.
func (s *workoutService) GetDraft(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutDraft, error) {
	draft, err := s.draftRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return draft, nil
}

// SaveDraft parks the in-progress workout, replacing any previous draft.
func (s *workoutService) SaveDraft(ctx context.Context, userID primitive.ObjectID, draft *domain.WorkoutDraft) error {
	draft.UserID = userID
	return s.draftRepo.Save(ctx, draft)
}

// ClearDraft discards the parked draft, if any.
func (s *workoutService) ClearDraft(ctx context.Context, userID primitive.ObjectID) error {
	return s.draftRepo.Clear(ctx, userID)
}
