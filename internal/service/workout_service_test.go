package service

import (
	"context"
	"testing"
	"time"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Fakes ---

type fakeWorkoutRepo struct {
	created []*domain.Workout
	latest  *domain.Workout
	stored  map[primitive.ObjectID]*domain.Workout
}

func (f *fakeWorkoutRepo) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	f.created = append(f.created, w)
	return primitive.NewObjectID(), nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id, userID primitive.ObjectID) (*domain.Workout, error) {
	w, ok := f.stored[id]
	if !ok || w.UserID != userID {
		return nil, repository.ErrNotFound
	}
	// Return a copy, like a decoded Mongo document.
	cp := *w
	return &cp, nil
}

func (f *fakeWorkoutRepo) List(_ context.Context, _ primitive.ObjectID, _ bool, _ repository.WorkoutFilter) ([]domain.Workout, int64, error) {
	return nil, 0, nil
}

func (f *fakeWorkoutRepo) Update(_ context.Context, w *domain.Workout) error {
	if _, ok := f.stored[w.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *w
	f.stored[w.ID] = &cp
	return nil
}

func (f *fakeWorkoutRepo) Delete(_ context.Context, _, _ primitive.ObjectID) error { return nil }

func (f *fakeWorkoutRepo) LatestWithExercise(_ context.Context, _, _ primitive.ObjectID) (*domain.Workout, error) {
	if f.latest == nil {
		return nil, repository.ErrNotFound
	}
	return f.latest, nil
}

type fakeExerciseRepo struct {
	known map[primitive.ObjectID]domain.Exercise
}

func (f *fakeExerciseRepo) Create(_ context.Context, _ *domain.Exercise) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	if e, ok := f.known[id]; ok {
		return &e, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) ListVisible(_ context.Context, _ primitive.ObjectID, _ repository.ExerciseFilter) ([]domain.Exercise, error) {
	return nil, nil
}

func (f *fakeExerciseRepo) GetVisibleByIDs(_ context.Context, _ primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	var found []domain.Exercise
	for _, id := range ids {
		if e, ok := f.known[id]; ok {
			found = append(found, e)
		}
	}
	return found, nil
}

type fakeDraftRepo struct {
	draft   *domain.WorkoutDraft
	cleared bool
}

func (f *fakeDraftRepo) Get(_ context.Context, _ primitive.ObjectID) (*domain.WorkoutDraft, error) {
	if f.draft == nil {
		return nil, repository.ErrNotFound
	}
	return f.draft, nil
}

func (f *fakeDraftRepo) Save(_ context.Context, draft *domain.WorkoutDraft) error {
	f.draft = draft
	return nil
}

func (f *fakeDraftRepo) Clear(_ context.Context, _ primitive.ObjectID) error {
	f.draft = nil
	f.cleared = true
	return nil
}

type fakeUserRepo struct {
	user *domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *domain.User) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ primitive.ObjectID) (*domain.User, error) {
	if f.user == nil {
		return nil, repository.ErrNotFound
	}
	cp := *f.user
	return &cp, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, u *domain.User) error {
	if f.user == nil || f.user.ID != u.ID {
		return repository.ErrNotFound
	}
	// Mirror the Mongo repository: only the profile fields are written back.
	f.user.FirstName = u.FirstName
	f.user.LastName = u.LastName
	f.user.DateOfBirth = u.DateOfBirth
	f.user.Gender = u.Gender
	return nil
}

func (f *fakeUserRepo) UpdateSettings(_ context.Context, _ primitive.ObjectID, _ domain.Settings) error {
	return nil
}

func (f *fakeUserRepo) SetLastLogin(_ context.Context, _ primitive.ObjectID, _ time.Time) error {
	return nil
}

// --- Helpers ---

func newWorkoutServiceForTest(workouts *fakeWorkoutRepo, exercises *fakeExerciseRepo, drafts *fakeDraftRepo, users *fakeUserRepo) WorkoutService {
	if workouts == nil {
		workouts = &fakeWorkoutRepo{}
	}
	if exercises == nil {
		exercises = &fakeExerciseRepo{known: map[primitive.ObjectID]domain.Exercise{}}
	}
	if drafts == nil {
		drafts = &fakeDraftRepo{}
	}
	if users == nil {
		users = &fakeUserRepo{}
	}
	return NewWorkoutService(workouts, exercises, drafts, users)
}

// --- Tests ---

func TestLogWorkoutComputesTotals(t *testing.T) {
	userID := primitive.NewObjectID()
	squatID := primitive.NewObjectID()

	workouts := &fakeWorkoutRepo{}
	exercises := &fakeExerciseRepo{known: map[primitive.ObjectID]domain.Exercise{
		squatID: {ID: squatID, Name: "Back Squat"},
	}}
	drafts := &fakeDraftRepo{draft: &domain.WorkoutDraft{UserID: userID}}
	svc := newWorkoutServiceForTest(workouts, exercises, drafts, nil)

	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	workout, err := svc.LogWorkout(context.Background(), userID, WorkoutInput{
		Name:        "Leg day",
		StartedAt:   &start,
		CompletedAt: &end,
		Exercises: []ExerciseEntryInput{
			{
				ExerciseID: squatID,
				Sets: []SetInput{
					{Reps: 10, Weight: f64(20)},
					{Reps: 10, Weight: f64(30)},
					{Reps: 8},
				},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, workout.Exercises, 1)
	entry := workout.Exercises[0]
	assert.Equal(t, 1, entry.ExerciseOrder)
	assert.Equal(t, 3, entry.TotalSets)
	assert.Equal(t, 28, entry.TotalReps)
	assert.Equal(t, 500.0, entry.TotalVolume)
	require.NotNil(t, entry.MaxWeight)
	assert.Equal(t, 30.0, *entry.MaxWeight)
	assert.Equal(t, domain.ExercisePending, entry.Status)
	for i, s := range entry.Sets {
		assert.Equal(t, i+1, s.Set)
	}

	assert.Equal(t, 500.0, workout.TotalVolume)
	assert.Equal(t, 28, workout.TotalReps)
	require.NotNil(t, workout.TotalDuration)
	assert.Equal(t, 45*60, *workout.TotalDuration)
	assert.False(t, workout.IsTemplate)

	assert.True(t, drafts.cleared, "logging a workout must clear the parked draft")
}

func TestLogWorkoutRejectsUnknownExercise(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := newWorkoutServiceForTest(nil, nil, nil, nil)

	start := time.Now()
	_, err := svc.LogWorkout(context.Background(), userID, WorkoutInput{
		StartedAt: &start,
		Exercises: []ExerciseEntryInput{
			{ExerciseID: primitive.NewObjectID(), Sets: []SetInput{{Reps: 10}}},
		},
	})
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestLogWorkoutRequiresStart(t *testing.T) {
	svc := newWorkoutServiceForTest(nil, nil, nil, nil)

	_, err := svc.LogWorkout(context.Background(), primitive.NewObjectID(), WorkoutInput{
		Exercises: []ExerciseEntryInput{
			{ExerciseID: primitive.NewObjectID(), Sets: []SetInput{{Reps: 10}}},
		},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateTemplateIgnoresTimestamps(t *testing.T) {
	userID := primitive.NewObjectID()
	pressID := primitive.NewObjectID()

	workouts := &fakeWorkoutRepo{}
	exercises := &fakeExerciseRepo{known: map[primitive.ObjectID]domain.Exercise{
		pressID: {ID: pressID, Name: "Overhead Press"},
	}}
	svc := newWorkoutServiceForTest(workouts, exercises, nil, nil)

	start := time.Now()
	template, err := svc.CreateTemplate(context.Background(), userID, WorkoutInput{
		Name:      "Push day",
		StartedAt: &start,
		Exercises: []ExerciseEntryInput{
			{ExerciseID: pressID, Sets: []SetInput{{Reps: 5, Weight: f64(40)}}},
		},
	})
	require.NoError(t, err)

	assert.True(t, template.IsTemplate)
	assert.Nil(t, template.StartedAt)
	assert.Nil(t, template.CompletedAt)
	assert.Nil(t, template.TotalDuration)
}

func TestSuggestNextWeightNoHistory(t *testing.T) {
	svc := newWorkoutServiceForTest(nil, nil, nil, nil)

	suggestion, err := svc.SuggestNextWeight(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, 0.0, suggestion.Suggested)
	assert.Nil(t, suggestion.LastWorkoutDate)
}

func TestSuggestNextWeightFromLastWorkout(t *testing.T) {
	userID := primitive.NewObjectID()
	benchID := primitive.NewObjectID()
	started := time.Date(2026, 2, 20, 18, 0, 0, 0, time.UTC)

	workouts := &fakeWorkoutRepo{latest: &domain.Workout{
		UserID:    userID,
		StartedAt: &started,
		Exercises: []domain.WorkoutExercise{
			{
				ExerciseID: benchID,
				Sets: []domain.WorkoutSet{
					{Set: 1, Reps: 10, Weight: f64(20)},
					{Set: 2, Reps: 10, Weight: f64(30)},
					{Set: 3, Reps: 8}, // no weight, excluded from the average
				},
			},
		},
	}}
	users := &fakeUserRepo{user: &domain.User{
		ID:       userID,
		Settings: domain.Settings{OverloadIncrement: 2.5},
	}}
	svc := newWorkoutServiceForTest(workouts, nil, nil, users)

	suggestion, err := svc.SuggestNextWeight(context.Background(), userID, benchID)
	require.NoError(t, err)
	// mean(20, 30) = 25, rounded stays 25, plus the 2.5 increment.
	assert.Equal(t, 27.5, suggestion.Suggested)
	require.NotNil(t, suggestion.LastWorkoutDate)
	assert.True(t, suggestion.LastWorkoutDate.Equal(started))
}

func TestSuggestNextWeightUsesDefaultIncrement(t *testing.T) {
	userID := primitive.NewObjectID()
	rowID := primitive.NewObjectID()
	started := time.Date(2026, 2, 20, 18, 0, 0, 0, time.UTC)

	workouts := &fakeWorkoutRepo{latest: &domain.Workout{
		UserID:    userID,
		StartedAt: &started,
		Exercises: []domain.WorkoutExercise{
			{ExerciseID: rowID, Sets: []domain.WorkoutSet{{Set: 1, Reps: 8, Weight: f64(50)}}},
		},
	}}
	// No user record; the default increment applies.
	svc := newWorkoutServiceForTest(workouts, nil, nil, nil)

	suggestion, err := svc.SuggestNextWeight(context.Background(), userID, rowID)
	require.NoError(t, err)
	assert.Equal(t, 50+domain.DefaultSettings().OverloadIncrement, suggestion.Suggested)
}

func TestDraftLifecycle(t *testing.T) {
	userID := primitive.NewObjectID()
	drafts := &fakeDraftRepo{}
	svc := newWorkoutServiceForTest(nil, nil, drafts, nil)

	_, err := svc.GetDraft(context.Background(), userID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	err = svc.SaveDraft(context.Background(), userID, &domain.WorkoutDraft{Name: "Evening session"})
	require.NoError(t, err)

	draft, err := svc.GetDraft(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, draft.UserID)
	assert.Equal(t, "Evening session", draft.Name)

	require.NoError(t, svc.ClearDraft(context.Background(), userID))
	_, err = svc.GetDraft(context.Background(), userID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestUpdateWorkoutLeavesOmittedFieldsAlone(t *testing.T) {
	userID := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	workouts := &fakeWorkoutRepo{stored: map[primitive.ObjectID]*domain.Workout{
		workoutID: {
			ID:              workoutID,
			UserID:          userID,
			Name:            "Leg day",
			WorkoutType:     "strength",
			PerceivedEffort: intp(7),
			Notes:           "Felt strong",
			Location:        "Garage gym",
			TotalVolume:     1200,
		},
	}}
	svc := newWorkoutServiceForTest(workouts, nil, nil, nil)

	updated, err := svc.UpdateWorkout(context.Background(), userID, workoutID, WorkoutUpdate{
		Name:  strp("Leg day (deload)"),
		Notes: strp("Backed off the top sets"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Leg day (deload)", updated.Name)
	assert.Equal(t, "Backed off the top sets", updated.Notes)
	// Fields the caller left out keep their stored values.
	assert.Equal(t, "strength", updated.WorkoutType)
	require.NotNil(t, updated.PerceivedEffort)
	assert.Equal(t, 7, *updated.PerceivedEffort)
	assert.Equal(t, "Garage gym", updated.Location)
	assert.Equal(t, 1200.0, updated.TotalVolume)

	stored := workouts.stored[workoutID]
	assert.Equal(t, "Leg day (deload)", stored.Name)
	assert.Equal(t, "strength", stored.WorkoutType)
	assert.Equal(t, "Garage gym", stored.Location)
}

func TestUpdateWorkoutRejectsOutOfRangeEffort(t *testing.T) {
	userID := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	workouts := &fakeWorkoutRepo{stored: map[primitive.ObjectID]*domain.Workout{
		workoutID: {ID: workoutID, UserID: userID, Name: "Leg day"},
	}}
	svc := newWorkoutServiceForTest(workouts, nil, nil, nil)

	_, err := svc.UpdateWorkout(context.Background(), userID, workoutID, WorkoutUpdate{PerceivedEffort: intp(11)})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
