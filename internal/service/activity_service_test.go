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

type fakeActivityRepo struct {
	activities map[primitive.ObjectID]*domain.Activity
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{activities: map[primitive.ObjectID]*domain.Activity{}}
}

func (f *fakeActivityRepo) Create(_ context.Context, a *domain.Activity) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	a.ID = id
	f.activities[id] = a
	return id, nil
}

func (f *fakeActivityRepo) GetByID(_ context.Context, id, userID primitive.ObjectID) (*domain.Activity, error) {
	a, ok := f.activities[id]
	if !ok || a.UserID != userID {
		return nil, repository.ErrNotFound
	}
	// Return a copy, like a decoded Mongo document.
	out := *a
	return &out, nil
}

func (f *fakeActivityRepo) List(_ context.Context, _ primitive.ObjectID, _ repository.ActivityFilter) ([]domain.Activity, int64, error) {
	return nil, 0, nil
}

func (f *fakeActivityRepo) ListInRange(_ context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, a := range f.activities {
		if a.UserID != userID {
			continue
		}
		if from != nil && a.StartedAt.Before(*from) {
			continue
		}
		if to != nil && !a.StartedAt.Before(*to) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeActivityRepo) Update(_ context.Context, a *domain.Activity) error {
	if _, ok := f.activities[a.ID]; !ok {
		return repository.ErrNotFound
	}
	f.activities[a.ID] = a
	return nil
}

func (f *fakeActivityRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	a, ok := f.activities[id]
	if !ok || a.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.activities, id)
	return nil
}

func (f *fakeActivityRepo) SetTrack(_ context.Context, id, userID primitive.ObjectID, track *domain.TrackFile) error {
	a, ok := f.activities[id]
	if !ok || a.UserID != userID {
		return repository.ErrNotFound
	}
	a.Track = track
	return nil
}

type fakeRouteRepo struct {
	routes     map[primitive.ObjectID]*domain.Route
	increments []int
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: map[primitive.ObjectID]*domain.Route{}}
}

func (f *fakeRouteRepo) Create(_ context.Context, r *domain.Route) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	r.ID = id
	f.routes[id] = r
	return id, nil
}

func (f *fakeRouteRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Route, error) {
	r, ok := f.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy, like a decoded Mongo document.
	out := *r
	return &out, nil
}

func (f *fakeRouteRepo) ListByUser(_ context.Context, _ primitive.ObjectID, _ repository.RouteFilter) ([]domain.Route, error) {
	return nil, nil
}

func (f *fakeRouteRepo) ListPublic(_ context.Context, _ repository.PublicRouteFilter) ([]domain.Route, int64, error) {
	return nil, 0, nil
}

func (f *fakeRouteRepo) Update(_ context.Context, r *domain.Route) error {
	stored, ok := f.routes[r.ID]
	if !ok || stored.UserID != r.UserID {
		return repository.ErrNotFound
	}
	// Mirror the Mongo repository: only the editable metadata is written
	// back, never geometry or the derived fields.
	stored.Name = r.Name
	stored.Description = r.Description
	stored.IsFavorite = r.IsFavorite
	stored.IsPublic = r.IsPublic
	return nil
}

func (f *fakeRouteRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	r, ok := f.routes[id]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.routes, id)
	return nil
}

func (f *fakeRouteRepo) IncrementTimesCompleted(_ context.Context, id primitive.ObjectID, delta int) error {
	r, ok := f.routes[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.TimesCompleted += delta
	f.increments = append(f.increments, delta)
	return nil
}

type fakeTrackStorage struct {
	deleted []string
}

func (f *fakeTrackStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeTrackStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeTrackStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// --- Tests ---

func TestLogActivityIncrementsRouteCounter(t *testing.T) {
	userID := primitive.NewObjectID()
	activities := newFakeActivityRepo()
	routes := newFakeRouteRepo()
	routeID, err := routes.Create(context.Background(), &domain.Route{UserID: userID, Name: "Park loop"})
	require.NoError(t, err)

	svc := NewActivityService(activities, routes, &fakeTrackStorage{})

	_, err = svc.LogActivity(context.Background(), userID, ActivityInput{
		RouteID:   &routeID,
		StartedAt: time.Now(),
		Distance:  5000,
		Duration:  1500,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, routes.routes[routeID].TimesCompleted)

	_, err = svc.LogActivity(context.Background(), userID, ActivityInput{
		RouteID:   &routeID,
		StartedAt: time.Now(),
		Distance:  5000,
		Duration:  1450,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, routes.routes[routeID].TimesCompleted)
}

func TestLogActivityRejectsInvisibleRoute(t *testing.T) {
	routes := newFakeRouteRepo()
	ownerID := primitive.NewObjectID()
	routeID, err := routes.Create(context.Background(), &domain.Route{UserID: ownerID, IsPublic: false})
	require.NoError(t, err)

	svc := NewActivityService(newFakeActivityRepo(), routes, &fakeTrackStorage{})

	_, err = svc.LogActivity(context.Background(), primitive.NewObjectID(), ActivityInput{
		RouteID:   &routeID,
		StartedAt: time.Now(),
		Distance:  5000,
		Duration:  1500,
	})
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestLogActivityValidation(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), newFakeRouteRepo(), &fakeTrackStorage{})
	userID := primitive.NewObjectID()

	_, err := svc.LogActivity(context.Background(), userID, ActivityInput{StartedAt: time.Now(), Distance: 0, Duration: 1500})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.LogActivity(context.Background(), userID, ActivityInput{StartedAt: time.Now(), Distance: 5000, Duration: -1})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.LogActivity(context.Background(), userID, ActivityInput{StartedAt: time.Now(), Distance: 5000, Duration: 1500, ActivityType: "swim"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestDeleteActivityDecrementsCounterAndDropsTrack(t *testing.T) {
	userID := primitive.NewObjectID()
	activities := newFakeActivityRepo()
	routes := newFakeRouteRepo()
	store := &fakeTrackStorage{}
	routeID, err := routes.Create(context.Background(), &domain.Route{UserID: userID, TimesCompleted: 3})
	require.NoError(t, err)

	activityID, err := activities.Create(context.Background(), &domain.Activity{
		UserID:    userID,
		RouteID:   &routeID,
		StartedAt: time.Now(),
		Distance:  5000,
		Duration:  1500,
		Track:     &domain.TrackFile{ObjectKey: "tracks/abc/run.gpx"},
	})
	require.NoError(t, err)

	svc := NewActivityService(activities, routes, store)
	require.NoError(t, svc.DeleteActivity(context.Background(), userID, activityID))

	assert.Equal(t, 2, routes.routes[routeID].TimesCompleted)
	assert.Equal(t, []string{"tracks/abc/run.gpx"}, store.deleted)
}

func TestGetStatsWeekExcludesOlderRunsButKeepsBreakdown(t *testing.T) {
	userID := primitive.NewObjectID()
	activities := newFakeActivityRepo()
	now := time.Now().UTC()

	_, err := activities.Create(context.Background(), &domain.Activity{
		UserID: userID, StartedAt: now.AddDate(0, 0, -2), Distance: 5000, Duration: 1500,
	})
	require.NoError(t, err)
	_, err = activities.Create(context.Background(), &domain.Activity{
		UserID: userID, StartedAt: now.AddDate(0, 0, -10), Distance: 8000, Duration: 2400,
	})
	require.NoError(t, err)

	svc := NewActivityService(activities, newFakeRouteRepo(), &fakeTrackStorage{})
	result, err := svc.GetStats(context.Background(), userID, PeriodWeek, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, PeriodWeek, result.Period)
	assert.Equal(t, 1, result.Stats.TotalRuns)
	assert.Equal(t, 5000.0, result.Stats.TotalDistance)

	// The 10-day-old run still shows up in the trailing 4-week breakdown.
	var breakdownRuns int
	for _, b := range result.WeeklyBreakdown {
		breakdownRuns += b.TotalRuns
	}
	assert.Equal(t, 2, breakdownRuns)
}

func TestAttachTrackReplacesPreviousObject(t *testing.T) {
	userID := primitive.NewObjectID()
	activities := newFakeActivityRepo()
	store := &fakeTrackStorage{}

	activityID, err := activities.Create(context.Background(), &domain.Activity{
		UserID:    userID,
		StartedAt: time.Now(),
		Distance:  5000,
		Duration:  1500,
		Track:     &domain.TrackFile{ObjectKey: "tracks/old/run.gpx"},
	})
	require.NoError(t, err)

	svc := NewActivityService(activities, newFakeRouteRepo(), store)
	upload, err := svc.AttachTrack(context.Background(), userID, activityID, "morning.gpx", "application/gpx+xml", 2048)
	require.NoError(t, err)

	assert.Contains(t, upload.UploadURL, "tracks/"+userID.Hex()+"/")
	require.NotNil(t, upload.Track)
	assert.Equal(t, "morning.gpx", upload.Track.FileName)
	assert.Equal(t, []string{"tracks/old/run.gpx"}, store.deleted)

	url, err := svc.TrackDownloadURL(context.Background(), userID, activityID)
	require.NoError(t, err)
	assert.Contains(t, url, upload.Track.ObjectKey)
}

func TestUpdateActivityLeavesOmittedFieldsAlone(t *testing.T) {
	userID := primitive.NewObjectID()
	activities := newFakeActivityRepo()
	svc := NewActivityService(activities, newFakeRouteRepo(), &fakeTrackStorage{})

	logged, err := svc.LogActivity(context.Background(), userID, ActivityInput{
		Name:            "Sunday long run",
		StartedAt:       time.Now(),
		Distance:        18000,
		Duration:        6300,
		PerceivedEffort: intp(6),
		Notes:           "Negative split",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateActivity(context.Background(), userID, logged.ID, ActivityUpdate{
		IsRace: boolp(true),
	})
	require.NoError(t, err)

	assert.True(t, updated.IsRace)
	// Fields the caller left out keep their stored values.
	assert.Equal(t, "Sunday long run", updated.Name)
	assert.Equal(t, "Negative split", updated.Notes)
	require.NotNil(t, updated.PerceivedEffort)
	assert.Equal(t, 6, *updated.PerceivedEffort)
	assert.False(t, updated.IsPrivate)

	stored := activities.activities[logged.ID]
	assert.True(t, stored.IsRace)
	assert.Equal(t, "Sunday long run", stored.Name)
	assert.Equal(t, "Negative split", stored.Notes)
}
