package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"time"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"
	"routeiq/backend/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrRouteNotFound    = errors.New("route not found or not accessible")
	ErrNoTrackAttached  = errors.New("activity has no GPS track attached")
)

// ActivityInput is the submitted shape of a logged run.
type ActivityInput struct {
	Name              string
	ActivityType      string
	RouteID           *primitive.ObjectID
	StartedAt         time.Time
	Distance          float64
	Duration          int
	MovingTime        *int
	ElevationGain     *float64
	ElevationLoss     *float64
	AveragePace       *float64
	AverageSpeed      *float64
	MaxSpeed          *float64
	AverageHeartRate  *int
	MaxHeartRate      *int
	Calories          *int
	Temperature       *float64
	WeatherConditions string
	PerceivedEffort   *int
	GPSData           interface{}
	Splits            interface{}
	Notes             string
	IsRace            bool
	IsPrivate         bool
}

// ActivityUpdate carries the editable fields of a logged run. Nil fields are
// left unchanged.
type ActivityUpdate struct {
	Name            *string
	PerceivedEffort *int
	Notes           *string
	IsRace          *bool
	IsPrivate       *bool
}

// StatsResult bundles the period aggregate with the trailing 4-week
// breakdown, which is computed independently of the period filter.
type StatsResult struct {
	Period          string        `json:"period"`
	Stats           ActivityStats `json:"stats"`
	WeeklyBreakdown []WeeklyStats `json:"weeklyBreakdown"`
}

// TrackUpload is the presigned upload handshake returned to the client.
type TrackUpload struct {
	UploadURL string            `json:"uploadUrl"`
	Track     *domain.TrackFile `json:"track"`
}

type ActivityService interface {
	LogActivity(ctx context.Context, userID primitive.ObjectID, input ActivityInput) (*domain.Activity, error)
	ListActivities(ctx context.Context, userID primitive.ObjectID, filter repository.ActivityFilter) ([]domain.Activity, int64, error)
	GetActivity(ctx context.Context, userID, activityID primitive.ObjectID) (*domain.Activity, error)
	UpdateActivity(ctx context.Context, userID, activityID primitive.ObjectID, update ActivityUpdate) (*domain.Activity, error)
	DeleteActivity(ctx context.Context, userID, activityID primitive.ObjectID) error
	GetStats(ctx context.Context, userID primitive.ObjectID, period string, start, end *time.Time) (*StatsResult, error)
	AttachTrack(ctx context.Context, userID, activityID primitive.ObjectID, fileName, contentType string, size int64) (*TrackUpload, error)
	TrackDownloadURL(ctx context.Context, userID, activityID primitive.ObjectID) (string, error)
}

// activityService implements the ActivityService interface.
type activityService struct {
	activityRepo repository.ActivityRepository
	routeRepo    repository.RouteRepository
	trackStore   storage.TrackStorage
}

// NewActivityService creates a new instance of activityService.
func NewActivityService(
	activityRepo repository.ActivityRepository,
	routeRepo repository.RouteRepository,
	trackStore storage.TrackStorage,
) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		routeRepo:    routeRepo,
		trackStore:   trackStore,
	}
}

// LogActivity validates and persists a run. A linked route must be visible
// to the caller; its completion counter is bumped atomically so the counter
// and the activity set stay consistent under concurrent writers.
func (s *activityService) LogActivity(ctx context.Context, userID primitive.ObjectID, input ActivityInput) (*domain.Activity, error) {
	if input.Distance <= 0 {
		return nil, fmt.Errorf("%w: distance must be positive", ErrValidationFailed)
	}
	if input.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidationFailed)
	}
	if input.PerceivedEffort != nil && (*input.PerceivedEffort < 1 || *input.PerceivedEffort > 10) {
		return nil, fmt.Errorf("%w: perceived effort must be between 1 and 10", ErrValidationFailed)
	}
	activityType := input.ActivityType
	if activityType == "" {
		activityType = domain.ActivityRun
	}
	switch activityType {
	case domain.ActivityRun, domain.ActivityTrailRun, domain.ActivityRace, domain.ActivityRecoveryRun:
	default:
		return nil, fmt.Errorf("%w: unknown activity type %q", ErrValidationFailed, activityType)
	}

	if input.RouteID != nil {
		route, err := s.routeRepo.GetByID(ctx, *input.RouteID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRouteNotFound
			}
			return nil, err
		}
		if !route.VisibleTo(userID) {
			return nil, ErrRouteNotFound
		}
	}

	activity := &domain.Activity{
		UserID:            userID,
		Name:              input.Name,
		ActivityType:      activityType,
		RouteID:           input.RouteID,
		StartedAt:         input.StartedAt,
		Distance:          input.Distance,
		Duration:          input.Duration,
		MovingTime:        input.MovingTime,
		ElevationGain:     input.ElevationGain,
		ElevationLoss:     input.ElevationLoss,
		AveragePace:       input.AveragePace,
		AverageSpeed:      input.AverageSpeed,
		MaxSpeed:          input.MaxSpeed,
		AverageHeartRate:  input.AverageHeartRate,
		MaxHeartRate:      input.MaxHeartRate,
		Calories:          input.Calories,
		Temperature:       input.Temperature,
		WeatherConditions: input.WeatherConditions,
		PerceivedEffort:   input.PerceivedEffort,
		GPSData:           input.GPSData,
		Splits:            input.Splits,
		Notes:             input.Notes,
		IsRace:            input.IsRace,
		IsPrivate:         input.IsPrivate,
	}

	id, err := s.activityRepo.Create(ctx, activity)
	if err != nil {
		return nil, err
	}
	activity.ID = id

	if input.RouteID != nil {
		if err := s.routeRepo.IncrementTimesCompleted(ctx, *input.RouteID, 1); err != nil {
			log.Printf("WARN: failed to increment completion counter for route %s: %v", input.RouteID.Hex(), err)
		}
	}

	return activity, nil
}

// ListActivities returns a page of the user's runs.
func (s *activityService) ListActivities(ctx context.Context, userID primitive.ObjectID, filter repository.ActivityFilter) ([]domain.Activity, int64, error) {
	return s.activityRepo.List(ctx, userID, filter)
}

// GetActivity fetches a single run owned by the user.
func (s *activityService) GetActivity(ctx context.Context, userID, activityID primitive.ObjectID) (*domain.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return activity, nil
}

// UpdateActivity applies the editable fields.
func (s *activityService) UpdateActivity(ctx context.Context, userID, activityID primitive.ObjectID, update ActivityUpdate) (*domain.Activity, error) {
	if update.PerceivedEffort != nil && (*update.PerceivedEffort < 1 || *update.PerceivedEffort > 10) {
		return nil, fmt.Errorf("%w: perceived effort must be between 1 and 10", ErrValidationFailed)
	}

	activity, err := s.GetActivity(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		activity.Name = *update.Name
	}
	if update.PerceivedEffort != nil {
		activity.PerceivedEffort = update.PerceivedEffort
	}
	if update.Notes != nil {
		activity.Notes = *update.Notes
	}
	if update.IsRace != nil {
		activity.IsRace = *update.IsRace
	}
	if update.IsPrivate != nil {
		activity.IsPrivate = *update.IsPrivate
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return activity, nil
}

// DeleteActivity removes a run, decrements the linked route's completion
// counter and drops the attached track object, if any.
func (s *activityService) DeleteActivity(ctx context.Context, userID, activityID primitive.ObjectID) error {
	activity, err := s.GetActivity(ctx, userID, activityID)
	if err != nil {
		return err
	}

	if err := s.activityRepo.Delete(ctx, activityID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActivityNotFound
		}
		return err
	}

	if activity.RouteID != nil {
		if err := s.routeRepo.IncrementTimesCompleted(ctx, *activity.RouteID, -1); err != nil {
			log.Printf("WARN: failed to decrement completion counter for route %s: %v", activity.RouteID.Hex(), err)
		}
	}
	if activity.Track != nil {
		_ = s.trackStore.DeleteObject(ctx, activity.Track.ObjectKey)
	}
	return nil
}

// GetStats aggregates the user's runs over the requested period and adds the
// trailing 4-week breakdown, which ignores the period filter.
func (s *activityService) GetStats(ctx context.Context, userID primitive.ObjectID, period string, start, end *time.Time) (*StatsResult, error) {
	now := time.Now().UTC()

	from, to, err := resolvePeriod(period, start, end, now)
	if err != nil {
		return nil, err
	}
	selected, err := s.activityRepo.ListInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	fourWeeksAgo := now.AddDate(0, 0, -28)
	recent, err := s.activityRepo.ListInRange(ctx, userID, &fourWeeksAgo, nil)
	if err != nil {
		return nil, err
	}

	reportedPeriod := period
	if reportedPeriod == "" {
		reportedPeriod = PeriodAll
	}
	return &StatsResult{
		Period:          reportedPeriod,
		Stats:           computeActivityStats(selected),
		WeeklyBreakdown: computeWeeklyBreakdown(recent, now),
	}, nil
}

// AttachTrack records track file metadata on the activity and hands the
// client a presigned PUT URL to upload the file directly.
func (s *activityService) AttachTrack(ctx context.Context, userID, activityID primitive.ObjectID, fileName, contentType string, size int64) (*TrackUpload, error) {
	if fileName == "" || contentType == "" {
		return nil, fmt.Errorf("%w: file name and content type are required", ErrValidationFailed)
	}

	activity, err := s.GetActivity(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}

	objectKey := path.Join("tracks", userID.Hex(), uuid.NewString()+path.Ext(fileName))
	uploadURL, err := s.trackStore.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	track := &domain.TrackFile{
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.activityRepo.SetTrack(ctx, activityID, userID, track); err != nil {
		return nil, err
	}

	// Replacing a track orphans the old object; clean it up.
	if activity.Track != nil {
		_ = s.trackStore.DeleteObject(ctx, activity.Track.ObjectKey)
	}

	return &TrackUpload{UploadURL: uploadURL, Track: track}, nil
}

// TrackDownloadURL returns a presigned GET URL for the attached track.
func (s *activityService) TrackDownloadURL(ctx context.Context, userID, activityID primitive.ObjectID) (string, error) {
	activity, err := s.GetActivity(ctx, userID, activityID)
	if err != nil {
		return "", err
	}
	if activity.Track == nil {
		return "", ErrNoTrackAttached
	}
	return s.trackStore.GeneratePresignedDownloadURL(ctx, activity.Track.ObjectKey, storage.DefaultPresignedURLExpiry)
}
