package repository

import (
	"context"
	"time"

	"routeiq/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound       = RepositoryError("not found")
	ErrDuplicateEmail = RepositoryError("email already registered")
	ErrUpdateFailed   = RepositoryError("update failed")
	ErrDeleteFailed   = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateSettings(ctx context.Context, id primitive.ObjectID, settings domain.Settings) error
	SetLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// ExerciseFilter narrows exercise library listings.
type ExerciseFilter struct {
	Category    string
	MuscleGroup string
	Search      string // case-insensitive name substring
}

// ExerciseRepository defines the interface for the exercise library.
// "Visible" always means: global entries plus the user's own custom entries.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	ListVisible(ctx context.Context, userID primitive.ObjectID, filter ExerciseFilter) ([]domain.Exercise, error)
	GetVisibleByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Exercise, error)
}

// WorkoutFilter narrows workout listings. Limit <= 0 means the default page size.
type WorkoutFilter struct {
	WorkoutType string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int64
	Offset      int64
}

// WorkoutRepository defines the interface for logged workouts and templates.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, userID primitive.ObjectID, isTemplate bool, filter WorkoutFilter) ([]domain.Workout, int64, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	// LatestWithExercise returns the most recently started logged (non-template)
	// workout of the user containing the exercise, or ErrNotFound.
	LatestWithExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Workout, error)
}

// DraftRepository stores the single parked workout draft per user.
type DraftRepository interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutDraft, error)
	Save(ctx context.Context, draft *domain.WorkoutDraft) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	ActivityType string
	RouteID      *primitive.ObjectID
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int64
	Offset       int64
}

// ActivityRepository defines the interface for logged runs.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.Activity, error)
	List(ctx context.Context, userID primitive.ObjectID, filter ActivityFilter) ([]domain.Activity, int64, error)
	// ListInRange returns the user's activities with startedAt in [from, to);
	// a nil bound is open.
	ListInRange(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	SetTrack(ctx context.Context, id, userID primitive.ObjectID, track *domain.TrackFile) error
}

// RouteFilter narrows a user's own route listings.
type RouteFilter struct {
	FavoriteOnly bool
	PublicOnly   bool
	SortBy       string // createdAt, name, distance
	SortDesc     bool
}

// PublicRouteFilter narrows the public route browser. Distance, when set,
// matches routes within a +/- 10% band.
type PublicRouteFilter struct {
	Distance   *float64
	Difficulty string
	RouteType  string
	Limit      int64
	Offset     int64
}

// RouteRepository defines the interface for drawn routes.
type RouteRepository interface {
	Create(ctx context.Context, route *domain.Route) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Route, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, filter RouteFilter) ([]domain.Route, error)
	ListPublic(ctx context.Context, filter PublicRouteFilter) ([]domain.Route, int64, error)
	Update(ctx context.Context, route *domain.Route) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	// IncrementTimesCompleted applies an atomic counter update ($inc) so
	// concurrent activity writers cannot lose updates.
	IncrementTimesCompleted(ctx context.Context, id primitive.ObjectID, delta int) error
}
