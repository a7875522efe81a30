package mongo

import (
	"context"
	"errors"
	"time"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

const defaultPageSize = 20

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository backed by MongoDB.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout or template.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout requires userId")
	}
	if len(workout.Exercises) == 0 {
		return primitive.NilObjectID, errors.New("workout requires at least one exercise")
	}

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a workout scoped to its owner.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// List returns a page of the user's workouts (or templates), newest first,
// plus the total match count.
func (r *mongoWorkoutRepository) List(ctx context.Context, userID primitive.ObjectID, isTemplate bool, filter repository.WorkoutFilter) ([]domain.Workout, int64, error) {
	query := bson.M{"userId": userID, "isTemplate": isTemplate}
	if filter.WorkoutType != "" {
		query["workoutType"] = filter.WorkoutType
	}
	if filter.StartDate != nil {
		started := bson.M{"$gte": *filter.StartDate}
		if filter.EndDate != nil {
			started["$lte"] = *filter.EndDate
		}
		query["startedAt"] = started
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip(filter.Offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, 0, err
	}
	return workouts, total, nil
}

// Update rewrites the mutable metadata of a workout. Exercise entries and
// derived totals are fixed at log time.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}

	filter := bson.M{"_id": workout.ID, "userId": workout.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":            workout.Name,
			"workoutType":     workout.WorkoutType,
			"perceivedEffort": workout.PerceivedEffort,
			"energyLevel":     workout.EnergyLevel,
			"notes":           workout.Notes,
			"location":        workout.Location,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout, enforcing ownership in the filter.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// LatestWithExercise finds the most recently started logged workout of the
// user that references the exercise.
func (r *mongoWorkoutRepository) LatestWithExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Workout, error) {
	filter := bson.M{
		"userId":               userID,
		"isTemplate":           false,
		"exercises.exerciseId": exerciseID,
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})

	var workout domain.Workout
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isTemplate", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Serves the progressive-overload lookup.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exercises.exerciseId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
