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

const activityCollectionName = "activities"

// mongoActivityRepository implements repository.ActivityRepository
type mongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new Activity repository backed by MongoDB.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// Create inserts a new activity.
func (r *mongoActivityRepository) Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	if activity.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("activity requires userId")
	}
	if activity.Distance <= 0 || activity.Duration <= 0 {
		return primitive.NilObjectID, errors.New("activity distance and duration must be positive")
	}

	activity.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted activity ID")
	}
	return insertedID, nil
}

// GetByID retrieves an activity scoped to its owner.
func (r *mongoActivityRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.Activity, error) {
	var activity domain.Activity
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// List returns a page of the user's activities, newest first, plus the total
// match count.
func (r *mongoActivityRepository) List(ctx context.Context, userID primitive.ObjectID, filter repository.ActivityFilter) ([]domain.Activity, int64, error) {
	query := bson.M{"userId": userID}
	if filter.ActivityType != "" {
		query["activityType"] = filter.ActivityType
	}
	if filter.RouteID != nil {
		query["routeId"] = *filter.RouteID
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
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetSkip(filter.Offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var activities []domain.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// ListInRange returns the user's activities with startedAt in [from, to),
// oldest first. Nil bounds are open.
func (r *mongoActivityRepository) ListInRange(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.Activity, error) {
	query := bson.M{"userId": userID}
	started := bson.M{}
	if from != nil {
		started["$gte"] = *from
	}
	if to != nil {
		started["$lt"] = *to
	}
	if len(started) > 0 {
		query["startedAt"] = started
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "startedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []domain.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Update persists the editable fields of an activity.
func (r *mongoActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	if activity.ID == primitive.NilObjectID {
		return errors.New("activity ID is required for update")
	}

	filter := bson.M{"_id": activity.ID, "userId": activity.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":            activity.Name,
			"perceivedEffort": activity.PerceivedEffort,
			"notes":           activity.Notes,
			"isRace":          activity.IsRace,
			"isPrivate":       activity.IsPrivate,
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

// Delete removes an activity, enforcing ownership in the filter.
func (r *mongoActivityRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetTrack stores (or clears, with nil) the GPS track file metadata.
func (r *mongoActivityRepository) SetTrack(ctx context.Context, id, userID primitive.ObjectID, track *domain.TrackFile) error {
	filter := bson.M{"_id": id, "userId": userID}
	var update bson.M
	if track == nil {
		update = bson.M{
			"$unset": bson.M{"track": ""},
			"$set":   bson.M{"updatedAt": time.Now().UTC()},
		}
	} else {
		update = bson.M{
			"$set": bson.M{"track": track, "updatedAt": time.Now().UTC()},
		}
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

// EnsureActivityIndexes creates necessary indexes. Call during startup.
func EnsureActivityIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "routeId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
