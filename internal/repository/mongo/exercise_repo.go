package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// visibleFilter matches global entries plus the user's own custom entries.
func visibleFilter(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"isCustom": false},
			bson.M{"createdByUserId": userID},
		},
	}
}

// nameSearchRegex builds a case-insensitive literal substring match. User
// input like "biceps (cable)" must never be interpreted as a pattern.
func nameSearchRegex(search string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
}

// Create inserts a new exercise (seeded or user-created custom entry).
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.Category == "" {
		return primitive.NilObjectID, errors.New("exercise name and category are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// ListVisible returns the library entries visible to the user, optionally
// narrowed by category, muscle group or a case-insensitive name search.
func (r *mongoExerciseRepository) ListVisible(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	query := visibleFilter(userID)
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MuscleGroup != "" {
		query["muscleGroups"] = filter.MuscleGroup
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": nameSearchRegex(filter.Search)}
	}

	findOptions := options.Find().SetSort(bson.D{
		{Key: "isCustom", Value: 1},
		{Key: "category", Value: 1},
		{Key: "name", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetVisibleByIDs returns the subset of the given IDs that exist and are
// visible to the user. Callers compare lengths to detect missing references.
func (r *mongoExerciseRepository) GetVisibleByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := visibleFilter(userID)
	query["_id"] = bson.M{"$in": ids}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// CountSeeded returns how many global (non-custom) entries exist. Used to
// decide whether the library needs seeding at startup.
func CountSeeded(ctx context.Context, db *mongo.Database) (int64, error) {
	return db.Collection(exerciseCollectionName).CountDocuments(ctx, bson.M{"isCustom": false})
}

// EnsureExerciseIndexes creates necessary indexes. Call during startup.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "isCustom", Value: 1}, {Key: "category", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdByUserId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
