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

const draftCollectionName = "workout_drafts"

// mongoDraftRepository implements repository.DraftRepository. Drafts are
// keyed by user ID (_id), so each user holds at most one.
type mongoDraftRepository struct {
	collection *mongo.Collection
}

// NewMongoDraftRepository creates a new workout draft repository backed by MongoDB.
func NewMongoDraftRepository(db *mongo.Database) repository.DraftRepository {
	return &mongoDraftRepository{
		collection: db.Collection(draftCollectionName),
	}
}

// Get loads the user's parked draft, or ErrNotFound.
func (r *mongoDraftRepository) Get(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutDraft, error) {
	var draft domain.WorkoutDraft
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&draft)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// Save upserts the user's draft, replacing any previous one.
func (r *mongoDraftRepository) Save(ctx context.Context, draft *domain.WorkoutDraft) error {
	if draft.UserID == primitive.NilObjectID {
		return errors.New("draft requires userId")
	}
	draft.SavedAt = time.Now().UTC()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": draft.UserID}, draft, opts)
	return err
}

// Clear removes the user's draft. Clearing an absent draft is not an error.
func (r *mongoDraftRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
