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

const routeCollectionName = "routes"

// mongoRouteRepository implements repository.RouteRepository
type mongoRouteRepository struct {
	collection *mongo.Collection
}

// NewMongoRouteRepository creates a new Route repository backed by MongoDB.
func NewMongoRouteRepository(db *mongo.Database) repository.RouteRepository {
	return &mongoRouteRepository{
		collection: db.Collection(routeCollectionName),
	}
}

// Create inserts a new route.
func (r *mongoRouteRepository) Create(ctx context.Context, route *domain.Route) (primitive.ObjectID, error) {
	if route.UserID == primitive.NilObjectID || route.Name == "" {
		return primitive.NilObjectID, errors.New("route requires userId and name")
	}
	if len(route.Geometry.Coordinates) < 2 {
		return primitive.NilObjectID, errors.New("route geometry requires at least 2 points")
	}

	route.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	route.CreatedAt = now
	route.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, route)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted route ID")
	}
	return insertedID, nil
}

// GetByID retrieves a route by ID. Visibility (owner or public) is decided
// by the service layer.
func (r *mongoRouteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Route, error) {
	var route domain.Route
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&route)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &route, nil
}

// ListByUser returns the user's own routes.
func (r *mongoRouteRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, filter repository.RouteFilter) ([]domain.Route, error) {
	query := bson.M{"userId": userID}
	if filter.FavoriteOnly {
		query["isFavorite"] = true
	}
	if filter.PublicOnly {
		query["isPublic"] = true
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "name", "distance", "createdAt":
	default:
		sortBy = "createdAt"
	}
	order := 1
	if filter.SortDesc {
		order = -1
	}
	findOptions := options.Find().SetSort(bson.D{{Key: sortBy, Value: order}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routes []domain.Route
	if err = cursor.All(ctx, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// ListPublic returns a page of public routes, newest first, plus the total
// match count. A distance filter matches within a +/- 10% band.
func (r *mongoRouteRepository) ListPublic(ctx context.Context, filter repository.PublicRouteFilter) ([]domain.Route, int64, error) {
	query := bson.M{"isPublic": true}
	if filter.Distance != nil {
		query["distance"] = bson.M{
			"$gte": *filter.Distance * 0.9,
			"$lte": *filter.Distance * 1.1,
		}
	}
	if filter.Difficulty != "" {
		query["difficultyRating"] = filter.Difficulty
	}
	if filter.RouteType != "" {
		query["routeType"] = filter.RouteType
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
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(filter.Offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var routes []domain.Route
	if err = cursor.All(ctx, &routes); err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}

// Update persists the editable fields of a route. Geometry and derived
// points are fixed at creation.
func (r *mongoRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	if route.ID == primitive.NilObjectID {
		return errors.New("route ID is required for update")
	}

	filter := bson.M{"_id": route.ID, "userId": route.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":        route.Name,
			"description": route.Description,
			"isFavorite":  route.IsFavorite,
			"isPublic":    route.IsPublic,
			"updatedAt":   time.Now().UTC(),
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

// Delete removes a route, enforcing ownership in the filter.
func (r *mongoRouteRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementTimesCompleted applies an atomic $inc so concurrent activity
// creations and deletions against the same route cannot lose updates.
func (r *mongoRouteRepository) IncrementTimesCompleted(ctx context.Context, id primitive.ObjectID, delta int) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"timesCompleted": delta},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRouteIndexes creates necessary indexes. Call during startup.
func EnsureRouteIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isPublic", Value: 1}, {Key: "distance", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
