package service

import (
	"context"
	"testing"

	"routeiq/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateRouteDerivesDistanceAndEndpoints(t *testing.T) {
	routes := newFakeRouteRepo()
	svc := NewRouteService(routes)
	userID := primitive.NewObjectID()

	route, err := svc.CreateRoute(context.Background(), userID, RouteInput{
		Name: "Canal loop",
		Geometry: domain.LineString{
			Coordinates: [][]float64{
				{4.3007, 52.0705},
				{4.3107, 52.0705},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, userID, route.UserID)
	assert.Equal(t, "LineString", route.Geometry.Type)
	assert.InDelta(t, 690, route.Distance, 690*0.05)
	assert.Equal(t, 52.0705, route.StartPointLat)
	assert.Equal(t, 4.3007, route.StartPointLng)
	assert.Equal(t, 52.0705, route.EndPointLat)
	assert.Equal(t, 4.3107, route.EndPointLng)
	assert.Equal(t, domain.RouteLoop, route.RouteType)
}

func TestCreateRouteKeepsSuppliedDistance(t *testing.T) {
	svc := NewRouteService(newFakeRouteRepo())

	route, err := svc.CreateRoute(context.Background(), primitive.NewObjectID(), RouteInput{
		Name:     "Measured 5K",
		Distance: 5000,
		Geometry: domain.LineString{
			Coordinates: [][]float64{{4.30, 52.07}, {4.31, 52.08}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, route.Distance)
}

func TestCreateRouteValidation(t *testing.T) {
	svc := NewRouteService(newFakeRouteRepo())
	userID := primitive.NewObjectID()

	_, err := svc.CreateRoute(context.Background(), userID, RouteInput{
		Geometry: domain.LineString{Coordinates: [][]float64{{4.30, 52.07}, {4.31, 52.08}}},
	})
	assert.ErrorIs(t, err, ErrValidationFailed, "name is required")

	_, err = svc.CreateRoute(context.Background(), userID, RouteInput{
		Name:     "Too short",
		Geometry: domain.LineString{Coordinates: [][]float64{{4.30, 52.07}}},
	})
	assert.ErrorIs(t, err, ErrValidationFailed, "needs at least 2 points")

	_, err = svc.CreateRoute(context.Background(), userID, RouteInput{
		Name:      "Bad type",
		RouteType: "spiral",
		Geometry:  domain.LineString{Coordinates: [][]float64{{4.30, 52.07}, {4.31, 52.08}}},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestGetRouteVisibility(t *testing.T) {
	routes := newFakeRouteRepo()
	ownerID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()

	privateID, err := routes.Create(context.Background(), &domain.Route{UserID: ownerID, Name: "Secret trail"})
	require.NoError(t, err)
	publicID, err := routes.Create(context.Background(), &domain.Route{UserID: ownerID, Name: "Shared loop", IsPublic: true})
	require.NoError(t, err)

	svc := NewRouteService(routes)

	_, err = svc.GetRoute(context.Background(), ownerID, privateID)
	assert.NoError(t, err)

	_, err = svc.GetRoute(context.Background(), strangerID, privateID)
	assert.ErrorIs(t, err, ErrRouteNotFound)

	_, err = svc.GetRoute(context.Background(), strangerID, publicID)
	assert.NoError(t, err)
}

func strp(s string) *string { return &s }

func boolp(b bool) *bool { return &b }

func TestUpdateRouteAppliesMetadata(t *testing.T) {
	routes := newFakeRouteRepo()
	ownerID := primitive.NewObjectID()
	routeID, err := routes.Create(context.Background(), &domain.Route{
		UserID:         ownerID,
		Name:           "Park loop",
		Description:    "Flat gravel loop",
		TimesCompleted: 7,
	})
	require.NoError(t, err)

	svc := NewRouteService(routes)
	updated, err := svc.UpdateRoute(context.Background(), ownerID, routeID, RouteUpdate{
		Name:       strp("Park loop (extended)"),
		IsFavorite: boolp(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Park loop (extended)", updated.Name)
	assert.True(t, updated.IsFavorite)
	assert.Equal(t, 7, updated.TimesCompleted)
	// Omitted fields stay as stored.
	assert.Equal(t, "Flat gravel loop", updated.Description)

	stored, err := routes.GetByID(context.Background(), routeID)
	require.NoError(t, err)
	assert.Equal(t, "Park loop (extended)", stored.Name)
	assert.True(t, stored.IsFavorite)
}

func TestUpdateRouteResponseMatchesStoredDocument(t *testing.T) {
	routes := newFakeRouteRepo()
	ownerID := primitive.NewObjectID()

	svc := NewRouteService(routes)
	created, err := svc.CreateRoute(context.Background(), ownerID, RouteInput{
		Name: "Canal loop",
		Geometry: domain.LineString{
			Coordinates: [][]float64{{4.3007, 52.0705}, {4.3107, 52.0705}},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateRoute(context.Background(), ownerID, created.ID, RouteUpdate{
		Description: strp("Towpath along the canal"),
	})
	require.NoError(t, err)

	// The returned value must agree with what a reload sees: geometry,
	// distance and endpoints untouched, metadata changed.
	stored, err := routes.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Distance, updated.Distance)
	assert.Equal(t, stored.Geometry, updated.Geometry)
	assert.Equal(t, stored.StartPointLat, updated.StartPointLat)
	assert.Equal(t, stored.EndPointLng, updated.EndPointLng)
	assert.Equal(t, "Towpath along the canal", stored.Description)
	assert.Equal(t, created.Distance, stored.Distance)
}

func TestUpdateRouteRejectsEmptyName(t *testing.T) {
	routes := newFakeRouteRepo()
	ownerID := primitive.NewObjectID()
	routeID, err := routes.Create(context.Background(), &domain.Route{UserID: ownerID, Name: "Park loop"})
	require.NoError(t, err)

	svc := NewRouteService(routes)
	_, err = svc.UpdateRoute(context.Background(), ownerID, routeID, RouteUpdate{Name: strp("")})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestUpdateRouteNotOwned(t *testing.T) {
	routes := newFakeRouteRepo()
	routeID, err := routes.Create(context.Background(), &domain.Route{
		UserID:   primitive.NewObjectID(),
		IsPublic: true,
	})
	require.NoError(t, err)

	svc := NewRouteService(routes)
	_, err = svc.UpdateRoute(context.Background(), primitive.NewObjectID(), routeID, RouteUpdate{
		Name: strp("Hijacked"),
	})
	assert.ErrorIs(t, err, ErrRouteNotFound, "public routes are readable but not editable by others")
}
