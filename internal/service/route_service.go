package service

import (
	"context"
	"errors"
	"fmt"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RouteInput is the submitted shape of a drawn route. Distance, when zero,
// is derived from the geometry.
type RouteInput struct {
	Name             string
	Description      string
	Distance         float64
	ElevationGain    *float64
	ElevationLoss    *float64
	Geometry         domain.LineString
	RouteType        string
	SurfaceTypes     []string
	DifficultyRating string
	EstimatedTime    *int
	IsPublic         bool
	IsFavorite       bool
}

// RouteUpdate carries the editable fields of a saved route. Nil fields are
// left unchanged. Geometry, distance and the derived endpoints are fixed at
// creation.
type RouteUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
	IsFavorite  *bool
}

type RouteService interface {
	CreateRoute(ctx context.Context, userID primitive.ObjectID, input RouteInput) (*domain.Route, error)
	ListRoutes(ctx context.Context, userID primitive.ObjectID, filter repository.RouteFilter) ([]domain.Route, error)
	GetRoute(ctx context.Context, userID, routeID primitive.ObjectID) (*domain.Route, error)
	UpdateRoute(ctx context.Context, userID, routeID primitive.ObjectID, update RouteUpdate) (*domain.Route, error)
	DeleteRoute(ctx context.Context, userID, routeID primitive.ObjectID) error
	BrowsePublicRoutes(ctx context.Context, filter repository.PublicRouteFilter) ([]domain.Route, int64, error)
}

// routeService implements the RouteService interface.
type routeService struct {
	routeRepo repository.RouteRepository
}

// NewRouteService creates a new instance of routeService.
func NewRouteService(routeRepo repository.RouteRepository) RouteService {
	return &routeService{routeRepo: routeRepo}
}

// buildRoute checks the shared create/update constraints and fills the
// derived fields (distance, start/end points) into a Route value.
func buildRoute(input RouteInput) (*domain.Route, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: route name is required", ErrValidationFailed)
	}
	if len(input.Geometry.Coordinates) < 2 {
		return nil, fmt.Errorf("%w: route geometry needs at least 2 points", ErrValidationFailed)
	}
	for _, c := range input.Geometry.Coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("%w: each coordinate must be a [longitude, latitude] pair", ErrValidationFailed)
		}
	}
	routeType := input.RouteType
	if routeType == "" {
		routeType = domain.RouteLoop
	}
	switch routeType {
	case domain.RouteLoop, domain.RouteOutAndBack, domain.RoutePointToPoint:
	default:
		return nil, fmt.Errorf("%w: unknown route type %q", ErrValidationFailed, routeType)
	}
	switch input.DifficultyRating {
	case "", "easy", "moderate", "hard", "expert":
	default:
		return nil, fmt.Errorf("%w: unknown difficulty rating %q", ErrValidationFailed, input.DifficultyRating)
	}

	geometry := input.Geometry
	geometry.Type = "LineString"

	distance := input.Distance
	if distance <= 0 {
		distance = geometry.DistanceMeters()
	}

	startLng, startLat, _ := geometry.StartPoint()
	endLng, endLat, _ := geometry.EndPoint()

	return &domain.Route{
		Name:             input.Name,
		Description:      input.Description,
		Distance:         distance,
		ElevationGain:    input.ElevationGain,
		ElevationLoss:    input.ElevationLoss,
		Geometry:         geometry,
		StartPointLat:    startLat,
		StartPointLng:    startLng,
		EndPointLat:      endLat,
		EndPointLng:      endLng,
		RouteType:        routeType,
		SurfaceTypes:     input.SurfaceTypes,
		DifficultyRating: input.DifficultyRating,
		EstimatedTime:    input.EstimatedTime,
		IsPublic:         input.IsPublic,
		IsFavorite:       input.IsFavorite,
	}, nil
}

// CreateRoute validates and persists a drawn route.
func (s *routeService) CreateRoute(ctx context.Context, userID primitive.ObjectID, input RouteInput) (*domain.Route, error) {
	route, err := buildRoute(input)
	if err != nil {
		return nil, err
	}
	route.UserID = userID

	id, err := s.routeRepo.Create(ctx, route)
	if err != nil {
		return nil, err
	}
	route.ID = id
	return route, nil
}

// ListRoutes returns the user's own routes.
func (s *routeService) ListRoutes(ctx context.Context, userID primitive.ObjectID, filter repository.RouteFilter) ([]domain.Route, error) {
	return s.routeRepo.ListByUser(ctx, userID, filter)
}

// GetRoute fetches a route the user owns or any public route.
func (s *routeService) GetRoute(ctx context.Context, userID, routeID primitive.ObjectID) (*domain.Route, error) {
	route, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	if !route.VisibleTo(userID) {
		return nil, ErrRouteNotFound
	}
	return route, nil
}

// UpdateRoute applies the editable metadata of a route the user owns. Only
// name, description and the public/favorite flags can change; a new geometry
// means a new route.
func (s *routeService) UpdateRoute(ctx context.Context, userID, routeID primitive.ObjectID, update RouteUpdate) (*domain.Route, error) {
	existing, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrRouteNotFound
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("%w: route name cannot be empty", ErrValidationFailed)
		}
		existing.Name = *update.Name
	}
	if update.Description != nil {
		existing.Description = *update.Description
	}
	if update.IsPublic != nil {
		existing.IsPublic = *update.IsPublic
	}
	if update.IsFavorite != nil {
		existing.IsFavorite = *update.IsFavorite
	}

	if err := s.routeRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteRoute removes a route the user owns. Activities referencing it keep
// their stored routeId.
func (s *routeService) DeleteRoute(ctx context.Context, userID, routeID primitive.ObjectID) error {
	err := s.routeRepo.Delete(ctx, routeID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRouteNotFound
	}
	return err
}

// BrowsePublicRoutes pages through routes shared by all users.
func (s *routeService) BrowsePublicRoutes(ctx context.Context, filter repository.PublicRouteFilter) ([]domain.Route, int64, error) {
	return s.routeRepo.ListPublic(ctx, filter)
}
