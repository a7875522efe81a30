package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"
	"routeiq/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RouteHandler holds the route service dependency.
type RouteHandler struct {
	routeService service.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// --- Request/Response Structs ---

type RouteRequest struct {
	Name             string            `json:"name" binding:"required"`
	Description      string            `json:"description"`
	Distance         float64           `json:"distance" binding:"omitempty,gte=0"`
	ElevationGain    *float64          `json:"elevationGain"`
	ElevationLoss    *float64          `json:"elevationLoss"`
	RouteGeometry    domain.LineString `json:"routeGeometry" binding:"required"`
	RouteType        string            `json:"routeType" binding:"omitempty,oneof=loop out_and_back point_to_point"`
	SurfaceTypes     []string          `json:"surfaceTypes"`
	DifficultyRating string            `json:"difficultyRating" binding:"omitempty,oneof=easy moderate hard expert"`
	EstimatedTime    *int              `json:"estimatedTime" binding:"omitempty,gt=0"`
	IsPublic         bool              `json:"isPublic"`
	IsFavorite       bool              `json:"isFavorite"`
}

// UpdateRouteRequest covers the only route fields that can change after
// creation. Omitted fields are left as stored.
type UpdateRouteRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
	IsFavorite  *bool   `json:"isFavorite"`
}

type RouteResponse struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Distance         float64           `json:"distance"`
	ElevationGain    *float64          `json:"elevationGain,omitempty"`
	ElevationLoss    *float64          `json:"elevationLoss,omitempty"`
	RouteGeometry    domain.LineString `json:"routeGeometry"`
	StartPointLat    float64           `json:"startPointLat"`
	StartPointLng    float64           `json:"startPointLng"`
	EndPointLat      float64           `json:"endPointLat"`
	EndPointLng      float64           `json:"endPointLng"`
	RouteType        string            `json:"routeType"`
	SurfaceTypes     []string          `json:"surfaceTypes,omitempty"`
	DifficultyRating string            `json:"difficultyRating,omitempty"`
	EstimatedTime    *int              `json:"estimatedTime,omitempty"`
	IsPublic         bool              `json:"isPublic"`
	IsFavorite       bool              `json:"isFavorite"`
	TimesCompleted   int               `json:"timesCompleted"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type PublicRouteListResponse struct {
	Routes []RouteResponse `json:"routes"`
	Total  int64           `json:"total"`
}

// --- Handler Methods ---

// CreateRoute persists a hand-drawn route. When no distance is supplied it
// is derived from the geometry.
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), userID, mapRouteInput(req))
	if err != nil {
		respondRouteError(c, err, "Failed to create route")
		return
	}
	c.JSON(http.StatusCreated, MapRouteToResponse(route))
}

// ListRoutes returns the user's own routes. Supports ?favorite=true,
// ?public=true, ?sortBy= and ?sortDesc=true.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	filter := repository.RouteFilter{
		FavoriteOnly: c.Query("favorite") == "true",
		PublicOnly:   c.Query("public") == "true",
		SortBy:       c.Query("sortBy"),
		SortDesc:     c.Query("sortDesc") == "true",
	}

	routes, err := h.routeService.ListRoutes(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list routes")
		return
	}

	resp := make([]RouteResponse, len(routes))
	for i := range routes {
		resp[i] = MapRouteToResponse(&routes[i])
	}
	c.JSON(http.StatusOK, resp)
}

// BrowsePublicRoutes pages through routes shared by all users. Supports
// ?distance= (+/- 10% band), ?difficulty=, ?routeType=, ?limit= and ?offset=.
func (h *RouteHandler) BrowsePublicRoutes(c *gin.Context) {
	filter := repository.PublicRouteFilter{
		Difficulty: c.Query("difficulty"),
		RouteType:  c.Query("routeType"),
		Limit:      parseInt64Query(c, "limit", 0),
		Offset:     parseInt64Query(c, "offset", 0),
	}
	if raw := c.Query("distance"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || d <= 0 {
			abortWithError(c, http.StatusBadRequest, "Invalid distance filter")
			return
		}
		filter.Distance = &d
	}

	routes, total, err := h.routeService.BrowsePublicRoutes(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to browse public routes")
		return
	}

	resp := PublicRouteListResponse{
		Routes: make([]RouteResponse, len(routes)),
		Total:  total,
	}
	for i := range routes {
		resp.Routes[i] = MapRouteToResponse(&routes[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetRoute returns one route the user owns or any public route.
func (h *RouteHandler) GetRoute(c *gin.Context) {
	userID, routeID, ok := routeRequestIDs(c)
	if !ok {
		return
	}

	route, err := h.routeService.GetRoute(c.Request.Context(), userID, routeID)
	if err != nil {
		respondRouteError(c, err, "Failed to fetch route")
		return
	}
	c.JSON(http.StatusOK, MapRouteToResponse(route))
}

// UpdateRoute edits the metadata of an owned route.
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	userID, routeID, ok := routeRequestIDs(c)
	if !ok {
		return
	}

	var req UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	route, err := h.routeService.UpdateRoute(c.Request.Context(), userID, routeID, service.RouteUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		IsFavorite:  req.IsFavorite,
	})
	if err != nil {
		respondRouteError(c, err, "Failed to update route")
		return
	}
	c.JSON(http.StatusOK, MapRouteToResponse(route))
}

// DeleteRoute removes an owned route.
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	userID, routeID, ok := routeRequestIDs(c)
	if !ok {
		return
	}

	if err := h.routeService.DeleteRoute(c.Request.Context(), userID, routeID); err != nil {
		respondRouteError(c, err, "Failed to delete route")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Helpers ---

func routeRequestIDs(c *gin.Context) (userID, routeID primitive.ObjectID, ok bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	routeID, err = primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid route ID format")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, routeID, true
}

func respondRouteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrRouteNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

func mapRouteInput(req RouteRequest) service.RouteInput {
	return service.RouteInput{
		Name:             req.Name,
		Description:      req.Description,
		Distance:         req.Distance,
		ElevationGain:    req.ElevationGain,
		ElevationLoss:    req.ElevationLoss,
		Geometry:         req.RouteGeometry,
		RouteType:        req.RouteType,
		SurfaceTypes:     req.SurfaceTypes,
		DifficultyRating: req.DifficultyRating,
		EstimatedTime:    req.EstimatedTime,
		IsPublic:         req.IsPublic,
		IsFavorite:       req.IsFavorite,
	}
}

// MapRouteToResponse converts a domain Route to its DTO.
func MapRouteToResponse(route *domain.Route) RouteResponse {
	if route == nil {
		return RouteResponse{}
	}
	return RouteResponse{
		ID:               route.ID.Hex(),
		UserID:           route.UserID.Hex(),
		Name:             route.Name,
		Description:      route.Description,
		Distance:         route.Distance,
		ElevationGain:    route.ElevationGain,
		ElevationLoss:    route.ElevationLoss,
		RouteGeometry:    route.Geometry,
		StartPointLat:    route.StartPointLat,
		StartPointLng:    route.StartPointLng,
		EndPointLat:      route.EndPointLat,
		EndPointLng:      route.EndPointLng,
		RouteType:        route.RouteType,
		SurfaceTypes:     route.SurfaceTypes,
		DifficultyRating: route.DifficultyRating,
		EstimatedTime:    route.EstimatedTime,
		IsPublic:         route.IsPublic,
		IsFavorite:       route.IsFavorite,
		TimesCompleted:   route.TimesCompleted,
		CreatedAt:        route.CreatedAt,
	}
}
