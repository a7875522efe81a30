package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"
	"routeiq/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityHandler holds the activity service dependency.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// --- Request/Response Structs ---

type LogActivityRequest struct {
	Name              string      `json:"name"`
	ActivityType      string      `json:"activityType" binding:"omitempty,oneof=run trail_run race recovery_run"`
	RouteID           *string     `json:"routeId"`
	StartedAt         time.Time   `json:"startedAt" binding:"required"`
	Distance          float64     `json:"distance" binding:"required,gt=0"`
	Duration          int         `json:"duration" binding:"required,gt=0"`
	MovingTime        *int        `json:"movingTime" binding:"omitempty,gt=0"`
	ElevationGain     *float64    `json:"elevationGain"`
	ElevationLoss     *float64    `json:"elevationLoss"`
	AveragePace       *float64    `json:"averagePace"`
	AverageSpeed      *float64    `json:"averageSpeed"`
	MaxSpeed          *float64    `json:"maxSpeed"`
	AverageHeartRate  *int        `json:"averageHeartRate"`
	MaxHeartRate      *int        `json:"maxHeartRate"`
	Calories          *int        `json:"calories"`
	Temperature       *float64    `json:"temperature"`
	WeatherConditions string      `json:"weatherConditions"`
	PerceivedEffort   *int        `json:"perceivedEffort" binding:"omitempty,min=1,max=10"`
	GPSData           interface{} `json:"gpsData"`
	Splits            interface{} `json:"splits"`
	Notes             string      `json:"notes"`
	IsRace            bool        `json:"isRace"`
	IsPrivate         bool        `json:"isPrivate"`
}

// UpdateActivityRequest uses pointers so a PUT body can omit fields it does
// not want to touch.
type UpdateActivityRequest struct {
	Name            *string `json:"name"`
	PerceivedEffort *int    `json:"perceivedEffort" binding:"omitempty,min=1,max=10"`
	Notes           *string `json:"notes"`
	IsRace          *bool   `json:"isRace"`
	IsPrivate       *bool   `json:"isPrivate"`
}

type AttachTrackRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"omitempty,gte=0"`
}

type ActivityResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name,omitempty"`
	ActivityType      string            `json:"activityType"`
	RouteID           *string           `json:"routeId,omitempty"`
	StartedAt         time.Time         `json:"startedAt"`
	Distance          float64           `json:"distance"`
	Duration          int               `json:"duration"`
	MovingTime        *int              `json:"movingTime,omitempty"`
	ElevationGain     *float64          `json:"elevationGain,omitempty"`
	ElevationLoss     *float64          `json:"elevationLoss,omitempty"`
	AveragePace       *float64          `json:"averagePace,omitempty"`
	AverageSpeed      *float64          `json:"averageSpeed,omitempty"`
	MaxSpeed          *float64          `json:"maxSpeed,omitempty"`
	AverageHeartRate  *int              `json:"averageHeartRate,omitempty"`
	MaxHeartRate      *int              `json:"maxHeartRate,omitempty"`
	Calories          *int              `json:"calories,omitempty"`
	Temperature       *float64          `json:"temperature,omitempty"`
	WeatherConditions string            `json:"weatherConditions,omitempty"`
	PerceivedEffort   *int              `json:"perceivedEffort,omitempty"`
	GPSData           interface{}       `json:"gpsData,omitempty"`
	Splits            interface{}       `json:"splits,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	IsRace            bool              `json:"isRace"`
	IsPrivate         bool              `json:"isPrivate"`
	Track             *domain.TrackFile `json:"track,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Total      int64              `json:"total"`
}

// --- Handler Methods ---

// LogActivity records a completed run.
func (h *ActivityHandler) LogActivity(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req LogActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	var routeID *primitive.ObjectID
	if req.RouteID != nil && *req.RouteID != "" {
		id, err := primitive.ObjectIDFromHex(*req.RouteID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid route ID format")
			return
		}
		routeID = &id
	}

	activity, err := h.activityService.LogActivity(c.Request.Context(), userID, service.ActivityInput{
		Name:              req.Name,
		ActivityType:      req.ActivityType,
		RouteID:           routeID,
		StartedAt:         req.StartedAt,
		Distance:          req.Distance,
		Duration:          req.Duration,
		MovingTime:        req.MovingTime,
		ElevationGain:     req.ElevationGain,
		ElevationLoss:     req.ElevationLoss,
		AveragePace:       req.AveragePace,
		AverageSpeed:      req.AverageSpeed,
		MaxSpeed:          req.MaxSpeed,
		AverageHeartRate:  req.AverageHeartRate,
		MaxHeartRate:      req.MaxHeartRate,
		Calories:          req.Calories,
		Temperature:       req.Temperature,
		WeatherConditions: req.WeatherConditions,
		PerceivedEffort:   req.PerceivedEffort,
		GPSData:           req.GPSData,
		Splits:            req.Splits,
		Notes:             req.Notes,
		IsRace:            req.IsRace,
		IsPrivate:         req.IsPrivate,
	})
	if err != nil {
		respondActivityError(c, err, "Failed to log activity")
		return
	}
	c.JSON(http.StatusCreated, MapActivityToResponse(activity))
}

// ListActivities returns a page of the user's runs. Supports ?activityType=,
// ?routeId=, ?startDate=, ?endDate=, ?limit= and ?offset=.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	filter := repository.ActivityFilter{
		ActivityType: c.Query("activityType"),
		Limit:        parseInt64Query(c, "limit", 0),
		Offset:       parseInt64Query(c, "offset", 0),
	}
	if raw := c.Query("routeId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid route ID format")
			return
		}
		filter.RouteID = &id
	}
	if from, ok := parseTimeQuery(c, "startDate"); ok {
		filter.StartDate = from
	}
	if to, ok := parseTimeQuery(c, "endDate"); ok {
		filter.EndDate = to
	}

	activities, total, err := h.activityService.ListActivities(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list activities")
		return
	}

	resp := ActivityListResponse{
		Activities: make([]ActivityResponse, len(activities)),
		Total:      total,
	}
	for i := range activities {
		resp.Activities[i] = MapActivityToResponse(&activities[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetActivity returns one run owned by the user.
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	userID, activityID, ok := activityRequestIDs(c)
	if !ok {
		return
	}

	activity, err := h.activityService.GetActivity(c.Request.Context(), userID, activityID)
	if err != nil {
		respondActivityError(c, err, "Failed to fetch activity")
		return
	}
	c.JSON(http.StatusOK, MapActivityToResponse(activity))
}

// UpdateActivity edits the user-adjustable fields of a run.
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	userID, activityID, ok := activityRequestIDs(c)
	if !ok {
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	activity, err := h.activityService.UpdateActivity(c.Request.Context(), userID, activityID, service.ActivityUpdate{
		Name:            req.Name,
		PerceivedEffort: req.PerceivedEffort,
		Notes:           req.Notes,
		IsRace:          req.IsRace,
		IsPrivate:       req.IsPrivate,
	})
	if err != nil {
		respondActivityError(c, err, "Failed to update activity")
		return
	}
	c.JSON(http.StatusOK, MapActivityToResponse(activity))
}

// DeleteActivity removes a run.
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	userID, activityID, ok := activityRequestIDs(c)
	if !ok {
		return
	}

	if err := h.activityService.DeleteActivity(c.Request.Context(), userID, activityID); err != nil {
		respondActivityError(c, err, "Failed to delete activity")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStats returns the aggregate figures for ?period= (week, month, year,
// all) or an explicit ?startDate=/?endDate= range, plus the trailing 4-week
// breakdown.
func (h *ActivityHandler) GetStats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var start, end *time.Time
	if from, ok := parseTimeQuery(c, "startDate"); ok {
		start = from
	}
	if to, ok := parseTimeQuery(c, "endDate"); ok {
		end = to
	}

	result, err := h.activityService.GetStats(c.Request.Context(), userID, c.Query("period"), start, end)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute statistics")
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// AttachTrack registers a GPS track file on the run and returns a presigned
// upload URL.
func (h *ActivityHandler) AttachTrack(c *gin.Context) {
	userID, activityID, ok := activityRequestIDs(c)
	if !ok {
		return
	}

	var req AttachTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	upload, err := h.activityService.AttachTrack(c.Request.Context(), userID, activityID, req.FileName, req.ContentType, req.Size)
	if err != nil {
		respondActivityError(c, err, "Failed to prepare track upload")
		return
	}
	c.JSON(http.StatusOK, upload)
}

// DownloadTrack returns a presigned download URL for the attached track.
func (h *ActivityHandler) DownloadTrack(c *gin.Context) {
	userID, activityID, ok := activityRequestIDs(c)
	if !ok {
		return
	}

	url, err := h.activityService.TrackDownloadURL(c.Request.Context(), userID, activityID)
	if err != nil {
		if errors.Is(err, service.ErrNoTrackAttached) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			respondActivityError(c, err, "Failed to prepare track download")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// --- Helpers ---

func activityRequestIDs(c *gin.Context) (userID, activityID primitive.ObjectID, ok bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	activityID, err = primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid activity ID format")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, activityID, true
}

func respondActivityError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrActivityNotFound), errors.Is(err, service.ErrRouteNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// MapActivityToResponse converts a domain Activity to its DTO.
func MapActivityToResponse(activity *domain.Activity) ActivityResponse {
	if activity == nil {
		return ActivityResponse{}
	}
	resp := ActivityResponse{
		ID:                activity.ID.Hex(),
		Name:              activity.Name,
		ActivityType:      activity.ActivityType,
		StartedAt:         activity.StartedAt,
		Distance:          activity.Distance,
		Duration:          activity.Duration,
		MovingTime:        activity.MovingTime,
		ElevationGain:     activity.ElevationGain,
		ElevationLoss:     activity.ElevationLoss,
		AveragePace:       activity.AveragePace,
		AverageSpeed:      activity.AverageSpeed,
		MaxSpeed:          activity.MaxSpeed,
		AverageHeartRate:  activity.AverageHeartRate,
		MaxHeartRate:      activity.MaxHeartRate,
		Calories:          activity.Calories,
		Temperature:       activity.Temperature,
		WeatherConditions: activity.WeatherConditions,
		PerceivedEffort:   activity.PerceivedEffort,
		GPSData:           activity.GPSData,
		Splits:            activity.Splits,
		Notes:             activity.Notes,
		IsRace:            activity.IsRace,
		IsPrivate:         activity.IsPrivate,
		Track:             activity.Track,
		CreatedAt:         activity.CreatedAt,
	}
	if activity.RouteID != nil {
		hex := activity.RouteID.Hex()
		resp.RouteID = &hex
	}
	return resp
}
