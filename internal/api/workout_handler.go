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

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type WorkoutSetRequest struct {
	Reps        int      `json:"reps" binding:"required,gt=0"`
	Weight      *float64 `json:"weight" binding:"omitempty,gte=0"`
	RestSeconds *int     `json:"restSeconds" binding:"omitempty,gte=0"`
	RPE         *int     `json:"rpe" binding:"omitempty,min=1,max=10"`
	Notes       string   `json:"notes"`
	Completed   *bool    `json:"completed"`
}

type WorkoutExerciseRequest struct {
	ExerciseID          string              `json:"exerciseId" binding:"required"`
	Sets                []WorkoutSetRequest `json:"sets" binding:"required,min=1"`
	Notes               string              `json:"notes"`
	Status              string              `json:"status" binding:"omitempty,oneof=pending skipped substituted completed"`
	ProgressiveOverload bool                `json:"progressiveOverload"`
}

type LogWorkoutRequest struct {
	Name            string                   `json:"name"`
	WorkoutType     string                   `json:"workoutType"`
	StartedAt       *time.Time               `json:"startedAt" binding:"required"`
	CompletedAt     *time.Time               `json:"completedAt"`
	PerceivedEffort *int                     `json:"perceivedEffort" binding:"omitempty,min=1,max=10"`
	EnergyLevel     *int                     `json:"energyLevel" binding:"omitempty,min=1,max=10"`
	Notes           string                   `json:"notes"`
	Location        string                   `json:"location"`
	Exercises       []WorkoutExerciseRequest `json:"exercises" binding:"required,min=1"`
}

type CreateTemplateRequest struct {
	Name        string                   `json:"name" binding:"required"`
	WorkoutType string                   `json:"workoutType"`
	Notes       string                   `json:"notes"`
	Exercises   []WorkoutExerciseRequest `json:"exercises" binding:"required,min=1"`
}

// UpdateWorkoutRequest uses pointers so a PUT body can omit fields it does
// not want to touch.
type UpdateWorkoutRequest struct {
	Name            *string `json:"name"`
	WorkoutType     *string `json:"workoutType"`
	PerceivedEffort *int    `json:"perceivedEffort" binding:"omitempty,min=1,max=10"`
	EnergyLevel     *int    `json:"energyLevel" binding:"omitempty,min=1,max=10"`
	Notes           *string `json:"notes"`
	Location        *string `json:"location"`
}

type WorkoutExerciseResponse struct {
	ExerciseID          string              `json:"exerciseId"`
	ExerciseOrder       int                 `json:"exerciseOrder"`
	Sets                []domain.WorkoutSet `json:"sets"`
	TotalSets           int                 `json:"totalSets"`
	TotalReps           int                 `json:"totalReps"`
	TotalVolume         float64             `json:"totalVolume"`
	MaxWeight           *float64            `json:"maxWeight,omitempty"`
	Status              string              `json:"status"`
	ProgressiveOverload bool                `json:"progressiveOverload"`
	Notes               string              `json:"notes,omitempty"`
}

type WorkoutResponse struct {
	ID              string                    `json:"id"`
	Name            string                    `json:"name,omitempty"`
	WorkoutType     string                    `json:"workoutType,omitempty"`
	StartedAt       *time.Time                `json:"startedAt,omitempty"`
	CompletedAt     *time.Time                `json:"completedAt,omitempty"`
	TotalDuration   *int                      `json:"totalDuration,omitempty"`
	TotalVolume     float64                   `json:"totalVolume"`
	TotalReps       int                       `json:"totalReps"`
	PerceivedEffort *int                      `json:"perceivedEffort,omitempty"`
	EnergyLevel     *int                      `json:"energyLevel,omitempty"`
	Notes           string                    `json:"notes,omitempty"`
	Location        string                    `json:"location,omitempty"`
	IsTemplate      bool                      `json:"isTemplate"`
	Exercises       []WorkoutExerciseResponse `json:"exercises"`
	CreatedAt       time.Time                 `json:"createdAt"`
}

type WorkoutListResponse struct {
	Workouts []WorkoutResponse `json:"workouts"`
	Total    int64             `json:"total"`
}

type SaveDraftRequest struct {
	Name        string                   `json:"name"`
	WorkoutType string                   `json:"workoutType"`
	StartedAt   *time.Time               `json:"startedAt"`
	Notes       string                   `json:"notes"`
	Exercises   []WorkoutExerciseRequest `json:"exercises"`
}

// --- Handler Methods ---

// LogWorkout records a performed strength session.
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entries, err := mapExerciseEntries(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.LogWorkout(c.Request.Context(), userID, service.WorkoutInput{
		Name:            req.Name,
		WorkoutType:     req.WorkoutType,
		StartedAt:       req.StartedAt,
		CompletedAt:     req.CompletedAt,
		PerceivedEffort: req.PerceivedEffort,
		EnergyLevel:     req.EnergyLevel,
		Notes:           req.Notes,
		Location:        req.Location,
		Exercises:       entries,
	})
	if err != nil {
		respondWorkoutError(c, err, "Failed to log workout")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// CreateTemplate saves a reusable workout plan.
func (h *WorkoutHandler) CreateTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entries, err := mapExerciseEntries(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	template, err := h.workoutService.CreateTemplate(c.Request.Context(), userID, service.WorkoutInput{
		Name:        req.Name,
		WorkoutType: req.WorkoutType,
		Notes:       req.Notes,
		Exercises:   entries,
	})
	if err != nil {
		respondWorkoutError(c, err, "Failed to create template")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(template))
}

// ListWorkouts returns a page of logged workouts, newest first. Supports
// ?workoutType=, ?startDate=, ?endDate=, ?limit= and ?offset=.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	filter := repository.WorkoutFilter{
		WorkoutType: c.Query("workoutType"),
		Limit:       parseInt64Query(c, "limit", 0),
		Offset:      parseInt64Query(c, "offset", 0),
	}
	if from, ok := parseTimeQuery(c, "startDate"); ok {
		filter.StartDate = from
	}
	if to, ok := parseTimeQuery(c, "endDate"); ok {
		filter.EndDate = to
	}

	workouts, total, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}
	c.JSON(http.StatusOK, mapWorkoutList(workouts, total))
}

// ListTemplates returns the user's templates, name-sorted.
func (h *WorkoutHandler) ListTemplates(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	templates, err := h.workoutService.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	resp := make([]WorkoutResponse, len(templates))
	for i := range templates {
		resp[i] = MapWorkoutToResponse(&templates[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetWorkout returns one workout or template owned by the user.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	workout, err := h.workoutService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		respondWorkoutError(c, err, "Failed to fetch workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// UpdateWorkout edits the metadata of a logged workout.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutID, service.WorkoutUpdate{
		Name:            req.Name,
		WorkoutType:     req.WorkoutType,
		PerceivedEffort: req.PerceivedEffort,
		EnergyLevel:     req.EnergyLevel,
		Notes:           req.Notes,
		Location:        req.Location,
	})
	if err != nil {
		respondWorkoutError(c, err, "Failed to update workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout removes a workout or template.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutID); err != nil {
		respondWorkoutError(c, err, "Failed to delete workout")
		return
	}
	c.Status(http.StatusNoContent)
}

// SuggestWeight returns the progressive-overload advisory for an exercise.
func (h *WorkoutHandler) SuggestWeight(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	suggestion, err := h.workoutService.SuggestNextWeight(c.Request.Context(), userID, exerciseID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute weight suggestion")
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// GetDraft loads the user's parked workout draft.
func (h *WorkoutHandler) GetDraft(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	draft, err := h.workoutService.GetDraft(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch draft")
		}
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SaveDraft parks an in-progress workout, replacing any previous draft.
func (h *WorkoutHandler) SaveDraft(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	// Drafts are free-form; entries are stored as submitted without the
	// totals validation applied at log time.
	exercises := make([]domain.WorkoutExercise, len(req.Exercises))
	for i, in := range req.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(in.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid exercise ID format: %s", in.ExerciseID))
			return
		}
		sets := make([]domain.WorkoutSet, len(in.Sets))
		for j, setIn := range in.Sets {
			sets[j] = domain.WorkoutSet{
				Set:         j + 1,
				Reps:        setIn.Reps,
				Weight:      setIn.Weight,
				RestSeconds: setIn.RestSeconds,
				RPE:         setIn.RPE,
				Notes:       setIn.Notes,
				Completed:   setIn.Completed,
			}
		}
		status := domain.ExerciseStatus(in.Status)
		if status == "" {
			status = domain.ExercisePending
		}
		exercises[i] = domain.WorkoutExercise{
			ExerciseID:          exerciseID,
			ExerciseOrder:       i + 1,
			Sets:                sets,
			TotalSets:           len(sets),
			Status:              status,
			ProgressiveOverload: in.ProgressiveOverload,
			Notes:               in.Notes,
		}
	}

	draft := &domain.WorkoutDraft{
		Name:        req.Name,
		WorkoutType: req.WorkoutType,
		StartedAt:   req.StartedAt,
		Exercises:   exercises,
		Notes:       req.Notes,
	}
	if err := h.workoutService.SaveDraft(c.Request.Context(), userID, draft); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save draft")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ClearDraft discards the parked draft.
func (h *WorkoutHandler) ClearDraft(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.workoutService.ClearDraft(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to clear draft")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Mapping Helpers ---

func mapExerciseEntries(reqs []WorkoutExerciseRequest) ([]service.ExerciseEntryInput, error) {
	entries := make([]service.ExerciseEntryInput, len(reqs))
	for i, in := range reqs {
		exerciseID, err := primitive.ObjectIDFromHex(in.ExerciseID)
		if err != nil {
			return nil, fmt.Errorf("invalid exercise ID format: %s", in.ExerciseID)
		}
		sets := make([]service.SetInput, len(in.Sets))
		for j, setIn := range in.Sets {
			sets[j] = service.SetInput{
				Reps:        setIn.Reps,
				Weight:      setIn.Weight,
				RestSeconds: setIn.RestSeconds,
				RPE:         setIn.RPE,
				Notes:       setIn.Notes,
				Completed:   setIn.Completed,
			}
		}
		entries[i] = service.ExerciseEntryInput{
			ExerciseID:          exerciseID,
			Sets:                sets,
			Notes:               in.Notes,
			Status:              domain.ExerciseStatus(in.Status),
			ProgressiveOverload: in.ProgressiveOverload,
		}
	}
	return entries, nil
}

// MapWorkoutToResponse converts a domain Workout to its DTO.
func MapWorkoutToResponse(workout *domain.Workout) WorkoutResponse {
	if workout == nil {
		return WorkoutResponse{}
	}
	exercises := make([]WorkoutExerciseResponse, len(workout.Exercises))
	for i, e := range workout.Exercises {
		exercises[i] = WorkoutExerciseResponse{
			ExerciseID:          e.ExerciseID.Hex(),
			ExerciseOrder:       e.ExerciseOrder,
			Sets:                e.Sets,
			TotalSets:           e.TotalSets,
			TotalReps:           e.TotalReps,
			TotalVolume:         e.TotalVolume,
			MaxWeight:           e.MaxWeight,
			Status:              string(e.Status),
			ProgressiveOverload: e.ProgressiveOverload,
			Notes:               e.Notes,
		}
	}
	return WorkoutResponse{
		ID:              workout.ID.Hex(),
		Name:            workout.Name,
		WorkoutType:     workout.WorkoutType,
		StartedAt:       workout.StartedAt,
		CompletedAt:     workout.CompletedAt,
		TotalDuration:   workout.TotalDuration,
		TotalVolume:     workout.TotalVolume,
		TotalReps:       workout.TotalReps,
		PerceivedEffort: workout.PerceivedEffort,
		EnergyLevel:     workout.EnergyLevel,
		Notes:           workout.Notes,
		Location:        workout.Location,
		IsTemplate:      workout.IsTemplate,
		Exercises:       exercises,
		CreatedAt:       workout.CreatedAt,
	}
}

func mapWorkoutList(workouts []domain.Workout, total int64) WorkoutListResponse {
	resp := WorkoutListResponse{
		Workouts: make([]WorkoutResponse, len(workouts)),
		Total:    total,
	}
	for i := range workouts {
		resp.Workouts[i] = MapWorkoutToResponse(&workouts[i])
	}
	return resp
}

func respondWorkoutError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Query Helpers ---

func parseInt64Query(c *gin.Context, key string, def int64) int64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Date-only values are accepted too.
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, false
		}
	}
	return &t, true
}
