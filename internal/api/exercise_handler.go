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

// ExerciseHandler holds the exercise library service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type CreateExerciseRequest struct {
	Name            string   `json:"name" binding:"required"`
	Category        string   `json:"category" binding:"required,oneof=lower_body upper_body core mobility"`
	MuscleGroups    []string `json:"muscleGroups"`
	Equipment       []string `json:"equipment"`
	IsCompound      bool     `json:"isCompound"`
	DifficultyLevel string   `json:"difficultyLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	Description     string   `json:"description"`
}

type ExerciseResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	MuscleGroups    []string  `json:"muscleGroups,omitempty"`
	Equipment       []string  `json:"equipment,omitempty"`
	IsCompound      bool      `json:"isCompound"`
	DifficultyLevel string    `json:"difficultyLevel,omitempty"`
	Description     string    `json:"description,omitempty"`
	IsCustom        bool      `json:"isCustom"`
	CreatedAt       time.Time `json:"createdAt"`
}

// --- Handler Methods ---

// ListExercises returns the library entries visible to the user, optionally
// filtered by ?category=, ?muscleGroup= and ?search=.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	filter := repository.ExerciseFilter{
		Category:    c.Query("category"),
		MuscleGroup: c.Query("muscleGroup"),
		Search:      c.Query("search"),
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}

	resp := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		resp[i] = MapExerciseToResponse(&exercises[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetExercise returns one library entry if visible to the user.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
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

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), userID, exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch exercise")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// CreateExercise adds a custom library entry visible only to its creator.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateCustomExercise(c.Request.Context(), userID, service.CustomExerciseInput{
		Name:            req.Name,
		Category:        req.Category,
		MuscleGroups:    req.MuscleGroups,
		Equipment:       req.Equipment,
		IsCompound:      req.IsCompound,
		DifficultyLevel: req.DifficultyLevel,
		Description:     req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		}
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// MapExerciseToResponse converts a domain Exercise to its DTO.
func MapExerciseToResponse(exercise *domain.Exercise) ExerciseResponse {
	if exercise == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:              exercise.ID.Hex(),
		Name:            exercise.Name,
		Category:        exercise.Category,
		MuscleGroups:    exercise.MuscleGroups,
		Equipment:       exercise.Equipment,
		IsCompound:      exercise.IsCompound,
		DifficultyLevel: exercise.DifficultyLevel,
		Description:     exercise.Description,
		IsCustom:        exercise.IsCustom,
		CreatedAt:       exercise.CreatedAt,
	}
}
