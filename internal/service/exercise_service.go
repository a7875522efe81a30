package service

import (
	"context"
	"errors"

	"routeiq/backend/internal/domain"
	"routeiq/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found or not accessible")
	ErrValidationFailed = errors.New("validation failed")
)

type ExerciseService interface {
	ListExercises(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	CreateCustomExercise(ctx context.Context, userID primitive.ObjectID, input CustomExerciseInput) (*domain.Exercise, error)
}

// CustomExerciseInput carries the fields of a user-created library entry.
type CustomExerciseInput struct {
	Name            string
	Category        string
	MuscleGroups    []string
	Equipment       []string
	IsCompound      bool
	DifficultyLevel string
	Description     string
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

// ListExercises returns library entries visible to the user.
func (s *exerciseService) ListExercises(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return s.exerciseRepo.ListVisible(ctx, userID, filter)
}

// GetExercise returns a single entry, enforcing visibility.
func (s *exerciseService) GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if !exercise.VisibleTo(userID) {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}

// CreateCustomExercise adds a user-owned entry to the library.
func (s *exerciseService) CreateCustomExercise(ctx context.Context, userID primitive.ObjectID, input CustomExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" || input.Category == "" {
		return nil, ErrValidationFailed
	}

	exercise := &domain.Exercise{
		Name:            input.Name,
		Category:        input.Category,
		MuscleGroups:    input.MuscleGroups,
		Equipment:       input.Equipment,
		IsCompound:      input.IsCompound,
		DifficultyLevel: input.DifficultyLevel,
		Description:     input.Description,
		IsCustom:        true,
		CreatedByUserID: &userID,
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}
