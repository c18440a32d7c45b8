package service

import (
	"context"
	"errors"
	"fmt"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/repository"
	"coachkit/trainer-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrExerciseIsDefault    = errors.New("system default exercises cannot be modified or deleted")
	ErrValidationFailed     = errors.New("exercise validation failed")
)

// ExerciseSpec carries the trainer-editable exercise fields.
type ExerciseSpec struct {
	Name            string
	Modality        domain.Modality
	MuscleGroups    []string
	MovementPattern string
	Instructions    string
	Category        string
	VideoURL        string
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, trainerID primitive.ObjectID, spec ExerciseSpec) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID, spec ExerciseSpec) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID) error

	// Demo video attachment: the file itself goes straight to object
	// storage through presigned URLs, only the object key round-trips here.
	GetVideoUploadURL(ctx context.Context, trainerID, exerciseID primitive.ObjectID, contentType string) (uploadURL, objectKey string, err error)
	AttachVideo(ctx context.Context, trainerID, exerciseID primitive.ObjectID, objectKey string) (*domain.Exercise, error)
	GetVideoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise adds a trainer-authored exercise to the library.
func (s *exerciseService) CreateExercise(ctx context.Context, trainerID primitive.ObjectID, spec ExerciseSpec) (*domain.Exercise, error) {
	if spec.Name == "" || spec.Modality == "" {
		return nil, ErrValidationFailed
	}
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required to create an exercise")
	}

	exercise := &domain.Exercise{
		Name:            spec.Name,
		Modality:        spec.Modality,
		MuscleGroups:    spec.MuscleGroups,
		MovementPattern: spec.MovementPattern,
		Instructions:    spec.Instructions,
		Category:        spec.Category,
		VideoURL:        spec.VideoURL,
		IsDefault:       false,
		CreatedBy:       &trainerID,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises returns the full library, defaults included. Every
// authenticated user can browse it.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// GetExercisesByTrainer retrieves the exercises one trainer authored.
func (s *exerciseService) GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID cannot be nil")
	}
	return s.exerciseRepo.GetByCreator(ctx, trainerID)
}

// UpdateExercise updates a trainer-authored exercise, enforcing ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID, spec ExerciseSpec) (*domain.Exercise, error) {
	if spec.Name == "" {
		return nil, ErrValidationFailed
	}

	existing, err := s.ownedExercise(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}

	existing.Name = spec.Name
	existing.Modality = spec.Modality
	existing.MuscleGroups = spec.MuscleGroups
	existing.MovementPattern = spec.MovementPattern
	existing.Instructions = spec.Instructions
	existing.Category = spec.Category
	existing.VideoURL = spec.VideoURL

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise removes a trainer-authored exercise. System defaults are
// rejected before touching the store.
func (s *exerciseService) DeleteExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID) error {
	if _, err := s.ownedExercise(ctx, trainerID, exerciseID); err != nil {
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// GetVideoUploadURL hands the trainer a presigned PUT URL for a demo video.
func (s *exerciseService) GetVideoUploadURL(ctx context.Context, trainerID, exerciseID primitive.ObjectID, contentType string) (string, string, error) {
	if contentType == "" {
		contentType = "video/mp4"
	}
	if _, err := s.ownedExercise(ctx, trainerID, exerciseID); err != nil {
		return "", "", err
	}

	objectKey := fmt.Sprintf("exercise-videos/%s/%s", exerciseID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}
	return uploadURL, objectKey, nil
}

// AttachVideo records the uploaded object key on the exercise.
func (s *exerciseService) AttachVideo(ctx context.Context, trainerID, exerciseID primitive.ObjectID, objectKey string) (*domain.Exercise, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}

	existing, err := s.ownedExercise(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}

	existing.VideoURL = objectKey
	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// GetVideoDownloadURL returns a presigned GET URL for an exercise's demo
// video.
func (s *exerciseService) GetVideoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return "", err
	}
	if exercise.VideoURL == "" {
		return "", ErrExerciseNotFound
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.VideoURL, storage.DefaultPresignedURLExpiry)
}

// ownedExercise fetches an exercise and verifies the trainer owns it.
// Defaults belong to the system, not to any trainer.
func (s *exerciseService) ownedExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	if trainerID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and exercise ID are required")
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.IsDefault {
		return nil, ErrExerciseIsDefault
	}
	if exercise.CreatedBy == nil || *exercise.CreatedBy != trainerID {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}
