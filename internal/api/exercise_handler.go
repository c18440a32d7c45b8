package api

import (
	"errors"
	"net/http"
	"time"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

// ExerciseRequest defines the JSON for creating or updating an exercise.
type ExerciseRequest struct {
	Name            string   `json:"name" binding:"required"`
	Modality        string   `json:"modality" binding:"required,oneof=strength cardio flexibility mobility"`
	MuscleGroups    []string `json:"muscleGroups"`
	MovementPattern string   `json:"movementPattern"`
	Instructions    string   `json:"instructions"`
	Category        string   `json:"category"`
	VideoURL        string   `json:"videoUrl" binding:"omitempty,url"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Modality        string    `json:"modality"`
	MuscleGroups    []string  `json:"muscleGroups,omitempty"`
	MovementPattern string    `json:"movementPattern,omitempty"`
	Instructions    string    `json:"instructions,omitempty"`
	Category        string    `json:"category,omitempty"`
	VideoURL        string    `json:"videoUrl,omitempty"`
	IsDefault       bool      `json:"isDefault"`
	CreatedBy       *string   `json:"createdBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// VideoUploadURLRequest asks for a presigned PUT URL for a demo video.
type VideoUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type VideoUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// AttachVideoRequest confirms a completed upload.
type AttachVideoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:              ex.ID.Hex(),
		Name:            ex.Name,
		Modality:        string(ex.Modality),
		MuscleGroups:    ex.MuscleGroups,
		MovementPattern: ex.MovementPattern,
		Instructions:    ex.Instructions,
		Category:        ex.Category,
		VideoURL:        ex.VideoURL,
		IsDefault:       ex.IsDefault,
		CreatedAt:       ex.CreatedAt,
		UpdatedAt:       ex.UpdatedAt,
	}
	if ex.CreatedBy != nil && *ex.CreatedBy != primitive.NilObjectID {
		hex := ex.CreatedBy.Hex()
		resp.CreatedBy = &hex
	}
	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise to DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func specFromRequest(req ExerciseRequest) service.ExerciseSpec {
	return service.ExerciseSpec{
		Name:            req.Name,
		Modality:        domain.Modality(req.Modality),
		MuscleGroups:    req.MuscleGroups,
		MovementPattern: req.MovementPattern,
		Instructions:    req.Instructions,
		Category:        req.Category,
		VideoURL:        req.VideoURL,
	}
}

// --- Handler Methods ---

// CreateExercise adds a custom exercise to the library for the
// authenticated trainer.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), trainerID, specFromRequest(req))
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

// ListExercises returns the full library: system defaults first, then
// trainer-authored exercises.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetMyExercises returns only the authenticated trainer's custom exercises.
func (h *ExerciseHandler) GetMyExercises(c *gin.Context) {
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}
	exercises, err := h.exerciseService.GetExercisesByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise returns a single exercise by ID.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
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

// UpdateExercise edits a trainer-authored exercise.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), trainerID, exerciseID, specFromRequest(req))
	if err != nil {
		respondExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise removes a trainer-authored exercise. System defaults
// cannot be deleted.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), trainerID, exerciseID); err != nil {
		respondExerciseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetVideoUploadURL returns a presigned PUT URL so the browser uploads the
// demo video directly to object storage.
func (h *ExerciseHandler) GetVideoUploadURL(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	var req VideoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	uploadURL, objectKey, err := h.exerciseService.GetVideoUploadURL(c.Request.Context(), trainerID, exerciseID, req.ContentType)
	if err != nil {
		respondExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, VideoUploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// AttachVideo records a completed demo video upload on the exercise.
func (h *ExerciseHandler) AttachVideo(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	var req AttachVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	exercise, err := h.exerciseService.AttachVideo(c.Request.Context(), trainerID, exerciseID, req.ObjectKey)
	if err != nil {
		respondExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// GetVideoDownloadURL returns a presigned GET URL for streaming the demo video.
func (h *ExerciseHandler) GetVideoDownloadURL(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	url, err := h.exerciseService.GetVideoDownloadURL(c.Request.Context(), exerciseID)
	if err != nil {
		respondExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func respondExerciseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseAccessDenied), errors.Is(err, service.ErrExerciseIsDefault):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
