package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/schedule"
	"coachkit/trainer-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler exposes template CRUD and the structural week edits.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs ---

type CreateProgramRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProgramMetaRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CloneProgramRequest struct {
	// ClientID makes the copy a personalized fork for that client.
	ClientID *string `json:"clientId"`
}

type ArchiveProgramRequest struct {
	Archived bool `json:"archived"`
}

type ReplaceWeeksRequest struct {
	Weeks []domain.ProgramWeek `json:"weeks" binding:"required"`
}

type RestDayRequest struct {
	WeekNumber int  `json:"weekNumber" binding:"required,min=1"`
	DayNumber  int  `json:"dayNumber" binding:"required,min=1"`
	IsRestDay  bool `json:"isRestDay"`
}

type FrequencyRequest struct {
	WeekNumber int `json:"weekNumber" binding:"required,min=1"`
	Frequency  int `json:"frequency" binding:"required,min=3,max=7"`
}

type AddSectionRequest struct {
	WeekNumber int                   `json:"weekNumber" binding:"required,min=1"`
	DayNumber  int                   `json:"dayNumber" binding:"required,min=1"`
	Section    domain.ProgramSection `json:"section" binding:"required"`
}

type MoveSectionRequest struct {
	NewIndex int `json:"newIndex"`
}

type SectionExercisesRequest struct {
	Exercises []domain.ProgramExercise `json:"exercises" binding:"required"`
}

type UpdateSectionExerciseRequest struct {
	Exercise domain.ProgramExercise `json:"exercise" binding:"required"`
}

// ProgramResponse is the template DTO. Weeks pass through as domain values.
type ProgramResponse struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Description        string               `json:"description,omitempty"`
	DurationWeeks      int                  `json:"durationWeeks"`
	DaysPerWeek        int                  `json:"daysPerWeek"`
	Weeks              []domain.ProgramWeek `json:"weeks"`
	CreatedBy          string               `json:"createdBy"`
	ClientID           *string              `json:"clientId,omitempty"`
	OriginalTemplateID *string              `json:"originalTemplateId,omitempty"`
	IsArchived         bool                 `json:"isArchived"`
	Version            int64                `json:"version"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// MapProgramToResponse converts a domain.ProgramTemplate to its DTO.
func MapProgramToResponse(t *domain.ProgramTemplate) ProgramResponse {
	if t == nil {
		return ProgramResponse{}
	}
	resp := ProgramResponse{
		ID:            t.ID.Hex(),
		Name:          t.Name,
		Description:   t.Description,
		DurationWeeks: t.DurationWeeks,
		DaysPerWeek:   t.DaysPerWeek,
		Weeks:         t.Weeks,
		CreatedBy:     t.CreatedBy.Hex(),
		IsArchived:    t.IsArchived,
		Version:       t.Version,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.ClientID != nil && *t.ClientID != primitive.NilObjectID {
		hex := t.ClientID.Hex()
		resp.ClientID = &hex
	}
	if t.OriginalTemplateID != nil && *t.OriginalTemplateID != primitive.NilObjectID {
		hex := t.OriginalTemplateID.Hex()
		resp.OriginalTemplateID = &hex
	}
	return resp
}

// MapProgramsToResponse converts a slice of templates to DTOs.
func MapProgramsToResponse(templates []domain.ProgramTemplate) []ProgramResponse {
	responses := make([]ProgramResponse, len(templates))
	for i := range templates {
		responses[i] = MapProgramToResponse(&templates[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateProgram creates a template seeded with one week of seven empty days.
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	template, err := h.programService.CreateTemplate(c.Request.Context(), trainerID, req.Name, req.Description)
	if err != nil {
		respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgramToResponse(template))
}

// ListPrograms returns the authenticated trainer's templates. Archived
// templates are included only with ?includeArchived=true.
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}
	includeArchived := c.Query("includeArchived") == "true"

	templates, err := h.programService.GetTemplatesByTrainer(c.Request.Context(), trainerID, includeArchived)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list programs")
		return
	}
	c.JSON(http.StatusOK, MapProgramsToResponse(templates))
}

// GetProgram returns one template with its full weeks tree.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	templateID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	template, err := h.programService.GetTemplateByID(c.Request.Context(), templateID)
	if err != nil {
		respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(template))
}

// UpdateProgramMeta renames a template or edits its description.
func (h *ProgramHandler) UpdateProgramMeta(c *gin.Context) {
	templateID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	var req UpdateProgramMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	template, err := h.programService.UpdateTemplateMeta(c.Request.Context(), trainerID, templateID, req.Name, req.Description)
	if err != nil {
		respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(template))
}

// ArchiveProgram hides or restores a template without deleting it.
func (h *ProgramHandler) ArchiveProgram(c *gin.Context) {
	templateID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	var req ArchiveProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	if err := h.programService.ArchiveTemplate(c.Request.Context(), trainerID, templateID, req.Archived); err != nil {
		respondProgramError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteProgram removes a template permanently.
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	templateID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}
	if err := h.programService.DeleteTemplate(c.Request.Context(), trainerID, templateID); err != nil {
		respondProgramError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CloneProgram copies a template, optionally as a personalized fork for
// one client.
func (h *ProgramHandler) CloneProgram(c *gin.Context) {
	templateID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	var req CloneProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	var clientID *primitive.ObjectID
	if req.ClientID != nil && *req.ClientID != "" {
		id, err := primitive.ObjectIDFromHex(*req.ClientID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		clientID = &id
	}

	clone, err := h.programService.CloneTemplate(c.Request.Context(), trainerID, templateID, clientID)
	if err != nil {
		respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgramToResponse(clone))
}

// ReplaceWeeks swaps the entire weeks tree in one write.
func (h *ProgramHandler) ReplaceWeeks(c *gin.Context) {
	templateID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	var req ReplaceWeeksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	template, err := h.programService.ReplaceWeeks(c.Request.Context(), trainerID, templateID, req.Weeks)
	if err != nil {
		respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(template))
}

// AddWeek appends a week cloned from the last one.
func (h *ProgramHandler) AddWeek(c *gin.Context) {
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.AddWeek(weeks), nil
	})
}

// AddDay appends one day to every week, up to seven.
func (h *ProgramHandler) AddDay(c *gin.Context) {
	h.edit(c, schedule.AddDay)
}

// RemoveDay removes the day number from every week and renumbers.
func (h *ProgramHandler) RemoveDay(c *gin.Context) {
	dayNumber, err := strconv.Atoi(c.Param("dayNumber"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day number")
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.RemoveDay(weeks, dayNumber)
	})
}

// SetRestDay marks or unmarks a single day as a rest day.
func (h *ProgramHandler) SetRestDay(c *gin.Context) {
	var req RestDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.SetRestDay(weeks, req.WeekNumber, req.DayNumber, req.IsRestDay)
	})
}

// ApplyFrequency applies a training-frequency preset to one week.
func (h *ProgramHandler) ApplyFrequency(c *gin.Context) {
	var req FrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.ApplyFrequencyPreset(weeks, req.WeekNumber, req.Frequency)
	})
}

// AddSection appends a section to one day.
func (h *ProgramHandler) AddSection(c *gin.Context) {
	var req AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.AddSection(weeks, req.WeekNumber, req.DayNumber, req.Section)
	})
}

// RemoveSection deletes a section from one day.
func (h *ProgramHandler) RemoveSection(c *gin.Context) {
	weekNumber, dayNumber, sectionID, ok := sectionPath(c)
	if !ok {
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.RemoveSection(weeks, weekNumber, dayNumber, sectionID)
	})
}

// MoveSection reorders a section within its day.
func (h *ProgramHandler) MoveSection(c *gin.Context) {
	weekNumber, dayNumber, sectionID, ok := sectionPath(c)
	if !ok {
		return
	}
	var req MoveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.MoveSection(weeks, weekNumber, dayNumber, sectionID, req.NewIndex)
	})
}

// SetSectionExercises replaces the exercise list of a section.
func (h *ProgramHandler) SetSectionExercises(c *gin.Context) {
	weekNumber, dayNumber, sectionID, ok := sectionPath(c)
	if !ok {
		return
	}
	var req SectionExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.SetSectionExercises(weeks, weekNumber, dayNumber, sectionID, req.Exercises)
	})
}

// UpdateSectionExercise edits one prescribed exercise within a section.
func (h *ProgramHandler) UpdateSectionExercise(c *gin.Context) {
	weekNumber, dayNumber, sectionID, ok := sectionPath(c)
	if !ok {
		return
	}
	exerciseIndex, err := strconv.Atoi(c.Param("exerciseIndex"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise index")
		return
	}
	var req UpdateSectionExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.UpdateExercise(weeks, weekNumber, dayNumber, sectionID, exerciseIndex, req.Exercise)
	})
}

// RemoveSectionExercise removes one prescribed exercise from a section.
func (h *ProgramHandler) RemoveSectionExercise(c *gin.Context) {
	weekNumber, dayNumber, sectionID, ok := sectionPath(c)
	if !ok {
		return
	}
	exerciseIndex, err := strconv.Atoi(c.Param("exerciseIndex"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise index")
		return
	}
	h.edit(c, func(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.RemoveExercise(weeks, weekNumber, dayNumber, sectionID, exerciseIndex)
	})
}

// edit runs one structural transformation through the read-edit-replace
// cycle and writes the updated template back to the client.
func (h *ProgramHandler) edit(c *gin.Context, fn service.WeeksEdit) {
	templateID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	template, err := h.programService.EditWeeks(c.Request.Context(), trainerID, templateID, fn)
	if err != nil {
		respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(template))
}

func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

func sectionPath(c *gin.Context) (weekNumber, dayNumber int, sectionID string, ok bool) {
	weekNumber, err := strconv.Atoi(c.Param("weekNumber"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid week number")
		return 0, 0, "", false
	}
	dayNumber, err = strconv.Atoi(c.Param("dayNumber"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day number")
		return 0, 0, "", false
	}
	sectionID = c.Param("sectionId")
	if sectionID == "" {
		abortWithError(c, http.StatusBadRequest, "Section ID is required")
		return 0, 0, "", false
	}
	return weekNumber, dayNumber, sectionID, true
}

func respondProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTemplateAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEditConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTemplateNameRequired),
		errors.Is(err, service.ErrInvalidWeeks),
		errors.Is(err, schedule.ErrWeekNotFound),
		errors.Is(err, schedule.ErrDayNotFound),
		errors.Is(err, schedule.ErrSectionNotFound),
		errors.Is(err, schedule.ErrExerciseNotFound),
		errors.Is(err, schedule.ErrMaxDaysReached),
		errors.Is(err, schedule.ErrMinDaysReached),
		errors.Is(err, schedule.ErrBadFrequency):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
