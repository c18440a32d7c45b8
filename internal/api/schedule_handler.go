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

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// ScheduleHandler exposes assignments, date resolution, and program
// instances.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- DTOs ---

type AssignProgramRequest struct {
	ClientID  string `json:"clientId" binding:"required"`
	ProgramID string `json:"programId" binding:"required"`
	// StartDate is a calendar date, "2006-01-02". Defaults to today.
	StartDate string `json:"startDate"`
	// StartingDay picks the template day the client begins on. Defaults
	// to 1 and is not checked against the template's length.
	StartingDay  int  `json:"startingDay"`
	NotifyClient bool `json:"notifyClient"`
}

type AssignmentResponse struct {
	ID                  string    `json:"id"`
	ClientID            string    `json:"clientId"`
	ProgramID           string    `json:"programId"`
	AssignmentStartDate time.Time `json:"assignmentStartDate"`
	StartingDay         int       `json:"startingDay"`
	NotifyClient        bool      `json:"notifyClient"`
	AssignedAt          time.Time `json:"assignedAt"`
}

type CreateInstanceRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
	ClientID   string `json:"clientId" binding:"required"`
	StartDate  string `json:"startDate"`
	Notes      string `json:"notes"`
}

type InstanceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active paused completed cancelled"`
}

type OverrideDayRequest struct {
	WeekNumber int                      `json:"weekNumber" binding:"required,min=1"`
	DayNumber  int                      `json:"dayNumber" binding:"required,min=1"`
	Exercises  []domain.ProgramExercise `json:"exercises" binding:"required"`
}

type CompleteDayRequest struct {
	Week int `json:"week" binding:"required,min=1"`
	Day  int `json:"day" binding:"required,min=1"`
}

// InstanceResponse is the instance DTO. Progress fields pass through as
// domain values.
type InstanceResponse struct {
	ID                string               `json:"id"`
	TemplateID        string               `json:"templateId"`
	ClientID          string               `json:"clientId"`
	TrainerID         string               `json:"trainerId"`
	AssignedAt        time.Time            `json:"assignedAt"`
	StartDate         time.Time            `json:"startDate"`
	Status            string               `json:"status"`
	CurrentWeek       int                  `json:"currentWeek"`
	CurrentDay        int                  `json:"currentDay"`
	CompletedWeeks    []int                `json:"completedWeeks,omitempty"`
	CompletedDays     []domain.DayRef      `json:"completedDays,omitempty"`
	ModifiedExercises []domain.DayOverride `json:"modifiedExercises,omitempty"`
	Notes             string               `json:"notes,omitempty"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// MapAssignmentToResponse converts a domain.ProgramAssignment to its DTO.
func MapAssignmentToResponse(a *domain.ProgramAssignment) AssignmentResponse {
	if a == nil {
		return AssignmentResponse{}
	}
	return AssignmentResponse{
		ID:                  a.ID.Hex(),
		ClientID:            a.ClientID.Hex(),
		ProgramID:           a.ProgramID.Hex(),
		AssignmentStartDate: a.AssignmentStartDate,
		StartingDay:         a.StartingDay,
		NotifyClient:        a.NotifyClient,
		AssignedAt:          a.AssignedAt,
	}
}

// MapInstanceToResponse converts a domain.ProgramInstance to its DTO.
func MapInstanceToResponse(i *domain.ProgramInstance) InstanceResponse {
	if i == nil {
		return InstanceResponse{}
	}
	return InstanceResponse{
		ID:                i.ID.Hex(),
		TemplateID:        i.TemplateID.Hex(),
		ClientID:          i.ClientID.Hex(),
		TrainerID:         i.TrainerID.Hex(),
		AssignedAt:        i.AssignedAt,
		StartDate:         i.StartDate,
		Status:            string(i.Status),
		CurrentWeek:       i.CurrentWeek,
		CurrentDay:        i.CurrentDay,
		CompletedWeeks:    i.CompletedWeeks,
		CompletedDays:     i.CompletedDays,
		ModifiedExercises: i.ModifiedExercises,
		Notes:             i.Notes,
		UpdatedAt:         i.UpdatedAt,
	}
}

// --- Assignment Handlers ---

// AssignProgram binds a client to a program template starting at a date.
func (h *ScheduleHandler) AssignProgram(c *gin.Context) {
	var req AssignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	spec := service.AssignmentSpec{
		ClientID:     clientID,
		ProgramID:    programID,
		StartingDay:  req.StartingDay,
		NotifyClient: req.NotifyClient,
	}
	if req.StartDate != "" {
		startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		spec.AssignmentStartDate = startDate
	}

	assignment, err := h.scheduleService.AssignProgramWithSchedule(c.Request.Context(), spec)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapAssignmentToResponse(assignment))
}

// UnassignProgram removes an assignment.
func (h *ScheduleHandler) UnassignProgram(c *gin.Context) {
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}
	if err := h.scheduleService.UnassignProgram(c.Request.Context(), assignmentID); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetClientAssignments lists a client's assignments.
func (h *ScheduleHandler) GetClientAssignments(c *gin.Context) {
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	assignments, err := h.scheduleService.GetAssignmentsByClient(c.Request.Context(), clientID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	responses := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = MapAssignmentToResponse(&assignments[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ResolveAssignment answers which template day an assignment lands on for
// a date. Responds 200 with a null day when nothing is scheduled.
func (h *ScheduleHandler) ResolveAssignment(c *gin.Context) {
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}
	targetDate, ok := queryDate(c)
	if !ok {
		return
	}

	day, err := h.scheduleService.ResolveAssignmentForDate(c.Request.Context(), assignmentID, targetDate)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}

// GetCalendar resolves every assignment for one date: the trainer's
// day-view of who trains and with what.
func (h *ScheduleHandler) GetCalendar(c *gin.Context) {
	targetDate, ok := queryDate(c)
	if !ok {
		return
	}
	resolved, err := h.scheduleService.GetScheduleForDate(c.Request.Context(), targetDate)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	// Strip password hashes before the users go over the wire.
	for i := range resolved {
		if resolved[i].Client != nil {
			resolved[i].Client.PasswordHash = ""
		}
	}
	c.JSON(http.StatusOK, resolved)
}

// --- Instance Handlers ---

// CreateInstance assigns a template to a client with progress tracking.
func (h *ScheduleHandler) CreateInstance(c *gin.Context) {
	var req CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	spec := service.InstanceSpec{
		TemplateID: templateID,
		ClientID:   clientID,
		TrainerID:  trainerID,
		Notes:      req.Notes,
	}
	if req.StartDate != "" {
		startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		spec.StartDate = startDate
	}

	instance, err := h.scheduleService.CreateInstance(c.Request.Context(), spec)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapInstanceToResponse(instance))
}

// GetClientInstances lists a client's instances, newest first.
func (h *ScheduleHandler) GetClientInstances(c *gin.Context) {
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	instances, err := h.scheduleService.GetInstancesByClient(c.Request.Context(), clientID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	responses := make([]InstanceResponse, len(instances))
	for i := range instances {
		responses[i] = MapInstanceToResponse(&instances[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetInstance returns one instance.
func (h *ScheduleHandler) GetInstance(c *gin.Context) {
	instanceID, ok := pathObjectID(c, "instanceId")
	if !ok {
		return
	}
	instance, err := h.scheduleService.GetInstanceByID(c.Request.Context(), instanceID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapInstanceToResponse(instance))
}

// SetInstanceStatus moves an instance through its lifecycle.
func (h *ScheduleHandler) SetInstanceStatus(c *gin.Context) {
	instanceID, ok := pathObjectID(c, "instanceId")
	if !ok {
		return
	}
	var req InstanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	instance, err := h.scheduleService.SetInstanceStatus(c.Request.Context(), trainerID, instanceID, domain.InstanceStatus(req.Status))
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapInstanceToResponse(instance))
}

// DeleteInstance removes an instance.
func (h *ScheduleHandler) DeleteInstance(c *gin.Context) {
	instanceID, ok := pathObjectID(c, "instanceId")
	if !ok {
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}
	if err := h.scheduleService.DeleteInstance(c.Request.Context(), trainerID, instanceID); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OverrideInstanceDay swaps the exercises of one day for one client.
func (h *ScheduleHandler) OverrideInstanceDay(c *gin.Context) {
	instanceID, ok := pathObjectID(c, "instanceId")
	if !ok {
		return
	}
	var req OverrideDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	instance, err := h.scheduleService.OverrideInstanceDay(c.Request.Context(), trainerID, instanceID, domain.DayOverride{
		WeekNumber: req.WeekNumber,
		DayNumber:  req.DayNumber,
		Exercises:  req.Exercises,
	})
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapInstanceToResponse(instance))
}

// ResolveInstance answers which template day an instance lands on for a
// date, with any per-client override applied.
func (h *ScheduleHandler) ResolveInstance(c *gin.Context) {
	instanceID, ok := pathObjectID(c, "instanceId")
	if !ok {
		return
	}
	targetDate, ok := queryDate(c)
	if !ok {
		return
	}

	day, err := h.scheduleService.ResolveInstanceForDate(c.Request.Context(), instanceID, targetDate)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}

// queryDate reads the ?date=YYYY-MM-DD query parameter, defaulting to today.
func queryDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	targetDate, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return targetDate, true
}

func respondScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrInstanceNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrNoActiveInstance):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInstanceAccess):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDayOutOfTemplate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
