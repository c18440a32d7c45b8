package api

import (
	"errors"
	"net/http"

	"coachkit/trainer-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ClientHandler exposes the client's own view: their program, their day
// for a date, and progress logging.
type ClientHandler struct {
	scheduleService service.ScheduleService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(scheduleService service.ScheduleService) *ClientHandler {
	return &ClientHandler{scheduleService: scheduleService}
}

// GetMyAssignments lists the authenticated client's assignments.
func (h *ClientHandler) GetMyAssignments(c *gin.Context) {
	clientID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}
	assignments, err := h.scheduleService.GetAssignmentsByClient(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch assignments")
		return
	}
	responses := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = MapAssignmentToResponse(&assignments[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetMyActiveProgram returns the client's active program instance.
func (h *ClientHandler) GetMyActiveProgram(c *gin.Context) {
	clientID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}
	instance, err := h.scheduleService.GetActiveInstance(c.Request.Context(), clientID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapInstanceToResponse(instance))
}

// GetMyDay resolves the client's active program for a date: "what should
// I do today". A null day means rest or nothing scheduled.
func (h *ClientHandler) GetMyDay(c *gin.Context) {
	clientID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}
	targetDate, ok := queryDate(c)
	if !ok {
		return
	}

	day, err := h.scheduleService.ResolveClientDate(c.Request.Context(), clientID, targetDate)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveInstance) {
			c.JSON(http.StatusOK, gin.H{"day": nil})
			return
		}
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}

// CompleteDay logs one program day as done and advances the client's
// progress cursor.
func (h *ClientHandler) CompleteDay(c *gin.Context) {
	instanceID, ok := pathObjectID(c, "instanceId")
	if !ok {
		return
	}
	var req CompleteDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}

	// Only the client the instance belongs to can log progress on it.
	instance, err := h.scheduleService.GetInstanceByID(c.Request.Context(), instanceID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	if instance.ClientID != clientID {
		abortWithError(c, http.StatusForbidden, "This program instance belongs to another client")
		return
	}

	updated, err := h.scheduleService.MarkDayCompleted(c.Request.Context(), instanceID, req.Week, req.Day)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapInstanceToResponse(updated))
}
