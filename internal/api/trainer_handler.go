package api

import (
	"errors"
	"net/http"

	"coachkit/trainer-app/internal/service"

	"github.com/gin-gonic/gin"
)

// TrainerHandler exposes client roster management.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// AddClientRequest identifies the client to link by their account email.
type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

// AddClientByEmail links an existing client account to the trainer.
func (h *TrainerHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.ClientEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the trainer's client roster.
func (h *TrainerHandler) GetManagedClients(c *gin.Context) {
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}
	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(clients))
}

// GetManagedClient returns one client from the roster.
func (h *TrainerHandler) GetManagedClient(c *gin.Context) {
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	trainerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	client, err := h.trainerService.GetManagedClient(c.Request.Context(), trainerID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged), errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch client")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}
