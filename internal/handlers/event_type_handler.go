package handlers

import (
	"net/http"

	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// EventTypeHandler handles event type HTTP requests
type EventTypeHandler struct {
	eventTypeService *services.EventTypeService
}

// NewEventTypeHandler creates a new EventTypeHandler
func NewEventTypeHandler(eventTypeService *services.EventTypeService) *EventTypeHandler {
	return &EventTypeHandler{eventTypeService: eventTypeService}
}

// ListEventTypes handles GET /event-types. ?active=true filters to event
// types that may still generate transactions.
func (h *EventTypeHandler) ListEventTypes(c *gin.Context) {
	var (
		eventTypes []*models.EventType
		err        error
	)
	if c.Query("active") == "true" {
		eventTypes, err = h.eventTypeService.ListActive(c.Request.Context())
	} else {
		eventTypes, err = h.eventTypeService.ListEventTypes(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventTypes)
}

// GetEventType handles GET /event-types/:id
func (h *EventTypeHandler) GetEventType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	eventType, err := h.eventTypeService.GetEventType(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventType)
}

// CreateEventType handles POST /event-types (admin)
func (h *EventTypeHandler) CreateEventType(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	var input models.EventTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eventType, err := h.eventTypeService.CreateEventType(c.Request.Context(), actorID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, eventType)
}

// UpdateEventType handles PUT /event-types/:id (admin)
func (h *EventTypeHandler) UpdateEventType(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input models.EventTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eventType, err := h.eventTypeService.UpdateEventType(c.Request.Context(), actorID, id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventType)
}

// DeleteEventType handles DELETE /event-types/:id (admin)
func (h *EventTypeHandler) DeleteEventType(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.eventTypeService.DeleteEventType(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event type deleted successfully"})
}
