package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tisport/tisport/internal/service"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.eventService.GetAllEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: events})
}

func (h *EventHandler) GetUpcomingEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	events, err := h.eventService.GetUpcomingEvents(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: events})
}

func (h *EventHandler) GetPopularEvents(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "5"))
	if err != nil || count <= 0 {
		count = 5
	}

	events, err := h.eventService.GetPopularEvents(c.Request.Context(), count)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: events})
}

func (h *EventHandler) SearchEvents(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "title query parameter is required"})
		return
	}

	events, err := h.eventService.SearchEventsByTitle(c.Request.Context(), title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: events})
}

func (h *EventHandler) GetEventBySlug(c *gin.Context) {
	event, err := h.eventService.GetEventBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: event})
}

func (h *EventHandler) GetEventParticipants(c *gin.Context) {
	event, err := h.eventService.GetEventBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	names, err := h.eventService.GetEventParticipants(c.Request.Context(), event.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: gin.H{
		"event_id":     event.ID,
		"participants": names,
	}})
}
