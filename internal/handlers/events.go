package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusboard/api/internal/middleware"
	"campusboard/api/internal/service"
)

type eventRequest struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Venue   string `json:"venue"`
	Details string `json:"details"`
	Image   string `json:"image"`
}

func (r eventRequest) input() service.EventInput {
	return service.EventInput{
		Name:    r.Name,
		Date:    r.Date,
		Time:    r.Time,
		Venue:   r.Venue,
		Details: r.Details,
		Image:   r.Image,
	}
}

func (h HandlerSet) ListEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h HandlerSet) GetEvent(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h HandlerSet) CreateEvent(c *gin.Context) {
	var req eventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.events.Create(c.Request.Context(), caller(c), req.input())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h HandlerSet) UpdateEvent(c *gin.Context) {
	var req eventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.events.Update(c.Request.Context(), caller(c), c.Param("id"), req.input())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h HandlerSet) DeleteEvent(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}
