package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusboard/api/internal/middleware"
	"campusboard/api/internal/service"
)

type noticeRequest struct {
	Title          string `json:"title"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	Date           string `json:"date"`
	TargetAudience string `json:"targetAudience"`
	Department     string `json:"department"`
}

func (r noticeRequest) input() service.NoticeInput {
	return service.NoticeInput{
		Title:          r.Title,
		Category:       r.Category,
		Description:    r.Description,
		Image:          r.Image,
		Date:           r.Date,
		TargetAudience: r.TargetAudience,
		Department:     r.Department,
	}
}

func (h HandlerSet) ListNotices(c *gin.Context) {
	notices, err := h.notices.List(c.Request.Context(), caller(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, notices)
}

func (h HandlerSet) GetNotice(c *gin.Context) {
	notice, err := h.notices.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (h HandlerSet) CreateNotice(c *gin.Context) {
	var req noticeRequest
	if !bindJSON(c, &req) {
		return
	}
	notice, err := h.notices.Create(c.Request.Context(), caller(c), req.input())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notice)
}

func (h HandlerSet) UpdateNotice(c *gin.Context) {
	var req noticeRequest
	if !bindJSON(c, &req) {
		return
	}
	notice, err := h.notices.Update(c.Request.Context(), caller(c), c.Param("id"), req.input())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (h HandlerSet) DeleteNotice(c *gin.Context) {
	if err := h.notices.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notice deleted"})
}
