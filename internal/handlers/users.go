package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusboard/api/internal/middleware"
	"campusboard/api/internal/service"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h HandlerSet) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), caller(c), c.Param("email"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateUserRequest leaves optional fields nil when absent so they keep their
// stored values.
type updateUserRequest struct {
	FullName    string  `json:"fullName"`
	Designation string  `json:"designation"`
	Image       *string `json:"image"`
	ID          *string `json:"id"`
	Department  *string `json:"department"`
	UserType    *string `json:"userType"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), caller(c), c.Param("email"), service.ProfileInput{
		FullName:    req.FullName,
		Designation: req.Designation,
		Image:       req.Image,
		ID:          req.ID,
		Department:  req.Department,
		UserType:    req.UserType,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h HandlerSet) PromoteUser(c *gin.Context) {
	user, err := h.users.Promote(c.Request.Context(), caller(c), c.Param("email"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h HandlerSet) DemoteUser(c *gin.Context) {
	user, err := h.users.Demote(c.Request.Context(), caller(c), c.Param("email"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), caller(c), c.Param("email")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
