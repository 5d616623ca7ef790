package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusboard/api/internal/middleware"
	"campusboard/api/internal/service"
)

type signupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FullName    string `json:"fullName"`
	ID          string `json:"id"`
	UserType    string `json:"userType"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	Image       string `json:"image"`
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Email:       req.Email,
		FullName:    req.FullName,
		ID:          req.ID,
		UserType:    req.UserType,
		Department:  req.Department,
		Designation: req.Designation,
		Image:       req.Image,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// loginRequest is the claim forwarded by the identity front-end once it has
// authenticated the user.
type loginRequest struct {
	UID           string `json:"uid" binding:"required"`
	Email         string `json:"email" binding:"required"`
	EmailVerified bool   `json:"emailVerified"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		UID:           req.UID,
		Email:         req.Email,
		EmailVerified: req.EmailVerified,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	http.SetCookie(c.Writer, h.cookies.SessionCookie(result.Token, result.TTL))
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    result.User,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, h.cookies.ClearedCookie())
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the caller's identity alongside the stored record.
func (h HandlerSet) Me(c *gin.Context) {
	identity := caller(c)
	user, err := h.users.Get(c.Request.Context(), identity, identity.Email)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":        identity.UID,
		"email":      identity.Email,
		"role":       identity.Role,
		"department": identity.Department,
		"userType":   identity.UserType,
		"user":       user,
	})
}
