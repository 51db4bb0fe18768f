package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/auth"
	"github.com/Leganyst/workshop-platform/internal/repository"
)

type AuthHandler struct {
	users   repository.UserRepository
	authSvc *auth.Service
	log     *logrus.Logger
}

func NewAuthHandler(users repository.UserRepository, authSvc *auth.Service, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, authSvc: authSvc, log: log}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		writeError(c, h.log, err)
		return
	}
	if !user.IsActive || !h.authSvc.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.authSvc.GenerateToken(user)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
