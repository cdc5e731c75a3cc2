package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apexcrm/internal/authz"
	"apexcrm/internal/models"
	"apexcrm/internal/repositories"
	"apexcrm/internal/services"
)

type AuthHandler struct {
	auth  services.AuthService
	users repositories.UserRepository
	log   *zap.Logger
}

func NewAuthHandler(auth services.AuthService, users repositories.UserRepository, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, log: nopIfNil(log)}
}

// @Summary      Вход в систему
// @Description  Аутентифицирует пользователя и возвращает JWT
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)

	token, user, err := h.auth.Login(c.Request.Context(), email, strings.TrimSpace(req.Password))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.log.Info("login rejected", zap.String("email", email))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		respondError(c, h.log, err, "user not found")
		return
	}
	h.log.Info("login ok", zap.Int64("user_id", user.ID), zap.Int("role_id", user.RoleID))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
		"role":  authz.RoleName(user.RoleID),
	})
}

// @Summary      Текущий пользователь
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      404  {object}  map[string]string
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "user not found")
		return
	}
	c.JSON(http.StatusOK, user)
}
