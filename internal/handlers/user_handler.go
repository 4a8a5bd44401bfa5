package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapp/internal/middleware"
	"todoapp/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary      Update notification preference
// @Tags         User
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /user/notifications/preferences [put]
func (h *UserHandler) UpdateNotificationPref(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	var req struct {
		ReceiveNotifications *bool `json:"receive_notifications" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateNotificationPref(c.Request.Context(), user.ID, *req.ReceiveNotifications); err != nil {
		log.Printf("[user][prefs][err] userID=%d: %v", user.ID, err)
		respondError(c, err, "failed to update notification preferences")
		return
	}

	state := "disabled"
	if *req.ReceiveNotifications {
		state = "enabled"
	}
	log.Printf("[user][prefs][ok] userID=%d notifications=%s", user.ID, state)
	c.JSON(http.StatusOK, gin.H{"message": "Email notifications " + state})
}

// @Summary      Link a Telegram chat
// @Description  Sets or clears the chat id used for Telegram task notifications
// @Tags         User
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /user/notifications/telegram [put]
func (h *UserHandler) UpdateTelegramLink(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	var req struct {
		ChatID  int64 `json:"chat_id"`
		Enabled bool  `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chatID := req.ChatID
	if !req.Enabled {
		chatID = 0
	}
	if err := h.userService.UpdateTelegramLink(c.Request.Context(), user.ID, chatID); err != nil {
		log.Printf("[user][telegram][err] userID=%d: %v", user.ID, err)
		respondError(c, err, "failed to update telegram link")
		return
	}
	log.Printf("[user][telegram][ok] userID=%d chatID=%d", user.ID, chatID)
	c.JSON(http.StatusOK, gin.H{"message": "Telegram link updated"})
}

// Unsubscribe is public and never reveals whether the email exists.
//
// @Summary      Unsubscribe from email notifications
// @Tags         User
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /user/notifications/unsubscribe [post]
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UnsubscribeByEmail(c.Request.Context(), req.Email); err != nil {
		log.Printf("[user][unsubscribe][err] %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, you have been unsubscribed"})
}
