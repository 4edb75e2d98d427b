package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/notify"
	"github.com/mimipoint/backend/internal/transport/http/middleware"
)

type createNotificationRequest struct {
	Title      string      `json:"title" binding:"required"`
	Message    string      `json:"message" binding:"required"`
	Link       *string     `json:"link"`
	Image      *string     `json:"image"`
	Recipients []uuid.UUID `json:"recipients" binding:"required,min=1"`
}

func (h *Handler) createNotification(c *gin.Context) {
	senderID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var body createNotificationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := h.notifications.Store(c.Request.Context(), notify.CreateNotification{
		SenderID:     &senderID,
		Title:        body.Title,
		Message:      body.Message,
		Link:         body.Link,
		Image:        body.Image,
		RecipientIDs: body.Recipients,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *Handler) listNotifications(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	limit, offset := pagination(c)
	notifications, err := h.notifications.ListUnread(c.Request.Context(), userID, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}
