package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/nafishahmed/blogspace/internal/util"
)

// GetNotifications lists the current user's notifications, newest first,
// with the unread count for badge display
// GET /api/v1/notifications
func (h *Handlers) GetNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 100)

	var notifications []models.Notification
	err := database.DB.
		Preload("Sender").
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get notifications")
		return
	}

	var unread int64
	if err := database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&unread).Error; err != nil {
		unread = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread":        unread,
		"meta": gin.H{
			"limit":  limit,
			"offset": offset,
			"count":  len(notifications),
		},
	})
}

// MarkNotificationRead marks one of the current user's notifications as read
// POST /api/v1/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", c.Param("id"), userID).
		Update("read", true)
	if result.Error != nil {
		util.RespondInternalError(c, "failed to mark notification read")
		return
	}
	if result.RowsAffected == 0 {
		util.RespondNotFound(c, "notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
}

// MarkAllNotificationsRead marks every notification of the current user read
// POST /api/v1/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		util.RespondInternalError(c, "failed to mark notifications read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked read"})
}

// DeleteNotification removes one of the current user's notifications
// DELETE /api/v1/notifications/:id
func (h *Handlers) DeleteNotification(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	result := database.DB.
		Where("id = ? AND recipient_id = ?", c.Param("id"), userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		util.RespondInternalError(c, "failed to delete notification")
		return
	}
	if result.RowsAffected == 0 {
		util.RespondNotFound(c, "notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}

// DeleteAllNotifications clears the current user's notification list
// DELETE /api/v1/notifications
func (h *Handlers) DeleteAllNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	result := database.DB.
		Where("recipient_id = ?", userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		util.RespondInternalError(c, "failed to delete notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "notifications deleted",
		"deleted": result.RowsAffected,
	})
}
