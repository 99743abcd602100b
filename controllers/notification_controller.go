// File: /controllers/notification_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tablemates-api/models"
	"tablemates-api/services"
	"tablemates-api/utils"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

type notificationResponse struct {
	models.Notification
	DisplayMessage string `json:"message"`
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	unreadOnly := c.Query("unread_only") == "true"

	notifications, svcErr := nc.notifications.List(userID, unreadOnly)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	responses := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notificationResponse{
			Notification:   n,
			DisplayMessage: n.Message(),
		})
	}

	unread, svcErr := nc.notifications.UnreadCount(userID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": responses,
		"unread_count":  unread,
	})
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")

	if svcErr := nc.notifications.MarkRead(c.Param("id"), userID); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID := c.GetString("user_id")

	if svcErr := nc.notifications.MarkAllRead(userID); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	userID := c.GetString("user_id")

	if svcErr := nc.notifications.Delete(c.Param("id"), userID); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
