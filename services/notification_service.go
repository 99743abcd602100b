// File: /services/notification_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tablemates-api/models"
)

// NotificationService records meetup activity for the affected user
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Create(targetUserID, actorUserID, actorName string, kind models.NotificationType, meetup *models.Meetup) error {
	notification := models.Notification{
		ID:           uuid.New().String(),
		Type:         kind,
		ActorUserID:  actorUserID,
		ActorName:    actorName,
		TargetUserID: targetUserID,
		MeetupID:     meetup.ID,
		MeetupName:   meetup.RestaurantName,
	}
	return s.db.Create(&notification).Error
}

func (s *NotificationService) List(userID string, unreadOnly bool) ([]models.Notification, *Error) {
	query := s.db.Where("target_user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	notifications := []models.Notification{}
	if err := query.Order("created_at DESC").Limit(50).Find(&notifications).Error; err != nil {
		return nil, StoreError(err, "Failed to fetch notifications")
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(userID string) (int64, *Error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, StoreError(err, "Failed to count notifications")
	}
	return count, nil
}

func (s *NotificationService) MarkRead(notificationID, userID string) *Error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND target_user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return StoreError(result.Error, "Failed to mark notification as read")
	}
	if result.RowsAffected == 0 {
		return NewError(KindNotFound, "Notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID string) *Error {
	err := s.db.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return StoreError(err, "Failed to mark notifications as read")
	}
	return nil
}

func (s *NotificationService) Delete(notificationID, userID string) *Error {
	result := s.db.Where("id = ? AND target_user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return StoreError(result.Error, "Failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return NewError(KindNotFound, "Notification not found")
	}
	return nil
}
