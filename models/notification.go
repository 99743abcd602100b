// File: /models/notification.go
package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeJoin   NotificationType = "meetup_join"
	NotificationTypeLeave  NotificationType = "meetup_leave"
	NotificationTypeCancel NotificationType = "meetup_cancel"
)

type Notification struct {
	ID           string           `json:"id" gorm:"primaryKey;size:191"`
	Type         NotificationType `json:"type" gorm:"not null;size:50"`
	ActorUserID  string           `json:"actor_user_id" gorm:"not null;size:191"`  // Who performed the action
	ActorName    string           `json:"actor_name" gorm:"size:255"`              // Snapshot at event time
	TargetUserID string           `json:"target_user_id" gorm:"not null;size:191"` // Who receives the notification
	MeetupID     string           `json:"meetup_id" gorm:"size:191"`
	MeetupName   string           `json:"meetup_name" gorm:"size:255"` // Restaurant name snapshot
	IsRead       bool             `json:"is_read" gorm:"default:false"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Message builds the display text for a notification
func (n *Notification) Message() string {
	switch n.Type {
	case NotificationTypeJoin:
		return fmt.Sprintf("%s joined your meetup at %s", n.ActorName, n.MeetupName)
	case NotificationTypeLeave:
		return fmt.Sprintf("%s left your meetup at %s", n.ActorName, n.MeetupName)
	case NotificationTypeCancel:
		return fmt.Sprintf("Your meetup at %s was cancelled", n.MeetupName)
	default:
		return "You have a new notification"
	}
}
