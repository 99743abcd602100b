// File: /models/meetup.go
package models

import (
	"time"
)

const (
	MeetupStatusOpen      = "open"
	MeetupStatusFull      = "full"
	MeetupStatusCancelled = "cancelled"
	MeetupStatusCompleted = "completed"
)

type Meetup struct {
	ID                  string       `json:"id" gorm:"primaryKey;size:191"`
	CreatedBy           string       `json:"created_by" gorm:"not null;size:191;index"`
	CreatorName         string       `json:"creator_name" gorm:"not null;size:255"`
	CreatorPicture      string       `json:"creator_picture" gorm:"size:500"`
	RestaurantName      string       `json:"restaurant_name" gorm:"not null;size:255"`
	RestaurantAddress   string       `json:"restaurant_address" gorm:"size:500"`
	RestaurantLatitude  float64      `json:"restaurant_latitude"`
	RestaurantLongitude float64      `json:"restaurant_longitude"`
	RestaurantPlaceID   string       `json:"restaurant_place_id" gorm:"size:191"`
	RestaurantPhoto     string       `json:"restaurant_photo" gorm:"size:500"`
	Date                string       `json:"date" gorm:"not null;size:10;index"` // YYYY-MM-DD
	Time                string       `json:"time" gorm:"not null;size:5"`        // HH:MM
	MaxSpots            int          `json:"max_spots" gorm:"not null"`
	Details             string       `json:"details" gorm:"type:text"`
	Attendees           AttendeeList `json:"attendees" gorm:"type:json"`
	Status              string       `json:"status" gorm:"not null;size:20;index;default:'open'"`
	Version             int          `json:"-" gorm:"not null;default:0"` // Optimistic write guard
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Attendee is a user who joined a meetup, including its creator.
// Name and picture are snapshots taken at join time.
type Attendee struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	JoinedAt string `json:"joined_at"` // RFC3339
}

func (m *Meetup) HasAttendee(userID string) bool {
	for _, a := range m.Attendees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

func (m *Meetup) AtCapacity() bool {
	return len(m.Attendees) >= m.MaxSpots
}

// IsTerminal reports whether the meetup no longer accepts join/leave
func (m *Meetup) IsTerminal() bool {
	return m.Status == MeetupStatusCancelled || m.Status == MeetupStatusCompleted
}

// WithoutAttendee returns a copy of the attendee list with the given user removed
func (m *Meetup) WithoutAttendee(userID string) AttendeeList {
	kept := make(AttendeeList, 0, len(m.Attendees))
	for _, a := range m.Attendees {
		if a.UserID != userID {
			kept = append(kept, a)
		}
	}
	return kept
}
