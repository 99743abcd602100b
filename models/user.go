// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID             string      `json:"id" gorm:"primaryKey;size:191"`
	Email          string      `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password       string      `json:"-" gorm:"not null;size:255"`
	EmailVerified  bool        `json:"email_verified" gorm:"default:false"`
	FirstName      string      `json:"first_name" gorm:"size:100"`
	LastName       string      `json:"last_name" gorm:"size:100"`
	Name           string      `json:"name" gorm:"not null;size:255"`
	Username       string      `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Year           int         `json:"year"`
	Major          string      `json:"major" gorm:"size:255"`
	Bio            string      `json:"bio" gorm:"type:text"`
	Personality    StringSlice `json:"personality" gorm:"type:json"`
	FunFact        string      `json:"fun_fact" gorm:"size:500"`
	LastMeal       string      `json:"last_meal" gorm:"size:255"`
	FavoriteFoods  StringSlice `json:"favorite_foods" gorm:"type:json"`
	ProfilePicture string      `json:"profile_picture" gorm:"size:500"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Snapshot returns the denormalized copy of the user embedded into meetups
// and conversations at write time. It is deliberately not kept in sync with
// later profile edits.
func (u *User) Snapshot() ParticipantDetail {
	return ParticipantDetail{
		Name:    u.Name,
		Picture: u.ProfilePicture,
	}
}

// ParticipantDetail is the at-creation-time copy of another user's identity
type ParticipantDetail struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
