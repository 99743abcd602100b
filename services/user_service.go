// File: /services/user_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"tablemates-api/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetProfile resolves a user's current profile. Meetup and conversation
// writes call this fresh every time so the snapshot they embed reflects the
// profile as of that write, not a cached copy.
func (s *UserService) GetProfile(userID string) (*models.User, *Error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindProfileUnavailable, "Could not fetch user profile")
		}
		return nil, StoreError(err, "Failed to get user profile")
	}
	return &user, nil
}

// UpdateProfile merges the given fields into the stored profile. Snapshots
// of this user already embedded in meetups and conversations stay stale on
// purpose.
func (s *UserService) UpdateProfile(userID string, updates map[string]interface{}) *Error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	result := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return StoreError(result.Error, "Failed to update profile")
	}
	if result.RowsAffected == 0 {
		return NewError(KindNotFound, "User not found")
	}
	return nil
}

// SetProfilePicture records a freshly uploaded avatar URL
func (s *UserService) SetProfilePicture(userID, url string) *Error {
	return s.UpdateProfile(userID, map[string]interface{}{"profile_picture": url})
}

// Search matches users by name, username or email substring
func (s *UserService) Search(term string) ([]models.User, *Error) {
	pattern := "%" + strings.ToLower(term) + "%"

	users := []models.User{}
	err := s.db.
		Where("LOWER(name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern).
		Find(&users).Error
	if err != nil {
		return nil, StoreError(err, "Failed to search users")
	}

	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// ByIDs returns the users that exist among the given ids, skipping misses
func (s *UserService) ByIDs(userIDs []string) ([]models.User, *Error) {
	if len(userIDs) == 0 {
		return []models.User{}, nil
	}

	users := []models.User{}
	if err := s.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, StoreError(err, "Failed to get users")
	}

	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}
