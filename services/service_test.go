// File: /services/service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tablemates-api/models"
	"tablemates-api/repositories"
)

// newTestDB opens a private in-memory database and migrates the full schema.
// cache=shared keeps the database alive across gorm's pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Meetup{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    fmt.Sprintf("%s@student.ubc.ca", uuid.New().String()[:8]),
		Name:     name,
		Username: name,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func newTestMeetupService(t *testing.T) (*MeetupService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewMeetupService(
		repositories.NewMeetupRepository(db),
		NewUserService(db),
		NewNotificationService(db),
		NewHub(),
	)
	return svc, db
}

func newTestMessageService(t *testing.T) (*MessageService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewMessageService(
		repositories.NewConversationRepository(db),
		NewUserService(db),
		NewHub(),
	)
	return svc, db
}

func mustCreateMeetup(t *testing.T, svc *MeetupService, creatorID string, maxSpots int) *models.Meetup {
	t.Helper()

	meetup, err := svc.Create(MeetupDraft{
		RestaurantName:    "Sushi Garden",
		RestaurantAddress: "4635 Kingsway, Burnaby",
		Date:              "2026-10-01",
		Time:              "18:30",
		MaxSpots:          maxSpots,
	}, creatorID)
	if err != nil {
		t.Fatalf("failed to create meetup: %v", err)
	}
	return meetup
}
