// File: /database/database.go
package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tablemates-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Meetup{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX idx_meetups_status_date ON meetups (status, date)",
		"CREATE INDEX idx_messages_conversation_timestamp ON messages (conversation_id, timestamp)",
		"CREATE INDEX idx_notifications_target_read ON notifications (target_user_id, is_read)",
	}

	for _, idx := range indexes {
		// MySQL has no CREATE INDEX IF NOT EXISTS; ignore duplicate errors on restart
		if err := db.Exec(idx).Error; err != nil {
			continue
		}
	}

	return nil
}

// SeedData populates the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Already seeded
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{
			ID:            uuid.New().String(),
			Email:         "alice@student.ubc.ca",
			Password:      string(hashed),
			EmailVerified: true,
			FirstName:     "Alice",
			LastName:      "Chen",
			Name:          "Alice Chen",
			Username:      "alice",
			Year:          3,
			Major:         "Computer Science",
			FavoriteFoods: models.StringSlice{"ramen", "sushi"},
		},
		{
			ID:            uuid.New().String(),
			Email:         "ben@student.ubc.ca",
			Password:      string(hashed),
			EmailVerified: true,
			FirstName:     "Ben",
			LastName:      "Okafor",
			Name:          "Ben Okafor",
			Username:      "ben",
			Year:          2,
			Major:         "Economics",
			FavoriteFoods: models.StringSlice{"pho", "tacos"},
		},
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	meetup := models.Meetup{
		ID:                  uuid.New().String(),
		CreatedBy:           users[0].ID,
		CreatorName:         users[0].Name,
		RestaurantName:      "Suika Snackbar",
		RestaurantAddress:   "1626 W Broadway, Vancouver",
		RestaurantLatitude:  49.2635,
		RestaurantLongitude: -123.1407,
		Date:                time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		Time:                "18:30",
		MaxSpots:            4,
		Details:             "Izakaya night, first years welcome",
		Status:              models.MeetupStatusOpen,
		Attendees: models.AttendeeList{{
			UserID:   users[0].ID,
			Name:     users[0].Name,
			JoinedAt: time.Now().Format(time.RFC3339),
		}},
	}

	return db.Create(&meetup).Error
}
