// File: /jobs/meetup_completion_job_test.go
package jobs

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tablemates-api/models"
	"tablemates-api/repositories"
	"tablemates-api/services"
)

func TestRunOnceCompletesPastMeetups(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Meetup{}, &models.Notification{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	creator := &models.User{ID: uuid.New().String(), Email: "a@student.ubc.ca", Name: "Alice"}
	if err := db.Create(creator).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	meetupService := services.NewMeetupService(
		repositories.NewMeetupRepository(db),
		services.NewUserService(db),
		services.NewNotificationService(db),
		services.NewHub(),
	)

	past := &models.Meetup{
		ID:          uuid.New().String(),
		CreatedBy:   creator.ID,
		CreatorName: creator.Name,
		Date:        "2020-01-01",
		Time:        "12:00",
		MaxSpots:    4,
		Status:      models.MeetupStatusOpen,
	}
	cancelled := &models.Meetup{
		ID:          uuid.New().String(),
		CreatedBy:   creator.ID,
		CreatorName: creator.Name,
		Date:        "2020-01-01",
		Time:        "12:00",
		MaxSpots:    4,
		Status:      models.MeetupStatusCancelled,
	}
	if err := db.Create(past).Error; err != nil {
		t.Fatalf("failed to create meetup: %v", err)
	}
	if err := db.Create(cancelled).Error; err != nil {
		t.Fatalf("failed to create meetup: %v", err)
	}

	job := NewMeetupCompletionJob(meetupService, 0)
	job.RunOnce()

	got, svcErr := meetupService.Get(past.ID)
	if svcErr != nil {
		t.Fatalf("get failed: %v", svcErr)
	}
	if got.Status != models.MeetupStatusCompleted {
		t.Errorf("expected past meetup completed, got %q", got.Status)
	}

	got, svcErr = meetupService.Get(cancelled.ID)
	if svcErr != nil {
		t.Fatalf("get failed: %v", svcErr)
	}
	if got.Status != models.MeetupStatusCancelled {
		t.Errorf("expected cancelled meetup untouched, got %q", got.Status)
	}
}
