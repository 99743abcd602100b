// File: /main.go
package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"tablemates-api/config"
	"tablemates-api/database"
	"tablemates-api/jobs"
	"tablemates-api/middleware"
	"tablemates-api/repositories"
	"tablemates-api/routes"
	"tablemates-api/services"
)

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	hub := services.NewHub()

	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db)
	meetupService := services.NewMeetupService(repositories.NewMeetupRepository(db), userService, notificationService, hub)
	messageService := services.NewMessageService(repositories.NewConversationRepository(db), userService, hub)
	emailService := services.NewEmailService(cfg)
	placesService := services.NewPlacesService(cfg)

	// Avatar storage is optional in local development; uploads return 503
	// until object storage is configured
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Printf("Warning: object storage unavailable, avatar uploads disabled: %v", err)
		storageService = nil
	}

	completionJob := jobs.NewMeetupCompletionJob(meetupService, 5*time.Minute)
	completionJob.Start()
	defer completionJob.Stop()

	router := gin.Default()
	router.Use(middleware.SecurityHeaders())
	routes.SetupCORS(router)
	routes.SetupRoutes(router, db, cfg, &routes.Services{
		Users:         userService,
		Meetups:       meetupService,
		Messages:      messageService,
		Notifications: notificationService,
		Email:         emailService,
		Storage:       storageService,
		Places:        placesService,
	})

	log.Printf("TableMates API listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
