// File: /routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tablemates-api/config"
	"tablemates-api/controllers"
	"tablemates-api/middleware"
	"tablemates-api/services"
)

// Services bundles the constructed service layer so route wiring stays in one
// place instead of every controller rebuilding its dependencies.
type Services struct {
	Users         *services.UserService
	Meetups       *services.MeetupService
	Messages      *services.MessageService
	Notifications *services.NotificationService
	Email         *services.EmailService
	Storage       *services.StorageService
	Places        *services.PlacesService
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, svc *Services) {
	authController := controllers.NewAuthController(db, cfg.JWTSecret, cfg.AllowedEmailDomains, svc.Email)
	userController := controllers.NewUserController(svc.Users, svc.Storage)
	meetupController := controllers.NewMeetupController(svc.Meetups)
	messageController := controllers.NewMessageController(svc.Messages)
	notificationController := controllers.NewNotificationController(svc.Notifications)
	placeController := controllers.NewPlaceController(svc.Places)
	wsController := controllers.NewWSController(svc.Meetups, svc.Messages, cfg.JWTSecret)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api/v1")

	// Public endpoints
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(10, 5))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/send-verification", authController.SendVerification)
		auth.POST("/verify-code", authController.VerifyCode)
		auth.GET("/verification-code", authController.GetVerificationCode)
	}

	// Everything below requires a valid token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/auth/logout", authController.Logout)

		users := protected.Group("/users")
		{
			users.GET("/me", userController.GetProfile)
			users.PUT("/me", userController.UpdateProfile)
			users.POST("/me/avatar", userController.UploadAvatar)
			users.GET("/search", userController.SearchUsers)
			users.GET("/batch", userController.GetUsersByIDs)
			users.GET("/:id", userController.GetUser)
		}

		meetups := protected.Group("/meetups")
		{
			meetups.POST("", meetupController.CreateMeetup)
			meetups.GET("", meetupController.GetMeetups)
			meetups.GET("/today", meetupController.GetTodayMeetups)
			meetups.GET("/joined", meetupController.GetJoinedMeetups)
			meetups.GET("/created", meetupController.GetCreatedMeetups)
			meetups.GET("/:id", meetupController.GetMeetup)
			meetups.PUT("/:id", meetupController.UpdateMeetup)
			meetups.POST("/:id/cancel", meetupController.CancelMeetup)
			meetups.DELETE("/:id", meetupController.DeleteMeetup)
			meetups.POST("/:id/join", meetupController.JoinMeetup)
			meetups.POST("/:id/leave", meetupController.LeaveMeetup)
		}

		conversations := protected.Group("/conversations")
		{
			conversations.POST("", messageController.StartConversation)
			conversations.GET("", messageController.GetConversations)
			conversations.GET("/:id/messages", messageController.GetMessages)
			conversations.POST("/:id/messages", messageController.SendMessage)
			conversations.POST("/:id/read", messageController.MarkRead)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationController.GetNotifications)
			notifications.POST("/:id/read", notificationController.MarkAsRead)
			notifications.POST("/read-all", notificationController.MarkAllAsRead)
			notifications.DELETE("/:id", notificationController.DeleteNotification)
		}

		places := protected.Group("/places")
		{
			places.GET("/nearby", placeController.GetNearby)
			places.GET("/:id", placeController.GetDetails)
			places.GET("/photo", placeController.GetPhotoURL)
		}
	}

	// WebSocket feeds authenticate via ?token= since browsers cannot set
	// headers on websocket connections
	ws := r.Group("/ws")
	{
		ws.GET("/meetups", wsController.MeetupsFeed)
		ws.GET("/conversations", wsController.ConversationsFeed)
		ws.GET("/conversations/:id/messages", wsController.MessagesFeed)
	}
}

// SetupCORS configures cross-origin headers for the mobile and web clients
func SetupCORS(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
}
