// File: /controllers/meetup_controller_test.go
package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tablemates-api/middleware"
	"tablemates-api/models"
	"tablemates-api/repositories"
	"tablemates-api/services"
)

const testJWTSecret = "unit-test-secret"

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	hub := services.NewHub()
	meetupService := services.NewMeetupService(
		repositories.NewMeetupRepository(db),
		services.NewUserService(db),
		services.NewNotificationService(db),
		hub,
	)
	controller := NewMeetupController(meetupService)

	router := gin.New()
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(testJWTSecret))
	{
		protected.POST("/meetups", controller.CreateMeetup)
		protected.GET("/meetups/:id", controller.GetMeetup)
		protected.POST("/meetups/:id/join", controller.JoinMeetup)
		protected.POST("/meetups/:id/leave", controller.LeaveMeetup)
		protected.POST("/meetups/:id/cancel", controller.CancelMeetup)
	}

	return &testAPI{router: router, db: db}
}

func (api *testAPI) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New().String(),
		Email:    fmt.Sprintf("%s@student.ubc.ca", uuid.New().String()[:8]),
		Name:     name,
		Username: uuid.New().String()[:8],
	}
	if err := api.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func (api *testAPI) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	claims := middleware.AuthClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func (api *testAPI) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, req)
	return recorder
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestCreateMeetupEndpoint(t *testing.T) {
	api := newTestAPI(t)
	alice := api.createUser(t, "Alice")
	token := api.tokenFor(t, alice)

	body := map[string]interface{}{
		"restaurant_name": "Sushi Garden",
		"date":            futureDate(),
		"time":            "18:30",
		"max_spots":       4,
	}
	resp := api.request(t, http.MethodPost, "/api/v1/meetups", token, body)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var meetup models.Meetup
	if err := json.Unmarshal(resp.Body.Bytes(), &meetup); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if meetup.Status != models.MeetupStatusOpen {
		t.Errorf("expected open status, got %q", meetup.Status)
	}
	if len(meetup.Attendees) != 1 || meetup.Attendees[0].UserID != alice.ID {
		t.Errorf("expected creator seeded as attendee, got %v", meetup.Attendees)
	}
}

func TestCreateMeetupRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	resp := api.request(t, http.MethodPost, "/api/v1/meetups", "", map[string]interface{}{
		"restaurant_name": "Sushi Garden",
		"date":            futureDate(),
		"time":            "18:30",
		"max_spots":       4,
	})
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.Code)
	}
}

func TestCreateMeetupValidatesCapacity(t *testing.T) {
	api := newTestAPI(t)
	alice := api.createUser(t, "Alice")
	token := api.tokenFor(t, alice)

	resp := api.request(t, http.MethodPost, "/api/v1/meetups", token, map[string]interface{}{
		"restaurant_name": "Sushi Garden",
		"date":            futureDate(),
		"time":            "18:30",
		"max_spots":       11,
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for capacity over 10, got %d", resp.Code)
	}
}

func TestJoinFullMeetupReturnsConflict(t *testing.T) {
	api := newTestAPI(t)
	alice := api.createUser(t, "Alice")
	bob := api.createUser(t, "Bob")
	carol := api.createUser(t, "Carol")

	resp := api.request(t, http.MethodPost, "/api/v1/meetups", api.tokenFor(t, alice), map[string]interface{}{
		"restaurant_name": "Sushi Garden",
		"date":            futureDate(),
		"time":            "18:30",
		"max_spots":       2,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", resp.Code, resp.Body.String())
	}
	var meetup models.Meetup
	if err := json.Unmarshal(resp.Body.Bytes(), &meetup); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	joinPath := fmt.Sprintf("/api/v1/meetups/%s/join", meetup.ID)
	if resp := api.request(t, http.MethodPost, joinPath, api.tokenFor(t, bob), nil); resp.Code != http.StatusOK {
		t.Fatalf("expected bob's join to succeed, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp := api.request(t, http.MethodPost, joinPath, api.tokenFor(t, carol), nil); resp.Code != http.StatusConflict {
		t.Errorf("expected 409 joining a full meetup, got %d", resp.Code)
	}
}

func TestCreatorLeaveReturnsBadRequest(t *testing.T) {
	api := newTestAPI(t)
	alice := api.createUser(t, "Alice")
	token := api.tokenFor(t, alice)

	resp := api.request(t, http.MethodPost, "/api/v1/meetups", token, map[string]interface{}{
		"restaurant_name": "Sushi Garden",
		"date":            futureDate(),
		"time":            "18:30",
		"max_spots":       4,
	})
	var meetup models.Meetup
	if err := json.Unmarshal(resp.Body.Bytes(), &meetup); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	leave := api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/meetups/%s/leave", meetup.ID), token, nil)
	if leave.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when creator tries to leave, got %d", leave.Code)
	}
}

func TestCancelByNonCreatorReturnsForbidden(t *testing.T) {
	api := newTestAPI(t)
	alice := api.createUser(t, "Alice")
	bob := api.createUser(t, "Bob")

	resp := api.request(t, http.MethodPost, "/api/v1/meetups", api.tokenFor(t, alice), map[string]interface{}{
		"restaurant_name": "Sushi Garden",
		"date":            futureDate(),
		"time":            "18:30",
		"max_spots":       4,
	})
	var meetup models.Meetup
	if err := json.Unmarshal(resp.Body.Bytes(), &meetup); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	cancel := api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/meetups/%s/cancel", meetup.ID), api.tokenFor(t, bob), nil)
	if cancel.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-creator cancel, got %d", cancel.Code)
	}
}

func TestGetMissingMeetupReturnsNotFound(t *testing.T) {
	api := newTestAPI(t)
	alice := api.createUser(t, "Alice")

	resp := api.request(t, http.MethodGet, "/api/v1/meetups/nope", api.tokenFor(t, alice), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.Code)
	}
}
