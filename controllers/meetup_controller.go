// File: /controllers/meetup_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tablemates-api/repositories"
	"tablemates-api/services"
	"tablemates-api/utils"
)

type MeetupController struct {
	meetups *services.MeetupService
}

func NewMeetupController(meetups *services.MeetupService) *MeetupController {
	return &MeetupController{meetups: meetups}
}

type CreateMeetupRequest struct {
	RestaurantName      string  `json:"restaurant_name" binding:"required"`
	RestaurantAddress   string  `json:"restaurant_address"`
	RestaurantLatitude  float64 `json:"restaurant_latitude"`
	RestaurantLongitude float64 `json:"restaurant_longitude"`
	RestaurantPlaceID   string  `json:"restaurant_place_id"`
	RestaurantPhoto     string  `json:"restaurant_photo"`
	Date                string  `json:"date" binding:"required"`
	Time                string  `json:"time" binding:"required"`
	MaxSpots            int     `json:"max_spots" binding:"required"`
	Details             string  `json:"details"`
}

func (mc *MeetupController) CreateMeetup(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateMeetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.IsValidMeetupSpots(req.MaxSpots) {
		utils.SendValidationError(c, "Capacity must be between 1 and 10")
		return
	}
	if !utils.IsValidDate(req.Date) {
		utils.SendValidationError(c, "Date must be a valid day that is not in the past")
		return
	}
	if !utils.IsValidTime(req.Time) {
		utils.SendValidationError(c, "Time must be in HH:MM format")
		return
	}

	meetup, svcErr := mc.meetups.Create(services.MeetupDraft{
		RestaurantName:      req.RestaurantName,
		RestaurantAddress:   req.RestaurantAddress,
		RestaurantLatitude:  req.RestaurantLatitude,
		RestaurantLongitude: req.RestaurantLongitude,
		RestaurantPlaceID:   req.RestaurantPlaceID,
		RestaurantPhoto:     req.RestaurantPhoto,
		Date:                req.Date,
		Time:                req.Time,
		MaxSpots:            req.MaxSpots,
		Details:             req.Details,
	}, userID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, meetup)
}

func (mc *MeetupController) GetMeetups(c *gin.Context) {
	filter := repositories.MeetupFilter{
		Status:    c.Query("status"),
		Date:      c.Query("date"),
		CreatedBy: c.Query("created_by"),
	}

	meetups, svcErr := mc.meetups.List(filter)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, meetups)
}

func (mc *MeetupController) GetMeetup(c *gin.Context) {
	meetup, svcErr := mc.meetups.Get(c.Param("id"))
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, meetup)
}

type UpdateMeetupRequest struct {
	RestaurantName    *string `json:"restaurant_name"`
	RestaurantAddress *string `json:"restaurant_address"`
	Date              *string `json:"date"`
	Time              *string `json:"time"`
	MaxSpots          *int    `json:"max_spots"`
	Details           *string `json:"details"`
}

func (mc *MeetupController) UpdateMeetup(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateMeetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.MaxSpots != nil && !utils.IsValidMeetupSpots(*req.MaxSpots) {
		utils.SendValidationError(c, "Capacity must be between 1 and 10")
		return
	}
	if req.Date != nil && !utils.IsValidDate(*req.Date) {
		utils.SendValidationError(c, "Date must be a valid day that is not in the past")
		return
	}
	if req.Time != nil && !utils.IsValidTime(*req.Time) {
		utils.SendValidationError(c, "Time must be in HH:MM format")
		return
	}

	svcErr := mc.meetups.Update(c.Param("id"), services.MeetupPatch{
		RestaurantName:    req.RestaurantName,
		RestaurantAddress: req.RestaurantAddress,
		Date:              req.Date,
		Time:              req.Time,
		MaxSpots:          req.MaxSpots,
		Details:           req.Details,
	}, userID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meetup updated successfully"})
}

func (mc *MeetupController) CancelMeetup(c *gin.Context) {
	userID := c.GetString("user_id")

	if svcErr := mc.meetups.Cancel(c.Param("id"), userID); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meetup cancelled successfully"})
}

func (mc *MeetupController) DeleteMeetup(c *gin.Context) {
	userID := c.GetString("user_id")

	if svcErr := mc.meetups.Delete(c.Param("id"), userID); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meetup deleted successfully"})
}

func (mc *MeetupController) JoinMeetup(c *gin.Context) {
	userID := c.GetString("user_id")

	meetup, svcErr := mc.meetups.Join(c.Param("id"), userID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully joined meetup", "meetup": meetup})
}

func (mc *MeetupController) LeaveMeetup(c *gin.Context) {
	userID := c.GetString("user_id")

	meetup, svcErr := mc.meetups.Leave(c.Param("id"), userID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully left meetup", "meetup": meetup})
}

// GetTodayMeetups lists open meetups happening today
func (mc *MeetupController) GetTodayMeetups(c *gin.Context) {
	meetups, svcErr := mc.meetups.TodayMeetups()
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, meetups)
}

// GetJoinedMeetups lists open meetups the current user is attending
func (mc *MeetupController) GetJoinedMeetups(c *gin.Context) {
	userID := c.GetString("user_id")

	meetups, svcErr := mc.meetups.UserMeetups(userID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, meetups)
}

// GetCreatedMeetups lists meetups the current user created
func (mc *MeetupController) GetCreatedMeetups(c *gin.Context) {
	userID := c.GetString("user_id")

	meetups, svcErr := mc.meetups.List(repositories.MeetupFilter{CreatedBy: userID})
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, meetups)
}
