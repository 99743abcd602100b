// File: /controllers/user_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tablemates-api/models"
	"tablemates-api/services"
	"tablemates-api/utils"
)

type UserController struct {
	users   *services.UserService
	storage *services.StorageService
}

func NewUserController(users *services.UserService, storage *services.StorageService) *UserController {
	return &UserController{
		users:   users,
		storage: storage,
	}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	user, svcErr := uc.users.GetProfile(userID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

// GetUser returns another user's public profile
func (uc *UserController) GetUser(c *gin.Context) {
	user, svcErr := uc.users.GetProfile(c.Param("id"))
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	user.Password = ""
	user.Email = ""
	c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	FirstName     *string   `json:"first_name"`
	LastName      *string   `json:"last_name"`
	Name          *string   `json:"name"`
	Year          *int      `json:"year"`
	Major         *string   `json:"major"`
	Bio           *string   `json:"bio"`
	Personality   *[]string `json:"personality"`
	FunFact       *string   `json:"fun_fact"`
	LastMeal      *string   `json:"last_meal"`
	FavoriteFoods *[]string `json:"favorite_foods"`
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Major != nil {
		updates["major"] = *req.Major
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Personality != nil {
		updates["personality"] = models.StringSlice(*req.Personality)
	}
	if req.FunFact != nil {
		updates["fun_fact"] = *req.FunFact
	}
	if req.LastMeal != nil {
		updates["last_meal"] = *req.LastMeal
	}
	if req.FavoriteFoods != nil {
		updates["favorite_foods"] = models.StringSlice(*req.FavoriteFoods)
	}

	if svcErr := uc.users.UpdateProfile(userID, updates); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// UploadAvatar stores a new profile picture and records its public URL
func (uc *UserController) UploadAvatar(c *gin.Context) {
	userID := c.GetString("user_id")

	if uc.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Avatar storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	const maxAvatarSize = 5 << 20
	if fileHeader.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar must be smaller than 5MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read avatar"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	url, err := uc.storage.UploadProfilePicture(c.Request.Context(), userID, file, fileHeader.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload avatar"})
		return
	}

	if svcErr := uc.users.SetProfilePicture(userID, url); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated successfully", "url": url})
}

// GetUsersByIDs resolves a comma-separated id list to public profiles,
// silently skipping ids that no longer exist
func (uc *UserController) GetUsersByIDs(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids query parameter required"})
		return
	}

	ids := []string{}
	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}

	users, svcErr := uc.users.ByIDs(ids)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	for i := range users {
		users[i].Email = ""
	}
	c.JSON(http.StatusOK, users)
}

func (uc *UserController) SearchUsers(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query required"})
		return
	}

	users, svcErr := uc.users.Search(term)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, users)
}
