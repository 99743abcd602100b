// File: /controllers/place_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tablemates-api/services"
)

type PlaceController struct {
	places *services.PlacesService
}

func NewPlaceController(places *services.PlacesService) *PlaceController {
	return &PlaceController{places: places}
}

// GetNearby searches restaurants around a coordinate for the meetup draft flow
func (pc *PlaceController) GetNearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	radius := 1500
	if r := c.Query("radius"); r != "" {
		if parsed, err := strconv.Atoi(r); err == nil && parsed > 0 && parsed <= 50000 {
			radius = parsed
		}
	}

	places, err := pc.places.NearbyRestaurants(c.Request.Context(), lat, lng, radius, c.Query("keyword"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to search nearby restaurants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": places})
}

func (pc *PlaceController) GetDetails(c *gin.Context) {
	details, err := pc.places.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get place details"})
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetPhotoURL resolves a photo reference to a provider URL
func (pc *PlaceController) GetPhotoURL(c *gin.Context) {
	ref := c.Query("ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ref query parameter required"})
		return
	}

	maxWidth := 400
	if w := c.Query("max_width"); w != "" {
		if parsed, err := strconv.Atoi(w); err == nil {
			maxWidth = parsed
		}
	}

	c.JSON(http.StatusOK, gin.H{"url": pc.places.PhotoURL(ref, maxWidth)})
}
