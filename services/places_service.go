// File: /services/places_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"tablemates-api/config"
)

// PlacesService proxies the maps provider's place lookups for the
// restaurant-picking flow. Nothing it returns is persisted except the
// restaurant snapshot fields the client copies into a meetup draft.
// Responses are cached in redis when a cache is configured.
type PlacesService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *redis.Client
	cacheTTL   time.Duration
}

func NewPlacesService(cfg *config.Config) *PlacesService {
	var cache *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: invalid REDIS_URL, places cache disabled: %v", err)
		} else {
			cache = redis.NewClient(opts)
		}
	}

	return &PlacesService{
		apiKey:     cfg.PlacesAPIKey,
		baseURL:    cfg.PlacesBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		cacheTTL:   10 * time.Minute,
	}
}

// Place is one nearby-search result
type Place struct {
	PlaceID   string  `json:"place_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Rating    float64 `json:"rating"`
	PhotoRef  string  `json:"photo_ref,omitempty"`
	OpenNow   *bool   `json:"open_now,omitempty"`
}

// PlaceDetails extends Place with contact fields from the details endpoint
type PlaceDetails struct {
	Place
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Rating   float64 `json:"rating"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
		OpeningHours *struct {
			OpenNow bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		FormattedPhone   string `json:"formatted_phone_number"`
		Website          string `json:"website"`
		Rating           float64 `json:"rating"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"result"`
}

// NearbyRestaurants searches restaurants around a coordinate
func (s *PlacesService) NearbyRestaurants(ctx context.Context, lat, lng float64, radius int, keyword string) ([]Place, error) {
	cacheKey := fmt.Sprintf("places:nearby:%.4f:%.4f:%d:%s", lat, lng, radius, keyword)
	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		var places []Place
		if err := json.Unmarshal(cached, &places); err == nil {
			return places, nil
		}
	}

	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radius))
	params.Set("type", "restaurant")
	if keyword != "" {
		params.Set("keyword", keyword)
	}

	var parsed nearbyResponse
	if err := s.getJSON(ctx, "/nearbysearch/json", params, &parsed); err != nil {
		return nil, err
	}
	if parsed.Status != "OK" && parsed.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API returned status %s", parsed.Status)
	}

	places := make([]Place, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		place := Place{
			PlaceID:   r.PlaceID,
			Name:      r.Name,
			Address:   r.Vicinity,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
			Rating:    r.Rating,
		}
		if len(r.Photos) > 0 {
			place.PhotoRef = r.Photos[0].PhotoReference
		}
		if r.OpeningHours != nil {
			open := r.OpeningHours.OpenNow
			place.OpenNow = &open
		}
		places = append(places, place)
	}

	s.toCache(ctx, cacheKey, places)
	return places, nil
}

// Details fetches a single place by its provider id
func (s *PlacesService) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	cacheKey := "places:details:" + placeID
	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		var details PlaceDetails
		if err := json.Unmarshal(cached, &details); err == nil {
			return &details, nil
		}
	}

	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("place_id", placeID)
	params.Set("fields", "place_id,name,formatted_address,formatted_phone_number,website,rating,geometry,photos")

	var parsed detailsResponse
	if err := s.getJSON(ctx, "/details/json", params, &parsed); err != nil {
		return nil, err
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("places API returned status %s", parsed.Status)
	}

	details := &PlaceDetails{
		Place: Place{
			PlaceID:   parsed.Result.PlaceID,
			Name:      parsed.Result.Name,
			Address:   parsed.Result.FormattedAddress,
			Latitude:  parsed.Result.Geometry.Location.Lat,
			Longitude: parsed.Result.Geometry.Location.Lng,
			Rating:    parsed.Result.Rating,
		},
		Phone:   parsed.Result.FormattedPhone,
		Website: parsed.Result.Website,
	}
	if len(parsed.Result.Photos) > 0 {
		details.PhotoRef = parsed.Result.Photos[0].PhotoReference
	}

	s.toCache(ctx, cacheKey, details)
	return details, nil
}

// PhotoURL builds the provider URL for a photo reference
func (s *PlacesService) PhotoURL(photoRef string, maxWidth int) string {
	if photoRef == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = 400
	}
	return fmt.Sprintf("%s/photo?key=%s&photoreference=%s&maxwidth=%d",
		s.baseURL, s.apiKey, url.QueryEscape(photoRef), maxWidth)
}

func (s *PlacesService) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}

func (s *PlacesService) fromCache(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *PlacesService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.Printf("Warning: failed to cache places response: %v", err)
	}
}
