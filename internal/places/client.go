package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/lancecummins/eatout/internal/config"
	"github.com/lancecummins/eatout/internal/models"
)

const placesBaseURL = "https://places.googleapis.com/v1"

// searchFieldMask limits responses to the fields the app actually consumes.
const searchFieldMask = "places.id,places.displayName,places.formattedAddress," +
	"places.location,places.rating,places.userRatingCount,places.priceLevel," +
	"places.photos,places.types,places.currentOpeningHours"

// Client talks to the Places API (New).
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

type SearchParams struct {
	Latitude  float64
	Longitude float64
	Radius    float64  // meters
	Types     []string // empty selects the full default catalog
}

type searchNearbyRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchNearbyResponse struct {
	Places []place `json:"places"`
}

type place struct {
	ID          string `json:"id"`
	DisplayName *struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	Location         *latLng `json:"location"`
	Rating           float64 `json:"rating"`
	UserRatingCount  int     `json:"userRatingCount"`
	PriceLevel       string  `json:"priceLevel"`
	Photos           []struct {
		Name     string `json:"name"`
		WidthPx  int    `json:"widthPx"`
		HeightPx int    `json:"heightPx"`
	} `json:"photos"`
	Types               []string `json:"types"`
	CurrentOpeningHours *struct {
		OpenNow bool `json:"openNow"`
	} `json:"currentOpeningHours"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: config.ProviderTimeout},
		baseURL:    placesBaseURL,
	}
}

// SearchNearby fans out one request per category type in parallel, merges
// the results deduplicated by place id, and shuffles the merged list so
// every session sees candidates in a fresh order. A type whose request
// fails contributes nothing; only a total failure across all types is an
// error.
func (c *Client) SearchNearby(ctx context.Context, params SearchParams) ([]models.Restaurant, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("places api key is not configured")
	}

	types := params.Types
	if len(types) == 0 {
		types = models.DefaultSearchTypes
	}
	if params.Radius <= 0 {
		params.Radius = config.DefaultSearchRadius
	}

	log.Printf("searching %d restaurant categories near (%.4f, %.4f)",
		len(types), params.Latitude, params.Longitude)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		merged  []models.Restaurant
		seen    = make(map[string]bool)
		failed  int
		lastErr error
	)

	for _, t := range types {
		wg.Add(1)
		go func(categoryType string) {
			defer wg.Done()

			restaurants, err := c.searchByType(ctx, params, categoryType)
			if err != nil {
				log.Printf("search failed for type %s: %v", categoryType, err)
				mu.Lock()
				failed++
				lastErr = err
				mu.Unlock()
				return
			}

			mu.Lock()
			for _, r := range restaurants {
				if !seen[r.PlaceID] {
					seen[r.PlaceID] = true
					merged = append(merged, r)
				}
			}
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	if failed == len(types) {
		return nil, fmt.Errorf("all %d category searches failed: %w", failed, lastErr)
	}

	// Fisher-Yates so repeat sessions in the same area see varied order.
	for i := len(merged) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		merged[i], merged[j] = merged[j], merged[i]
	}

	log.Printf("found %d unique restaurants across %d categories (%d failed)",
		len(merged), len(types), failed)
	return merged, nil
}

func (c *Client) searchByType(ctx context.Context, params SearchParams, categoryType string) ([]models.Restaurant, error) {
	body, err := json.Marshal(searchNearbyRequest{
		IncludedTypes:  []string{categoryType},
		MaxResultCount: config.MaxResultsPerType,
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: latLng{Latitude: params.Latitude, Longitude: params.Longitude},
				Radius: params.Radius,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchNearby", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed searchNearbyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	restaurants := make([]models.Restaurant, 0, len(parsed.Places))
	for _, p := range parsed.Places {
		restaurants = append(restaurants, convertPlace(p))
	}
	return restaurants, nil
}

func convertPlace(p place) models.Restaurant {
	r := models.Restaurant{
		PlaceID:     p.ID,
		Name:        "Unknown",
		Address:     p.FormattedAddress,
		Rating:      p.Rating,
		RatingCount: p.UserRatingCount,
		PriceLevel:  parsePriceLevel(p.PriceLevel),
		Types:       p.Types,
	}

	if p.DisplayName != nil && p.DisplayName.Text != "" {
		r.Name = p.DisplayName.Text
	}
	if p.Location != nil {
		r.Latitude = p.Location.Latitude
		r.Longitude = p.Location.Longitude
	}
	for _, photo := range p.Photos {
		r.Photos = append(r.Photos, models.RestaurantPhoto{
			Reference: photo.Name,
			Width:     photo.WidthPx,
			Height:    photo.HeightPx,
		})
	}
	if p.CurrentOpeningHours != nil {
		open := p.CurrentOpeningHours.OpenNow
		r.OpenNow = &open
	}

	return r
}

func parsePriceLevel(priceLevel string) int {
	switch priceLevel {
	case "PRICE_LEVEL_INEXPENSIVE":
		return 1
	case "PRICE_LEVEL_MODERATE":
		return 2
	case "PRICE_LEVEL_EXPENSIVE":
		return 3
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return 4
	default:
		return 0
	}
}

// PhotoURL builds the media URL for a provider photo reference.
func (c *Client) PhotoURL(reference string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 400
	}
	return fmt.Sprintf("%s/%s/media?key=%s&maxWidthPx=%d", c.baseURL, reference, c.apiKey, maxWidth)
}
