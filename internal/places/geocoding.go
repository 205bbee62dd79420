package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/lancecummins/eatout/internal/config"
	"github.com/lancecummins/eatout/internal/security"
)

const geocodingBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Geocoder resolves US zip codes to coordinates.
type Geocoder struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

type GeocodeResult struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

type geocodingResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: config.ProviderTimeout},
		baseURL:    geocodingBaseURL,
	}
}

// GeocodeZip resolves a 5-digit or ZIP+4 code, restricted to US results.
func (g *Geocoder) GeocodeZip(ctx context.Context, zipCode string) (*GeocodeResult, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("geocoding api key is not configured")
	}

	cleaned := security.CleanZipCode(zipCode)
	if err := security.ValidateZipCode(cleaned); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("address", cleaned)
	query.Set("components", "country:US")
	query.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding api error (status %d)", resp.StatusCode)
	}

	var parsed geocodingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	switch parsed.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, fmt.Errorf("zip code %s not found", cleaned)
	default:
		return nil, fmt.Errorf("geocoding failed: %s", parsed.Status)
	}

	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("zip code %s not found", cleaned)
	}

	result := parsed.Results[0]
	log.Printf("geocoded zip %s to (%.4f, %.4f)", cleaned,
		result.Geometry.Location.Lat, result.Geometry.Location.Lng)

	return &GeocodeResult{
		Latitude:         result.Geometry.Location.Lat,
		Longitude:        result.Geometry.Location.Lng,
		FormattedAddress: result.FormattedAddress,
	}, nil
}
