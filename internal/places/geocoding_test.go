package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeocoder(serverURL string) *Geocoder {
	g := NewGeocoder("test-key")
	g.baseURL = serverURL
	return g
}

func TestGeocoder_GeocodeZip(t *testing.T) {
	t.Run("resolves a valid zip", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "37402", r.URL.Query().Get("address"))
			assert.Equal(t, "country:US", r.URL.Query().Get("components"))

			json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"results": []map[string]any{{
					"formatted_address": "Chattanooga, TN 37402, USA",
					"geometry": map[string]any{
						"location": map[string]any{"lat": 35.0456, "lng": -85.3097},
					},
				}},
			})
		}))
		defer server.Close()

		result, err := testGeocoder(server.URL).GeocodeZip(context.Background(), "37402")

		require.NoError(t, err)
		assert.InDelta(t, 35.0456, result.Latitude, 1e-6)
		assert.InDelta(t, -85.3097, result.Longitude, 1e-6)
		assert.Equal(t, "Chattanooga, TN 37402, USA", result.FormattedAddress)
	})

	t.Run("cleans formatted input before the request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "374021234", r.URL.Query().Get("address"))
			json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"results": []map[string]any{{
					"formatted_address": "Chattanooga, TN",
					"geometry": map[string]any{
						"location": map[string]any{"lat": 35.0, "lng": -85.0},
					},
				}},
			})
		}))
		defer server.Close()

		_, err := testGeocoder(server.URL).GeocodeZip(context.Background(), " 37402-1234 ")
		assert.NoError(t, err)
	})

	t.Run("zero results reports not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS", "results": []any{}})
		}))
		defer server.Close()

		_, err := testGeocoder(server.URL).GeocodeZip(context.Background(), "99999")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("invalid zip never reaches the network", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		g := testGeocoder(server.URL)
		for _, zip := range []string{"", "123", "abcde", "1234567"} {
			_, err := g.GeocodeZip(context.Background(), zip)
			assert.Error(t, err, "zip %q", zip)
		}
		assert.Equal(t, int64(0), calls.Load())
	})

	t.Run("provider error statuses surface", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"status": "REQUEST_DENIED"})
		}))
		defer server.Close()

		_, err := testGeocoder(server.URL).GeocodeZip(context.Background(), "37402")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "REQUEST_DENIED")
	})

	t.Run("missing api key fails fast", func(t *testing.T) {
		_, err := NewGeocoder("").GeocodeZip(context.Background(), "37402")
		assert.Error(t, err)
	})
}
