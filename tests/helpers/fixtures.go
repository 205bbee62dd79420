package helpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/lancecummins/eatout/internal/models"
	"github.com/lancecummins/eatout/internal/services"
)

// TestLocation is a fixed search center for fixtures (downtown Chattanooga).
var TestLocation = models.Location{
	Latitude:  35.0456,
	Longitude: -85.3097,
	Address:   "Chattanooga, TN 37402, USA",
	Radius:    5000,
}

// NewUserID returns a fresh participant identifier.
func NewUserID() string {
	return uuid.New().String()
}

// CreateTestSession creates a session with a fresh admin and returns both.
func CreateTestSession(t *testing.T, sm *services.SessionManager) (*models.Session, string) {
	t.Helper()

	adminID := NewUserID()
	session, err := sm.CreateSession(adminID, TestLocation)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return session, adminID
}

// JoinParticipants enrolls n participants and returns their user ids.
func JoinParticipants(t *testing.T, rm *services.ResponseManager, sessionID string, n int) []string {
	t.Helper()

	userIDs := make([]string, n)
	for i := range userIDs {
		userIDs[i] = NewUserID()
		if _, err := rm.JoinSession(sessionID, userIDs[i], fmt.Sprintf("Guest %d", i+1)); err != nil {
			t.Fatalf("Failed to join participant %d: %v", i+1, err)
		}
	}
	return userIDs
}

// TestPool builds a deterministic restaurant pool of the given size. Every
// third restaurant is tagged italian, the rest mexican, and ratings climb
// from 3.0 in steps of 0.1.
func TestPool(size int) []models.Restaurant {
	pool := make([]models.Restaurant, size)
	for i := range pool {
		tag := "mexican_restaurant"
		if i%3 == 0 {
			tag = "italian_restaurant"
		}
		pool[i] = models.Restaurant{
			PlaceID:     fmt.Sprintf("place-%03d", i),
			Name:        fmt.Sprintf("Restaurant %d", i),
			Address:     fmt.Sprintf("%d Main St", 100+i),
			Rating:      3.0 + float64(i%20)*0.1,
			RatingCount: 50 + i*10,
			Types:       []string{tag, "restaurant"},
		}
	}
	return pool
}

// MoveToRestaurantsStage advances a participant through both category stages.
func MoveToRestaurantsStage(t *testing.T, rm *services.ResponseManager, sessionID, userID string) {
	t.Helper()

	for i := 0; i < 2; i++ {
		if _, err := rm.AdvanceStage(sessionID, userID); err != nil {
			t.Fatalf("Failed to advance stage for %s: %v", userID, err)
		}
	}
}
