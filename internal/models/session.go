package models

import (
	"time"
)

type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusExpired   SessionStatus = "expired"
)

// Location is the geographic center of a session's restaurant search.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	Radius    int     `json:"radius,omitempty"` // meters, default 5000
}

// Session is a data transfer object for a decision session.
// All persistent state is managed in the database via SessionManager.
type Session struct {
	ID                   string          `json:"id"`
	JoinCode             string          `json:"join_code"`
	AdminID              string          `json:"admin_id"`
	Location             Location        `json:"location"`
	FavoritedRestaurants []string        `json:"favorited_restaurants"`
	Status               SessionStatus   `json:"status"`
	BatchOffset          int             `json:"batch_offset"`
	Winner               *SlimRestaurant `json:"winner,omitempty"` // nil until locked in
	CreatedAt            time.Time       `json:"created_at"`
	ExpiresAt            time.Time       `json:"expires_at"`
}

// IsAdmin reports whether userID is the session authority.
func (s *Session) IsAdmin(userID string) bool {
	return s.AdminID != "" && s.AdminID == userID
}

// IsExpired reports whether the session's 24h window has elapsed at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsJoinable reports whether new participants may still enter the session.
func (s *Session) IsJoinable(now time.Time) bool {
	return s.Status == StatusActive && !s.IsExpired(now)
}

// IsFavorited reports whether a restaurant is in the admin's favorite list.
func (s *Session) IsFavorited(placeID string) bool {
	for _, id := range s.FavoritedRestaurants {
		if id == placeID {
			return true
		}
	}
	return false
}
