package models

import (
	"time"
)

// Stage is a participant's position in the ordered elimination workflow.
type Stage string

const (
	StageCuisines    Stage = "cuisines"
	StageVenues      Stage = "venues"
	StageRestaurants Stage = "restaurants"
	StageComplete    Stage = "complete"
)

var stageOrder = map[Stage]int{
	StageCuisines:    0,
	StageVenues:      1,
	StageRestaurants: 2,
	StageComplete:    3,
}

// IsValid reports whether s is one of the four workflow stages.
func (s Stage) IsValid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Next returns the following stage in order. ok is false when s is the
// final stage (or invalid).
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StageCuisines:
		return StageVenues, true
	case StageVenues:
		return StageRestaurants, true
	case StageRestaurants:
		return StageComplete, true
	default:
		return s, false
	}
}

// AtLeast reports whether s is at or past other in the workflow order.
func (s Stage) AtLeast(other Stage) bool {
	return stageOrder[s] >= stageOrder[other]
}

// ParticipantResponse holds one participant's elimination sets and stage for
// a session. Each response is owned exclusively by its participant: only that
// participant mutates it, everyone reads it.
type ParticipantResponse struct {
	ID                    string    `json:"id"`
	SessionID             string    `json:"session_id"`
	UserID                string    `json:"user_id"`
	UserName              string    `json:"user_name,omitempty"`
	EliminatedCuisines    []string  `json:"eliminated_cuisines"`
	EliminatedVenues      []string  `json:"eliminated_venues"`
	EliminatedRestaurants []string  `json:"eliminated_restaurants"`
	CurrentStage          Stage     `json:"current_stage"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewParticipantResponse returns a response at the first stage with empty
// elimination sets.
func NewParticipantResponse(sessionID, userID, userName string) *ParticipantResponse {
	now := time.Now()
	return &ParticipantResponse{
		SessionID:             sessionID,
		UserID:                userID,
		UserName:              userName,
		EliminatedCuisines:    []string{},
		EliminatedVenues:      []string{},
		EliminatedRestaurants: []string{},
		CurrentStage:          StageCuisines,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

// toggle adds value when absent and removes it when present. Re-adding or
// re-removing is a no-op, which keeps every elimination write idempotent.
func toggle(set []string, value string) []string {
	if contains(set, value) {
		out := make([]string, 0, len(set)-1)
		for _, v := range set {
			if v != value {
				out = append(out, v)
			}
		}
		return out
	}
	return append(set, value)
}

func (r *ParticipantResponse) HasEliminatedCuisine(categoryType string) bool {
	return contains(r.EliminatedCuisines, categoryType)
}

func (r *ParticipantResponse) HasEliminatedVenue(categoryType string) bool {
	return contains(r.EliminatedVenues, categoryType)
}

func (r *ParticipantResponse) HasEliminatedRestaurant(placeID string) bool {
	return contains(r.EliminatedRestaurants, placeID)
}

// ToggleCuisine flips the elimination mark for a cuisine category.
func (r *ParticipantResponse) ToggleCuisine(categoryType string) {
	r.EliminatedCuisines = toggle(r.EliminatedCuisines, categoryType)
}

// ToggleVenue flips the elimination mark for a venue category.
func (r *ParticipantResponse) ToggleVenue(categoryType string) {
	r.EliminatedVenues = toggle(r.EliminatedVenues, categoryType)
}

// ToggleRestaurant flips the elimination mark for a specific restaurant.
func (r *ParticipantResponse) ToggleRestaurant(placeID string) {
	r.EliminatedRestaurants = toggle(r.EliminatedRestaurants, placeID)
}
