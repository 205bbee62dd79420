package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/models"
	"github.com/lancecummins/eatout/internal/security"
)

// ResponseManager persists participant responses. Every mutation is a
// read-modify-write on the owning participant's record only; two different
// participants never touch the same record, so no cross-participant locking
// is needed.
type ResponseManager struct {
	app core.App
}

func NewResponseManager(app core.App) *ResponseManager {
	return &ResponseManager{app: app}
}

// GetResponse retrieves one participant's response for a session.
func (rm *ResponseManager) GetResponse(sessionID, userID string) (*models.ParticipantResponse, error) {
	record, err := rm.findResponseRecord(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return responseFromRecord(record)
}

// GetSessionResponses retrieves all responses for a session.
func (rm *ResponseManager) GetSessionResponses(sessionID string) ([]*models.ParticipantResponse, error) {
	records, err := rm.app.FindRecordsByFilter(
		"responses",
		"session_id = {:sessionId}",
		"created_at",
		500,
		0,
		map[string]any{"sessionId": sessionID},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}

	responses := make([]*models.ParticipantResponse, 0, len(records))
	for _, record := range records {
		response, err := responseFromRecord(record)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// JoinSession creates the participant's response record if it does not
// exist yet. Rejoining is a no-op that returns the existing response.
func (rm *ResponseManager) JoinSession(sessionID, userID, userName string) (*models.ParticipantResponse, error) {
	if err := security.ValidateID(userID); err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	if userName != "" {
		sanitized, err := security.ValidateUserName(userName)
		if err != nil {
			return nil, err
		}
		userName = sanitized
	}

	if existing, err := rm.GetResponse(sessionID, userID); err == nil {
		if userName != "" && existing.UserName != userName {
			existing.UserName = userName
			return rm.save(existing)
		}
		return existing, nil
	}

	return rm.save(models.NewParticipantResponse(sessionID, userID, userName))
}

// ToggleCuisine flips the participant's elimination mark for a cuisine
// category, creating the response record on first touch.
func (rm *ResponseManager) ToggleCuisine(sessionID, userID, categoryType string) (*models.ParticipantResponse, error) {
	response, err := rm.getOrCreate(sessionID, userID)
	if err != nil {
		return nil, err
	}
	response.ToggleCuisine(categoryType)
	return rm.save(response)
}

// ToggleVenue flips the participant's elimination mark for a venue category.
func (rm *ResponseManager) ToggleVenue(sessionID, userID, categoryType string) (*models.ParticipantResponse, error) {
	response, err := rm.getOrCreate(sessionID, userID)
	if err != nil {
		return nil, err
	}
	response.ToggleVenue(categoryType)
	return rm.save(response)
}

// ToggleRestaurant flips the participant's elimination mark for a specific
// restaurant.
func (rm *ResponseManager) ToggleRestaurant(sessionID, userID, placeID string) (*models.ParticipantResponse, error) {
	response, err := rm.getOrCreate(sessionID, userID)
	if err != nil {
		return nil, err
	}
	response.ToggleRestaurant(placeID)
	return rm.save(response)
}

// AdvanceStage moves the participant to the next stage in order. Advancing
// past complete is a no-op.
func (rm *ResponseManager) AdvanceStage(sessionID, userID string) (*models.ParticipantResponse, error) {
	response, err := rm.getOrCreate(sessionID, userID)
	if err != nil {
		return nil, err
	}

	next, ok := response.CurrentStage.Next()
	if !ok {
		return response, nil
	}
	response.CurrentStage = next
	return rm.save(response)
}

// JumpToStage sets an explicit stage, including backward jumps. Only the
// owning participant ever calls this; nobody can move someone else.
func (rm *ResponseManager) JumpToStage(sessionID, userID string, stage models.Stage) (*models.ParticipantResponse, error) {
	if !stage.IsValid() {
		return nil, fmt.Errorf("invalid stage: %q", stage)
	}

	response, err := rm.getOrCreate(sessionID, userID)
	if err != nil {
		return nil, err
	}
	response.CurrentStage = stage
	return rm.save(response)
}

func (rm *ResponseManager) getOrCreate(sessionID, userID string) (*models.ParticipantResponse, error) {
	if err := security.ValidateID(userID); err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	response, err := rm.GetResponse(sessionID, userID)
	if err == nil {
		return response, nil
	}
	return models.NewParticipantResponse(sessionID, userID, ""), nil
}

func (rm *ResponseManager) findResponseRecord(sessionID, userID string) (*core.Record, error) {
	records, err := rm.app.FindRecordsByFilter(
		"responses",
		"session_id = {:sessionId} && user_id = {:userId}",
		"",
		1,
		0,
		map[string]any{"sessionId": sessionID, "userId": userID},
	)
	if err != nil || len(records) == 0 {
		return nil, fmt.Errorf("%w: session=%s user=%s", ErrResponseNotFound, sessionID, userID)
	}
	return records[0], nil
}

// save writes the response back to its record, creating it when missing.
func (rm *ResponseManager) save(response *models.ParticipantResponse) (*models.ParticipantResponse, error) {
	record, err := rm.findResponseRecord(response.SessionID, response.UserID)
	if err != nil {
		collection, err := rm.app.FindCollectionByNameOrId("responses")
		if err != nil {
			return nil, fmt.Errorf("failed to find responses collection: %w", err)
		}
		record = core.NewRecord(collection)
		record.Set("session_id", response.SessionID)
		record.Set("user_id", response.UserID)
		record.Set("created_at", response.CreatedAt)
	}

	response.UpdatedAt = time.Now()

	if response.UserName != "" {
		record.Set("user_name", response.UserName)
	}
	record.Set("eliminated_cuisines", mustMarshal(response.EliminatedCuisines))
	record.Set("eliminated_venues", mustMarshal(response.EliminatedVenues))
	record.Set("eliminated_restaurants", mustMarshal(response.EliminatedRestaurants))
	record.Set("current_stage", string(response.CurrentStage))
	record.Set("updated_at", response.UpdatedAt)

	if err := rm.app.Save(record); err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	response.ID = record.Id
	return response, nil
}

func responseFromRecord(record *core.Record) (*models.ParticipantResponse, error) {
	response := &models.ParticipantResponse{
		ID:           record.Id,
		SessionID:    record.GetString("session_id"),
		UserID:       record.GetString("user_id"),
		UserName:     record.GetString("user_name"),
		CurrentStage: models.Stage(record.GetString("current_stage")),
		CreatedAt:    record.GetDateTime("created_at").Time(),
		UpdatedAt:    record.GetDateTime("updated_at").Time(),
	}

	if !response.CurrentStage.IsValid() {
		return nil, fmt.Errorf("response %s has invalid stage %q", record.Id, response.CurrentStage)
	}

	var err error
	if response.EliminatedCuisines, err = unmarshalStringSet(record.GetString("eliminated_cuisines")); err != nil {
		return nil, fmt.Errorf("response %s eliminated_cuisines: %w", record.Id, err)
	}
	if response.EliminatedVenues, err = unmarshalStringSet(record.GetString("eliminated_venues")); err != nil {
		return nil, fmt.Errorf("response %s eliminated_venues: %w", record.Id, err)
	}
	if response.EliminatedRestaurants, err = unmarshalStringSet(record.GetString("eliminated_restaurants")); err != nil {
		return nil, fmt.Errorf("response %s eliminated_restaurants: %w", record.Id, err)
	}

	return response, nil
}

func mustMarshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalStringSet(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var set []string
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, err
	}
	if set == nil {
		set = []string{}
	}
	return set, nil
}
