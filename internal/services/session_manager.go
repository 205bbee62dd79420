package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/config"
	"github.com/lancecummins/eatout/internal/models"
	"github.com/lancecummins/eatout/internal/security"
)

// poolDocument is the versioned envelope for the cached restaurant pool on
// the session record.
type poolDocument struct {
	Version     int                     `json:"version"`
	Restaurants []models.SlimRestaurant `json:"restaurants"`
}

const poolDocumentVersion = 1

// SessionManager persists sessions and owns the operations with
// cross-participant effects: join code allocation, favorites, the cached
// restaurant pool, batch offset and winner lock-in.
type SessionManager struct {
	app      core.App
	selector *BatchSelector
}

func NewSessionManager(app core.App, selector *BatchSelector) *SessionManager {
	if selector == nil {
		selector = NewBatchSelector(0)
	}
	return &SessionManager{app: app, selector: selector}
}

// CreateSession creates a session with a unique join code and a 24h expiry
// window fixed at creation. Uniqueness relies on the UNIQUE index on
// join_code: the save itself is the create-if-absent check, so two sessions
// created in the same instant can never share a code. On collision the code
// is regenerated, bounded by MaxJoinCodeAttempts.
func (sm *SessionManager) CreateSession(adminID string, location models.Location) (*models.Session, error) {
	if err := security.ValidateID(adminID); err != nil {
		return nil, fmt.Errorf("invalid admin id: %w", err)
	}
	if location.Radius <= 0 {
		location.Radius = config.DefaultSearchRadius
	}

	collection, err := sm.app.FindCollectionByNameOrId("sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions collection: %w", err)
	}

	now := time.Now()

	for attempt := 0; attempt < config.MaxJoinCodeAttempts; attempt++ {
		record := core.NewRecord(collection)
		record.Set("join_code", security.GenerateJoinCode())
		record.Set("admin_id", adminID)
		record.Set("location", mustMarshal(location))
		record.Set("favorited_restaurants", "[]")
		record.Set("status", string(models.StatusActive))
		record.Set("batch_offset", 0)
		record.Set("created_at", now)
		record.Set("expires_at", now.Add(config.SessionDuration))

		if err := sm.app.Save(record); err != nil {
			if isJoinCodeCollision(err) {
				log.Printf("join code collision on attempt %d, regenerating", attempt+1)
				continue
			}
			return nil, fmt.Errorf("failed to save session: %w", err)
		}

		return sessionFromRecord(record)
	}

	return nil, ErrJoinCodesExhausted
}

// isJoinCodeCollision recognizes a unique-index violation on join_code.
func isJoinCodeCollision(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "join_code") &&
		(strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "unique"))
}

// GetSession retrieves a session by record id. A session past its expiry
// window is flipped to expired before being returned.
func (sm *SessionManager) GetSession(sessionID string) (*models.Session, error) {
	record, err := sm.app.FindRecordById("sessions", sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	sm.expireIfPast(record)
	return sessionFromRecord(record)
}

// expireIfPast lazily flips an active session that sat past expires_at.
// There is no background sweeper; any read may perform the flip.
func (sm *SessionManager) expireIfPast(record *core.Record) {
	if models.SessionStatus(record.GetString("status")) != models.StatusActive {
		return
	}
	if record.GetDateTime("expires_at").Time().After(time.Now()) {
		return
	}
	record.Set("status", string(models.StatusExpired))
	if err := sm.app.Save(record); err != nil {
		log.Printf("failed to expire session %s: %v", record.Id, err)
	}
}

// GetSessionByJoinCode looks up an active, unexpired session by its join
// code. A session found past its expiry is flipped to expired on the spot
// and reported as not found; there is no background sweeper.
func (sm *SessionManager) GetSessionByJoinCode(code string) (*models.Session, error) {
	code = security.CleanJoinCode(code)
	if err := security.ValidateJoinCode(code); err != nil {
		return nil, err
	}

	record, err := sm.app.FindFirstRecordByFilter(
		"sessions",
		"join_code = {:code}",
		map[string]any{"code": code},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: code %s", ErrSessionNotFound, code)
	}

	sm.expireIfPast(record)

	session, err := sessionFromRecord(record)
	if err != nil {
		return nil, err
	}

	if session.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: code %s (%s)", ErrSessionNotFound, code, session.Status)
	}

	return session, nil
}

// UpdateStatus moves the session status forward. Backward transitions are
// rejected.
func (sm *SessionManager) UpdateStatus(sessionID string, status models.SessionStatus) error {
	record, err := sm.app.FindRecordById("sessions", sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	current := models.SessionStatus(record.GetString("status"))
	if current != models.StatusActive && current != status {
		return fmt.Errorf("cannot transition session %s from %s to %s", sessionID, current, status)
	}

	record.Set("status", string(status))
	if err := sm.app.Save(record); err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	return nil
}

// AddFavorite appends a restaurant to the admin's ordered favorite list.
// Adding a favorite that is already present is a no-op.
func (sm *SessionManager) AddFavorite(sessionID, userID, placeID string) error {
	return sm.updateFavorites(sessionID, userID, func(favorites []string) []string {
		for _, id := range favorites {
			if id == placeID {
				return favorites
			}
		}
		return append(favorites, placeID)
	})
}

// RemoveFavorite drops a restaurant from the favorite list.
func (sm *SessionManager) RemoveFavorite(sessionID, userID, placeID string) error {
	return sm.updateFavorites(sessionID, userID, func(favorites []string) []string {
		out := make([]string, 0, len(favorites))
		for _, id := range favorites {
			if id != placeID {
				out = append(out, id)
			}
		}
		return out
	})
}

func (sm *SessionManager) updateFavorites(sessionID, userID string, mutate func([]string) []string) error {
	record, err := sm.app.FindRecordById("sessions", sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	if record.GetString("admin_id") != userID {
		return ErrNotAuthority
	}

	favorites, err := unmarshalStringSet(record.GetString("favorited_restaurants"))
	if err != nil {
		return fmt.Errorf("session %s favorited_restaurants: %w", sessionID, err)
	}

	record.Set("favorited_restaurants", mustMarshal(mutate(favorites)))
	if err := sm.app.Save(record); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

// SavePool caches the fetched restaurant pool on the session record as a
// slim, versioned projection. The pool is written once per session; a
// second writer racing the first simply overwrites with an equivalent
// snapshot (field-level last-write-wins).
func (sm *SessionManager) SavePool(sessionID string, restaurants []models.Restaurant) error {
	record, err := sm.app.FindRecordById("sessions", sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	doc := poolDocument{Version: poolDocumentVersion}
	doc.Restaurants = make([]models.SlimRestaurant, len(restaurants))
	for i, r := range restaurants {
		doc.Restaurants[i] = r.Slim()
	}

	record.Set("restaurant_pool", mustMarshal(doc))
	if err := sm.app.Save(record); err != nil {
		return fmt.Errorf("failed to save restaurant pool: %w", err)
	}
	return nil
}

// LoadPool returns the cached pool, or ok=false when no fetch happened yet.
func (sm *SessionManager) LoadPool(sessionID string) ([]models.SlimRestaurant, bool, error) {
	record, err := sm.app.FindRecordById("sessions", sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	raw := record.GetString("restaurant_pool")
	if raw == "" || raw == "null" {
		return nil, false, nil
	}

	var doc poolDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("session %s restaurant_pool: %w", sessionID, err)
	}
	if doc.Version != poolDocumentVersion {
		return nil, false, fmt.Errorf("session %s restaurant_pool: unsupported version %d", sessionID, doc.Version)
	}

	return doc.Restaurants, true, nil
}

// SetBatchOffset writes the advanced page offset. Offsets never move
// backward; a stale writer loses.
func (sm *SessionManager) SetBatchOffset(sessionID string, offset int) error {
	record, err := sm.app.FindRecordById("sessions", sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	if offset <= record.GetInt("batch_offset") {
		return nil
	}

	record.Set("batch_offset", offset)
	if err := sm.app.Save(record); err != nil {
		return fmt.Errorf("failed to save batch offset: %w", err)
	}
	return nil
}

// LockInWinner selects a winner uniformly at random among the survivors of
// the active batch and freezes it. Authority-only, allowed only once the
// admin has reached the restaurants stage. First writer wins: when a winner
// is already frozen the call is a no-op returning the frozen winner.
func (sm *SessionManager) LockInWinner(sessionID, userID string, responses []*models.ParticipantResponse) (*models.SlimRestaurant, error) {
	record, err := sm.app.FindRecordById("sessions", sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	session, err := sessionFromRecord(record)
	if err != nil {
		return nil, err
	}

	if !session.IsAdmin(userID) {
		return nil, ErrNotAuthority
	}

	if session.Winner != nil {
		return session.Winner, nil
	}

	// The admin must be a participant who reached the restaurants stage; a
	// missing response record does not pass the gate.
	var adminResponse *models.ParticipantResponse
	for _, response := range responses {
		if response.UserID == userID {
			adminResponse = response
			break
		}
	}
	if adminResponse == nil {
		return nil, fmt.Errorf("winner lock-in requires the restaurants stage (no response yet)")
	}
	if !adminResponse.CurrentStage.AtLeast(models.StageRestaurants) {
		return nil, fmt.Errorf("winner lock-in requires the restaurants stage (currently %s)", adminResponse.CurrentStage)
	}

	pool, ok, err := sm.LoadPool(sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPoolNotFetched
	}

	batch := sm.selector.CurrentBatch(pool, session.BatchOffset)
	survivors := sm.selector.Survivors(batch, responses)
	if len(survivors) == 0 {
		return nil, ErrNoSurvivors
	}

	winner := survivors[rand.IntN(len(survivors))]

	record.Set("winner", mustMarshal(winner))
	record.Set("status", string(models.StatusCompleted))
	if err := sm.app.Save(record); err != nil {
		return nil, fmt.Errorf("failed to save winner: %w", err)
	}

	log.Printf("winner locked in for session %s: %s", sessionID, winner.Name)
	return &winner, nil
}

func sessionFromRecord(record *core.Record) (*models.Session, error) {
	session := &models.Session{
		ID:          record.Id,
		JoinCode:    record.GetString("join_code"),
		AdminID:     record.GetString("admin_id"),
		Status:      models.SessionStatus(record.GetString("status")),
		BatchOffset: record.GetInt("batch_offset"),
		CreatedAt:   record.GetDateTime("created_at").Time(),
		ExpiresAt:   record.GetDateTime("expires_at").Time(),
	}

	if raw := record.GetString("location"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &session.Location); err != nil {
			return nil, fmt.Errorf("session %s location: %w", record.Id, err)
		}
	}

	favorites, err := unmarshalStringSet(record.GetString("favorited_restaurants"))
	if err != nil {
		return nil, fmt.Errorf("session %s favorited_restaurants: %w", record.Id, err)
	}
	session.FavoritedRestaurants = favorites

	if raw := record.GetString("winner"); raw != "" && raw != "null" {
		var winner models.SlimRestaurant
		if err := json.Unmarshal([]byte(raw), &winner); err != nil {
			return nil, fmt.Errorf("session %s winner: %w", record.Id, err)
		}
		session.Winner = &winner
	}

	return session, nil
}
