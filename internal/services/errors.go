package services

import "errors"

// Sentinel errors for the coordinator's failure taxonomy. I/O-facing
// operations wrap these with context; pure aggregation and filtering never
// fail and degrade to empty results instead.
var (
	// ErrSessionNotFound covers missing, expired and non-active sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrResponseNotFound is returned when a participant has no response
	// record for the session yet.
	ErrResponseNotFound = errors.New("response not found")

	// ErrNotAuthority is returned when a non-admin attempts an
	// authority-gated operation (favorites, winner lock-in).
	ErrNotAuthority = errors.New("only the session admin can perform this action")

	// ErrPoolNotFetched is returned when an operation needs the cached
	// restaurant pool before any participant has triggered the fetch.
	ErrPoolNotFetched = errors.New("restaurant pool has not been fetched yet")

	// ErrNoSurvivors is returned by winner lock-in when every restaurant in
	// the active batch has been eliminated. Nothing is written; the admin
	// must relax eliminations and retry.
	ErrNoSurvivors = errors.New("no surviving restaurants in the current batch")

	// ErrJoinCodesExhausted is returned when join code allocation keeps
	// colliding past the attempt bound. With a 32^6 code space this
	// indicates something is wrong, not bad luck.
	ErrJoinCodesExhausted = errors.New("could not allocate a unique join code")
)
