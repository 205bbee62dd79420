package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/security"
	"github.com/lancecummins/eatout/internal/services"
)

func decodeJSON(re *core.RequestEvent, dst any) error {
	decoder := json.NewDecoder(re.Request.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func badRequest(re *core.RequestEvent, message string) error {
	return re.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

// errorResponse maps service errors to HTTP statuses with sanitized bodies.
func errorResponse(re *core.RequestEvent, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrResponseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrNotAuthority):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNoSurvivors),
		errors.Is(err, services.ErrPoolNotFetched):
		status = http.StatusConflict
	case errors.Is(err, services.ErrJoinCodesExhausted):
		status = http.StatusServiceUnavailable
	}

	return re.JSON(status, map[string]string{
		"error": security.SanitizeErrorMessage(err),
	})
}
