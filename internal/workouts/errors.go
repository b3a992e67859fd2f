package workouts

import (
	"errors"
	"net/http"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/db"
	"github.com/2beens/fitdash/internal/identity"
)

// ErrorStatus maps a service error to the HTTP status reported to the client.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrProfileIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, calendar.ErrInvalidDateInput):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrStorageUnavailable), errors.Is(err, auth.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage is the client facing text for a service error. Internal
// details stay in the logs.
func ErrorMessage(err error) string {
	switch ErrorStatus(err) {
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusUnprocessableEntity:
		return "profile incomplete: an email address is required"
	case http.StatusBadRequest:
		return "invalid date, expected YYYY-MM-DD"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return "internal error"
	}
}
