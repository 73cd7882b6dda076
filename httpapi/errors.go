package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/LiquidN2/natours/auth"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "fail", Message: message})
}

// writeEngineError maps engine sentinels onto HTTP status codes. Anything
// unrecognized is a 500 with a generic message so internals never leak.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation),
		errors.Is(err, auth.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidOrExpiredToken):
		writeError(w, http.StatusBadRequest, "token is invalid or has expired")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "incorrect email or password")
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "you are not logged in")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "you do not have permission to perform this action")
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email is already in use")
	case errors.Is(err, auth.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, "too many attempts, please try again later")
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Status:  "error",
			Message: "something went wrong",
		})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
