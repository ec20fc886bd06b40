package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"clubverse-backend/internal/logger"
	"clubverse-backend/internal/security"
	"clubverse-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps service sentinels onto HTTP status codes. Anything
// unrecognized is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken):
		status = http.StatusUnauthorized
		msg = err.Error()
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAccountInactive):
		status = http.StatusForbidden
		msg = err.Error()
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrClubNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrActionNotFound),
		errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrNotRegistered),
		errors.Is(err, service.ErrNotLiked):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, service.ErrActionExpired):
		status = http.StatusGone
		msg = err.Error()
	case errors.Is(err, service.ErrAlreadyResolved),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrDuplicateApplication),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrEventFull):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, service.ErrNoApprovers),
		errors.Is(err, service.ErrInvalidReason),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrOTPInvalid),
		errors.Is(err, service.ErrEventStarted),
		errors.Is(err, service.ErrCancelWindowClosed),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrFileTooLarge):
		status = http.StatusBadRequest
		msg = err.Error()
	default:
		logger.Error("unhandled error in request", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}
