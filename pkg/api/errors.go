package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/pidlayout/pkg/cache"
	pkgerrors "github.com/matzehuels/pidlayout/pkg/errors"
	"github.com/matzehuels/pidlayout/pkg/session"
)

// Error is the JSON body of every non-2xx response.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// toError maps any error onto a response. Coded errors keep their code;
// session and cache sentinels get their own statuses; everything else is
// an opaque 500.
func toError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, session.ErrExpired):
		return &Error{Status: http.StatusGone, Code: "SESSION_EXPIRED", Message: "session expired"}
	case errors.Is(err, cache.ErrBackend):
		return &Error{Status: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE", Message: "cache backend unavailable"}
	}
	if code := pkgerrors.GetCode(err); code != "" {
		return &Error{
			Status:  pkgerrors.HTTPStatus(err),
			Code:    string(code),
			Message: pkgerrors.UserMessage(err),
		}
	}
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    string(pkgerrors.ErrCodeInternal),
		Message: "an unexpected error occurred",
	}
}

func badRequest(message string, cause error) *Error {
	e := &Error{Status: http.StatusBadRequest, Code: string(pkgerrors.ErrCodeInvalidInput), Message: message}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func notFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: string(pkgerrors.ErrCodeNotFound), Message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, apiErr.Status, apiErr)
}
