package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired fires when the backend answers with a hard
	// unauthenticated status, or when a refresh attempt is itself rejected.
	// The session has been cleared by the time a caller sees it.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoRefreshToken means a refresh was needed but the session had no
	// refresh token or subject id to attempt it with.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrRefreshNoToken means the refresh endpoint answered successfully but
	// returned no usable token; the original request error is wrapped
	// alongside it.
	ErrRefreshNoToken = errors.New("refresh returned no token")

	// ErrEnvelope means a response body did not match the documented
	// {data: T} envelope. Decoding never silently yields zero values.
	ErrEnvelope = errors.New("malformed response envelope")
)

// APIError is a backend-reported failure, carrying the backend message when
// one was provided.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s", http.StatusText(e.Status))
}

// errorBody is the failure shape the backend uses: a top-level message,
// sometimes with a structured error object.
type errorBody struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Message = parsed.Message
		if parsed.Error != nil {
			apiErr.Code = parsed.Error.Code
			if apiErr.Message == "" {
				apiErr.Message = parsed.Error.Message
			}
		}
	}
	return apiErr
}

// Message extracts a user-presentable message from err, falling back when the
// backend supplied none.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
