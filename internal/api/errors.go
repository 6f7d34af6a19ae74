// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error variables for common backend failures.
var (
	// ErrNotAuthenticated indicates no auth token is available.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAuthExpired indicates the session token was rejected.
	ErrAuthExpired = errors.New("session expired")

	// ErrRateLimited indicates the backend throttled the client.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrServerUnavailable indicates a 5xx from the backend.
	ErrServerUnavailable = errors.New("server unavailable")
)

// APIError is a structured error response from the backend.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is maps structured errors onto the package sentinels so callers can
// use errors.Is without caring about the response body shape.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthExpired:
		return e.Status == 401 || e.Status == 403
	case ErrRateLimited:
		return e.Status == 429
	case ErrNotFound:
		return e.Status == 404
	case ErrServerUnavailable:
		return e.Status >= 500
	}
	return false
}

// parseAPIError builds an APIError from a response body, tolerating
// bodies that are not the documented JSON shape.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var wire struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error.Message != "" {
		apiErr.Code = wire.Error.Code
		apiErr.Message = wire.Error.Message
		return apiErr
	}

	if len(body) > 0 && len(body) < 256 {
		apiErr.Message = string(body)
	} else {
		apiErr.Message = "request failed"
	}
	return apiErr
}
