// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package remote

import (
	"errors"
	"fmt"

	"github.com/qazuor/markview-sync/models"
)

var (
	// ErrUnauthorized maps a 401 response. The stored token is invalid or
	// expired and the caller must re-authenticate before retrying.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrBadRequest maps a 400 response. Retrying the same payload cannot
	// succeed.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound maps a 404 response.
	ErrNotFound = errors.New("not found")

	// ErrServerUnavailable maps 5xx responses and transport-level failures.
	// These are transient and safe to retry.
	ErrServerUnavailable = errors.New("server unavailable")
)

// ConflictError is returned by an upsert when the server rejects the write
// under optimistic concurrency. It carries the authoritative server entity so
// the caller can put both copies in front of the user without an extra fetch.
// Exactly one of ServerDocument and ServerFolder is set.
type ConflictError struct {
	EntityID       string
	Message        string
	ServerVersion  int64
	ServerDocument *models.Document
	ServerFolder   *models.Folder
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s: server at version %d: %s",
		e.EntityID, e.ServerVersion, e.Message)
}

// AsConflict unwraps err into a *ConflictError, or returns nil if err is not
// a version conflict.
func AsConflict(err error) *ConflictError {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// IsTransient reports whether err is worth retrying later: a network-level
// failure or a 5xx response, both wrapped as [ErrServerUnavailable] by the
// client. Conflicts and 4xx responses are not transient; retrying them with
// the same payload cannot succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrServerUnavailable)
}
