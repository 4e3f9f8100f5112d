// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

// Package remote provides the transport layer for talking to the sync
// server's REST surface.
//
// The primary abstraction is [Client], which decouples the sync engine from
// the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPClient]) built on resty.
//
// A 409 optimistic-concurrency rejection is an expected outcome of every
// upsert, not a transport failure: it is surfaced as a [*ConflictError]
// carrying the authoritative server entity. All other failures map onto the
// sentinel errors in errors.go so callers can classify them with
// [errors.Is] and [IsTransient].
package remote

import (
	"context"
	"time"

	"github.com/qazuor/markview-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_client_mock.go -package=mock

// Client defines transport-agnostic communication with the sync server.
// Implementations are responsible for serialisation, authentication header
// management, and mapping transport-level failures onto the error taxonomy
// of this package.
type Client interface {
	// Authenticate exchanges the user's credentials for a bearer token via
	// POST /auth/login and stores it as if SetToken had been called.
	Authenticate(ctx context.Context, email, password string) error

	// SetToken stores the bearer token that will be attached to all
	// subsequent requests. It should be called after every successful
	// authentication or token refresh.
	SetToken(token string)

	// Token returns the bearer token currently stored in the client, or an
	// empty string if no token has been set yet.
	Token() string

	// UserID returns the user id extracted from the subject claim of the
	// current bearer token, or an empty string if no token is set.
	UserID() string

	// DeviceID returns the stable per-session device identifier sent with
	// every request. The server tags push events originating from this
	// client with it so the client can drop its own echoes.
	DeviceID() string

	// FetchDocuments lists the user's documents. When since is nil the
	// server returns the full set; otherwise a delta of everything changed
	// at or after since, including soft-deleted tombstones.
	FetchDocuments(ctx context.Context, since *time.Time) (models.DocumentsResponse, error)

	// FetchFolders lists the user's folders, with the same since semantics
	// as FetchDocuments.
	FetchFolders(ctx context.Context, since *time.Time) (models.FoldersResponse, error)

	// UpsertDocument pushes a create or update carrying the last server
	// version this client observed. On acceptance the server-incremented
	// entity is returned. On an optimistic-concurrency rejection the error
	// is a [*ConflictError] holding the authoritative server document.
	UpsertDocument(ctx context.Context, doc models.Document) (models.Document, error)

	// UpsertFolder is the folder counterpart of UpsertDocument.
	UpsertFolder(ctx context.Context, f models.Folder) (models.Folder, error)

	// DeleteDocument soft-deletes the document on the server. Deletion is
	// idempotent: deleting an already-deleted or unknown id succeeds.
	DeleteDocument(ctx context.Context, id string) error

	// DeleteFolder is the folder counterpart of DeleteDocument.
	DeleteFolder(ctx context.Context, id string) error

	// Status fetches advisory counters (entity counts, connected devices,
	// server time) used for diagnostics only.
	Status(ctx context.Context) (models.StatusResponse, error)
}
