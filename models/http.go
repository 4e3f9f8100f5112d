package models

import "time"

// DocumentsResponse is returned by GET /sync/documents. When the request
// carried a `since` parameter the list is a delta and includes soft-deleted
// tombstones so the client can propagate deletions.
type DocumentsResponse struct {
	// Documents is the full or delta list of documents.
	Documents []Document `json:"documents"`

	// SyncedAt is the server timestamp of this listing. The client stores it
	// and passes it back as `since` on the next delta fetch.
	SyncedAt time.Time `json:"syncedAt"`
}

// FoldersResponse is returned by GET /sync/folders.
type FoldersResponse struct {
	// Folders is the full or delta list of folders.
	Folders []Folder `json:"folders"`

	// SyncedAt is the server timestamp of this listing.
	SyncedAt time.Time `json:"syncedAt"`
}

// UpsertDocumentResponse is the 200 body of PUT /sync/documents/{id}.
type UpsertDocumentResponse struct {
	// Document is the accepted entity with its server-incremented version.
	Document Document `json:"document"`
}

// UpsertFolderResponse is the 200 body of PUT /sync/folders/{id}.
type UpsertFolderResponse struct {
	// Folder is the accepted entity with its server-incremented version.
	Folder Folder `json:"folder"`
}

// ConflictResponse is the 409 body of an optimistic-concurrency rejection.
// It is an expected outcome, not a transport error: the authoritative server
// entity travels with it so the client can surface both copies.
type ConflictResponse struct {
	// Message is the server's human-readable rejection reason.
	Message string `json:"message"`

	// ServerVersion is the version the server currently stores.
	ServerVersion int64 `json:"serverVersion"`

	// ServerDocument is set when the conflicted entity is a document.
	ServerDocument *Document `json:"serverDocument,omitempty"`

	// ServerFolder is set when the conflicted entity is a folder.
	ServerFolder *Folder `json:"serverFolder,omitempty"`
}

// DeleteResponse is the body of DELETE /sync/{documents,folders}/{id}.
// Deletion is idempotent: deleting twice yields success both times.
type DeleteResponse struct {
	// Success is true when the entity is (now or already) soft-deleted.
	Success bool `json:"success"`
}

// AuthRequest is the body of POST /auth/login.
type AuthRequest struct {
	// Email identifies the account.
	Email string `json:"email"`

	// Password is sent in clear; the transport is expected to be TLS.
	Password string `json:"password"`
}

// AuthResponse is the 200 body of POST /auth/login.
type AuthResponse struct {
	// Token is the bearer JWT for subsequent requests.
	Token string `json:"token"`
}

// StatusResponse is the advisory counter set from GET /sync/status.
type StatusResponse struct {
	// DocumentCount is the number of live documents stored for the user.
	DocumentCount int `json:"documentCount"`

	// FolderCount is the number of live folders stored for the user.
	FolderCount int `json:"folderCount"`

	// ConnectedDevices is the number of push-channel sessions for the user.
	ConnectedDevices int `json:"connectedDevices"`

	// ServerTime is the server clock, useful for diagnosing skew.
	ServerTime time.Time `json:"serverTime"`
}
