// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qazuor/markview-sync/internal/config"
	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/models"
)

func newTestClient(t *testing.T, serverURL string) *httpClient {
	t.Helper()

	remoteCfg := config.Remote{BaseURL: serverURL, RequestTimeout: 5 * time.Second}
	appCfg := config.App{DeviceID: "device-test"}

	c, err := NewHTTPClient(remoteCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return c.(*httpClient)
}

func signedTestToken(t *testing.T, subject string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestNewHTTPClient_InvalidBaseURL(t *testing.T) {
	_, err := NewHTTPClient(config.Remote{BaseURL: "   "}, config.App{}, logger.Nop())
	require.Error(t, err)
}

func TestSetToken_ExtractsUserID(t *testing.T) {
	c := newTestClient(t, "http://localhost:1")

	c.SetToken(signedTestToken(t, "user-42"))

	assert.Equal(t, "user-42", c.UserID())
	assert.NotEmpty(t, c.Token())
}

func TestAuthenticate_StoresToken(t *testing.T) {
	token := signedTestToken(t, "user-7")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var req models.AuthRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@example.com", req.Email)

		_ = json.NewEncoder(w).Encode(models.AuthResponse{Token: token})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.Authenticate(context.Background(), "ana@example.com", "s3cret"))

	assert.Equal(t, token, c.Token())
	assert.Equal(t, "user-7", c.UserID())
}

func TestAuthenticate_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Authenticate(context.Background(), "ana@example.com", "wrong")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, c.Token())
}

func TestFetchDocuments_Full(t *testing.T) {
	syncedAt := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sync/documents", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("since"))
		assert.Equal(t, "device-test", r.Header.Get("X-Device-Id"))

		_ = json.NewEncoder(w).Encode(models.DocumentsResponse{
			Documents: []models.Document{{ID: "doc-1", Title: "Notes"}},
			SyncedAt:  syncedAt,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.FetchDocuments(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "doc-1", got.Documents[0].ID)
	assert.True(t, got.SyncedAt.Equal(syncedAt))
}

func TestFetchDocuments_Delta(t *testing.T) {
	since := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, since.Format(time.RFC3339), r.URL.Query().Get("since"))
		_ = json.NewEncoder(w).Encode(models.DocumentsResponse{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.FetchDocuments(context.Background(), &since)

	require.NoError(t, err)
}

func TestUpsertDocument_Accepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/sync/documents/doc-1", r.URL.Path)

		var sent models.Document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		assert.Equal(t, int64(2), sent.SyncVersion)

		accepted := sent
		accepted.SyncVersion = 3
		_ = json.NewEncoder(w).Encode(models.UpsertDocumentResponse{Document: accepted})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.UpsertDocument(context.Background(), models.Document{ID: "doc-1", SyncVersion: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.SyncVersion)
}

func TestUpsertDocument_Conflict(t *testing.T) {
	serverDoc := models.Document{ID: "doc-1", Title: "Server copy", SyncVersion: 5}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(models.ConflictResponse{
			Message:        "version mismatch",
			ServerVersion:  5,
			ServerDocument: &serverDoc,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.UpsertDocument(context.Background(), models.Document{ID: "doc-1", SyncVersion: 2})

	require.Error(t, err)
	ce := AsConflict(err)
	require.NotNil(t, ce)
	assert.Equal(t, "doc-1", ce.EntityID)
	assert.Equal(t, int64(5), ce.ServerVersion)
	require.NotNil(t, ce.ServerDocument)
	assert.Equal(t, "Server copy", ce.ServerDocument.Title)
	assert.False(t, IsTransient(err))
}

func TestUpsertDocument_ServerError_IsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.UpsertDocument(context.Background(), models.Document{ID: "doc-1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerUnavailable)
	assert.True(t, IsTransient(err))
}

func TestUpsertDocument_NetworkError_IsTransient(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := c.UpsertDocument(ctx, models.Document{ID: "doc-1"})

	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestUpsertFolder_Conflict(t *testing.T) {
	serverFolder := models.Folder{ID: "folder-1", Name: "Server copy", SyncVersion: 4}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/folders/folder-1", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(models.ConflictResponse{
			Message:       "version mismatch",
			ServerVersion: 4,
			ServerFolder:  &serverFolder,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.UpsertFolder(context.Background(), models.Folder{ID: "folder-1"})

	ce := AsConflict(err)
	require.NotNil(t, ce)
	require.NotNil(t, ce.ServerFolder)
	assert.Equal(t, "Server copy", ce.ServerFolder.Name)
}

func TestDeleteDocument_Idempotent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/sync/documents/doc-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.DeleteResponse{Success: true})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	require.NoError(t, c.DeleteDocument(context.Background(), "doc-1"))
	require.NoError(t, c.DeleteDocument(context.Background(), "doc-1"))
	assert.Equal(t, 2, calls)
}

func TestDeleteDocument_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.DeleteDocument(context.Background(), "doc-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, IsTransient(err))
}

func TestRequest_AttachesBearerToken(t *testing.T) {
	token := signedTestToken(t, "user-1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(models.StatusResponse{DocumentCount: 7})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.SetToken(token)

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, status.DocumentCount)
}
