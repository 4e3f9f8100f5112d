// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/qazuor/markview-sync/internal/config"
	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/models"
)

const deviceIDHeader = "X-Device-Id"

type httpClient struct {
	client   *resty.Client
	deviceID string

	mu     sync.RWMutex
	token  string
	userID string

	logger *logger.Logger
}

// NewHTTPClient constructs the HTTP/REST implementation of [Client]. It
// normalises and validates the base URL from remoteCfg.BaseURL and configures
// the underlying resty client with the resolved base URL and request timeout.
// The device id from appCfg is attached to every request; when appCfg leaves
// it empty a fresh one is generated for this session.
//
// Returns an error if remoteCfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPClient(remoteCfg config.Remote, appCfg config.App, log *logger.Logger) (Client, error) {
	baseURL, err := normalizeBaseURL(remoteCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url: %w", err)
	}

	deviceID := strings.TrimSpace(appCfg.DeviceID)
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(remoteCfg.RequestTimeout)

	return &httpClient{client: cli, deviceID: deviceID, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Authenticate implements [Client]. It POSTs the credentials to /auth/login
// and stores the returned bearer token via SetToken. Transport failures are
// wrapped with [ErrServerUnavailable]; a rejection maps onto the regular
// error taxonomy (401 → [ErrUnauthorized]).
func (h *httpClient) Authenticate(ctx context.Context, email, password string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(deviceIDHeader, h.deviceID).
		SetBody(models.AuthRequest{Email: email, Password: password}).
		Post("/auth/login")
	if err != nil {
		return fmt.Errorf("login request: %w: %w", ErrServerUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	var out models.AuthResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if out.Token == "" {
		return fmt.Errorf("login response carried no token")
	}

	h.SetToken(out.Token)
	return nil
}

// SetToken implements [Client]. It stores token (whitespace-trimmed) for use
// in the Authorization header of all subsequent requests and extracts the
// user id from the token's subject claim. Signature validation is the
// server's job; the claim is parsed unverified.
func (h *httpClient) SetToken(token string) {
	token = strings.TrimSpace(token)

	userID, err := parseUserIDFromJWT(token)
	if err != nil && token != "" {
		h.logger.Warn().Err(err).Msg("bearer token has no usable subject claim")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
	h.userID = userID
}

// Token implements [Client].
func (h *httpClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// UserID implements [Client].
func (h *httpClient) UserID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userID
}

// DeviceID implements [Client].
func (h *httpClient) DeviceID() string {
	return h.deviceID
}

// FetchDocuments implements [Client]. It GETs /sync/documents, passing since
// as an RFC 3339 `since` query parameter when non-nil.
func (h *httpClient) FetchDocuments(ctx context.Context, since *time.Time) (models.DocumentsResponse, error) {
	req := h.request(ctx)
	if since != nil {
		req.SetQueryParam("since", since.UTC().Format(time.RFC3339))
	}

	resp, err := req.Get("/sync/documents")
	if err != nil {
		return models.DocumentsResponse{}, fmt.Errorf("fetch documents request: %w: %w", ErrServerUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DocumentsResponse{}, err
	}

	var out models.DocumentsResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.DocumentsResponse{}, fmt.Errorf("decode documents response: %w", err)
	}

	return out, nil
}

// FetchFolders implements [Client].
func (h *httpClient) FetchFolders(ctx context.Context, since *time.Time) (models.FoldersResponse, error) {
	req := h.request(ctx)
	if since != nil {
		req.SetQueryParam("since", since.UTC().Format(time.RFC3339))
	}

	resp, err := req.Get("/sync/folders")
	if err != nil {
		return models.FoldersResponse{}, fmt.Errorf("fetch folders request: %w: %w", ErrServerUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.FoldersResponse{}, err
	}

	var out models.FoldersResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.FoldersResponse{}, fmt.Errorf("decode folders response: %w", err)
	}

	return out, nil
}

// UpsertDocument implements [Client]. It PUTs the document to
// /sync/documents/{id} carrying doc.SyncVersion as the last-observed server
// version. A 409 is decoded into a [*ConflictError] holding the
// authoritative server document.
func (h *httpClient) UpsertDocument(ctx context.Context, doc models.Document) (models.Document, error) {
	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(doc).
		Put("/sync/documents/" + url.PathEscape(doc.ID))
	if err != nil {
		return models.Document{}, fmt.Errorf("upsert document request: %w: %w", ErrServerUnavailable, err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return models.Document{}, decodeConflict(resp, doc.ID)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	var out models.UpsertDocumentResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.Document{}, fmt.Errorf("decode upsert document response: %w", err)
	}

	return out.Document, nil
}

// UpsertFolder implements [Client].
func (h *httpClient) UpsertFolder(ctx context.Context, f models.Folder) (models.Folder, error) {
	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(f).
		Put("/sync/folders/" + url.PathEscape(f.ID))
	if err != nil {
		return models.Folder{}, fmt.Errorf("upsert folder request: %w: %w", ErrServerUnavailable, err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return models.Folder{}, decodeConflict(resp, f.ID)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Folder{}, err
	}

	var out models.UpsertFolderResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.Folder{}, fmt.Errorf("decode upsert folder response: %w", err)
	}

	return out.Folder, nil
}

// DeleteDocument implements [Client]. A delete of an already-deleted or
// unknown id still reports success.
func (h *httpClient) DeleteDocument(ctx context.Context, id string) error {
	return h.delete(ctx, "/sync/documents/"+url.PathEscape(id), "document", id)
}

// DeleteFolder implements [Client].
func (h *httpClient) DeleteFolder(ctx context.Context, id string) error {
	return h.delete(ctx, "/sync/folders/"+url.PathEscape(id), "folder", id)
}

func (h *httpClient) delete(ctx context.Context, path, kind, id string) error {
	resp, err := h.request(ctx).Delete(path)
	if err != nil {
		return fmt.Errorf("delete %s request: %w: %w", kind, ErrServerUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	var out models.DeleteResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return fmt.Errorf("decode delete %s response: %w", kind, err)
	}
	if !out.Success {
		return fmt.Errorf("delete %s %s: server reported failure", kind, id)
	}

	return nil
}

// Status implements [Client].
func (h *httpClient) Status(ctx context.Context) (models.StatusResponse, error) {
	resp, err := h.request(ctx).Get("/sync/status")
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("status request: %w: %w", ErrServerUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.StatusResponse{}, err
	}

	var out models.StatusResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.StatusResponse{}, fmt.Errorf("decode status response: %w", err)
	}

	return out, nil
}

func (h *httpClient) request(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader(deviceIDHeader, h.deviceID)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch {
	case resp.StatusCode() == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case resp.StatusCode() == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case resp.StatusCode() >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrServerUnavailable, resp.StatusCode(), body)
	default:
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

func decodeConflict(resp *resty.Response, entityID string) error {
	var cr models.ConflictResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return fmt.Errorf("decode conflict response for %s: %w", entityID, err)
	}

	return &ConflictError{
		EntityID:       entityID,
		Message:        cr.Message,
		ServerVersion:  cr.ServerVersion,
		ServerDocument: cr.ServerDocument,
		ServerFolder:   cr.ServerFolder,
	}
}

func parseUserIDFromJWT(tokenString string) (string, error) {
	if tokenString == "" {
		return "", nil
	}

	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.GetSubject()
}
