// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

// Package pocketid is the capability boundary towards the Pocket-ID REST API.
// The reconciler only depends on the API interface; failures carry enough
// detail for logs and metrics but are all handled the same way upstream.
package pocketid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lapacek-labs/pocketid-operator/pkg/errclass"
)

// API is the surface the reconciler needs from Pocket-ID.
type API interface {
	// Exists reports whether the OIDC client with the given id can be
	// fetched. Fetch errors are collapsed to false: a false negative only
	// routes the reconciler to a create attempt, which the server rejects
	// as a duplicate and which is then retried like any other failure.
	Exists(ctx context.Context, id string) bool
	Create(ctx context.Context, def ClientDefinition) error
	Update(ctx context.Context, id string, def ClientDefinition) error
	RotateSecret(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

// ClientDefinition is the OIDC client payload. ID is honored on create only;
// updates address the client through the URL path.
type ClientDefinition struct {
	ID                       string   `json:"id,omitempty"`
	Name                     string   `json:"name"`
	CallbackURLs             []string `json:"callbackURLs,omitempty"`
	LogoutCallbackURLs       []string `json:"logoutCallbackURLs,omitempty"`
	IsPublic                 bool     `json:"isPublic"`
	PKCEEnabled              bool     `json:"pkceEnabled"`
	IsGroupRestricted        bool     `json:"isGroupRestricted"`
	LaunchURL                string   `json:"launchURL,omitempty"`
	RequiresReauthentication bool     `json:"requiresReauthentication"`
}

// APIError is a non-2xx answer from Pocket-ID.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pocket-id %s returned status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Transient reports whether retrying without operator intervention can help.
func (e *APIError) Transient() bool {
	kind, _ := errclass.ClassifyHTTPStatus(e.StatusCode)
	return kind == errclass.KindTransient || kind == errclass.KindConflict
}

// Client talks to the Pocket-ID REST API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ API = (*Client)(nil)

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FromEnv builds a client from the process environment.
func FromEnv() (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg), nil
}

func (c *Client) Exists(ctx context.Context, id string) bool {
	resp, err := c.do(ctx, http.MethodGet, c.clientPath(id), nil)
	if err != nil {
		return false
	}
	defer drain(resp)
	return resp.StatusCode == http.StatusOK
}

func (c *Client) Create(ctx context.Context, def ClientDefinition) error {
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/oidc/clients", def)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return apiError("create", resp)
	}
	return nil
}

func (c *Client) Update(ctx context.Context, id string, def ClientDefinition) error {
	def.ID = ""
	resp, err := c.do(ctx, http.MethodPut, c.clientPath(id), def)
	if err != nil {
		return fmt.Errorf("failed to update client %q: %w", id, err)
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return apiError("update", resp)
	}
	return nil
}

func (c *Client) RotateSecret(ctx context.Context, id string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, c.clientPath(id)+"/secret", nil)
	if err != nil {
		return "", fmt.Errorf("failed to rotate secret for client %q: %w", id, err)
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", apiError("rotate-secret", resp)
	}

	var payload struct {
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode rotate-secret response for client %q: %w", id, err)
	}
	if payload.Secret == "" {
		return "", fmt.Errorf("rotate-secret response for client %q carried no secret", id)
	}
	return payload.Secret, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.clientPath(id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete client %q: %w", id, err)
	}
	defer drain(resp)
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		// Already-gone counts as deleted.
		return nil
	default:
		return apiError("delete", resp)
	}
}

func (c *Client) clientPath(id string) string {
	return c.baseURL + "/api/oidc/clients/" + id
}

func (c *Client) do(ctx context.Context, method, url string, payload any) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func apiError(operation string, resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &APIError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
