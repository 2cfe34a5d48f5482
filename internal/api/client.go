// Package api is the single HTTP gateway to the backend. Every call is one
// round trip: no retry, no cache, no request queue. Non-2xx responses
// surface as *apperror.RequestError carrying the server's message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"posterm/internal/apperror"
)

// Prefix for the resource routes. Auth routes (/login, /register, /me) are
// served unprefixed.
const apiPrefix = "/api/v1"

// TokenSource supplies the current bearer token. An empty token is not an
// error at this layer — authorization is the server's concern.
type TokenSource interface {
	Token() string
}

// Client is the API gateway.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a gateway against baseURL. tokens may be nil for
// unauthenticated use (login/register only).
func New(baseURL string, tokens TokenSource, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Get performs a GET and decodes the response into out (when non-nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// listEnvelope is the `{ "data": [...] }` wrapper used by every list
// endpoint.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

// getList fetches a list endpoint and unwraps the data envelope.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var env listEnvelope[T]
	if err := c.Get(ctx, path, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode >= 400 {
		return c.requestError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}

// requestError builds a RequestError from a non-2xx response, preferring
// the server's `{"message": ...}` body when present.
func (c *Client) requestError(resp *http.Response) error {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &apperror.RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("unreadable error body: %v", readErr)}
	}
	var apiErr struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return &apperror.RequestError{Status: resp.StatusCode, Message: apiErr.Message}
	}
	msg := string(bytes.TrimSpace(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &apperror.RequestError{Status: resp.StatusCode, Message: msg}
}
