// Package api provides the HTTP client for the Meridian console API.
//
// All requests flow through a single pipeline: the stored bearer
// credential is attached, the call is dispatched against the configured
// base URL, and failures are classified into the apierror taxonomy
// exactly once. Resource methods (projects, deliverables, tickets,
// users, organizations) are thin typed wrappers over this pipeline and
// add no retries, caching, or business logic.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/mctl/pkg/apierror"
	"github.com/meridianhq/mctl/pkg/tokenstore"
)

// Client provides HTTP access to the Meridian console API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         tokenstore.Store
	logger         *slog.Logger
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTokenStore sets the credential store consulted on every request.
func WithTokenStore(store tokenstore.Store) Option {
	return func(c *Client) {
		c.tokens = store
	}
}

// WithLogger sets the structured logger. If unset, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUnauthorizedHook registers a callback fired after any response is
// classified as Unauthorized. The stored credential is already cleared
// when the hook runs. The hook must be safe to call concurrently; the
// session controller's handler is idempotent.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// New creates a client for the Meridian console API.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokenstore.NewMemStore(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TokenStore returns the credential store the client dispatches with.
func (c *Client) TokenStore() tokenstore.Store {
	return c.tokens
}

// do dispatches an authenticated JSON request through the pipeline. A nil
// body sends no payload; a non-nil out receives the decoded 2xx response
// body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.dispatch(ctx, method, path, body, out, false)
}

// doPublic dispatches a request for endpoints that authenticate through
// their own payload (login, registration, password reset). No stored
// credential is attached, and a 401 means the submitted credentials were
// rejected, not that the session expired, so the stored credential is
// left alone.
func (c *Client) doPublic(ctx context.Context, method, path string, body, out any) error {
	return c.dispatch(ctx, method, path, body, out, true)
}

func (c *Client) dispatch(ctx context.Context, method, path string, body, out any, public bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out, public)
}

// upload dispatches a multipart request carrying a single file field.
func (c *Client) upload(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("write multipart payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, out, false)
}

// send attaches the credential, dispatches the request, and classifies
// the outcome. This is the single point of truth for the error taxonomy.
func (c *Client) send(req *http.Request, out any, public bool) error {
	req.Header.Set("X-Request-ID", uuid.NewString())

	if !public {
		if token, err := c.tokens.Load(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
		return apierror.Network(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := apierror.FromResponse(resp)
		if !public {
			c.expireSession()
		}
		return apiErr
	}
	if resp.StatusCode >= 400 {
		return apierror.FromResponse(resp)
	}

	// 204 succeeds with an empty result regardless of declared type.
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierror.Decode(err)
	}
	return nil
}

// expireSession destroys the stored credential and notifies the session
// layer. Clearing is idempotent, so concurrent in-flight 401s may each
// run this; the registered hook is responsible for deduplicating its own
// side effects.
func (c *Client) expireSession() {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("clear token after unauthorized response", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
