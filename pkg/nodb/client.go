// Package nodb is the client for the nodb multi-tenant data service. It
// covers application/environment/token lifecycle, schemaless entity CRUD
// with pagination, and natural-language inquiries against an environment's
// knowledge base. Change-event subscriptions live in pkg/listener.
package nodb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/nodb-io/nodb-go/internal/version"
)

// Config holds construction parameters for the client.
type Config struct {
	// BaseURL is the root URL of the nodb service. Required.
	BaseURL string

	// Token is the client-wide default credential. Optional: anonymous
	// bootstrap calls (creating the very first application) are allowed
	// without one, and every operation accepts a per-call override.
	Token string

	// Timeout applies when no HTTPClient is supplied (default: 30s).
	Timeout time.Duration

	// HTTPClient overrides the transport. Its timeout settings are
	// inherited unmodified.
	HTTPClient *http.Client

	// Logger (optional).
	Logger hclog.Logger
}

// Validate checks construction parameters.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required),
	)
}

// Client issues requests against the nodb service. Concurrent use from
// multiple goroutines is safe: per-call state lives on the stack and the
// default credential is resolved once, at call time.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     hclog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a client. It fails with a ConfigurationError when the base
// URL is missing; a credential may be supplied later via SetToken or per
// call.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newConfigurationError("invalid client configuration: %v", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger.Named("nodb-client"),
		token:      cfg.Token,
	}, nil
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the client-wide default credential for all subsequent
// calls that do not supply their own. In-flight calls keep whichever
// credential they resolved when they started.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// resolveToken applies credential precedence: per-call override, then the
// client-wide default. ok is false when neither is present.
func (c *Client) resolveToken(override string) (token string, ok bool) {
	if override != "" {
		return override, true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// requireToken is resolveToken for operations the service only accepts
// authenticated. It fails before any transport invocation.
func (c *Client) requireToken(override string) (string, error) {
	token, ok := c.resolveToken(override)
	if !ok {
		return "", newConfigurationError("no credential available: supply a per-call token or call SetToken")
	}
	return token, nil
}

// do executes one HTTP request. token is attached as the "token" header
// when non-empty and omitted otherwise. A status >= 400 becomes a
// ServiceError carrying the response body; transport failures are returned
// as the http.Client produced them. On success the body is decoded into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "nodb-go/"+version.Version)
	if token != "" {
		req.Header.Set("token", token)
	}

	c.logger.Debug("sending request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure, propagated unmodified.
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &ServiceError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response body: %w", err)
		}
	}
	return nil
}
