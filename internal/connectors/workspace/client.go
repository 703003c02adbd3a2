package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
)

// Ensure Client implements the source port.
var _ driven.SourceClient = (*Client)(nil)

// Default configuration values.
const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultContentFormat is the body representation requested when
	// the caller does not specify one.
	DefaultContentFormat = "markdown"

	// pageSize is the number of records requested per page.
	pageSize = 100
)

// Config holds configuration for the workspace API client.
type Config struct {
	// BaseURL is the workspace API base URL (required).
	BaseURL string

	// Token is the bearer token used for authentication (required).
	Token string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client talks to the workspace documents API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a workspace API client authenticated with a
// static bearer token.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("workspace: base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("workspace: token is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = cfg.Timeout

	return &Client{
		http:    hc,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// Validate confirms the token can reach the API.
func (c *Client) Validate(ctx context.Context) error {
	var me struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, c.baseURL+"/v1/me", &me); err != nil {
		return fmt.Errorf("workspace: %w: %w", domain.ErrSourceValidation, err)
	}
	return nil
}

// get performs one GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, body, url)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError translates a non-200 response into the domain taxonomy.
// A well-formed 404 is the benign empty-subtree signal.
func apiError(status int, body []byte, url string) error {
	if status == http.StatusNotFound {
		return domain.ErrNotFound
	}

	var wire struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error.Message != "" {
		message = wire.Error.Message
	}

	return &domain.APIError{
		StatusCode: status,
		Message:    message,
		URL:        url,
	}
}
