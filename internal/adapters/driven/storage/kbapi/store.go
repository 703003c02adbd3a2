// Package kbapi implements the destination port against the remote
// knowledge-base HTTP API. Documents are written into one collection,
// bound at construction; a write is an overwrite-by-id, so repeating
// a write with the same id and content is observably a no-op.
package kbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
)

// Ensure Store implements the destination port.
var _ driven.DestinationClient = (*Store)(nil)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the knowledge-base API client.
type Config struct {
	// BaseURL is the knowledge-base API base URL (required).
	BaseURL string

	// Token is the bearer token used for authentication (required).
	Token string

	// Collection is the collection documents are written into (required).
	Collection string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store writes envelopes to the knowledge-base API.
type Store struct {
	http       *http.Client
	baseURL    string
	collection string
}

// putDocumentRequest is the PUT document request format.
type putDocumentRequest struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
}

// NewStore creates a knowledge-base API client bound to one collection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("kbapi: base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("kbapi: token is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("kbapi: collection is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = cfg.Timeout

	return &Store{
		http:       hc,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		collection: cfg.Collection,
	}, nil
}

// PutDocument overwrites the document stored under documentID.
func (s *Store) PutDocument(ctx context.Context, documentID string, env domain.Envelope) error {
	reqBody := putDocumentRequest{
		Text:      env.Text,
		SourceURL: env.SourceURL,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	u := s.documentEndpoint(documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp.StatusCode, body, u)
	}
	return nil
}

// Validate confirms the collection exists and the token can reach it.
func (s *Store) Validate(ctx context.Context) error {
	u := s.baseURL + "/v1/collections/" + url.PathEscape(s.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("kbapi: %w: %w", domain.ErrDestinationValidation, err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("kbapi: %w: %w", domain.ErrDestinationValidation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("kbapi: %w: %w", domain.ErrDestinationValidation, apiError(resp.StatusCode, body, u))
	}
	return nil
}

// documentEndpoint builds the per-document URL within the collection.
func (s *Store) documentEndpoint(documentID string) string {
	return s.baseURL + "/v1/collections/" + url.PathEscape(s.collection) +
		"/documents/" + url.PathEscape(documentID)
}

// apiError translates a non-2xx response into the domain taxonomy.
// Unlike the source side, a 404 here is a real failure: the collection
// or endpoint is wrong, not a benign empty subtree.
func apiError(status int, body []byte, url string) error {
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
