package workspace

import (
	"context"
	"net/url"
	"strconv"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
)

// documentRecord is the wire shape of one document node.
type documentRecord struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Archived  bool   `json:"archived"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// childrenResponse is the GET /v1/documents/{id}/children response format.
type childrenResponse struct {
	Documents  []documentRecord `json:"documents"`
	NextCursor string           `json:"next_cursor"`
}

// rootRecord is the wire shape of one root entry.
type rootRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// rootsResponse is the GET /v1/roots response format.
type rootsResponse struct {
	Roots      []rootRecord `json:"roots"`
	NextCursor string       `json:"next_cursor"`
}

// node converts the wire record to the domain representation.
// Timestamps arrive as epoch milliseconds.
func (r documentRecord) node() *domain.Node {
	return &domain.Node{
		ID:        r.ID,
		ParentID:  r.ParentID,
		Title:     r.Title,
		Body:      r.Content,
		Archived:  r.Archived,
		CreatedAt: domain.FromMillis(r.CreatedAt),
		UpdatedAt: domain.FromMillis(r.UpdatedAt),
	}
}

// ListRoots enumerates the top-level documents of the collection,
// following pagination until the API reports no further pages.
func (c *Client) ListRoots(ctx context.Context) ([]domain.RootRef, error) {
	var refs []domain.RootRef

	cursor := ""
	for {
		q := url.Values{}
		q.Set("page_size", strconv.Itoa(pageSize))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var page rootsResponse
		if err := c.get(ctx, c.baseURL+"/v1/roots?"+q.Encode(), &page); err != nil {
			return nil, err
		}

		for _, rec := range page.Roots {
			refs = append(refs, domain.RootRef{ID: rec.ID, Title: rec.Title})
		}

		if page.NextCursor == "" {
			return refs, nil
		}
		cursor = page.NextCursor
	}
}

// ListChildren returns the children of parentID. A 404 from the API
// surfaces as domain.ErrNotFound; the caller decides whether that is
// benign.
func (c *Client) ListChildren(ctx context.Context, parentID string, opts driven.ChildrenOptions) ([]*domain.Node, error) {
	var nodes []*domain.Node

	cursor := ""
	for {
		var page childrenResponse
		if err := c.get(ctx, c.childrenURL(parentID, opts, cursor), &page); err != nil {
			return nil, err
		}

		for _, rec := range page.Documents {
			nodes = append(nodes, rec.node())
		}

		if page.NextCursor == "" {
			return nodes, nil
		}
		cursor = page.NextCursor
	}
}

// childrenURL builds the children listing URL for one page.
func (c *Client) childrenURL(parentID string, opts driven.ChildrenOptions, cursor string) string {
	format := opts.ContentFormat
	if format == "" {
		format = DefaultContentFormat
	}

	q := url.Values{}
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("content_format", format)
	if opts.MaxDepth > 0 {
		q.Set("max_depth", strconv.Itoa(opts.MaxDepth))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	return c.baseURL + "/v1/documents/" + url.PathEscape(parentID) + "/children?" + q.Encode()
}

// DocumentURL returns the canonical browser URL for a document.
func (c *Client) DocumentURL(id string) string {
	return c.baseURL + "/documents/" + url.PathEscape(id)
}
