// Package workspace implements the source adapter for the workspace
// documents API.
//
// The workspace API exposes a collection of document trees. Each
// document carries a title, a body in the requested content format,
// an archived flag and creation/update timestamps. Children are listed
// per parent; the adapter never expands a tree itself, it only answers
// the per-node questions the core asks.
//
// # Endpoints
//
//   - GET /v1/roots — enumerate the top-level documents of the
//     collection the token can see.
//   - GET /v1/documents/{id}/children — list the children of one
//     document. Honours max_depth and content_format query parameters
//     and paginates with an opaque cursor.
//   - GET /v1/me — used by Validate to confirm the token works.
//
// # Authentication
//
// A static bearer token, injected through [golang.org/x/oauth2]. The
// token is created in the workspace admin console and needs read
// access to the collection being mirrored.
//
// # Wire conversion
//
// Timestamps arrive as epoch milliseconds and are converted to UTC
// [time.Time] at this boundary; nothing above the adapter sees the
// wire representation. HTTP failures are translated into the domain
// error taxonomy: a well-formed 404 becomes [domain.ErrNotFound],
// 429 becomes a rate-limit classified [domain.APIError], and other
// statuses become [domain.APIError] with the request URL attached.
package workspace
