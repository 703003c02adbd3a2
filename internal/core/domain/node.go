package domain

import (
	"strings"
	"time"
)

// Node represents one document in the source hierarchical tree.
// It is the canonical representation after wire decoding.
type Node struct {
	// ID is the opaque source-assigned identifier, unique within its root tree.
	ID string

	// ParentID is the identifier of the enclosing node, empty for a root.
	ParentID string

	// Title is the human-readable name, used for destination identifier derivation.
	Title string

	// Body is the textual content. May be empty.
	Body string

	// Archived marks a document that has been retired at the source.
	Archived bool

	// CreatedAt is when the document was created at the source.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified at the source.
	UpdatedAt time.Time

	// Children is the ordered sequence of child nodes, populated lazily
	// during tree expansion. A Children slice only ever reflects nodes
	// reachable from a successful or benignly-empty fetch; an unreachable
	// subtree surfaces as an error, never as a value stored in the tree.
	Children []*Node
}

// Syncable reports whether this node belongs in the destination set.
// A node qualifies iff its body is non-empty after trimming and it is
// not archived. Exclusion says nothing about descendants: an archived
// or empty parent may still have syncable children.
func (n *Node) Syncable() bool {
	return strings.TrimSpace(n.Body) != "" && !n.Archived
}

// RootRef is a lightweight reference to a top-level document, as
// returned by root enumeration. It carries just enough identity to
// seed a tree walk.
type RootRef struct {
	// ID is the root document identifier.
	ID string

	// Title is the human-readable name.
	Title string
}

// Root builds an unexpanded tree node from a root reference. The body
// is left empty so the root itself is walked for children but never
// becomes a destination document unless refetched with content.
func (r RootRef) Root() *Node {
	return &Node{ID: r.ID, Title: r.Title}
}

// FromMillis converts an epoch-millisecond wire timestamp into a UTC
// time. Timestamps are normalised at the boundary so envelope text
// stays deterministic regardless of the host timezone.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
