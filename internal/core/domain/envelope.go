package domain

import (
	"fmt"
	"time"
)

// Envelope is the write-only representation delivered to the
// destination store. It is derived from a Node and never read back.
type Envelope struct {
	// DocumentID is the deterministic destination identifier,
	// DocumentID(node.ID, node.Title).
	DocumentID string

	// Text is the fixed-format content block embedding the title,
	// RFC 3339 timestamps and body.
	Text string

	// SourceURL links back to the document at the source.
	SourceURL string
}

// NewEnvelope builds the destination envelope for a node. The source
// URL is supplied by the caller since only the source adapter knows
// how to address a document.
func NewEnvelope(n *Node, sourceURL string) Envelope {
	return Envelope{
		DocumentID: DocumentID(n.ID, n.Title),
		Text:       envelopeText(n),
		SourceURL:  sourceURL,
	}
}

// envelopeText renders the fixed content block. Timestamps are
// normalised to UTC so the same node always yields the same text.
func envelopeText(n *Node) string {
	return fmt.Sprintf("Title: %s\nCreated: %s\nUpdated: %s\n\n%s",
		n.Title,
		n.CreatedAt.UTC().Format(time.RFC3339),
		n.UpdatedAt.UTC().Format(time.RFC3339),
		n.Body,
	)
}
