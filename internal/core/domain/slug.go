package domain

import "strings"

// Slugify normalises a title into a constrained identifier fragment:
// lower-case letters, digits and single hyphens. Any other rune acts
// as a separator; separator runs collapse to one hyphen and leading or
// trailing hyphens are trimmed. Total over arbitrary input. Never fails.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingSep := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}

	return b.String()
}

// DocumentID derives the destination document identifier for a node.
// It is a pure function of (id, title): the same pair always yields the
// same identifier, which is the basis for idempotent upserts. The slug
// is appended even when empty, keeping the id prefix stable.
func DocumentID(id, title string) string {
	return id + "-" + Slugify(title)
}
