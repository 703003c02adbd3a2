package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSlugify_Basic tests common title shapes
func TestSlugify_Basic(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Getting Started", "getting-started"},
		{"already lower", "roadmap", "roadmap"},
		{"underscores", "release_notes_2024", "release-notes-2024"},
		{"mixed separators", "API -- Reference / v2", "api-reference-v2"},
		{"punctuation dropped", "What's New?", "what-s-new"},
		{"digits kept", "Q3 2025 OKRs", "q3-2025-okrs"},
		{"leading trailing", "  Draft!  ", "draft"},
		{"unicode stripped", "Café Menü", "caf-men"},
		{"emoji", "🚀 Launch Plan", "launch-plan"},
		{"empty", "", ""},
		{"only separators", "!!! ---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

// TestSlugify_NeverProducesSeparatorRuns tests hyphen collapsing
func TestSlugify_NeverProducesSeparatorRuns(t *testing.T) {
	slug := Slugify("a   b---c___d")
	assert.Equal(t, "a-b-c-d", slug)
	assert.NotContains(t, slug, "--")
}

// TestDocumentID_Deterministic tests that the same pair always yields the same id
func TestDocumentID_Deterministic(t *testing.T) {
	first := DocumentID("doc-42", "Getting Started")
	second := DocumentID("doc-42", "Getting Started")

	assert.Equal(t, first, second)
	assert.Equal(t, "doc-42-getting-started", first)
}

// TestDocumentID_EmptySlug tests the strict concatenation rule
func TestDocumentID_EmptySlug(t *testing.T) {
	// An untitled document still gets a stable id with the separator kept.
	assert.Equal(t, "doc-42-", DocumentID("doc-42", "***"))
	assert.Equal(t, "doc-42-", DocumentID("doc-42", ""))
}

// TestDocumentID_DependsOnlyOnIDAndTitle tests purity
func TestDocumentID_DependsOnlyOnIDAndTitle(t *testing.T) {
	a := DocumentID("n1", "Notes")
	b := DocumentID("n2", "Notes")

	assert.NotEqual(t, a, b)
	assert.Equal(t, "n1-notes", a)
	assert.Equal(t, "n2-notes", b)
}
