package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNewEnvelope_Text tests the fixed content block format
func TestNewEnvelope_Text(t *testing.T) {
	n := &Node{
		ID:        "doc-7",
		Title:     "Runbook",
		Body:      "Step one.\nStep two.",
		CreatedAt: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, 1, 12, 30, 0, 0, time.UTC),
	}

	env := NewEnvelope(n, "https://workspace.example.com/doc/doc-7")

	assert.Equal(t, "doc-7-runbook", env.DocumentID)
	assert.Equal(t, "https://workspace.example.com/doc/doc-7", env.SourceURL)
	assert.Equal(t,
		"Title: Runbook\nCreated: 2024-01-15T08:00:00Z\nUpdated: 2024-02-01T12:30:00Z\n\nStep one.\nStep two.",
		env.Text)
}

// TestNewEnvelope_NormalisesToUTC tests timestamp zone handling
func TestNewEnvelope_NormalisesToUTC(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	n := &Node{
		ID:        "doc-8",
		Title:     "Minutes",
		Body:      "x",
		CreatedAt: time.Date(2024, 6, 1, 13, 0, 0, 0, zone),
		UpdatedAt: time.Date(2024, 6, 1, 13, 0, 0, 0, zone),
	}

	env := NewEnvelope(n, "")

	assert.Contains(t, env.Text, "Created: 2024-06-01T12:00:00Z")
	assert.Contains(t, env.Text, "Updated: 2024-06-01T12:00:00Z")
}

// TestNewEnvelope_Deterministic tests that identical nodes yield identical envelopes
func TestNewEnvelope_Deterministic(t *testing.T) {
	n := &Node{
		ID:        "doc-9",
		Title:     "Spec Review",
		Body:      "content",
		CreatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
	}

	first := NewEnvelope(n, "https://workspace.example.com/doc/doc-9")
	second := NewEnvelope(n, "https://workspace.example.com/doc/doc-9")

	assert.Equal(t, first, second)
}
