package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/verdant-labs/canopy-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
)

// Ensure Store implements the destination port.
var _ driven.DestinationClient = (*Store)(nil)

// Store is a SQLite-backed destination that archives the synchronised
// document set locally.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite archive at the specified file path.
// If path is empty, defaults to ~/.canopy/archive.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".canopy", "archive.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// PutDocument writes one envelope, overwriting any previous version
// stored under the same document id.
func (s *Store) PutDocument(ctx context.Context, documentID string, env domain.Envelope) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (document_id, text, source_url, written_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(document_id) DO UPDATE SET
			text = excluded.text,
			source_url = excluded.source_url,
			written_at = CURRENT_TIMESTAMP
	`, documentID, env.Text, env.SourceURL)
	if err != nil {
		return fmt.Errorf("writing document %s: %w", documentID, err)
	}
	return nil
}

// Validate checks the archive is usable.
func (s *Store) Validate(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: archive unavailable: %w", domain.ErrDestinationValidation, err)
	}
	return nil
}

// Document reads one archived envelope back. The second return value
// reports whether the id exists.
func (s *Store) Document(ctx context.Context, documentID string) (domain.Envelope, bool, error) {
	var env domain.Envelope
	row := s.db.QueryRowContext(ctx,
		"SELECT document_id, text, source_url FROM documents WHERE document_id = ?", documentID)

	err := row.Scan(&env.DocumentID, &env.Text, &env.SourceURL)
	if err == sql.ErrNoRows {
		return domain.Envelope{}, false, nil
	}
	if err != nil {
		return domain.Envelope{}, false, fmt.Errorf("reading document %s: %w", documentID, err)
	}
	return env, true, nil
}

// Count returns the number of archived documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents")
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_documents.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
