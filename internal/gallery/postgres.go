package gallery

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore keeps the gallery in a pgvector-enabled PostgreSQL table while
// serving snapshots from memory, so recognition never touches the database.
// Appends are durable once the insert commits; the atomic-visibility contract
// comes from the transactionality of a single-row insert.
type PostgresStore struct {
	pool *pgxpool.Pool

	mu      sync.RWMutex
	gallery Gallery
}

// NewPostgresStore creates a connection pool, verifies connectivity and runs
// migrations. Call Load before use.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping failed: %v", ErrStoreUnavailable, err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// migrate creates the pgvector extension and the gallery table. The vector
// column is untyped; uniform dimensionality is enforced by Append, not the
// schema.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS gallery (
			seq          BIGSERIAL PRIMARY KEY,
			id           VARCHAR(64) NOT NULL UNIQUE,
			label        TEXT NOT NULL,
			embedding    vector NOT NULL,
			created_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create gallery table: %w", err)
	}

	return nil
}

// Load reads all records in insertion order.
func (s *PostgresStore) Load(ctx context.Context) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, label, embedding, created_at
		FROM gallery
		ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("%w: querying gallery: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	g := Gallery{}
	for rows.Next() {
		var rec IdentityRecord
		var vec pgvector.Vector
		if err := rows.Scan(&rec.ID, &rec.Label, &vec, &rec.CreatedAt); err != nil {
			return fmt.Errorf("%w: scanning record: %v", ErrStoreCorrupt, err)
		}
		rec.Vector = vec.Slice()
		g = append(g, rec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: reading gallery rows: %v", ErrStoreUnavailable, err)
	}
	if err := validate(g); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}

	s.mu.Lock()
	s.gallery = g
	s.mu.Unlock()
	return nil
}

// Append inserts the record, then publishes a new in-memory gallery value.
// On insert failure the in-memory gallery keeps its pre-append value.
func (s *PostgresStore) Append(ctx context.Context, rec IdentityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Same writer-lock dimensionality check as the file store; the untyped
	// vector column would happily accept a mismatched row.
	if dim := s.gallery.Dim(); dim > 0 && len(rec.Vector) != dim {
		return fmt.Errorf("%w: record %s (%s) has dimension %d, expected %d",
			ErrDimensionMismatch, rec.ID, rec.Label, len(rec.Vector), dim)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO gallery (id, label, embedding, created_at)
		VALUES ($1, $2, $3, $4)
	`, rec.ID, rec.Label, pgvector.NewVector(rec.Vector), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: inserting record: %v", ErrPersistFailed, err)
	}

	updated := make(Gallery, len(s.gallery), len(s.gallery)+1)
	copy(updated, s.gallery)
	s.gallery = append(updated, rec)
	return nil
}

// Snapshot returns the current gallery value.
func (s *PostgresStore) Snapshot() Gallery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gallery
}

// Count returns the number of enrolled records.
func (s *PostgresStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gallery)
}

// Dim returns the established vector dimensionality (0 when empty).
func (s *PostgresStore) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gallery.Dim()
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
