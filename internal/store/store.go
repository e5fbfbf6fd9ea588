// Package store persists named ownership datasets and render history in a
// SQLite database under the .eqg directory.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DBFileName is the name of the store database inside the .eqg directory.
const DBFileName = "eqg.db"

// ErrNotFound is returned when a named dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store is a handle to the on-disk dataset library.
type Store struct {
	db   *sql.DB
	path string
}

// DatasetInfo describes one stored dataset.
type DatasetInfo struct {
	Name      string
	Size      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RenderRecord is one entry of the render history.
type RenderRecord struct {
	ID        int64
	Dataset   string
	Format    string
	Entities  int
	Edges     int
	Issues    int
	Converged bool
	CreatedAt time.Time
}

// Stats summarizes store contents.
type Stats struct {
	Datasets int
	Renders  int
	Path     string
}

// Open opens (creating if needed) the store database inside configDir.
func Open(configDir string) (*Store, error) {
	dbPath := filepath.Join(configDir, DBFileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store database: %w", err)
	}

	// WAL keeps concurrent CLI invocations from tripping over each other
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	s.path = dbPath
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDataset inserts or replaces a named dataset. The raw serialized bytes
// are kept verbatim so a later render sees exactly what was saved.
func (s *Store) SaveDataset(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("dataset name must not be empty")
	}
	now := time.Now().UTC().Unix()
	_, err := s.db.Exec(`
		INSERT INTO datasets (name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, data, now, now)
	if err != nil {
		return fmt.Errorf("saving dataset %q: %w", name, err)
	}
	return nil
}

// GetDataset returns the raw bytes of a named dataset.
func (s *Store) GetDataset(name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM datasets WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading dataset %q: %w", name, err)
	}
	return data, nil
}

// ListDatasets returns all stored datasets, most recently updated first.
func (s *Store) ListDatasets() ([]DatasetInfo, error) {
	rows, err := s.db.Query(`
		SELECT name, length(data), created_at, updated_at
		FROM datasets ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		var created, updated int64
		if err := rows.Scan(&info.Name, &info.Size, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning dataset row: %w", err)
		}
		info.CreatedAt = time.Unix(created, 0).UTC()
		info.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteDataset removes a named dataset.
func (s *Store) DeleteDataset(name string) error {
	res, err := s.db.Exec(`DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting dataset %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// RecordRender appends one entry to the render history.
func (s *Store) RecordRender(rec RenderRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO renders (dataset, format, entities, edges, issues, converged, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Dataset, rec.Format, rec.Entities, rec.Edges, rec.Issues,
		boolToInt(rec.Converged), time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("recording render: %w", err)
	}
	return nil
}

// History returns the most recent render records, newest first.
func (s *Store) History(limit int) ([]RenderRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, dataset, format, entities, edges, issues, converged, created_at
		FROM renders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing render history: %w", err)
	}
	defer rows.Close()

	var out []RenderRecord
	for rows.Next() {
		var rec RenderRecord
		var converged int
		var created int64
		if err := rows.Scan(&rec.ID, &rec.Dataset, &rec.Format, &rec.Entities,
			&rec.Edges, &rec.Issues, &converged, &created); err != nil {
			return nil, fmt.Errorf("scanning render row: %w", err)
		}
		rec.Converged = converged != 0
		rec.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats returns counts of stored datasets and render records.
func (s *Store) Stats() (Stats, error) {
	st := Stats{Path: s.path}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM datasets`).Scan(&st.Datasets); err != nil {
		return st, fmt.Errorf("counting datasets: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM renders`).Scan(&st.Renders); err != nil {
		return st, fmt.Errorf("counting renders: %w", err)
	}
	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
