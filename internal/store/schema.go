package store

import "fmt"

const schemaVersion = 1

// initSchema creates tables on first open and verifies the schema version
// on subsequent opens.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_info (
			version INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS datasets (
			name       TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS renders (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset    TEXT NOT NULL,
			format     TEXT NOT NULL,
			entities   INTEGER NOT NULL,
			edges      INTEGER NOT NULL,
			issues     INTEGER NOT NULL,
			converged  INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_renders_dataset ON renders(dataset);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	var version int
	err = s.db.QueryRow(`SELECT version FROM schema_info LIMIT 1`).Scan(&version)
	if err != nil {
		// fresh database
		_, err = s.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion)
		if err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
		return nil
	}
	if version != schemaVersion {
		return fmt.Errorf("store schema version %d, expected %d (delete %s to rebuild)",
			version, schemaVersion, DBFileName)
	}
	return nil
}
