// Package store persists extraction results between runs so unchanged
// components are not parsed again.
//
// Results are msgpack-encoded and kept in a SQLite database, one row per
// source path. A row is only returned when the caller's content hash matches
// the hash recorded with it.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"github.com/gnana997/vuespec/pkg/docgen"
)

// DocStore is safe for concurrent use.
type DocStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	logger *slog.Logger
}

// Stats summarizes the store contents.
type Stats struct {
	Entries int
	Bytes   int64
}

// Open opens or creates the store at dbPath. logger may be nil.
func Open(dbPath string, logger *slog.Logger) (*DocStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS docs (
			file_path TEXT PRIMARY KEY,
			hash TEXT NOT NULL,
			value BLOB NOT NULL
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	logger.Debug("doc store opened", "path", dbPath)
	return &DocStore{db: db, dbPath: dbPath, logger: logger}, nil
}

// Get returns the stored result for filePath when it was saved with hash.
// A missing or stale row reports false with a nil error.
func (s *DocStore) Get(filePath, hash string) (*docgen.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stored string
	var data []byte
	err := s.db.QueryRow("SELECT hash, value FROM docs WHERE file_path = ?", filePath).Scan(&stored, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query %s: %w", filePath, err)
	}
	if stored != hash {
		return nil, false, nil
	}

	var res docgen.Result
	if err := msgpack.Unmarshal(data, &res); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %s: %w", filePath, err)
	}
	return &res, true, nil
}

// Put records res for filePath, replacing any previous row.
func (s *DocStore) Put(filePath, hash string, res *docgen.Result) error {
	if res == nil {
		return fmt.Errorf("nil result for %s", filePath)
	}
	data, err := msgpack.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filePath, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO docs (file_path, hash, value) VALUES (?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET hash = excluded.hash, value = excluded.value
	`, filePath, hash, data)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", filePath, err)
	}
	return nil
}

// Delete drops the row for filePath. Deleting a missing path is not an error.
func (s *DocStore) Delete(filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM docs WHERE file_path = ?", filePath); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filePath, err)
	}
	return nil
}

// Prune drops every row whose path is not in keep and returns how many
// rows were removed.
func (s *DocStore) Prune(keep []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}

	rows, err := s.db.Query("SELECT file_path FROM docs")
	if err != nil {
		return 0, fmt.Errorf("failed to list paths: %w", err)
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan path: %w", err)
		}
		if !keepSet[p] {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()

	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("DELETE FROM docs WHERE file_path = ?")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare delete: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range stale {
		if _, err := stmt.Exec(p); err != nil {
			return 0, fmt.Errorf("failed to delete %s: %w", p, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.logger.Debug("pruned doc store", "removed", len(stale))
	return len(stale), nil
}

// Stats reports the number of rows and the encoded size of all results.
func (s *DocStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	err := s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(LENGTH(value)), 0) FROM docs").Scan(&st.Entries, &st.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read stats: %w", err)
	}
	return st, nil
}

// Close checkpoints the WAL and closes the database.
func (s *DocStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.db.Exec("PRAGMA optimize")
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}
