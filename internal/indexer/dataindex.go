package indexer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// DataIndexer is a generic store for indexed items in a SQLite database.
// Items are msgpack-encoded, addressed by a lookup key and associated with
// the file they came from so a changed file can drop its stale records.
type DataIndexer[T any] struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewDataIndexer opens (or creates) the database at dbPath.
func NewDataIndexer[T any](dbPath string) (*DataIndexer[T], error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	// _txlock=immediate acquires locks early and avoids SQLITE_BUSY
	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_items_key ON items(key);
		CREATE INDEX IF NOT EXISTS idx_items_file_path ON items(file_path);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return &DataIndexer[T]{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// BatchSave stores all items of one file in a single transaction. A key may
// carry multiple items (e.g. equally named methods on different classes in
// the same file).
func (idx *DataIndexer[T]) BatchSave(filePath string, items map[string][]T) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("INSERT INTO items (file_path, key, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for key, keyItems := range items {
		for _, item := range keyItems {
			data, err := msgpack.Marshal(item)
			if err != nil {
				return fmt.Errorf("failed to marshal item: %w", err)
			}

			if _, err := stmt.Exec(filePath, key, data); err != nil {
				return fmt.Errorf("failed to save item: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetValues returns all items stored under the given key.
func (idx *DataIndexer[T]) GetValues(key string) ([]T, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.Query("SELECT value FROM items WHERE key = ?", key)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return decodeRows[T](rows)
}

// GetAllValues returns every stored item.
func (idx *DataIndexer[T]) GetAllValues() ([]T, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.Query("SELECT value FROM items")
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return decodeRows[T](rows)
}

// DeleteByFilePaths removes all items that came from the given files.
func (idx *DataIndexer[T]) DeleteByFilePaths(filePaths []string) error {
	if len(filePaths) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	placeholders := strings.Repeat("?,", len(filePaths))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(filePaths))
	for i, path := range filePaths {
		args[i] = path
	}

	_, err := idx.db.Exec("DELETE FROM items WHERE file_path IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}

	return nil
}

// Clear removes every stored item.
func (idx *DataIndexer[T]) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.db.Exec("DELETE FROM items"); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (idx *DataIndexer[T]) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.db.Close()
}

func decodeRows[T any](rows *sql.Rows) ([]T, error) {
	var items []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var item T
		if err := msgpack.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
