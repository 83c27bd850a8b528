// Package store provides a SQLite-backed cache for oracle answers.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache memoises classification and column answers across runs.
type Cache struct {
	db   *sql.DB
	path string
}

// Classification is one memoised category answer.
type Classification struct {
	Key         string
	Description string
	Amount      string
	Category    string
	Provider    string
	Model       string
	CreatedAt   time.Time
}

// Stats holds row counts for display.
type Stats struct {
	Classifications int
	Columns         int
	Path            string
	SizeBytes       int64
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "tripcost")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "oracle.db")
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	// Classification workers write concurrently; one connection serialises them.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, path: dbPath}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ClassificationKey derives the cache key for a category answer. The same
// transaction classified by a different provider or model gets its own entry.
func ClassificationKey(provider, model, description, amount string) string {
	return hashKey(provider, model, strings.ToLower(strings.TrimSpace(description)), amount)
}

// ColumnKey derives the cache key for a column answer from the header set
// and the field being looked up.
func ColumnKey(headers []string, field string) string {
	return hashKey(append([]string{field}, headers...)...)
}

func hashKey(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h[:])
}

// GetClassification returns the cached category for key, if any.
func (c *Cache) GetClassification(key string) (string, bool, error) {
	var category string
	err := c.db.QueryRow("SELECT category FROM classifications WHERE key = ?", key).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return category, true, nil
}

// PutClassification stores or replaces a category answer.
func (c *Cache) PutClassification(cl Classification) error {
	created := cl.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := c.db.Exec(`INSERT OR REPLACE INTO classifications
		(key, description, amount, category, provider, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cl.Key, cl.Description, cl.Amount, cl.Category, cl.Provider, cl.Model,
		created.UTC().Format(time.RFC3339),
	)
	return err
}

// ListClassifications returns cached answers, newest first.
func (c *Cache) ListClassifications(limit int) ([]Classification, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.Query(`SELECT key, description, amount, category, provider, model, created_at
		FROM classifications ORDER BY created_at DESC, description LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Classification
	for rows.Next() {
		var cl Classification
		var model sql.NullString
		var created string
		if err := rows.Scan(&cl.Key, &cl.Description, &cl.Amount, &cl.Category, &cl.Provider, &model, &created); err != nil {
			return nil, err
		}
		cl.Model = model.String
		cl.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, cl)
	}
	return out, rows.Err()
}

// GetColumn returns the cached header for key, if any.
func (c *Cache) GetColumn(key string) (string, bool, error) {
	var header string
	err := c.db.QueryRow("SELECT header FROM columns WHERE key = ?", key).Scan(&header)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return header, true, nil
}

// PutColumn stores or replaces a column answer.
func (c *Cache) PutColumn(key, field, header string) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO columns (key, field, header, created_at)
		VALUES (?, ?, ?, ?)`, key, field, header, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Stats returns row counts for both tables.
func (c *Cache) Stats() (Stats, error) {
	s := Stats{Path: c.path}
	if fi, err := os.Stat(c.path); err == nil {
		s.SizeBytes = fi.Size()
	}
	if err := c.db.QueryRow("SELECT COUNT(*) FROM classifications").Scan(&s.Classifications); err != nil {
		return s, err
	}
	if err := c.db.QueryRow("SELECT COUNT(*) FROM columns").Scan(&s.Columns); err != nil {
		return s, err
	}
	return s, nil
}

// Clear removes every cached answer.
func (c *Cache) Clear() error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM classifications"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM columns"); err != nil {
		return err
	}
	return tx.Commit()
}
