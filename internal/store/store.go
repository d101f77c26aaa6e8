// Package store handles SQLite persistence of user preferences.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/verte-zerg/keystroke/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Preference keys.
const (
	KeyLocale      = "locale"
	KeyTheme       = "theme"
	KeyBell        = "bell"
	KeyShowErrors  = "show-errors"
	KeyShowHistory = "show-history"
)

// Themes lists the accepted theme values.
var Themes = []string{"dark", "light"}

// ErrUnknownKey is returned for keys outside Keys.
var ErrUnknownKey = errors.New("unknown preference key")

// Keys returns the supported preference keys, sorted.
func Keys() []string {
	keys := []string{KeyLocale, KeyTheme, KeyBell, KeyShowErrors, KeyShowHistory}
	sort.Strings(keys)
	return keys
}

// Store wraps SQLite access for preferences.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	retry func() backoff.BackOff
}

// Writes hitting a locked database are retried with this budget.
const (
	retryMaxElapsed = 2 * time.Second
	retryInitial    = 25 * time.Millisecond
)

func defaultRetry() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitial
	b.MaxElapsedTime = retryMaxElapsed
	return b
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now, retry: defaultRetry}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the stored value for key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set validates and stores a single preference.
func (s *Store) Set(ctx context.Context, key, value string) error {
	normalized, err := Validate(key, value)
	if err != nil {
		return err
	}
	return s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, upsertSQL, key, normalized, s.now().UTC().Format(time.RFC3339Nano))
		return err
	})
}

// All returns every stored preference.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes every stored preference.
func (s *Store) Clear(ctx context.Context) error {
	return s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM preferences`)
		return err
	})
}

const upsertSQL = `INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// withRetry runs op until it succeeds, fails with a non-busy error, or the
// retry budget runs out.
func (s *Store) withRetry(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(s.retry(), ctx))
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// LoadPreferences overlays stored values onto base. Stored values that no
// longer validate are skipped.
func (s *Store) LoadPreferences(ctx context.Context, base model.Preferences) (model.Preferences, error) {
	stored, err := s.All(ctx)
	if err != nil {
		return base, fmt.Errorf("failed to read preferences: %w", err)
	}
	prefs := base
	for key, value := range stored {
		if err := apply(&prefs, key, value); err != nil {
			continue
		}
	}
	return prefs, nil
}

// SavePreferences stores every field of prefs in one transaction.
func (s *Store) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	return s.withRetry(ctx, func() error {
		return s.savePreferences(ctx, prefs)
	})
}

func (s *Store) savePreferences(ctx context.Context, prefs model.Preferences) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	now := s.now().UTC().Format(time.RFC3339Nano)
	for key, value := range Encode(prefs) {
		if _, err = stmt.ExecContext(ctx, key, value, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Encode renders prefs as key/value pairs.
func Encode(prefs model.Preferences) map[string]string {
	return map[string]string{
		KeyLocale:      prefs.Locale,
		KeyTheme:       prefs.Theme,
		KeyBell:        strconv.FormatBool(prefs.Bell),
		KeyShowErrors:  strconv.FormatBool(prefs.ShowErrors),
		KeyShowHistory: strconv.FormatBool(prefs.ShowHistory),
	}
}

// Validate checks value for key and returns its canonical form.
func Validate(key, value string) (string, error) {
	var prefs model.Preferences
	if err := apply(&prefs, key, value); err != nil {
		return "", err
	}
	return Encode(prefs)[key], nil
}

func apply(prefs *model.Preferences, key, value string) error {
	switch key {
	case KeyLocale:
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		prefs.Locale = value
	case KeyTheme:
		if value != "dark" && value != "light" {
			return fmt.Errorf("%s must be one of %v, got %q", key, Themes, value)
		}
		prefs.Theme = value
	case KeyBell, KeyShowErrors, KeyShowHistory:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		switch key {
		case KeyBell:
			prefs.Bell = b
		case KeyShowErrors:
			prefs.ShowErrors = b
		default:
			prefs.ShowHistory = b
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}
