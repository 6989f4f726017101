/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.Store (parameters, calculation log, preset tracker)
  using SQLite. The same schema runs on PostgreSQL with minor dialect changes.

KEY TABLES:
  calculator_parameters: Admin-editable parameters, one row per key
  calculations:          One row per calculation request (no inputs stored)
  settings:              Small key/value table; holds the active preset

MONEY:
  Parameter values are stored as TEXT and parsed back with shopspring/decimal,
  so a cap like 46655.43 never passes through float64.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  File databases are opened with WAL so readers don't block the writer.
  ":memory:" databases are pinned to a single connection, since every
  connection would otherwise see its own empty database.

USAGE:
  store, err := sqlite.New("./data/hukuk.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hukukrehberi/calc-engine/generic"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

const activePresetSetting = "active_preset"

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if dbPath == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection; used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculator_parameters (
		id TEXT PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_parameters_category
		ON calculator_parameters(category, key);

	CREATE TABLE IF NOT EXISTS calculations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		calculated INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_kind
		ON calculations(kind);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PARAMETER STORE (generic.ParameterStore interface)
// =============================================================================

const parameterColumns = "id, key, name, value, description, category, unit, is_active, created_at, updated_at"

// ListParameters returns parameters matching filter, ordered by category then key.
func (s *Store) ListParameters(ctx context.Context, filter generic.ParameterFilter) ([]generic.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.ActiveOnly {
		where = append(where, "is_active = 1")
	}

	query := "SELECT " + parameterColumns + " FROM calculator_parameters"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY category, key"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	params := []generic.Parameter{}
	for rows.Next() {
		p, err := scanParameter(rows)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

// GetParameter retrieves a parameter by ID.
func (s *Store) GetParameter(ctx context.Context, id string) (*generic.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+parameterColumns+" FROM calculator_parameters WHERE id = ?", id)
	p, err := scanParameter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrParameterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveParameter inserts a new parameter.
func (s *Store) SaveParameter(ctx context.Context, p generic.Parameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return insertParameter(ctx, s.db, p)
}

// UpdateParameter overwrites every column except created_at.
func (s *Store) UpdateParameter(ctx context.Context, p generic.Parameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE calculator_parameters
		SET key = ?, name = ?, value = ?, description = ?, category = ?,
			unit = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		p.Key, p.Name, p.Value.String(), p.Description, string(p.Category),
		p.Unit, p.IsActive, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrParameterNotFound
	}
	return nil
}

// DeleteParameter removes a parameter.
func (s *Store) DeleteParameter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM calculator_parameters WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrParameterNotFound
	}
	return nil
}

// ReplaceParameters purges the table and inserts ps in one transaction.
func (s *Store) ReplaceParameters(ctx context.Context, ps []generic.Parameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM calculator_parameters"); err != nil {
		return err
	}
	for _, p := range ps {
		if err := insertParameter(ctx, sqlTx, p); err != nil {
			return err
		}
	}

	return sqlTx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func insertParameter(ctx context.Context, db execer, p generic.Parameter) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO calculator_parameters (`+parameterColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Key, p.Name, p.Value.String(), p.Description, string(p.Category),
		p.Unit, p.IsActive, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

func scanParameter(row scanner) (generic.Parameter, error) {
	var (
		p                    generic.Parameter
		value, category      string
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Key, &p.Name, &value, &p.Description, &category,
		&p.Unit, &p.IsActive, &createdAt, &updatedAt); err != nil {
		return generic.Parameter{}, err
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return generic.Parameter{}, fmt.Errorf("parameter %s: bad stored value %q: %w", p.Key, value, err)
	}
	p.Value = v
	p.Category = generic.Category(category)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// mapConstraintError turns a UNIQUE violation on key into the domain error.
func mapConstraintError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return generic.ErrDuplicateParameterKey
	}
	return fmt.Errorf("failed to write parameter: %w", err)
}

// =============================================================================
// CALCULATION LOG (generic.CalculationLog interface)
// =============================================================================

// RecordCalculation appends one calculation row.
func (s *Store) RecordCalculation(ctx context.Context, kind generic.CalculatorKind, calculated bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO calculations (kind, calculated, created_at) VALUES (?, ?, ?)",
		string(kind), calculated, formatTime(at),
	)
	return err
}

// CalculationStats aggregates the calculations table.
func (s *Store) CalculationStats(ctx context.Context) (generic.CalculationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := generic.CalculationStats{ByKind: make(map[generic.CalculatorKind]int)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*), SUM(CASE WHEN calculated = 0 THEN 1 ELSE 0 END)
		FROM calculations GROUP BY kind`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind            string
			count, noResult int
		)
		if err := rows.Scan(&kind, &count, &noResult); err != nil {
			return stats, err
		}
		stats.ByKind[generic.CalculatorKind(kind)] = count
		stats.Total += count
		stats.NoResult += noResult
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	var last sql.NullString
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(created_at) FROM calculations").Scan(&last); err != nil {
		return stats, err
	}
	if last.Valid {
		if t, err := time.Parse(time.RFC3339, last.String); err == nil {
			stats.LastAt = &t
		}
	}
	return stats, nil
}

// =============================================================================
// PRESET TRACKER (generic.PresetTracker interface)
// =============================================================================

// SetActivePreset records id as the applied preset.
func (s *Store) SetActivePreset(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		activePresetSetting, id, formatTime(at),
	)
	return err
}

// ActivePreset returns "" when no preset was ever applied.
func (s *Store) ActivePreset(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", activePresetSetting,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Timestamps are stored as RFC3339 UTC so MAX() on the text column orders correctly.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
