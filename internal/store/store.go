package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/awaistahir/skincycle/internal/engine"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	keyStartDate = "start_date"
	keyDarkTheme = "dark_theme"
)

// Store handles persistent storage using SQLite
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore creates a new store and initializes the database
func NewStore(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	store := &Store{db: db, logger: logger}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize creates the database schema
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'other',
		cooldown_days INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		position INTEGER NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL DEFAULT '',
		day_title TEXT NOT NULL DEFAULT '',
		products_used_ids TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_products_position ON products(position);
	CREATE INDEX IF NOT EXISTS idx_history_position ON history(position);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// LoadProducts returns the catalog in the order it was saved. An unreadable table
// yields an empty catalog.
func (s *Store) LoadProducts() ([]engine.Product, error) {
	products := []engine.Product{}

	rows, err := s.db.Query(`SELECT id, name, type, cooldown_days FROM products ORDER BY position`)
	if err != nil {
		s.logger.Warn("products unreadable, starting with an empty catalog", zap.Error(err))
		return products, nil
	}
	defer rows.Close()

	for rows.Next() {
		var p engine.Product
		var typeStr string

		if err := rows.Scan(&p.ID, &p.Name, &typeStr, &p.CooldownDays); err != nil {
			s.logger.Warn("skipping unreadable product row", zap.Error(err))
			continue
		}

		p.Type, err = engine.ParseProductType(typeStr)
		if err != nil {
			s.logger.Debug("unknown product type, using other", zap.String("product_id", p.ID), zap.String("type", typeStr))
			p.Type = engine.TypeOther
		}
		if p.CooldownDays < 0 {
			p.CooldownDays = 0
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		s.logger.Warn("product rows truncated", zap.Error(err))
	}
	return products, nil
}

// SaveProducts replaces the stored catalog with products
func (s *Store) SaveProducts(products []engine.Product) error {
	return s.inTx(func(tx *sql.Tx) error {
		return writeProducts(tx, products)
	})
}

// LoadHistory returns all entries, newest first. An unreadable table yields an
// empty history.
func (s *Store) LoadHistory() ([]engine.HistoryEntry, error) {
	history := []engine.HistoryEntry{}

	rows, err := s.db.Query(`SELECT date, time, day_title, products_used_ids FROM history ORDER BY position`)
	if err != nil {
		s.logger.Warn("history unreadable, starting with an empty history", zap.Error(err))
		return history, nil
	}
	defer rows.Close()

	for rows.Next() {
		var e engine.HistoryEntry
		var idsJSON string

		if err := rows.Scan(&e.Date, &e.Time, &e.DayTitle, &idsJSON); err != nil {
			s.logger.Warn("skipping unreadable history row", zap.Error(err))
			continue
		}

		if err := json.Unmarshal([]byte(idsJSON), &e.ProductsUsedIDs); err != nil {
			s.logger.Debug("malformed product ids in history entry", zap.String("date", e.Date), zap.Error(err))
			e.ProductsUsedIDs = nil
		}
		if e.ProductsUsedIDs == nil {
			e.ProductsUsedIDs = []string{}
		}

		history = append(history, e)
	}

	if err := rows.Err(); err != nil {
		s.logger.Warn("history rows truncated", zap.Error(err))
	}
	return history, nil
}

// SaveHistory replaces the stored history with entries, keeping their order
func (s *Store) SaveHistory(history []engine.HistoryEntry) error {
	return s.inTx(func(tx *sql.Tx) error {
		return writeHistory(tx, history)
	})
}

// Replace swaps both the catalog and the history in a single transaction
func (s *Store) Replace(products []engine.Product, history []engine.HistoryEntry) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := writeProducts(tx, products); err != nil {
			return err
		}
		return writeHistory(tx, history)
	})
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func writeProducts(tx *sql.Tx, products []engine.Product) error {
	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return fmt.Errorf("saving products: %w", err)
	}

	query := `INSERT INTO products (id, position, name, type, cooldown_days) VALUES (?, ?, ?, ?, ?)`
	for i, p := range products {
		if _, err := tx.Exec(query, p.ID, i, p.Name, string(p.Type), p.CooldownDays); err != nil {
			return fmt.Errorf("saving product %s: %w", p.ID, err)
		}
	}
	return nil
}

func writeHistory(tx *sql.Tx, history []engine.HistoryEntry) error {
	if _, err := tx.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	query := `INSERT INTO history (position, date, time, day_title, products_used_ids) VALUES (?, ?, ?, ?, ?)`
	for i, e := range history {
		ids := e.ProductsUsedIDs
		if ids == nil {
			ids = []string{}
		}
		idsJSON, _ := json.Marshal(ids)

		if _, err := tx.Exec(query, i, e.Date, e.Time, e.DayTitle, string(idsJSON)); err != nil {
			return fmt.Errorf("saving history entry %d: %w", i, err)
		}
	}
	return nil
}

// ClearHistory removes every history entry. The catalog is untouched.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// StartDate returns the stored cycle start date. ok is false if none is stored or the
// stored value cannot be parsed.
func (s *Store) StartDate() (date time.Time, ok bool, err error) {
	value, found, err := s.getSetting(keyStartDate)
	if err != nil || !found {
		return time.Time{}, false, err
	}

	d, parseErr := engine.ParseDate(value)
	if parseErr != nil {
		s.logger.Warn("stored start date is malformed", zap.String("value", value))
		return time.Time{}, false, nil
	}
	return d, true, nil
}

// InitStartDate stores today as the cycle start date unless one is already set, and
// returns the effective start date.
func (s *Store) InitStartDate(today time.Time) (time.Time, error) {
	d, ok, err := s.StartDate()
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return d, nil
	}

	start := engine.CivilDate(today)
	if err := s.setSetting(keyStartDate, engine.FormatDate(start)); err != nil {
		return time.Time{}, fmt.Errorf("initializing start date: %w", err)
	}
	s.logger.Info("routine cycle started", zap.String("date", engine.FormatDate(start)))
	return start, nil
}

// IsDarkTheme returns the theme preference; dark is the default
func (s *Store) IsDarkTheme() (bool, error) {
	value, found, err := s.getSetting(keyDarkTheme)
	if err != nil {
		return true, err
	}
	if !found {
		return true, nil
	}

	dark, parseErr := strconv.ParseBool(value)
	if parseErr != nil {
		return true, nil
	}
	return dark, nil
}

// SetIsDarkTheme stores the theme preference
func (s *Store) SetIsDarkTheme(dark bool) error {
	return s.setSetting(keyDarkTheme, strconv.FormatBool(dark))
}

func (s *Store) getSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) setSetting(key, value string) error {
	query := `INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}
