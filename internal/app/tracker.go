// Package app owns the in-memory copy of the catalog, history and settings and runs
// the load -> compute -> save cycle around the engine.
package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/awaistahir/skincycle/internal/engine"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyName       = errors.New("product name must not be empty")
	ErrEmptySelection  = errors.New("select at least one product")
	ErrProductNotFound = errors.New("product not found")
)

// Store is the persistence contract the tracker relies on
type Store interface {
	LoadProducts() ([]engine.Product, error)
	SaveProducts([]engine.Product) error
	LoadHistory() ([]engine.HistoryEntry, error)
	SaveHistory([]engine.HistoryEntry) error
	Replace([]engine.Product, []engine.HistoryEntry) error
	ClearHistory() error
	InitStartDate(today time.Time) (time.Time, error)
	IsDarkTheme() (bool, error)
	SetIsDarkTheme(bool) error
}

// State is a snapshot of everything the tracker holds
type State struct {
	Products []engine.Product
	History  []engine.HistoryEntry
	Settings engine.Settings
}

// Tracker is the single owner of application state. All methods are safe to call
// from multiple goroutines; they are serialized internally.
type Tracker struct {
	mu     sync.Mutex
	store  Store
	now    func() time.Time
	logger *zap.Logger
	state  State
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock overrides time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// Open loads state from store and initializes the cycle start date on first use
func Open(store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:  store,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	products, err := store.LoadProducts()
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	history, err := store.LoadHistory()
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	start, err := store.InitStartDate(t.now())
	if err != nil {
		return nil, fmt.Errorf("initializing start date: %w", err)
	}
	dark, err := store.IsDarkTheme()
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}

	t.state = State{
		Products: products,
		History:  history,
		Settings: engine.Settings{IsDarkTheme: dark, StartDate: start},
	}
	t.logger.Debug("state loaded",
		zap.Int("products", len(products)),
		zap.Int("history", len(history)),
		zap.String("start_date", engine.FormatDate(start)))

	return t, nil
}

// Snapshot returns a copy of the current state
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Tracker) snapshot() State {
	history := make([]engine.HistoryEntry, len(t.state.History))
	for i, e := range t.state.History {
		e.ProductsUsedIDs = append([]string(nil), e.ProductsUsedIDs...)
		history[i] = e
	}
	return State{
		Products: append([]engine.Product(nil), t.state.Products...),
		History:  history,
		Settings: t.state.Settings,
	}
}

// Today runs the recommendation engine for the current date
func (t *Tracker) Today() engine.Day {
	return t.DayAt(t.now())
}

// DayAt runs the recommendation engine as of the given date
func (t *Tracker) DayAt(date time.Time) engine.Day {
	t.mu.Lock()
	defer t.mu.Unlock()
	return engine.Recommend(t.state.Products, t.state.History, t.state.Settings.StartDate, date)
}

// AddProduct validates input, gives the product a fresh id and appends it to the
// catalog. cooldown is raw user input; anything non-numeric counts as 0.
func (t *Tracker) AddProduct(name, productType, cooldown string) (engine.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return engine.Product{}, ErrEmptyName
	}
	pt, err := engine.ParseProductType(productType)
	if err != nil {
		return engine.Product{}, err
	}

	p := engine.Product{
		ID:           uuid.NewString(),
		Name:         name,
		Type:         pt,
		CooldownDays: engine.ParseCooldown(cooldown),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	products := append(append([]engine.Product(nil), t.state.Products...), p)
	if err := t.store.SaveProducts(products); err != nil {
		return engine.Product{}, fmt.Errorf("saving products: %w", err)
	}
	t.state.Products = products

	t.logger.Info("product added",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
		zap.String("type", string(p.Type)),
		zap.Int("cooldown_days", p.CooldownDays))
	return p, nil
}

// DeleteProduct removes a product from the catalog. History entries that reference it
// are left as they are.
func (t *Tracker) DeleteProduct(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	products := make([]engine.Product, 0, len(t.state.Products))
	found := false
	for _, p := range t.state.Products {
		if p.ID == id {
			found = true
			continue
		}
		products = append(products, p)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	if err := t.store.SaveProducts(products); err != nil {
		return fmt.Errorf("saving products: %w", err)
	}
	t.state.Products = products

	t.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

// LogRoutine records the selected products as used now. The new entry goes first.
func (t *Tracker) LogRoutine(productIDs []string) (engine.HistoryEntry, error) {
	if len(productIDs) == 0 {
		return engine.HistoryEntry{}, ErrEmptySelection
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry := engine.NewEntry(t.now(), productIDs)
	history := engine.Prepend(t.state.History, entry)
	if err := t.store.SaveHistory(history); err != nil {
		return engine.HistoryEntry{}, fmt.Errorf("saving history: %w", err)
	}
	t.state.History = history

	t.logger.Info("routine logged",
		zap.String("date", entry.Date),
		zap.String("time", entry.Time),
		zap.Strings("products", entry.ProductsUsedIDs))
	return entry, nil
}

// ClearHistory wipes all history entries
func (t *Tracker) ClearHistory() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.ClearHistory(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	cleared := len(t.state.History)
	t.state.History = []engine.HistoryEntry{}

	t.logger.Info("history cleared", zap.Int("entries", cleared))
	return nil
}

// Settings returns the current settings
func (t *Tracker) Settings() engine.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Settings
}

// SetDarkTheme stores the theme preference
func (t *Tracker) SetDarkTheme(dark bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.SetIsDarkTheme(dark); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	t.state.Settings.IsDarkTheme = dark
	return nil
}

// ToggleTheme flips between dark and light and returns the new value
func (t *Tracker) ToggleTheme() (bool, error) {
	dark := !t.Settings().IsDarkTheme
	if err := t.SetDarkTheme(dark); err != nil {
		return !dark, err
	}
	return dark, nil
}
