package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/awaistahir/skincycle/internal/engine"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Backup is the YAML document written by Export
type Backup struct {
	ExportedAt  time.Time             `yaml:"exportedAt"`
	StartDate   string                `yaml:"startDate"`
	IsDarkTheme bool                  `yaml:"isDarkTheme"`
	Products    []engine.Product      `yaml:"products"`
	History     []engine.HistoryEntry `yaml:"history"`
}

// Export writes the full state as YAML
func (t *Tracker) Export(w io.Writer) error {
	t.mu.Lock()
	state := t.snapshot()
	now := t.now()
	t.mu.Unlock()

	b := Backup{
		ExportedAt:  now.UTC().Truncate(time.Second),
		StartDate:   engine.FormatDate(state.Settings.StartDate),
		IsDarkTheme: state.Settings.IsDarkTheme,
		Products:    state.Products,
		History:     state.History,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return enc.Close()
}

// Import replaces the catalog and history with the contents of a backup. The start
// date of the backup is ignored so the cycle offset of this installation stays put.
// Products without a name are dropped, missing or repeated ids are regenerated and
// negative cooldowns become 0. Catalog and history are stored together or not at all.
func (t *Tracker) Import(r io.Reader) (products, entries int, err error) {
	var b Backup
	if err := yaml.NewDecoder(r).Decode(&b); err != nil && err != io.EOF {
		return 0, 0, fmt.Errorf("decoding backup: %w", err)
	}

	catalog := make([]engine.Product, 0, len(b.Products))
	seen := map[string]bool{}
	for _, p := range b.Products {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		if p.ID == "" || seen[p.ID] {
			p.ID = uuid.NewString()
		}
		seen[p.ID] = true
		if pt, err := engine.ParseProductType(string(p.Type)); err == nil {
			p.Type = pt
		} else {
			p.Type = engine.TypeOther
		}
		if p.CooldownDays < 0 {
			p.CooldownDays = 0
		}
		catalog = append(catalog, p)
	}

	history := make([]engine.HistoryEntry, 0, len(b.History))
	for _, e := range b.History {
		if e.ProductsUsedIDs == nil {
			e.ProductsUsedIDs = []string{}
		}
		history = append(history, e)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Replace(catalog, history); err != nil {
		return 0, 0, fmt.Errorf("saving backup: %w", err)
	}
	t.state.Products = catalog
	t.state.History = history

	t.logger.Info("backup imported", zap.Int("products", len(catalog)), zap.Int("history", len(history)))
	return len(catalog), len(history), nil
}
