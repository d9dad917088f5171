package app

import (
	"time"

	"github.com/awaistahir/skincycle/internal/engine"
)

// ShelfItem is a catalog product with its cooldown status today
type ShelfItem struct {
	Product      engine.Product      `json:"product"`
	Availability engine.Availability `json:"availability"`
}

// HistoryItem is a history entry prepared for display
type HistoryItem struct {
	Entry engine.HistoryEntry `json:"entry"`
	// Date is the parsed entry date, or today when the stored date is malformed
	Date     time.Time        `json:"date"`
	Products []engine.Product `json:"products"`
}

// Shelf returns every product in catalog order with its availability today
func (t *Tracker) Shelf() []ShelfItem {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.now()
	items := make([]ShelfItem, 0, len(t.state.Products))
	for _, p := range t.state.Products {
		items = append(items, ShelfItem{
			Product:      p,
			Availability: engine.Evaluate(p, t.state.History, today),
		})
	}
	return items
}

// History returns entries newest first with product details resolved. Ids of products
// that no longer exist are skipped.
func (t *Tracker) History() []HistoryItem {
	t.mu.Lock()
	defer t.mu.Unlock()

	byID := make(map[string]engine.Product, len(t.state.Products))
	for _, p := range t.state.Products {
		byID[p.ID] = p
	}

	today := engine.CivilDate(t.now())
	items := make([]HistoryItem, 0, len(t.state.History))
	for _, e := range t.state.History {
		date, err := engine.ParseDate(e.Date)
		if err != nil {
			date = today
		}

		products := []engine.Product{}
		for _, id := range e.ProductsUsedIDs {
			if p, ok := byID[id]; ok {
				products = append(products, p)
			}
		}

		items = append(items, HistoryItem{Entry: e, Date: date, Products: products})
	}
	return items
}
