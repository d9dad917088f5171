package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/awaistahir/skincycle/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestEmptyStoreLoadsEmptyCollections(t *testing.T) {
	st := newTestStore(t)

	products, err := st.LoadProducts()
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)

	history, err := st.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, history)

	dark, err := st.IsDarkTheme()
	require.NoError(t, err)
	assert.True(t, dark)

	_, ok, err := st.StartDate()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductsRoundTripKeepsOrder(t *testing.T) {
	st := newTestStore(t)

	products := []engine.Product{
		{ID: "z", Name: "Zinc balm", Type: engine.TypeRecovery, CooldownDays: 0},
		{ID: "a", Name: "Glycolic", Type: engine.TypeAcid, CooldownDays: 3},
		{ID: "m", Name: "Retinal", Type: engine.TypeRetinol, CooldownDays: 2},
	}
	require.NoError(t, st.SaveProducts(products))

	got, err := st.LoadProducts()
	require.NoError(t, err)
	assert.Equal(t, products, got)

	require.NoError(t, st.SaveProducts(products[1:]))
	got, err = st.LoadProducts()
	require.NoError(t, err)
	assert.Equal(t, products[1:], got)
}

func TestHistoryRoundTripAndClear(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveProducts([]engine.Product{{ID: "p1", Name: "Cleanser", Type: engine.TypeCleanser}}))

	history := []engine.HistoryEntry{
		{Date: "2024-03-10", Time: "21:00", DayTitle: "", ProductsUsedIDs: []string{"p1", "p2"}},
		{Date: "2024-03-10", Time: "08:00", DayTitle: "morning", ProductsUsedIDs: []string{"p1"}},
		{Date: "2024-03-09", Time: "08:00", ProductsUsedIDs: []string{}},
	}
	require.NoError(t, st.SaveHistory(history))

	got, err := st.LoadHistory()
	require.NoError(t, err)
	assert.Equal(t, history, got)

	require.NoError(t, st.ClearHistory())
	got, err = st.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, got)

	products, err := st.LoadProducts()
	require.NoError(t, err)
	assert.Len(t, products, 1, "clearing history must not touch the catalog")
}

func TestMalformedRecordsDegrade(t *testing.T) {
	st := newTestStore(t)

	_, err := st.db.Exec(`INSERT INTO products (id, position, name, type, cooldown_days) VALUES
		('x', 0, 'Mystery', 'toner', -4),
		('y', 1, 'Peel', 'PEELING', 7)`)
	require.NoError(t, err)
	_, err = st.db.Exec(`INSERT INTO history (position, date, time, day_title, products_used_ids) VALUES
		(0, 'not-a-date', '10:00', '', '{broken'),
		(1, '2024-01-01', '09:00', '', '["y"]')`)
	require.NoError(t, err)

	products, err := st.LoadProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, engine.TypeOther, products[0].Type)
	assert.Equal(t, 0, products[0].CooldownDays)
	assert.Equal(t, engine.TypePeeling, products[1].Type)

	history, err := st.LoadHistory()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, []string{}, history[0].ProductsUsedIDs)
	assert.Equal(t, "not-a-date", history[0].Date)
	assert.Equal(t, []string{"y"}, history[1].ProductsUsedIDs)
}

func TestUnreadableTablesLoadEmpty(t *testing.T) {
	st := newTestStore(t)

	_, err := st.db.Exec(`DROP TABLE products; DROP TABLE history`)
	require.NoError(t, err)

	products, err := st.LoadProducts()
	require.NoError(t, err)
	assert.Equal(t, []engine.Product{}, products)

	history, err := st.LoadHistory()
	require.NoError(t, err)
	assert.Equal(t, []engine.HistoryEntry{}, history)
}

func TestReplaceIsAtomic(t *testing.T) {
	st := newTestStore(t)

	products := []engine.Product{{ID: "a", Name: "Glycolic", Type: engine.TypeAcid, CooldownDays: 3}}
	history := []engine.HistoryEntry{{Date: "2024-03-10", Time: "08:00", ProductsUsedIDs: []string{"a"}}}
	require.NoError(t, st.SaveProducts(products))
	require.NoError(t, st.SaveHistory(history))

	// the repeated id violates the primary key
	err := st.Replace(
		[]engine.Product{{ID: "b", Name: "Foam", Type: engine.TypeCleanser}, {ID: "b", Name: "Balm", Type: engine.TypeRecovery}},
		[]engine.HistoryEntry{},
	)
	require.Error(t, err)

	gotProducts, err := st.LoadProducts()
	require.NoError(t, err)
	assert.Equal(t, products, gotProducts)
	gotHistory, err := st.LoadHistory()
	require.NoError(t, err)
	assert.Equal(t, history, gotHistory)

	replaced := []engine.Product{{ID: "b", Name: "Foam", Type: engine.TypeCleanser}}
	require.NoError(t, st.Replace(replaced, nil))
	gotProducts, err = st.LoadProducts()
	require.NoError(t, err)
	assert.Equal(t, replaced, gotProducts)
	gotHistory, err = st.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, gotHistory)
}

func TestInitStartDateIsOneTime(t *testing.T) {
	st := newTestStore(t)

	first := time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC)
	start, err := st.InitStartDate(first)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", engine.FormatDate(start))

	start, err = st.InitStartDate(first.AddDate(0, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", engine.FormatDate(start), "start date must not move once set")

	stored, ok, err := st.StartDate()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, start, stored)
}

func TestInitStartDateReplacesMalformedValue(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.setSetting(keyStartDate, "yesterday"))

	start, err := st.InitStartDate(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02", engine.FormatDate(start))
}

func TestDarkTheme(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SetIsDarkTheme(false))
	dark, err := st.IsDarkTheme()
	require.NoError(t, err)
	assert.False(t, dark)

	require.NoError(t, st.setSetting(keyDarkTheme, "maybe"))
	dark, err = st.IsDarkTheme()
	require.NoError(t, err)
	assert.True(t, dark)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	st, err := NewStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, st.SaveProducts([]engine.Product{{ID: "p", Name: "Balm", Type: engine.TypeRecovery}}))
	_, err = st.InitStartDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = NewStore(path, nil)
	require.NoError(t, err)
	defer st.Close()

	products, err := st.LoadProducts()
	require.NoError(t, err)
	assert.Len(t, products, 1)

	start, ok, err := st.StartDate()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", engine.FormatDate(start))
}
