package uiapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/awaistahir/skincycle/internal/app"
	"github.com/awaistahir/skincycle/internal/engine"
	"github.com/awaistahir/skincycle/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, now time.Time) http.Handler {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "api.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tracker, err := app.Open(st, app.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return NewServer(tracker, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestProductLifecycle(t *testing.T) {
	h := newTestServer(t, time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC))

	rec := do(t, h, http.MethodPost, "/api/products", `{"name":"Retinal","type":"retinol","cooldownDays":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	retinal := decode[engine.Product](t, rec)
	assert.Equal(t, 3, retinal.CooldownDays)

	rec = do(t, h, http.MethodPost, "/api/products", `{"name":"Foam","type":"cleanser","cooldownDays":"abc"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	foam := decode[engine.Product](t, rec)
	assert.Equal(t, 0, foam.CooldownDays)

	rec = do(t, h, http.MethodPost, "/api/products", `{"name":"","type":"cleanser"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/products", `{"name":"Toner","type":"toner"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/products", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	shelf := decode[[]app.ShelfItem](t, rec)
	require.Len(t, shelf, 2)
	assert.Equal(t, retinal.ID, shelf[0].Product.ID)

	rec = do(t, h, http.MethodDelete, "/api/products/"+foam.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/products/"+foam.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodayAndLogging(t *testing.T) {
	h := newTestServer(t, time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC))

	retinal := decode[engine.Product](t, do(t, h, http.MethodPost, "/api/products", `{"name":"Retinal","type":"retinol","cooldownDays":2}`))
	peel := decode[engine.Product](t, do(t, h, http.MethodPost, "/api/products", `{"name":"Peel","type":"peeling"}`))

	rec := do(t, h, http.MethodGet, "/api/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	day := decode[dayResponse](t, rec)
	assert.Equal(t, "1", day.Step.DayNumber)
	require.Len(t, day.Products, 2)
	assert.Equal(t, retinal.ID, day.Products[0].ID)
	assert.False(t, day.Products[0].Recommended)
	assert.NotEmpty(t, day.Products[0].Label)

	// day 6 of the cycle targets retinol
	rec = do(t, h, http.MethodGet, "/api/today?date=2024-01-11", "")
	day = decode[dayResponse](t, rec)
	assert.Equal(t, "6", day.Step.DayNumber)
	assert.Equal(t, 5, day.DaysPassed)
	assert.True(t, day.Products[0].Recommended)

	rec = do(t, h, http.MethodGet, "/api/today?date=11-01-2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/history", `{"productIds":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/history", `{"productIds":["`+retinal.ID+`","`+peel.ID+`"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	entry := decode[engine.HistoryEntry](t, rec)
	assert.Equal(t, "2024-01-06", entry.Date)
	assert.Equal(t, "09:00", entry.Time)

	day = decode[dayResponse](t, do(t, h, http.MethodGet, "/api/today", ""))
	require.Len(t, day.Products, 1)
	assert.Equal(t, peel.ID, day.Products[0].ID)

	history := decode[[]app.HistoryItem](t, do(t, h, http.MethodGet, "/api/history", ""))
	require.Len(t, history, 1)
	assert.Len(t, history[0].Products, 2)

	rec = do(t, h, http.MethodDelete, "/api/history", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	history = decode[[]app.HistoryItem](t, do(t, h, http.MethodGet, "/api/history", ""))
	assert.Empty(t, history)
}

func TestSettingsAndMetadata(t *testing.T) {
	h := newTestServer(t, time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC))

	settings := decode[settingsResponse](t, do(t, h, http.MethodGet, "/api/settings", ""))
	assert.True(t, settings.IsDarkTheme)
	assert.Equal(t, "2024-01-06", settings.StartDate)

	rec := do(t, h, http.MethodPut, "/api/settings/theme", `{"isDarkTheme":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[settingsResponse](t, rec).IsDarkTheme)

	rec = do(t, h, http.MethodPut, "/api/settings/theme", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	routine := decode[[]engine.RoutineStep](t, do(t, h, http.MethodGet, "/api/routine", ""))
	assert.Len(t, routine, engine.StepCount())

	rec = do(t, h, http.MethodGet, "/api/types", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"colorDark"`)

	rec = do(t, h, http.MethodOptions, "/api/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
