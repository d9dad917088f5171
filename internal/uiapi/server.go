package uiapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/awaistahir/skincycle/internal/app"
	"github.com/awaistahir/skincycle/internal/engine"
	"github.com/awaistahir/skincycle/internal/theme"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const version = "1.0.0"

type Server struct {
	tracker *app.Tracker
	logger  *zap.Logger
}

func NewServer(tracker *app.Tracker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		tracker: tracker,
		logger:  logger,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for local development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/routine", s.handleRoutine)
		r.Get("/types", s.handleTypes)
		r.Get("/today", s.handleToday)
		r.Get("/products", s.handleGetProducts)
		r.Post("/products", s.handleCreateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)
		r.Get("/history", s.handleGetHistory)
		r.Post("/history", s.handleLogRoutine)
		r.Delete("/history", s.handleClearHistory)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings/theme", s.handleSetTheme)
	})

	return r
}

// requestLogger logs one line per request through zap
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	settings := s.tracker.Settings()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   version,
		"startDate": engine.FormatDate(settings.StartDate),
	})
}

func (s *Server) handleRoutine(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, engine.Routine())
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, theme.All())
}

type dayResponse struct {
	Date       string             `json:"date"`
	DaysPassed int                `json:"daysPassed"`
	Step       engine.RoutineStep `json:"step"`
	Products   []productView      `json:"products"`
}

type productView struct {
	engine.Product
	Label       string `json:"label"`
	Color       string `json:"color"`
	Recommended bool   `json:"recommended"`
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	var day engine.Day
	if q := strings.TrimSpace(r.URL.Query().Get("date")); q != "" {
		d, err := engine.ParseDate(q)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = s.tracker.DayAt(d)
	} else {
		day = s.tracker.Today()
	}

	dark := s.tracker.Settings().IsDarkTheme
	resp := dayResponse{
		Date:       engine.FormatDate(day.Date),
		DaysPassed: day.DaysPassed,
		Step:       day.Step,
		Products:   []productView{},
	}
	for _, rp := range day.Products {
		resp.Products = append(resp.Products, productView{
			Product:     rp.Product,
			Label:       theme.Label(rp.Product.Type),
			Color:       theme.Accent(rp.Product.Type, dark),
			Recommended: rp.Recommended,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.tracker.Shelf())
}

type createProductRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// CooldownDays may be a number or a string; anything non-numeric becomes 0
	CooldownDays json.RawMessage `json:"cooldownDays"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cooldown := strings.Trim(strings.TrimSpace(string(req.CooldownDays)), `"`)
	product, err := s.tracker.AddProduct(req.Name, req.Type, cooldown)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.tracker.DeleteProduct(id); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "deleted", "id": id})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.tracker.History())
}

type logRoutineRequest struct {
	ProductIDs []string `json:"productIds"`
}

func (s *Server) handleLogRoutine(w http.ResponseWriter, r *http.Request) {
	var req logRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.tracker.LogRoutine(req.ProductIDs)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ClearHistory(); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "cleared"})
}

type settingsResponse struct {
	IsDarkTheme bool   `json:"isDarkTheme"`
	StartDate   string `json:"startDate"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.tracker.Settings()
	respondJSON(w, http.StatusOK, settingsResponse{
		IsDarkTheme: settings.IsDarkTheme,
		StartDate:   engine.FormatDate(settings.StartDate),
	})
}

type themeRequest struct {
	IsDarkTheme *bool `json:"isDarkTheme"`
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsDarkTheme == nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.tracker.SetDarkTheme(*req.IsDarkTheme); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.handleGetSettings(w, r)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrEmptyName),
		errors.Is(err, app.ErrEmptySelection),
		errors.Is(err, engine.ErrUnknownProductType),
		errors.Is(err, engine.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
