package dashboard

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/LioYoro/EnergyTestComfac/internal/cache"
	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// caches holds one bounded store per fetch category. Each category is
// cached independently so a miss in one never invalidates another.
type caches struct {
	summary *cache.Bounded
	hourly  *cache.Bounded
	weekly  *cache.Bounded
	floors  *cache.Bounded
	dates   *cache.Bounded
}

// Server renders the dashboard. It owns the per-category caches for its
// lifetime; they are cleared only on demand or by restart.
type Server struct {
	mux    *http.ServeMux
	tmpl   *template.Template
	api    *Client
	caches caches

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
	broadcast chan interface{}
}

func New(api *Client, cacheSize int) *Server {
	funcMap := template.FuncMap{
		"toJSON": toJSON,
	}
	tmpl := template.Must(template.New("base").Funcs(funcMap).ParseGlob("templates/*.html"))
	return newServer(api, cacheSize, tmpl)
}

func newServer(api *Client, cacheSize int, tmpl *template.Template) *Server {
	s := &Server{
		mux:  http.NewServeMux(),
		tmpl: tmpl,
		api:  api,
		caches: caches{
			summary: cache.NewBounded(cacheSize),
			hourly:  cache.NewBounded(cacheSize),
			weekly:  cache.NewBounded(cacheSize),
			floors:  cache.NewBounded(cacheSize),
			dates:   cache.NewBounded(cacheSize),
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan interface{}, 256),
	}

	s.routes()
	go s.handleBroadcast()
	go s.periodicUpdate()

	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/", s.handleDashboard)
	s.mux.HandleFunc("/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/api/minute-data", s.handleMinuteData)
	s.mux.HandleFunc("/cache/clear", s.handleCacheClear)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// viewData is everything one render needs. Each fetch category carries
// its own error so one failure leaves the other panels intact.
type viewData struct {
	Query Query

	Dates    []string
	DatesErr string

	Summary    *domain.SummaryResponse
	SummaryErr string

	Hourly    *domain.HourlyDataResponse
	HourlyErr string

	WeeklyPeaks []domain.WeeklyPeakEntry
	WeeklyErr   string

	Floors    []domain.FloorAnalytics
	FloorsErr string
}

// fetchAll resolves the five fetch categories for one filter combination,
// concurrently, consulting each category's cache first. A failed fetch
// records its error and does not block or cancel the others.
func (s *Server) fetchAll(ctx context.Context, q Query) *viewData {
	vd := &viewData{Query: q}

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		key := cache.Key("summary", q)
		if v, ok := s.caches.summary.Get(key); ok {
			vd.Summary = v.(*domain.SummaryResponse)
			return
		}
		out, err := s.api.Summary(ctx, q)
		if err != nil {
			vd.SummaryErr = err.Error()
			return
		}
		s.caches.summary.Set(key, out)
		vd.Summary = out
	}()

	go func() {
		defer wg.Done()
		key := cache.Key("hourly", q)
		if v, ok := s.caches.hourly.Get(key); ok {
			vd.Hourly = v.(*domain.HourlyDataResponse)
			return
		}
		out, err := s.api.HourlyData(ctx, q)
		if err != nil {
			vd.HourlyErr = err.Error()
			return
		}
		s.caches.hourly.Set(key, out)
		vd.Hourly = out
	}()

	go func() {
		defer wg.Done()
		key := cache.Key("weekly", q.Floor)
		if v, ok := s.caches.weekly.Get(key); ok {
			vd.WeeklyPeaks = v.([]domain.WeeklyPeakEntry)
			return
		}
		out, err := s.api.WeeklyPeakHours(ctx, q.Floor)
		if err != nil {
			vd.WeeklyErr = err.Error()
			return
		}
		s.caches.weekly.Set(key, out)
		vd.WeeklyPeaks = out
	}()

	go func() {
		defer wg.Done()
		key := cache.Key("floors", q)
		if v, ok := s.caches.floors.Get(key); ok {
			vd.Floors = v.([]domain.FloorAnalytics)
			return
		}
		out, err := s.api.FloorAnalytics(ctx, q)
		if err != nil {
			vd.FloorsErr = err.Error()
			return
		}
		s.caches.floors.Set(key, out)
		vd.Floors = out
	}()

	go func() {
		defer wg.Done()
		key := cache.Key("dates", nil)
		if v, ok := s.caches.dates.Get(key); ok {
			vd.Dates = v.([]string)
			return
		}
		out, err := s.api.AvailableDates(ctx)
		if err != nil {
			vd.DatesErr = err.Error()
			return
		}
		s.caches.dates.Set(key, out)
		vd.Dates = out
	}()

	wg.Wait()
	return vd
}

func queryFrom(r *http.Request) Query {
	return Query{
		Date:        r.URL.Query().Get("date"),
		Floor:       r.URL.Query().Get("floor"),
		Granularity: r.URL.Query().Get("timeGranularity"),
		Weekday:     r.URL.Query().Get("weekday"),
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	vd := s.fetchAll(ctx, queryFrom(r))
	s.render(w, "dashboard.html", vd)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	vd := s.fetchAll(ctx, queryFrom(r))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vd)
}

// handleMinuteData is the drill-down behind the hourly chart: it relays
// one (date, hour) minute breakdown from the API. Not cached; drill-downs
// are one-off lookups.
func (s *Server) handleMinuteData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	date := r.URL.Query().Get("date")
	hour, err := strconv.Atoi(r.URL.Query().Get("hour"))
	if err != nil || hour < 0 || hour > 23 {
		http.Error(w, "invalid hour", http.StatusBadRequest)
		return
	}
	rows, err := s.api.MinuteData(ctx, date, hour)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.caches.summary.Clear()
	s.caches.hourly.Clear()
	s.caches.weekly.Clear()
	s.caches.floors.Clear()
	s.caches.dates.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "offline"
	if err := s.api.Health(ctx); err == nil {
		status = "online"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
		conn.Close()
	}()

	vd := s.fetchAll(context.Background(), Query{})
	conn.WriteJSON(map[string]interface{}{"type": "init", "data": vd})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) handleBroadcast() {
	for msg := range s.broadcast {
		s.clientsMu.RLock()
		var dead []*websocket.Conn
		for conn := range s.clients {
			if err := conn.WriteJSON(msg); err != nil {
				dead = append(dead, conn)
			}
		}
		s.clientsMu.RUnlock()

		if len(dead) > 0 {
			s.clientsMu.Lock()
			for _, conn := range dead {
				conn.Close()
				delete(s.clients, conn)
			}
			s.clientsMu.Unlock()
		}
	}
}

func (s *Server) periodicUpdate() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		vd := s.fetchAll(context.Background(), Query{})
		s.broadcast <- map[string]interface{}{"type": "update", "data": vd}
	}
}

func toJSON(v interface{}) template.JS {
	b, _ := json.Marshal(v)
	return template.JS(b)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
