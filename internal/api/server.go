// Package api provides the HTTP API for observing the resort simulation.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/engine"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/persistence"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/skiers"
)

// Server serves the resort state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Batch day runs are expensive; keep them off the hot path.
	dayLimiter := NewRateLimiter(60, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/trails", s.handleTrails)
	mux.HandleFunc("/api/v1/lifts", s.handleLifts)
	mux.HandleFunc("/api/v1/traffic", s.handleTraffic)
	mux.HandleFunc("/api/v1/skiers", s.handleSkiers)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/stats/history", s.handleStatsHistory)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/day", s.adminOnly(RateLimitMiddleware(dayLimiter, s.handleDay)))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no RESORTSIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}

			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	g := s.Sim.Graph()

	onMountain := 0
	for _, sk := range s.Sim.Skiers {
		if !sk.Departed {
			onMountain++
		}
	}

	status := map[string]any{
		"tick":             s.Sim.CurrentTick(),
		"sim_time":         engine.SimTime(s.Sim.CurrentTick()),
		"speed":            s.Eng.Speed,
		"running":          s.Eng.Running,
		"day":              s.Sim.Economy.Day,
		"trails":           len(s.Sim.Trails),
		"lifts":            len(s.Sim.Lifts),
		"graph_nodes":      g.NodeCount(),
		"graph_edges":      g.EdgeCount(),
		"skiers":           onMountain,
		"avg_satisfaction": s.Sim.AverageSatisfaction(),
		"rate_multiplier":  s.Sim.Economy.VisitorRateMultiplier,
	}
	writeJSON(w, status)
}

func (s *Server) handleTrails(w http.ResponseWriter, r *http.Request) {
	type trailSummary struct {
		ID         resort.EntityID `json:"id"`
		Name       string          `json:"name"`
		Difficulty string          `json:"difficulty"`
		Length     float64         `json:"length"`
		Capacity   float64         `json:"capacity"`
		Occupancy  int             `json:"occupancy"`
		Deficit    float64         `json:"deficit"`
		Crowding   float64         `json:"crowding"`
	}

	var result []trailSummary
	for _, id := range s.Sim.TrailOrder() {
		t := s.Sim.Trails[id]
		entry := trailSummary{
			ID:         t.ID,
			Name:       t.Name,
			Difficulty: resort.DifficultyName(t.Difficulty),
			Length:     t.Length,
			Capacity:   t.Capacity(),
			Crowding:   s.Sim.Tracker.CrowdingRatio(t.ID),
		}
		if info, ok := s.Sim.Tracker.TrailInfo(t.ID); ok {
			entry.Occupancy = info.Occupancy
			entry.Deficit = info.Deficit
		}
		result = append(result, entry)
	}
	writeJSON(w, result)
}

func (s *Server) handleLifts(w http.ResponseWriter, r *http.Request) {
	type liftSummary struct {
		ID        resort.EntityID `json:"id"`
		Name      string          `json:"name"`
		Capacity  float64         `json:"capacity"`
		Occupancy int             `json:"occupancy"`
		Deficit   float64         `json:"deficit"`
		Crowding  float64         `json:"crowding"`
	}

	var result []liftSummary
	for _, id := range s.Sim.LiftOrder() {
		l := s.Sim.Lifts[id]
		entry := liftSummary{
			ID:       l.ID,
			Name:     l.Name,
			Capacity: l.Capacity,
			Crowding: s.Sim.Tracker.LiftCrowdingRatio(l.ID),
		}
		if info, ok := s.Sim.Tracker.LiftInfo(l.ID); ok {
			entry.Occupancy = info.Occupancy
			entry.Deficit = info.Deficit
		}
		result = append(result, entry)
	}
	writeJSON(w, result)
}

// handleTraffic exposes the full flow-steering signal set per entity:
// deficit, pending intent, and the recent-popularity fraction.
func (s *Server) handleTraffic(w http.ResponseWriter, r *http.Request) {
	type trafficEntry struct {
		ID            resort.EntityID `json:"id"`
		Name          string          `json:"name"`
		Capacity      float64         `json:"capacity"`
		Occupancy     int             `json:"occupancy"`
		PendingIntent int             `json:"pending_intent"`
		Deficit       float64         `json:"deficit"`
		Popularity    float64         `json:"popularity"`
	}

	trails := make([]trafficEntry, 0, len(s.Sim.Trails))
	for _, id := range s.Sim.TrailOrder() {
		t := s.Sim.Trails[id]
		entry := trafficEntry{ID: id, Name: t.Name, Popularity: s.Sim.Tracker.TrailPopularity(id)}
		if info, ok := s.Sim.Tracker.TrailInfo(id); ok {
			entry.Capacity = info.Capacity
			entry.Occupancy = info.Occupancy
			entry.PendingIntent = info.PendingIntent
			entry.Deficit = info.Deficit
		}
		trails = append(trails, entry)
	}

	lifts := make([]trafficEntry, 0, len(s.Sim.Lifts))
	for _, id := range s.Sim.LiftOrder() {
		l := s.Sim.Lifts[id]
		entry := trafficEntry{ID: id, Name: l.Name, Popularity: s.Sim.Tracker.LiftPopularity(id)}
		if info, ok := s.Sim.Tracker.LiftInfo(id); ok {
			entry.Capacity = info.Capacity
			entry.Occupancy = info.Occupancy
			entry.PendingIntent = info.PendingIntent
			entry.Deficit = info.Deficit
		}
		lifts = append(lifts, entry)
	}

	writeJSON(w, map[string]any{"trails": trails, "lifts": lifts})
}

func (s *Server) handleSkiers(w http.ResponseWriter, r *http.Request) {
	stateFilter := r.URL.Query().Get("state")

	type skierSummary struct {
		ID            skiers.SkierID `json:"id"`
		Skill         string         `json:"skill"`
		State         string         `json:"state"`
		RunsCompleted int            `json:"runs_completed"`
		DesiredRuns   int            `json:"desired_runs"`
		Fatigue       float64        `json:"fatigue"`
		Satisfaction  float64        `json:"satisfaction"`
		CurrentStep   string         `json:"current_step,omitempty"`
	}

	var result []skierSummary
	for _, sk := range s.Sim.Skiers {
		if sk.Departed {
			continue
		}
		stateName := skiers.StateName(sk.State)
		if stateFilter != "" && stateName != stateFilter {
			continue
		}
		entry := skierSummary{
			ID:            sk.ID,
			Skill:         skiers.SkillName(sk.Skill),
			State:         stateName,
			RunsCompleted: sk.RunsCompleted,
			DesiredRuns:   sk.DesiredRuns,
			Fatigue:       sk.Needs.Fatigue,
			Satisfaction:  sk.Satisfaction.Legacy,
		}
		if step, ok := sk.Goal.CurrentStep(); ok {
			entry.CurrentStep = step.Name
		}
		result = append(result, entry)
	}
	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events := s.Sim.Events

	// Optional category filter.
	if category := r.URL.Query().Get("category"); category != "" {
		var filtered []engine.Event
		for _, e := range events {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}

	writeJSON(w, events[start:])
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Stats)
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	fromDay := 0
	toDay := 1<<31 - 1
	limit := 30

	if f := r.URL.Query().Get("from"); f != "" {
		if v, err := strconv.Atoi(f); err == nil {
			fromDay = v
		}
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if v, err := strconv.Atoi(t); err == nil {
			toDay = v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}

	if s.DB != nil {
		history, err := s.DB.DayStatsRange(fromDay, toDay, limit)
		if err == nil {
			writeJSON(w, history)
			return
		}
		slog.Warn("stats history query failed, serving in-memory", "error", err)
	}

	// In-memory fallback when the database is absent.
	history := s.Sim.History
	var result []engine.DayStats
	for i := len(history) - 1; i >= 0 && len(result) < limit; i-- {
		if history[i].Day >= fromDay && history[i].Day <= toDay {
			result = append(result, history[i])
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.Speed = req.Speed
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed})
}

// handleDay runs one batch day simulation immediately and returns its
// aggregate statistics.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := s.Sim.RunDay(s.Sim.CurrentTick())
	if s.DB != nil {
		if err := s.DB.SaveDayStats(stats); err != nil {
			slog.Warn("day stats save failed", "error", err)
		}
	}
	writeJSON(w, stats)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	if err := s.DB.SaveResortState(s.Sim); err != nil {
		http.Error(w, fmt.Sprintf("save failed: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"saved": true, "tick": s.Sim.CurrentTick()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
