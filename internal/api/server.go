// Package api serves the subsector over HTTP.
// GET endpoints are read-only views and exports.
// POST endpoints mutate the document and require a bearer token.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/cors"

	"github.com/Absle/swt-gen/internal/astro"
	"github.com/Absle/swt-gen/internal/export"
	"github.com/Absle/swt-gen/internal/persistence"
	"github.com/Absle/swt-gen/internal/subsector"
)

const autosaveSlot = "autosave"

// Server holds the current subsector document and serves it over HTTP.
// Mutations are serialized through a single writer lock, so a reader
// only ever observes the document before or after an operation.
type Server struct {
	DB          *persistence.DB
	Port        int
	AdminKey    string // Bearer token for POST endpoints. Empty = mutations disabled.
	CORSOrigins []string

	mu  sync.RWMutex
	sub *subsector.Subsector
}

// NewServer wraps an initial document.
func NewServer(sub *subsector.Subsector, db *persistence.DB, port int, adminKey string, corsOrigins []string) *Server {
	return &Server{
		DB:          db,
		Port:        port,
		AdminKey:    adminKey,
		CORSOrigins: corsOrigins,
		sub:         sub,
	}
}

// Handler builds the full HTTP handler, CORS and rate limiting
// included.
func (s *Server) Handler() http.Handler {
	quota := newExportQuota(60, time.Minute)

	mux := http.NewServeMux()

	// Read-only views.
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/subsector", s.handleSubsector)
	mux.HandleFunc("GET /api/v1/subsector/player-safe", s.handlePlayerSafe)
	mux.HandleFunc("GET /api/v1/world/{hex}", s.handleWorld)
	mux.HandleFunc("GET /api/v1/world/{hex}/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/v1/export/svg", quota.limit(s.handleExportSVG))
	mux.HandleFunc("GET /api/v1/export/csv", quota.limit(s.handleExportCSV))
	mux.HandleFunc("GET /api/v1/export/markdown", quota.limit(s.handleExportMarkdown))
	mux.HandleFunc("GET /api/v1/export/archive", quota.limit(s.handleExportArchive))
	mux.HandleFunc("GET /api/v1/slots", s.handleSlots)

	// Mutations.
	mux.HandleFunc("POST /api/v1/generate", s.adminOnly(s.handleGenerate))
	mux.HandleFunc("POST /api/v1/rename", s.adminOnly(s.handleRename))
	mux.HandleFunc("POST /api/v1/world/{hex}/regenerate", s.adminOnly(s.handleRegenerate))
	mux.HandleFunc("POST /api/v1/world/{hex}/reroll", s.adminOnly(s.handleReroll))
	mux.HandleFunc("POST /api/v1/world/{hex}/move", s.adminOnly(s.handleMove))
	mux.HandleFunc("POST /api/v1/world/{hex}/edit", s.adminOnly(s.handleEdit))
	mux.HandleFunc("POST /api/v1/world/{hex}/revert", s.adminOnly(s.handleRevert))
	mux.HandleFunc("DELETE /api/v1/world/{hex}", s.adminOnly(s.handleDelete))
	mux.HandleFunc("POST /api/v1/factions", s.adminOnly(s.handleAddFaction))
	mux.HandleFunc("DELETE /api/v1/faction/{name}", s.adminOnly(s.handleRemoveFaction))
	mux.HandleFunc("POST /api/v1/faction/{name}/claim", s.adminOnly(s.handleClaim))
	mux.HandleFunc("POST /api/v1/faction/{name}/release", s.adminOnly(s.handleRelease))
	mux.HandleFunc("POST /api/v1/save", s.adminOnly(s.handleSave))
	mux.HandleFunc("POST /api/v1/load", s.adminOnly(s.handleLoad))
	mux.HandleFunc("POST /api/v1/import", s.adminOnly(s.handleImport))

	c := cors.New(cors.Options{
		AllowedOrigins: s.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// adminOnly wraps a mutating handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "mutations disabled (no admin key set)", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, map[string]any{
		"name":         s.sub.Name,
		"variant":      s.sub.Variant,
		"version":      s.sub.Version,
		"seed":         s.sub.Seed,
		"abundance_dm": s.sub.AbundanceDM,
		"grid":         s.sub.Grid,
		"worlds":       len(s.sub.Worlds),
		"factions":     len(s.sub.Factions),
	})
}

func (s *Server) handleSubsector(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.sub)
}

func (s *Server) handlePlayerSafe(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, subsector.Project(s.sub))
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	c, err := subsector.ParseCoordinate(r.PathValue("hex"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	world := s.sub.World(c)
	if world == nil {
		writeError(w, fmt.Errorf("%w: %s", subsector.ErrEmptyHex, c))
		return
	}
	writeJSON(w, map[string]any{
		"coordinate": c.String(),
		"world":      world,
		"profile":    world.Profile(),
		"bases":      world.BaseString(),
		"pbg":        world.PBGString(),
		"importance": world.Importance(),
	})
}

// handleSnapshot captures the hex's current world record so a client
// can hand it back to revert later. An empty hex snapshots as null,
// which reverts to empty.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	c, err := subsector.ParseCoordinate(r.PathValue("hex"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.sub.Grid.Check(c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"coordinate": c.String(),
		"world":      s.sub.Snapshot(c),
	})
}

func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	c, err := subsector.ParseCoordinate(r.PathValue("hex"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		World *astro.World `json:"world"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutate(w, func() error { return s.sub.Revert(c, req.World) })
}

func (s *Server) handleReroll(w http.ResponseWriter, r *http.Request) {
	c, err := subsector.ParseCoordinate(r.PathValue("hex"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Field string `json:"field"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutate(w, func() error {
		_, err := s.sub.RerollField(c, req.Field)
		return err
	})
}

func (s *Server) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc := export.RenderSVG(s.viewFor(r))
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	io.WriteString(w, doc)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc, err := export.RenderCSV(s.viewFor(r))
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	io.WriteString(w, doc)
}

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc := export.RenderMarkdown(s.viewFor(r))
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "text/markdown")
	io.WriteString(w, doc)
}

func (s *Server) handleExportArchive(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data, err := persistence.ExportArchive(s.viewFor(r))
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zstd")
	w.Write(data)
}

// viewFor picks the GM document or its player-safe projection based on
// the player_safe query flag. Caller holds at least a read lock.
func (s *Server) viewFor(r *http.Request) *subsector.Subsector {
	if r.URL.Query().Get("player_safe") == "1" {
		return subsector.Project(s.sub)
	}
	return s.sub
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	slots, err := s.DB.ListSlots()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"slots": slots})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Seed        int64  `json:"seed"`
		AbundanceDM int    `json:"abundance_dm"`
		Columns     int    `json:"columns"`
		Rows        int    `json:"rows"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	grid := subsector.DefaultGrid
	if req.Columns > 0 || req.Rows > 0 {
		grid = subsector.Grid{Columns: req.Columns, Rows: req.Rows}
	}

	sub, err := subsector.Generate(req.Name, req.Seed, req.AbundanceDM, grid)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	s.autosave()
	s.handleStatus(w, r)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutate(w, func() error { return s.sub.Rename(req.Name) })
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	c, err := subsector.ParseCoordinate(r.PathValue("hex"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, func() error {
		_, err := s.sub.RegenerateAt(c)
		return err
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	from, err := subsector.ParseCoordinate(r.PathValue("hex"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		To string `json:"to"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	to, err := subsector.ParseCoordinate(req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, func() error { return s.sub.Move(from, to) })
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	c, err := subsector.ParseCoordinate(r.PathValue("hex"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutate(w, func() error { return s.sub.EditField(c, req.Field, req.Value) })
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	c, err := subsector.ParseCoordinate(r.PathValue("hex"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, func() error { return s.sub.Delete(c) })
}

func (s *Server) handleAddFaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutate(w, func() error {
		_, err := s.sub.AddFaction(req.Name, req.Color)
		return err
	})
}

func (s *Server) handleRemoveFaction(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.mutate(w, func() error { return s.sub.RemoveFaction(name) })
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	s.handleClaimChange(w, r, (*subsector.Subsector).Claim)
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	s.handleClaimChange(w, r, (*subsector.Subsector).Release)
}

func (s *Server) handleClaimChange(w http.ResponseWriter, r *http.Request, op func(*subsector.Subsector, string, subsector.Coordinate) error) {
	name := r.PathValue("name")
	var req struct {
		Hex string `json:"hex"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := subsector.ParseCoordinate(req.Hex)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, func() error { return op(s.sub, name, c) })
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Slot string `json:"slot"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Slot == "" {
		http.Error(w, "missing slot", http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	id, err := s.DB.SaveSlot(req.Slot, s.sub)
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"id": id, "slot": req.Slot})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Slot string `json:"slot"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := s.DB.LoadSlot(req.Slot)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	s.handleStatus(w, r)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		http.Error(w, "reading archive", http.StatusBadRequest)
		return
	}
	sub, err := persistence.ImportArchive(data)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	s.autosave()
	s.handleStatus(w, r)
}

// mutate runs one operation under the writer lock, autosaves on
// success, and reports the updated status.
func (s *Server) mutate(w http.ResponseWriter, op func() error) {
	s.mu.Lock()
	err := op()
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	s.autosave()
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, map[string]any{
		"name":    s.sub.Name,
		"worlds":  len(s.sub.Worlds),
		"epoch":   s.sub.Epoch,
		"variant": s.sub.Variant,
	})
}

func (s *Server) autosave() {
	if s.DB == nil {
		return
	}
	s.mu.RLock()
	_, err := s.DB.SaveSlot(autosaveSlot, s.sub)
	s.mu.RUnlock()
	if err != nil {
		slog.Error("autosave failed", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps the model's sentinel errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, subsector.ErrInvalidCoordinate),
		errors.Is(err, subsector.ErrInvalidFieldValue),
		errors.Is(err, subsector.ErrUnknownField),
		errors.Is(err, subsector.ErrSchemaMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, subsector.ErrEmptyHex),
		errors.Is(err, subsector.ErrUnknownFaction),
		errors.Is(err, persistence.ErrNoSuchSlot):
		status = http.StatusNotFound
	case errors.Is(err, subsector.ErrOccupiedTarget),
		errors.Is(err, subsector.ErrDanglingReference),
		errors.Is(err, subsector.ErrStaleDerivedData):
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
