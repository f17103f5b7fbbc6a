package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/roster"
)

// RosterSource lists the bugs for /api/roster. It must be safe to call from
// request goroutines.
type RosterSource interface {
	Entries() []roster.Entry
}

// Server owns the hub and the HTTP listener.
type Server struct {
	hub    *Hub
	roster RosterSource
	every  int
	http   *http.Server
}

// New creates a server for the given config. It does not start listening.
func New(cfg config.ServerConfig, r RosterSource) *Server {
	every := cfg.BroadcastEvery
	if every < 1 {
		every = 1
	}
	s := &Server{
		hub:    NewHub(),
		roster: r,
		every:  every,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Hub returns the spectator hub.
func (s *Server) Hub() *Hub { return s.hub }

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws", s.hub.ServeWS).Methods(http.MethodGet)
	router.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	router.HandleFunc("/api/roster", s.handleRoster).Methods(http.MethodGet)
	router.HandleFunc("/api/roster/{id}", s.handleBug).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router
}

// Tick publishes a snapshot on every broadcast_every-th tick. snapshot is
// only called when a broadcast is due.
func (s *Server) Tick(tick int, snapshot func() any) {
	if tick%s.every != 0 {
		return
	}
	if err := s.hub.Publish(snapshot()); err != nil {
		slog.Error("failed to broadcast state", "tick", tick, "error", err)
	}
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	slog.Info("server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}
	return nil
}

// Shutdown disconnects spectators and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	data := s.hub.Latest()
	if data == nil {
		http.Error(w, "no state yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.roster.Entries())
}

func (s *Server) handleBug(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, e := range s.roster.Entries() {
		if e.ID == id {
			writeJSON(w, e)
			return
		}
	}
	http.Error(w, "unknown bug", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
