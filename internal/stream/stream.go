// Package stream serves freshly advanced generations over WebSocket. Every
// connection owns a private engine copied from the server's base engine, so
// no engine state is shared between goroutines.
package stream

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"ring-ca/internal/render"
	"ring-ca/internal/sims/elementary"
)

// Frame is one generation as sent to clients.
type Frame struct {
	Slot  int    `json:"slot"`
	Total int    `json:"total"`
	Cells string `json:"cells"`
}

// Server is an http.Handler streaming generations.
type Server struct {
	base     *elementary.Engine
	interval time.Duration
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server advancing tps generations per second. base is
// only read, never advanced.
func NewServer(base *elementary.Engine, tps int, log *slog.Logger) *Server {
	if tps <= 0 {
		tps = 10
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		base:     base,
		interval: time.Second / time.Duration(tps),
		log:      log,
	}
}

// ServeHTTP upgrades the connection and streams frames until the client goes
// away, the optional ?limit=N frame count is reached, or the request context
// ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	eng, err := elementary.Derive(s.base, false)
	if err != nil {
		s.log.Error("derive engine", "error", err)
		http.Error(w, "engine unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	s.log.Info("stream opened", "remote", r.RemoteAddr, "limit", limit)

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	sent := 0
	for {
		if err := conn.WriteJSON(frameOf(eng)); err != nil {
			s.log.Debug("stream write failed", "error", err)
			return
		}
		sent++
		if limit > 0 && sent >= limit {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "limit reached")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			s.log.Info("stream closed", "remote", r.RemoteAddr, "frames", sent)
			return
		}
		select {
		case <-r.Context().Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			s.log.Info("stream cancelled", "remote", r.RemoteAddr, "frames", sent)
			return
		case <-gone:
			s.log.Info("stream client left", "remote", r.RemoteAddr, "frames", sent)
			return
		case <-ticker.C:
		}
		if err := eng.Advance(); err != nil {
			s.log.Error("advance", "error", err)
			return
		}
	}
}

func frameOf(eng *elementary.Engine) Frame {
	return Frame{
		Slot:  eng.CurrentSlot(),
		Total: eng.TotalProduced(),
		Cells: render.FormatGeneration(eng.Current()),
	}
}
