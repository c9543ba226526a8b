package webui

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/atelier-studio/atelier/pkg/conversation"
	"github.com/atelier-studio/atelier/pkg/session"
	"github.com/atelier-studio/atelier/pkg/view"
)

//go:embed static/*
var staticFS embed.FS

// Server exposes the studio session over HTTP: an embedded single-page UI,
// JSON endpoints over the stores, and a websocket that pushes generation
// results to connected pages.
type Server struct {
	addr    string
	session *session.Session

	mux    *http.ServeMux
	server *http.Server

	upgrader websocket.Upgrader
	hub      *hub
}

func NewServer(addr string, sess *session.Session) *Server {
	s := &Server{
		addr:     addr,
		session:  sess,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		hub:      newHub(),
	}
	s.registerHandlers()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Run starts the HTTP server and blocks until the context is cancelled or an
// interrupt arrives.
func (s *Server) Run(ctx context.Context) error {
	eg := errgroup.Group{}
	srvCtx, srvCancel := context.WithCancel(ctx)
	defer srvCancel()

	eg.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigChan:
			log.Info().Msg("received interrupt signal, shutting down gracefully...")
		case <-srvCtx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
			return err
		}
		log.Info().Msg("server shutdown complete")
		return nil
	})

	eg.Go(func() error {
		log.Info().Str("addr", s.addr).Msg("starting atelier web server")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server listen error")
			return err
		}
		return nil
	})

	return eg.Wait()
}

// Handler exposes the mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) registerHandlers() {
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		b, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "index not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(b)
	})

	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/chat", s.handleChat)
	s.mux.HandleFunc("/api/turns", s.handleTurns)
	s.mux.HandleFunc("/api/designs", s.handleDesigns)
	s.mux.HandleFunc("/api/designs/", s.handleDesignByID)
	s.mux.HandleFunc("/api/image-error", s.handleImageError)
	s.mux.HandleFunc("/api/view", s.handleView)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.hub.add(conn)
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// handleChat accepts a prompt and starts a generation. The result arrives on
// the websocket; concurrent submissions are answered with 409 and ignored.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Prompt) == "" {
		http.Error(w, "empty prompt", http.StatusBadRequest)
		return
	}
	// the accept-vs-conflict decision is the atomic submission itself, so
	// two racing posts can never both start a generation
	userTurn, ok := s.session.Begin(body.Prompt)
	if !ok {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "generation in progress"})
		return
	}

	go func(userTurn conversation.Turn) {
		s.hub.broadcast(statusFrame(true))
		turn := s.session.Finish(context.Background(), userTurn)
		s.hub.broadcast(statusFrame(false))
		s.hub.broadcast(turnFrame(turn))
	}(userTurn)

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"turns":      s.session.Conversation.Turns(),
		"generating": s.session.Conversation.Generating(),
	})
}

func (s *Server) handleDesigns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]any{
			"designs": s.session.Library.Filter(r.URL.Query().Get("q")),
			"total":   s.session.Library.Len(),
		})
	case http.MethodPost:
		var body struct {
			Timestamp int64 `json:"timestamp"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		design, err := s.session.SaveDesignAt(body.Timestamp)
		if err != nil {
			log.Warn().Err(err).Int64("timestamp", body.Timestamp).Msg("save design rejected")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, design)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDesignByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/designs/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		design, ok := s.session.Library.Get(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, design)
	case http.MethodDelete:
		if !s.session.DeleteDesign(id) {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleImageError records a broken image URL reported by the page so the
// placeholder sticks across views without refetching.
func (s *Server) handleImageError(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.session.View.MarkImageFailed(body.URL)
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleView reads or switches the active view on behalf of the page.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]string{"active": string(s.session.View.Active())})
	case http.MethodPost:
		var body struct {
			Active string `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		switch view.Screen(body.Active) {
		case view.ScreenStudio, view.ScreenLibrary:
			s.session.View.SelectView(view.Screen(body.Active))
			writeJSON(w, map[string]string{"active": body.Active})
		default:
			http.Error(w, "unknown view", http.StatusBadRequest)
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func statusFrame(generating bool) []byte {
	b, _ := json.Marshal(map[string]any{"type": "status", "generating": generating})
	return b
}

func turnFrame(turn conversation.Turn) []byte {
	b, _ := json.Marshal(map[string]any{"type": "turn", "turn": turn})
	return b
}
