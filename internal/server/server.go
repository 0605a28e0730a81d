package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/roach88/plotstore/internal/dispatch"
	"github.com/roach88/plotstore/internal/history"
	"github.com/roach88/plotstore/internal/render"
	"github.com/roach88/plotstore/internal/scene"
	"github.com/roach88/plotstore/internal/store"
)

// TokenHeader carries the access token when one is configured.
const TokenHeader = "X-Plotstore-Token"

// Redrawer asks the producer to redraw a page at a new size. The page is
// addressed by id and must be looked up again when the redraw runs.
type Redrawer interface {
	Redraw(id scene.PageID, width, height float64) error
}

// Forgetter is implemented by producers that keep per-page state to drop
// when a page is removed.
type Forgetter interface {
	Forget(id scene.PageID)
}

// Archiver keeps snapshots of pages before they are removed.
type Archiver interface {
	Save(ctx context.Context, snap history.Snapshot) (int64, error)
}

// Options configures a Server. Store, Renderers and Hub are required.
type Options struct {
	Store     *store.Store
	Renderers *render.Manager
	Hub       *Hub

	// Dispatcher and Redrawer enable render-on-read. Without them pages
	// are served at their stored size.
	Dispatcher    *dispatch.Dispatcher
	Redrawer      Redrawer
	RedrawTimeout time.Duration

	// Archiver, when set, receives a JSON snapshot of every page
	// removed through /remove or /clear.
	Archiver Archiver

	Token   string
	CORS    bool
	WWWDir  string
	Version string
}

// Server is the HTTP and websocket front end of a store.
type Server struct {
	opts Options
	id   string
	mux  *http.ServeMux
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		opts: opts,
		id:   uuid.NewString(),
		mux:  http.NewServeMux(),
	}
	s.routes()
	return s
}

// ID is the random instance id reported by /info.
func (s *Server) ID() string { return s.id }

func (s *Server) routes() {
	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/info", s.handleInfo)
	s.mux.HandleFunc("/renderers", s.handleRenderers)
	s.mux.HandleFunc("/plots", s.handlePlots)
	s.mux.HandleFunc("/svg", s.handleSVG)
	s.mux.HandleFunc("/plot", s.handlePlot)
	s.mux.HandleFunc("/clear", s.handleClear)
	s.mux.HandleFunc("/remove", s.handleRemove)
	if s.opts.WWWDir != "" {
		s.mux.Handle("/live/", http.StripPrefix("/live/", http.FileServer(http.Dir(s.opts.WWWDir))))
	}
	s.mux.HandleFunc("/", s.handleRoot)
}

// Handler returns the root handler with CORS and the token guard applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.guard(h)
	if s.opts.CORS {
		h = cors(h)
	}
	return h
}

// guard rejects requests without the configured token. Static files are
// served without one.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Token == "" || strings.HasPrefix(r.URL.Path, "/live/") {
			next.ServeHTTP(w, r)
			return
		}
		tok := r.Header.Get(TokenHeader)
		if tok == "" {
			tok = r.URL.Query().Get("token")
		}
		if tok != s.opts.Token {
			writeError(w, &APIError{
				Status:  http.StatusUnauthorized,
				Code:    CodeUnauthorized,
				Message: "missing or invalid token",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", TokenHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleRoot upgrades websocket requests and 404s everything else.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		// No Handshake func: any origin may subscribe once past the token guard.
		websocket.Server{Handler: s.serveWebsocket}.ServeHTTP(w, r)
		return
	}
	writeError(w, notFound(r.URL.Path, "no such endpoint"))
}

// serveWebsocket pushes the current state, then every observable change,
// until the client disconnects.
func (s *Server) serveWebsocket(ws *websocket.Conn) {
	defer ws.Close()

	updates, cancel := s.opts.Hub.Subscribe()
	defer cancel()

	if err := websocket.JSON.Send(ws, s.opts.Store.State()); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		var msg string
		for {
			// Clients never send anything meaningful; reading detects close.
			if err := websocket.Message.Receive(ws, &msg); err != nil {
				return
			}
		}
	}()

	slog.Debug("websocket subscribed", "remote", ws.Request().RemoteAddr)
	for {
		select {
		case <-closed:
			slog.Debug("websocket closed", "remote", ws.Request().RemoteAddr)
			return
		case st := <-updates:
			if err := websocket.JSON.Send(ws, st); err != nil {
				return
			}
		}
	}
}

// prepare makes sure the page with id matches the requested size,
// asking the producer to redraw it first when it does not. The page must
// not be rendered before the redraw completes.
func (s *Server) prepare(ctx context.Context, id scene.PageID, width, height float64) error {
	if s.opts.Redrawer == nil || s.opts.Dispatcher == nil {
		return nil
	}
	if !s.opts.Store.DiffID(id, width, height) {
		return nil
	}

	err := s.opts.Dispatcher.Do(ctx, s.opts.RedrawTimeout, "redraw", func(context.Context) error {
		return s.opts.Redrawer.Redraw(id, width, height)
	})
	if err != nil {
		return unavailable(fmt.Sprintf("page id %d", id), err)
	}
	return nil
}
