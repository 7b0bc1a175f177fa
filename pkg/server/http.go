package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// HTTPServer serves the JSON API for an index
type HTTPServer struct {
	dispatcher *dispatcher
	// mu serializes every call into the index
	mu     sync.Mutex
	server *http.Server
	logger *log.Logger
}

// NewHTTPServer creates the API server listening on cfg.Server.HTTPAddr
func NewHTTPServer(index suggest.Completer, cfg *config.Config) *HTTPServer {
	d := newDispatcher(index, cfg)
	h := &HTTPServer{
		dispatcher: d,
		logger:     logger.New("http"),
	}

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.logger.Debug("Request", "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	})

	r.HandleFunc("/complete", h.complete).Methods(http.MethodGet)
	r.HandleFunc("/contains/{word}", h.lookup("contains")).Methods(http.MethodGet)
	r.HandleFunc("/words/{word}", h.lookup("delete")).Methods(http.MethodDelete)
	r.HandleFunc("/load", h.load).Methods(http.MethodPost)
	r.HandleFunc("/size", h.simple("size")).Methods(http.MethodGet)
	r.HandleFunc("/health", h.simple("health")).Methods(http.MethodGet)

	addr := config.DefaultConfig().Server.HTTPAddr
	if cfg != nil && cfg.Server.HTTPAddr != "" {
		addr = cfg.Server.HTTPAddr
	}
	h.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return h
}

// Handler returns the HTTP handler for the server
func (h *HTTPServer) Handler() http.Handler {
	return h.server.Handler
}

// Addr returns the address the server is configured to listen on
func (h *HTTPServer) Addr() string {
	return h.server.Addr
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (h *HTTPServer) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		h.logger.Infof("Listening on http://%s", h.server.Addr)
		errCh <- h.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	h.logger.Info("Shutting down")
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (h *HTTPServer) do(req Request) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dispatcher.handle(req)
}

func (h *HTTPServer) complete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := Request{Op: "complete", Prefix: query.Get("prefix")}

	if raw := query.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: k=%q", suggest.ErrNonPositiveWindow, raw))
			return
		}
		req.Window = &k
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid limit", Code: http.StatusBadRequest})
			return
		}
		req.Limit = limit
	}
	h.serve(w, req)
}

func (h *HTTPServer) lookup(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, Request{Op: op, Word: mux.Vars(r)["word"]})
	}
}

func (h *HTTPServer) load(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Texts []string `json:"texts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body", Code: http.StatusBadRequest})
		return
	}
	h.serve(w, Request{Op: "load", Texts: body.Texts})
}

func (h *HTTPServer) simple(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, Request{Op: op})
	}
}

func (h *HTTPServer) serve(w http.ResponseWriter, req Request) {
	resp, err := h.do(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPServer) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse("", err)
	h.writeJSON(w, resp.Code, resp)
}

func (h *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("Encoding response: %v", err)
	}
}
