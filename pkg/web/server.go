// Package web serves the knowledge graph of the latest scan over HTTP.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/ritzau/jsgraph/pkg/analysis"
	"github.com/ritzau/jsgraph/pkg/cycles"
	"github.com/ritzau/jsgraph/pkg/lens"
	"github.com/ritzau/jsgraph/pkg/logging"
	"github.com/ritzau/jsgraph/pkg/model"
	"github.com/ritzau/jsgraph/pkg/pubsub"
)

//go:embed static/*
var staticFiles embed.FS

var logger = logging.New("web")

// NodeDetail is a node together with its incident edges. File nodes also
// list the local files they import and are imported by.
type NodeDetail struct {
	Node       *model.Node  `json:"node"`
	Incoming   []model.Edge `json:"incoming"`
	Outgoing   []model.Edge `json:"outgoing"`
	Imports    []string     `json:"imports,omitempty"`
	ImportedBy []string     `json:"imported_by,omitempty"`
}

// Server exposes the latest scan result and live scan status
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu     sync.RWMutex
	result *analysis.Result
}

// NewServer creates a server publishing scan status from publisher
func NewServer(publisher pubsub.Publisher) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		publisher: publisher,
	}
	s.setupRoutes()
	return s
}

// SetResult replaces the served result. Watch mode calls this after every
// re-run.
func (s *Server) SetResult(r *analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
}

func (s *Server) current() *analysis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/subscribe/"+pubsub.TopicScanStatus, s.handleSubscribeScanStatus).Methods("GET")
	api.HandleFunc("/graph", s.withResult(s.handleGraph)).Methods("GET")
	api.HandleFunc("/stats", s.withResult(s.handleStats)).Methods("GET")
	api.HandleFunc("/cycles", s.withResult(s.handleCycles)).Methods("GET")
	api.HandleFunc("/failures", s.withResult(s.handleFailures)).Methods("GET")
	api.HandleFunc("/files", s.withResult(s.handleFiles)).Methods("GET")
	api.HandleFunc("/nodes", s.withResult(s.handleNodeList)).Methods("GET")
	api.HandleFunc("/nodes/{id:.+}", s.withResult(s.handleNode)).Methods("GET")
	api.HandleFunc("/lens", s.withResult(s.handleLens)).Methods("GET")

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("Failed to load static files", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// Handler returns the router wrapped in request logging
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

type resultHandler func(w http.ResponseWriter, r *http.Request, result *analysis.Result)

// withResult answers 503 until the first scan has finished
func (s *Server) withResult(h resultHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := s.current()
		if result == nil {
			http.Error(w, "Scan in progress", http.StatusServiceUnavailable)
			return
		}
		h(w, r, result)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WarnContext(r.Context(), "Failed to encode response", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request, result *analysis.Result) {
	writeJSON(w, r, result.Graph.NodeLink())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, result *analysis.Result) {
	writeJSON(w, r, result.Report.Stats)
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request, result *analysis.Result) {
	found := result.Report.Cycles
	if found == nil {
		found = []cycles.ImportCycle{}
	}
	writeJSON(w, r, found)
}

func (s *Server) handleFailures(w http.ResponseWriter, r *http.Request, result *analysis.Result) {
	writeJSON(w, r, result.Report.Failures())
}

// handleNodeList lists node IDs, optionally filtered by ?kind=
func (s *Server) handleNodeList(w http.ResponseWriter, r *http.Request, result *analysis.Result) {
	kind := r.URL.Query().Get("kind")
	ids := []string{}
	for _, node := range result.Graph.Nodes() {
		if kind == "" || string(node.Kind) == kind {
			ids = append(ids, node.ID)
		}
	}
	writeJSON(w, r, ids)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request, result *analysis.Result) {
	id := mux.Vars(r)["id"]

	node, ok := result.Graph.Node(id)
	if !ok {
		http.Error(w, fmt.Sprintf("Node not found: %s", id), http.StatusNotFound)
		return
	}
	incoming, outgoing, err := result.Graph.EdgesOf(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if incoming == nil {
		incoming = []model.Edge{}
	}
	if outgoing == nil {
		outgoing = []model.Edge{}
	}
	detail := NodeDetail{Node: node, Incoming: incoming, Outgoing: outgoing}
	if path, ok := node.Attributes[model.AttrPath].(string); ok && node.Kind == model.KindFile {
		ig := result.Graph.Imports()
		detail.Imports = ig.Imports(path)
		detail.ImportedBy = ig.ImportedBy(path)
	}
	writeJSON(w, r, detail)
}

// handleFiles lists the paths of every local file in the import topology
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request, result *analysis.Result) {
	writeJSON(w, r, result.Graph.Imports().Files())
}

// handleLens renders the neighborhood of ?focus= nodes
func (s *Server) handleLens(w http.ResponseWriter, r *http.Request, result *analysis.Result) {
	q := r.URL.Query()
	focus := q["focus"]
	if len(focus) == 0 {
		http.Error(w, "At least one focus node required", http.StatusBadRequest)
		return
	}
	cfg, err := lens.ParseQuery(focus, q.Get("depth"), q.Get("relations"), q.Get("kinds"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, r, lens.Render(result.Graph, cfg))
}

func (s *Server) handleSubscribeScanStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// initial comment establishes the stream in Safari
	fmt.Fprintf(w, ": connected\n\n")
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), pubsub.TopicScanStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, event); err != nil {
				logger.DebugContext(r.Context(), "SSE client went away", "error", err)
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// Start serves on port until ctx is cancelled
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}
