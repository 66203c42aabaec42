package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/ritzau/cmake-graph/pkg/logging"
	"github.com/ritzau/cmake-graph/pkg/pubsub"
	"github.com/ritzau/cmake-graph/pkg/render"
)

//go:embed static/*
var staticFiles embed.FS

// GraphSummary is the JSON shape served on /api/graph
type GraphSummary struct {
	Configuration string          `json:"configuration"`
	Projects      int             `json:"projects"`
	Directories   int             `json:"directories"`
	Targets       int             `json:"targets"`
	Dependencies  int             `json:"dependencies"`
	Edges         int             `json:"edges"`
	Frequent      []FrequentEntry `json:"frequent"`
	Hub           *HubEntry       `json:"hub"`
	Cycles        int             `json:"cycles"`
}

// FrequentEntry describes one marker-annotated target
type FrequentEntry struct {
	Name       string `json:"name"`
	Project    string `json:"project"`
	Marker     string `json:"marker"`
	UsageCount int    `json:"usage_count"`
}

// HubEntry describes the collapsed common dependency subset
type HubEntry struct {
	Members    []string `json:"members"`
	Recurrence int      `json:"recurrence"`
}

// Server serves the rendered graph and pushes rebuild events to viewers
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu     sync.RWMutex
	result *render.Result
	svg    []byte
}

// NewServer creates a new web server
func NewServer() *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// build_status: replay only the current state to new subscribers
	ssePublisher.ConfigureTopic("build_status", pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})

	// graph: replay the latest completed rebuild
	ssePublisher.ConfigureTopic("graph", pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: ssePublisher,
	}
	s.setupRoutes()
	return s
}

// SetResult swaps in the artifacts of a completed rebuild
func (s *Server) SetResult(res *render.Result, svg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.svg = svg
}

// PublishBuildStatus publishes a build status event
func (s *Server) PublishBuildStatus(state, message string) error {
	status := pubsub.BuildStatus{
		State:   state,
		Message: message,
	}
	return s.publisher.Publish("build_status", state, status)
}

// PublishGraphUpdate announces a completed rebuild to connected viewers
func (s *Server) PublishGraphUpdate() error {
	s.mu.RLock()
	res := s.result
	s.mu.RUnlock()
	if res == nil {
		return nil
	}

	update := pubsub.GraphUpdate{
		Configuration: res.Snapshot.Name,
		Targets:       len(res.Snapshot.Targets),
		Edges:         len(res.Plan.Edges),
		Frequent:      len(res.Frequent),
		Hub:           res.Hub != nil,
	}
	return s.publisher.Publish("graph", "updated", update)
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware)

	// SSE subscription endpoint
	s.router.HandleFunc("/api/events", s.handleSubscribe).Methods("GET")

	s.router.HandleFunc("/api/graph", s.handleGraphSummary).Methods("GET")
	s.router.HandleFunc("/graph.dot", s.handleGraphDOT).Methods("GET")
	s.router.HandleFunc("/graph.svg", s.handleGraphSVG).Methods("GET")

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = "graph"
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Send initial comment to establish connection (Safari compatibility)
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.Error("failed to write SSE event", "error", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

func (s *Server) handleGraphSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	res := s.result
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if res == nil {
		http.Error(w, `{"error":"no graph loaded"}`, http.StatusServiceUnavailable)
		return
	}

	summary := GraphSummary{
		Configuration: res.Snapshot.Name,
		Projects:      len(res.Snapshot.Projects),
		Directories:   len(res.Snapshot.Directories),
		Targets:       len(res.Snapshot.Targets),
		Dependencies:  len(res.Snapshot.Dependencies),
		Edges:         len(res.Plan.Edges),
		Frequent:      make([]FrequentEntry, 0, len(res.Frequent)),
		Cycles:        len(res.Cycles),
	}
	for _, ft := range res.Frequent {
		target := res.Snapshot.Targets[ft.Index]
		summary.Frequent = append(summary.Frequent, FrequentEntry{
			Name:       target.Name,
			Project:    res.Snapshot.Projects[target.ProjectIndex].Name,
			Marker:     ft.Marker,
			UsageCount: ft.UsageCount,
		})
	}
	if res.Hub != nil {
		entry := &HubEntry{Recurrence: res.Hub.Recurrence}
		for _, index := range res.Hub.Members {
			entry.Members = append(entry.Members, res.Snapshot.Targets[index].Name)
		}
		summary.Hub = entry
	}

	json.NewEncoder(w).Encode(summary)
}

func (s *Server) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	res := s.result
	s.mu.RUnlock()

	if res == nil {
		http.Error(w, "no graph loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	fmt.Fprint(w, res.DOT)
}

func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	svg := s.svg
	s.mu.RUnlock()

	if svg == nil {
		http.Error(w, "no graph loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// ServeHTTP lets the server be mounted as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}
