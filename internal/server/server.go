package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/stabilize"
	"github.com/ayusman/mudra/internal/stream"
)

// DefaultStreamTimeout bounds each wait for a fresh frame inside the
// MJPEG loop.
const DefaultStreamTimeout = 2 * time.Second

// Config holds the server configuration.
type Config struct {
	Buffer   *stream.Buffer
	Pipeline *stabilize.Pipeline

	// Width and Height describe the configured stream resolution,
	// reported on the status surfaces.
	Width  int
	Height int

	// PushInterval is the cadence of WebSocket decision pushes.
	PushInterval time.Duration

	// StreamTimeout overrides DefaultStreamTimeout when positive.
	StreamTimeout time.Duration
}

// Server is the HTTP server for the gesture camera.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

var indexTemplate = template.Must(template.New("index").Parse(`<html>
<head><title>Mudra Gesture Camera</title></head>
<body style="background:#1a1a2e;color:#fff;font-family:Arial;text-align:center;padding:20px;">
<h1>Gesture Recognition Camera</h1>
<p>FPS: {{printf "%.1f" .FPS}} | Resolution: {{.Width}}x{{.Height}}</p>
<img src="/video" style="border:3px solid #00d9ff;border-radius:10px;max-width:100%;">
<p style="margin-top:20px;"><b>Stream URL:</b> <code>/video</code></p>
</body></html>
`))

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.StreamTimeout <= 0 {
		config.StreamTimeout = DefaultStreamTimeout
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Buffer != nil {
		streamHandler := NewStreamHandler(s.config.Buffer, s.config.StreamTimeout)
		s.mux.Handle("/video", streamHandler)
		s.mux.Handle("/stream", streamHandler)
		s.mux.HandleFunc("/status", s.handleStatus)

		// "/" serves the status page, except for the legacy
		// "?action=stream" alias which streams.
		s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("action") == "stream" {
				streamHandler.ServeHTTP(w, r)
				return
			}
			s.handleIndex(w, r)
		})
	}

	if s.config.Pipeline != nil {
		sensorHandler := api.NewSensorHandler(s.config.Pipeline)
		s.mux.Handle("/api/ingest", sensorHandler)
		s.mux.Handle("/api/predict", sensorHandler)
		s.mux.Handle("/api/latest", sensorHandler)

		interval := s.config.PushInterval
		if interval <= 0 {
			interval = 200 * time.Millisecond
		}
		s.mux.Handle("/ws", NewDecisionsHandler(s.config.Pipeline, interval))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleIndex serves the HTML status page at "/".
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	indexTemplate.Execute(w, map[string]any{
		"FPS":    s.config.Buffer.FPS(),
		"Width":  s.config.Width,
		"Height": s.config.Height,
	})
}

// handleStatus handles GET requests to /status with a small JSON
// snapshot for health checks and the browser UI.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Keys are emitted in the documented order.
	fmt.Fprintf(w, `{"fps":%.1f,"width":%d,"height":%d}`,
		s.config.Buffer.FPS(), s.config.Width, s.config.Height)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
