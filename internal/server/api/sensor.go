// Package api provides the HTTP API handlers for the sensor-glove
// gesture path: sample ingest, stabilized prediction and latest-values
// debugging.
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sync"

	"github.com/ayusman/mudra/internal/sensor"
	"github.com/ayusman/mudra/internal/stabilize"
)

// SensorHandler handles /api/ingest, /api/predict and /api/latest.
type SensorHandler struct {
	pipeline *stabilize.Pipeline

	mu      sync.RWMutex
	latest  sensor.Sample
	hasData bool
}

// NewSensorHandler creates a new SensorHandler backed by the given
// pipeline.
func NewSensorHandler(p *stabilize.Pipeline) *SensorHandler {
	return &SensorHandler{pipeline: p}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the appropriate method.
func (h *SensorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/ingest":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.ingest(w, r)
	case "/api/predict":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.predict(w, r)
	case "/api/latest":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.latestValues(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Response types

// PredictResponse is the stabilized prediction as served over HTTP and
// pushed over WebSocket.
type PredictResponse struct {
	Gesture        string  `json:"gesture"`
	PredictedClass int     `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	Status         string  `json:"status"`
}

// NewPredictResponse converts a pipeline decision into its wire shape,
// rounding confidence to two decimal places.
func NewPredictResponse(d stabilize.Decision) PredictResponse {
	return PredictResponse{
		Gesture:        d.Gesture,
		PredictedClass: d.PredictedClass,
		Confidence:     math.Round(d.Confidence*100) / 100,
		Status:         string(d.Status),
	}
}

// ingest handles POST /api/ingest: one structured sample per call.
func (h *SensorHandler) ingest(w http.ResponseWriter, r *http.Request) {
	var sample sensor.Sample
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.pipeline.Ingest(sample.Vector()); err != nil {
		if errors.Is(err, stabilize.ErrBadVector) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to ingest sample")
		return
	}

	h.mu.Lock()
	h.latest = sample
	h.hasData = true
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// predict handles GET /api/predict.
func (h *SensorHandler) predict(w http.ResponseWriter, r *http.Request) {
	decision, err := h.pipeline.Predict()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Prediction failed")
		return
	}

	writeJSON(w, http.StatusOK, NewPredictResponse(decision))
}

// latestValues handles GET /api/latest: the most recent raw sample, for
// the debugging UI.
func (h *SensorHandler) latestValues(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	sample, ok := h.latest, h.hasData
	h.mu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "no_data",
			"message": "Waiting for sensor data...",
		})
		return
	}

	writeJSON(w, http.StatusOK, sample)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
