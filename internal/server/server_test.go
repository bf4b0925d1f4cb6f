package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/stabilize"
	"github.com/ayusman/mudra/internal/stream"
)

func testServer() *Server {
	buf := stream.NewBuffer()
	pipeline := stabilize.NewPipeline(classify.NewMockClassifier(), stabilize.Config{
		RawWindow:      20,
		VoteWindow:     10,
		LowConfidence:  0.40,
		HighConfidence: 0.65,
		Labels:         classify.DefaultLabels,
	})

	return New(Config{
		Buffer:   buf,
		Pipeline: pipeline,
		Width:    640,
		Height:   480,
	})
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_Status(t *testing.T) {
	s := testServer()
	for i := 0; i < 5; i++ {
		s.config.Buffer.Publish([]byte("frame"))
	}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin *, got %q", got)
	}

	var response struct {
		FPS    float64 `json:"fps"`
		Width  int     `json:"width"`
		Height int     `json:"height"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Width != 640 || response.Height != 480 {
		t.Errorf("resolution = %dx%d, want 640x480", response.Width, response.Height)
	}
	if response.FPS <= 0 {
		t.Errorf("fps = %f, want > 0", response.FPS)
	}
}

func TestServer_IndexPage(t *testing.T) {
	s := testServer()

	t.Run("serves the status page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "Resolution: 640x480") {
			t.Errorf("page does not report the resolution: %s", body)
		}
		if !strings.Contains(body, `src="/video"`) {
			t.Error("page does not embed the stream")
		}
	})

	t.Run("unknown paths return 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestServer_StreamAliases(t *testing.T) {
	s := testServer()
	s.config.Buffer.Publish([]byte("frame"))

	srv := httptest.NewServer(s)
	defer srv.Close()

	paths := []string{"/video", "/stream", "/?action=stream"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + path)
			if err != nil {
				t.Fatalf("GET %s failed: %v", path, err)
			}
			defer resp.Body.Close()

			ct := resp.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
				t.Errorf("Content-Type = %q, want multipart/x-mixed-replace", ct)
			}
		})
	}
}

func TestServer_SensorRoutes(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/predict", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["status"] != string(stabilize.StatusBuffering) {
		t.Errorf("expected buffering status, got %v", response["status"])
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{Buffer: stream.NewBuffer()})

	if s.config.StreamTimeout != DefaultStreamTimeout {
		t.Errorf("StreamTimeout = %v, want %v", s.config.StreamTimeout, DefaultStreamTimeout)
	}

	if s.config.StreamTimeout != 2*time.Second {
		t.Errorf("default stream timeout = %v, want 2s", s.config.StreamTimeout)
	}
}
