package server

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/stream"
)

func TestWriteFrame_Framing(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "known payload", payload: []byte("hello")},
		{name: "binary payload", payload: []byte{0xFF, 0xD8, 0x00, 0x0D, 0x0A}},
		{name: "empty payload", payload: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeFrame(&buf, tt.payload); err != nil {
				t.Fatalf("writeFrame() failed: %v", err)
			}

			want := fmt.Sprintf("--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n%s\r\n",
				len(tt.payload), tt.payload)
			if got := buf.String(); got != want {
				t.Errorf("emitted bytes = %q, want %q", got, want)
			}
		})
	}
}

func TestStreamHandler_Headers(t *testing.T) {
	buf := stream.NewBuffer()
	buf.Publish([]byte("jpegdata"))

	srv := httptest.NewServer(NewStreamHandler(buf, time.Second))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("bad Content-Type: %v", err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		t.Errorf("media type = %q, want multipart/x-mixed-replace", mediaType)
	}
	if params["boundary"] != "frame" {
		t.Errorf("boundary = %q, want frame", params["boundary"])
	}

	headerChecks := map[string]string{
		"Cache-Control": "no-cache, private",
		"Pragma":        "no-cache",
		"Age":           "0",
	}
	for key, want := range headerChecks {
		if got := resp.Header.Get(key); got != want {
			t.Errorf("header %s = %q, want %q", key, got, want)
		}
	}
}

// feedFrames publishes payload on a ticker until the returned stop
// function is called. A part is only fully readable once the next
// boundary arrives, so streaming tests need a continuous feed.
func feedFrames(t *testing.T, buf *stream.Buffer, payload []byte, every time.Duration) func() {
	t.Helper()
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				buf.Publish(payload)
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

func TestStreamHandler_DeliversFrames(t *testing.T) {
	buf := stream.NewBuffer()
	buf.Publish([]byte("first-frame"))

	srv := httptest.NewServer(NewStreamHandler(buf, time.Second))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	// Feed follow-up frames so both parts become fully readable.
	stop := feedFrames(t, buf, []byte("second-frame"), 20*time.Millisecond)
	defer stop()

	reader := multipart.NewReader(resp.Body, "frame")

	for _, want := range []string{"first-frame", "second-frame"} {
		part, err := reader.NextPart()
		if err != nil {
			t.Fatalf("NextPart() failed: %v", err)
		}

		if ct := part.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("part Content-Type = %q, want image/jpeg", ct)
		}
		if cl := part.Header.Get("Content-Length"); cl != fmt.Sprint(len(want)) {
			t.Errorf("part Content-Length = %q, want %d", cl, len(want))
		}

		body, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("reading part failed: %v", err)
		}
		if string(body) != want {
			t.Errorf("part body = %q, want %q", body, want)
		}
	}
}

func TestStreamHandler_WaitsForFirstFrame(t *testing.T) {
	buf := stream.NewBuffer()

	srv := httptest.NewServer(NewStreamHandler(buf, 50*time.Millisecond))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	// Publish only after several wait timeouts have elapsed; the
	// connection must survive them without emitting empty parts.
	stop := feedFrames(t, buf, []byte("late"), 150*time.Millisecond)
	defer stop()

	reader := multipart.NewReader(resp.Body, "frame")
	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("NextPart() failed: %v", err)
	}

	body, _ := io.ReadAll(part)
	if string(body) != "late" {
		t.Errorf("part body = %q, want %q", body, "late")
	}
}

func TestStreamHandler_IndependentClients(t *testing.T) {
	buf := stream.NewBuffer()

	srv := httptest.NewServer(NewStreamHandler(buf, time.Second))
	defer srv.Close()

	stop := feedFrames(t, buf, []byte("frame-a"), 20*time.Millisecond)
	defer stop()

	// Open one client and kill it immediately; a second client must be
	// unaffected.
	dead, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	dead.Body.Close()

	alive, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer alive.Body.Close()

	reader := multipart.NewReader(alive.Body, "frame")
	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("NextPart() failed: %v", err)
	}
	body, _ := io.ReadAll(part)
	if string(body) != "frame-a" {
		t.Errorf("part body = %q, want %q", body, "frame-a")
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(stream.NewBuffer(), time.Second)

	req := httptest.NewRequest(http.MethodPost, "/video", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
