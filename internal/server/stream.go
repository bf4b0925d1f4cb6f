// Package server provides the HTTP surface of the gesture camera: the
// MJPEG stream, the status endpoints and the sensor API.
package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/stream"
)

// StreamHandler serves MJPEG frames from the shared frame buffer. Each
// connection runs its own read loop holding only its last-seen sequence
// number, so any number of clients can stream independently and a slow
// client only throttles itself.
type StreamHandler struct {
	buffer  *stream.Buffer
	timeout time.Duration
}

// NewStreamHandler creates a new StreamHandler reading from buffer.
// The timeout bounds each wait for a fresh frame; on expiry the loop
// retries without writing, which keeps idle connections alive.
func NewStreamHandler(buffer *stream.Buffer, timeout time.Duration) *StreamHandler {
	return &StreamHandler{buffer: buffer, timeout: timeout}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Age", "0")
	w.Header().Set("Cache-Control", "no-cache, private")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Connection", "keep-alive")

	// No per-frame logging in this loop; it runs per delivered frame
	// for every client.
	var last uint64
	for {
		frame, ok := h.buffer.WaitNext(r.Context(), last, h.timeout)
		if !ok {
			if r.Context().Err() != nil {
				return
			}
			continue
		}
		last = frame.Seq

		// A failed write means the peer is gone; tear down this
		// connection only.
		if err := writeFrame(w, frame.Data); err != nil {
			return
		}
		flusher.Flush()
	}
}

// writeFrame emits one multipart part in the standard MJPEG-over-HTTP
// layout: boundary, part headers, payload, trailing CRLF.
func writeFrame(w io.Writer, payload []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(payload)); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
