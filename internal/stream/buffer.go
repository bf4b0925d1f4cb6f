// Package stream provides the single-slot frame buffer that connects the
// camera producer to MJPEG stream consumers.
package stream

import (
	"context"
	"sync"
	"time"
)

// Frame is one encoded image passed through the buffer.
type Frame struct {
	// Data holds the encoded payload (JPEG bytes for the camera path).
	Data []byte

	// Seq is assigned on publish, monotonically increasing, never reused.
	Seq uint64

	// ProducedAt is the publish time, used for freshness accounting.
	ProducedAt time.Time
}

// Buffer holds the most recent frame and wakes all waiting consumers on
// every publish. It keeps no backlog: a consumer that falls behind skips
// forward to the latest frame instead of replaying stale ones.
//
// The producer never blocks on consumers, and consumers never block each
// other; each waiter only tracks its own last-seen sequence number.
type Buffer struct {
	mu        sync.Mutex
	frame     Frame
	notify    chan struct{} // closed and replaced on every publish
	published uint64
	start     time.Time
}

// NewBuffer creates an empty Buffer. The FPS clock starts now.
func NewBuffer() *Buffer {
	return &Buffer{
		notify: make(chan struct{}),
		start:  time.Now(),
	}
}

// Publish replaces the current frame with payload, assigns the next
// sequence number and wakes every blocked waiter. It returns immediately
// regardless of how many consumers are attached or how slow they are.
// An empty payload is accepted as a valid no-op frame.
func (b *Buffer) Publish(payload []byte) {
	b.mu.Lock()
	b.published++
	b.frame = Frame{
		Data:       payload,
		Seq:        b.published,
		ProducedAt: time.Now(),
	}
	close(b.notify)
	b.notify = make(chan struct{})
	b.mu.Unlock()
}

// WaitNext blocks until a frame with a sequence number greater than
// lastSeq is available, the timeout elapses, or ctx is cancelled. The
// second return value is false on timeout or cancellation.
//
// If several frames were published since lastSeq, only the latest one is
// returned; the intermediate frames are dropped.
func (b *Buffer) WaitNext(ctx context.Context, lastSeq uint64, timeout time.Duration) (Frame, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		b.mu.Lock()
		if b.published > lastSeq {
			frame := b.frame
			b.mu.Unlock()
			return frame, true
		}
		wake := b.notify
		b.mu.Unlock()

		select {
		case <-wake:
		case <-timer.C:
			return Frame{}, false
		case <-ctx.Done():
			return Frame{}, false
		}
	}
}

// Snapshot returns the current frame without waiting. The second return
// value is false before the first publish.
func (b *Buffer) Snapshot() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame, b.published > 0
}

// FPS returns total publishes divided by elapsed wall time since the
// buffer was created.
func (b *Buffer) FPS() float64 {
	b.mu.Lock()
	published := b.published
	b.mu.Unlock()

	elapsed := time.Since(b.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(published) / elapsed
}
