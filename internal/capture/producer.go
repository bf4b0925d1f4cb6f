package capture

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/stream"

	"gocv.io/x/gocv"
)

// Producer runs the capture loop: read a frame at the target rate,
// mirror it, encode it to JPEG and publish it into the stream buffer.
// Capture or encode failures are logged and skipped; they never stop
// the loop or reach stream consumers.
type Producer struct {
	camera  Camera
	buffer  *stream.Buffer
	fps     int
	quality int

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
}

// NewProducer creates a Producer publishing into buffer at the given
// frame rate and JPEG quality.
func NewProducer(camera Camera, buffer *stream.Buffer, fps, quality int) *Producer {
	return &Producer{
		camera:  camera,
		buffer:  buffer,
		fps:     fps,
		quality: quality,
	}
}

// Start opens the camera and begins the capture loop.
func (p *Producer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh != nil {
		return nil
	}

	if err := p.camera.Open(); err != nil {
		return err
	}

	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.stopCh, p.done)

	log.Printf("capture started: %dx%d @ %d fps, JPEG quality %d",
		p.camera.Width(), p.camera.Height(), p.fps, p.quality)
	return nil
}

// Stop halts the capture loop and closes the camera.
func (p *Producer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh == nil {
		return
	}

	close(p.stopCh)
	<-p.done
	p.stopCh = nil
	p.done = nil

	if err := p.camera.Close(); err != nil {
		log.Printf("error closing camera: %v", err)
	}
}

// run is the capture loop. It owns the Mats it reads and closes them
// before the next iteration.
func (p *Producer) run(stopCh, done chan struct{}) {
	defer close(done)

	interval := time.Second / time.Duration(p.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	params := []int{gocv.IMWriteJpegQuality, p.quality}

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := p.camera.ReadFrame()
			if err != nil {
				log.Printf("error reading frame: %v", err)
				continue
			}

			// Mirror horizontally so on-screen feedback matches the
			// user's movement.
			gocv.Flip(*frame, frame, 1)

			buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame, params)
			frame.Close()
			if err != nil {
				log.Printf("error encoding frame: %v", err)
				continue
			}

			// The native buffer is freed on Close; hand the buffer an
			// owned copy.
			payload := make([]byte, buf.Len())
			copy(payload, buf.GetBytes())
			buf.Close()

			p.buffer.Publish(payload)
		}
	}
}
