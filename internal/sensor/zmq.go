package sensor

import (
	"context"
	"log"
	"syscall"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pebbe/zmq4"

	"github.com/ayusman/mudra/internal/stabilize"
)

// Source pulls CBOR-encoded samples from a ZeroMQ endpoint and feeds
// them into the stabilization pipeline. It exists for hardware senders
// (microcontrollers on the glove) that push continuously and cannot
// afford one HTTP round trip per sample.
type Source struct {
	endpoint string
	pipeline *stabilize.Pipeline
	logEvery int
	counter  int
}

// NewSource creates a Source reading from the given ZeroMQ endpoint.
// Decode errors are logged every logEvery occurrences.
func NewSource(endpoint string, pipeline *stabilize.Pipeline, logEvery int) *Source {
	if logEvery < 1 {
		logEvery = 1
	}
	return &Source{
		endpoint: endpoint,
		pipeline: pipeline,
		logEvery: logEvery,
	}
}

// Run receives samples until ctx is cancelled. Malformed messages are
// skipped; only socket construction errors are returned.
func (s *Source) Run(ctx context.Context) error {
	socket, err := zmq4.NewSocket(zmq4.PULL)
	if err != nil {
		return err
	}
	defer socket.Close()

	// Bounded receive so cancellation is observed between messages.
	if err := socket.SetRcvtimeo(time.Second); err != nil {
		return err
	}

	if err := socket.Bind(s.endpoint); err != nil {
		return err
	}

	log.Printf("sensor ingest listening on %s", s.endpoint)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msg, err := socket.RecvBytes(0)
		if err != nil {
			if zmq4.AsErrno(err) == zmq4.Errno(syscall.EAGAIN) {
				continue // receive timeout, re-check cancellation
			}
			s.logEveryN("sensor recv error: %v", err)
			continue
		}

		sample, err := Decode(msg)
		if err != nil {
			s.logEveryN("sensor decode error: %v", err)
			continue
		}

		if err := s.pipeline.Ingest(sample.Vector()); err != nil {
			s.logEveryN("sensor ingest error: %v", err)
		}
	}
}

// Decode parses one CBOR-encoded sample message.
func Decode(msg []byte) (Sample, error) {
	var sample Sample
	if err := cbor.Unmarshal(msg, &sample); err != nil {
		return Sample{}, err
	}
	return sample, nil
}

func (s *Source) logEveryN(format string, args ...any) {
	s.counter++
	if s.counter%s.logEvery == 0 {
		log.Printf(format, args...)
	}
}
