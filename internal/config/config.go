// Package config holds the process configuration assembled from flags
// in cmd/mudra. Every tunable the operator can set lives here; packages
// receive values through this struct rather than reading flags or
// environment themselves.
package config

import "time"

// Config collects all operator-facing settings.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string

	// Camera / stream settings.
	CameraID    int
	Width       int
	Height      int
	FrameRate   int
	JPEGQuality int

	// Stabilization settings.
	RawWindow      int     // Kraw: raw samples averaged before classification
	VoteWindow     int     // Kpred: predictions majority-voted
	LowConfidence  float64 // observations below this are discarded
	HighConfidence float64 // actionable class withheld below this

	// PushInterval is the cadence of WebSocket decision pushes.
	PushInterval time.Duration

	// SensorEndpoint is the optional ZeroMQ endpoint for hardware
	// sensor ingest (e.g. "tcp://0.0.0.0:5555"). Empty disables it.
	SensorEndpoint string

	// SensorLogEvery rate-limits ingest decode error logging to every
	// Nth occurrence.
	SensorLogEvery int
}
