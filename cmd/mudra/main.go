package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/sensor"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/stabilize"
	"github.com/ayusman/mudra/internal/stream"
)

func main() {
	var (
		addr           = flag.String("addr", ":8080", "HTTP listen address")
		cameraID       = flag.Int("camera", 0, "Camera device ID")
		width          = flag.Int("width", 640, "Stream width in pixels")
		height         = flag.Int("height", 480, "Stream height in pixels")
		frameRate      = flag.Int("fps", 30, "Target capture frame rate")
		jpegQuality    = flag.Int("jpeg-quality", 70, "JPEG encode quality (1-100)")
		noCamera       = flag.Bool("no-camera", false, "Disable camera capture and streaming")
		modelPath      = flag.String("model", "", "Path to the classifier model JSON (enables the sensor API)")
		rawWindow      = flag.Int("raw-window", 20, "Raw samples averaged before classification")
		voteWindow     = flag.Int("vote-window", 10, "Predictions majority-voted for the displayed label")
		lowConfidence  = flag.Float64("low-confidence", 0.40, "Confidence below which an observation is discarded")
		highConfidence = flag.Float64("high-confidence", 0.65, "Confidence below which the actionable class is withheld")
		pushInterval   = flag.Duration("push-interval", 200*time.Millisecond, "WebSocket decision push cadence")
		sensorEndpoint = flag.String("sensor-endpoint", "", "ZeroMQ endpoint for hardware sensor ingest (empty disables)")
		sensorLogEvery = flag.Int("sensor-log-every", 100, "Log every Nth sensor ingest error")
	)
	flag.Parse()

	cfg := config.Config{
		Addr:           *addr,
		CameraID:       *cameraID,
		Width:          *width,
		Height:         *height,
		FrameRate:      *frameRate,
		JPEGQuality:    *jpegQuality,
		RawWindow:      *rawWindow,
		VoteWindow:     *voteWindow,
		LowConfidence:  *lowConfidence,
		HighConfidence: *highConfidence,
		PushInterval:   *pushInterval,
		SensorEndpoint: *sensorEndpoint,
		SensorLogEvery: *sensorLogEvery,
	}

	fmt.Println("Mudra - Gesture Camera")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Camera path: buffer + producer.
	var buffer *stream.Buffer
	if !*noCamera {
		buffer = stream.NewBuffer()
		camera := capture.NewCamera(cfg.CameraID, cfg.Width, cfg.Height, cfg.FrameRate)
		producer := capture.NewProducer(camera, buffer, cfg.FrameRate, cfg.JPEGQuality)

		// A missing camera is not fatal; the stream stays empty until
		// the operator fixes the device and restarts.
		if err := producer.Start(); err != nil {
			log.Printf("camera unavailable: %v", err)
		} else {
			defer producer.Stop()
		}
	}

	// Sensor path: classifier + stabilization pipeline.
	var pipeline *stabilize.Pipeline
	if *modelPath != "" {
		classifier, labels, err := classify.LoadModel(*modelPath)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}

		pipeline = stabilize.NewPipeline(classifier, stabilize.Config{
			RawWindow:      cfg.RawWindow,
			VoteWindow:     cfg.VoteWindow,
			LowConfidence:  cfg.LowConfidence,
			HighConfidence: cfg.HighConfidence,
			Labels:         labels,
		})
		log.Printf("Loaded model with %d classes from %s", len(labels), *modelPath)

		if cfg.SensorEndpoint != "" {
			source := sensor.NewSource(cfg.SensorEndpoint, pipeline, cfg.SensorLogEvery)
			go func() {
				if err := source.Run(ctx); err != nil {
					log.Printf("sensor source stopped: %v", err)
				}
			}()
		}
	}

	srv := server.New(server.Config{
		Buffer:       buffer,
		Pipeline:     pipeline,
		Width:        cfg.Width,
		Height:       cfg.Height,
		PushInterval: cfg.PushInterval,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Starting server on %s\n", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
