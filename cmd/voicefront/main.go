package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mpetrenko/voicefront/internal/capture"
	"github.com/mpetrenko/voicefront/internal/config"
	"github.com/mpetrenko/voicefront/internal/metrics"
	"github.com/mpetrenko/voicefront/internal/pipeline"
	"github.com/mpetrenko/voicefront/internal/playback"
	"github.com/mpetrenko/voicefront/internal/recognizer"
	"github.com/mpetrenko/voicefront/internal/server"
	"github.com/mpetrenko/voicefront/internal/synthesis"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "voicefront"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	// Log service startup
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	// Log configuration summary (without sensitive data)
	logger.Info("Configuration loaded",
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.String("recognizer_backend", cfg.Recognizer.Backend),
		slog.String("synthesis_backend", cfg.Synthesis.Backend),
		slog.String("playback_output_dir", cfg.Playback.OutputDir),
		slog.Bool("resume_after_playback", cfg.Playback.ResumeAfterPlayback),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Model assets must be staged before any engine is constructed
	if cfg.Recognizer.ModelDir != "" {
		if _, err := os.Stat(cfg.Recognizer.ModelDir); err != nil {
			logger.Error("Model directory not available",
				slog.String("model_dir", cfg.Recognizer.ModelDir),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Initialize recognition engine
	engine, err := recognizer.New(recognizer.Config{
		Backend:    cfg.Recognizer.Backend,
		ModelDir:   cfg.Recognizer.ModelDir,
		SampleRate: cfg.Audio.SampleRate,
		Endpoint: recognizer.EndpointConfig{
			Threshold:          cfg.Recognizer.Threshold,
			WindowSize:         cfg.Recognizer.WindowSize,
			MinSpeechDuration:  cfg.Recognizer.GetMinSpeechDuration(),
			MinSilenceDuration: cfg.Recognizer.GetMinSilenceDuration(),
		},
	})
	if err != nil {
		logger.Error("Failed to create recognition engine", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Recognition engine initialized",
		slog.String("backend", cfg.Recognizer.Backend),
	)

	// Initialize synthesis backend
	synth, err := synthesis.New(synthesis.Config{
		Backend:    cfg.Synthesis.Backend,
		SampleRate: cfg.Audio.SampleRate,
		HTTP: synthesis.HTTPConfig{
			Endpoint:      cfg.Synthesis.Endpoint,
			APIKey:        cfg.Synthesis.APIKey,
			Timeout:       cfg.Synthesis.GetTimeoutDuration(),
			MaxRetries:    cfg.Synthesis.MaxRetries,
			MaxConcurrent: cfg.Synthesis.MaxConcurrent,
		},
	})
	if err != nil {
		logger.Error("Failed to create synthesizer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Synthesizer initialized",
		slog.String("backend", cfg.Synthesis.Backend),
	)

	// Initialize microphone source
	mic, err := capture.NewMicSource(cfg.Audio.SampleRate)
	if err != nil {
		logger.Error("Failed to open microphone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize playback dispatcher
	var sink playback.Sink
	if cfg.Playback.Player != "" {
		sink, err = playback.NewCommandSink(cfg.Playback.Player)
		if err != nil {
			logger.Error("Failed to create player", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		sink = playback.NopSink{}
		logger.Warn("No player configured, replies are written but not played")
	}

	dispatcher, err := playback.NewDispatcher(sink, cfg.Playback.OutputDir, cfg.Synthesis.Gain, logger)
	if err != nil {
		logger.Error("Failed to create playback dispatcher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Playback dispatcher initialized",
		slog.String("output", dispatcher.OutputPath()),
	)

	// Open the recognition session and wire the pipeline
	session, err := recognizer.NewSession(engine, cfg.Audio.SampleRate)
	if err != nil {
		logger.Error("Failed to open recognition session", slog.String("error", err.Error()))
		os.Exit(1)
	}

	controller := pipeline.NewController(pipeline.Config{
		SampleRate:          cfg.Audio.SampleRate,
		SpeakerID:           cfg.Synthesis.SpeakerID,
		Speed:               cfg.Synthesis.Speed,
		ResumeAfterPlayback: cfg.Playback.ResumeAfterPlayback,
		OnUpdate: func(update recognizer.Update) {
			if update.Partial != "" {
				logger.Debug("Partial result", slog.String("text", update.Partial))
			}
		},
	}, mic, session, synth, dispatcher, appMetrics, logger)

	// Initialize HTTP API server (if enabled)
	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg.HTTP, logger, cfg, controller, appMetrics)
		logger.Info("HTTP API server initialized",
			slog.String("address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
		)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Start recording
	if err := controller.StartRecording(); err != nil {
		logger.Error("Failed to start recording", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, listening on the microphone...")

	sig := <-sigChan
	logger.Info("Received shutdown signal", slog.String("signal", sig.String()))

	logger.Info("Starting graceful shutdown...")

	// Stop HTTP server first (stop accepting new requests)
	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
		}
	}

	// Stop the pipeline (closes the recognition stream)
	if err := controller.Close(); err != nil {
		logger.Error("Error stopping pipeline", slog.String("error", err.Error()))
	}

	// Release the engines after the stream that used them
	if err := engine.Close(); err != nil {
		logger.Error("Error closing recognition engine", slog.String("error", err.Error()))
	}
	if err := synth.Close(); err != nil {
		logger.Error("Error closing synthesizer", slog.String("error", err.Error()))
	}
	if err := mic.Close(); err != nil {
		logger.Error("Error closing microphone", slog.String("error", err.Error()))
	}

	// Final statistics
	logger.Info("Final transcript",
		slog.Int("utterances", controller.Transcript().Len()),
	)

	logger.Info("Service stopped")
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	// Configure handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		// Default to text format
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
