package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpetrenko/voicefront/internal/config"
	"github.com/mpetrenko/voicefront/internal/metrics"
	"github.com/mpetrenko/voicefront/internal/recognizer"
)

// StatusProvider exposes the pipeline state the API reports on.
type StatusProvider interface {
	IsRecording() bool
	Transcript() *recognizer.Transcript
}

// HTTPServer provides HTTP API endpoints for monitoring
type HTTPServer struct {
	server   *http.Server
	logger   *slog.Logger
	config   *config.Config
	pipeline StatusProvider
	metrics  *metrics.Metrics

	startTime time.Time
}

// NewHTTPServer creates a new HTTP API server
func NewHTTPServer(cfg config.HTTPConfig, logger *slog.Logger,
	appConfig *config.Config, pipeline StatusProvider, m *metrics.Metrics) *HTTPServer {

	h := &HTTPServer{
		logger:    logger,
		config:    appConfig,
		pipeline:  pipeline,
		metrics:   m,
		startTime: time.Now(),
	}

	// Create HTTP server with routes
	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// setupRoutes configures HTTP API routes
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	// Health check endpoint
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))

	// Pipeline status endpoint
	mux.HandleFunc("/status", h.withMetrics("/status", h.handleStatus))

	// Transcript endpoint
	mux.HandleFunc("/transcript", h.withMetrics("/transcript", h.handleTranscript))

	// Configuration endpoint
	mux.HandleFunc("/config", h.withMetrics("/config", h.handleConfig))

	// Prometheus metrics endpoint (no metrics needed for metrics endpoint)
	mux.Handle("/metrics", promhttp.Handler())

	// Root endpoint with API documentation
	mux.HandleFunc("/", h.withMetrics("/", h.handleRoot))
}

// withMetrics wraps an HTTP handler with metrics collection
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		// Create a response writer wrapper to capture status code
		ww := &responseWriter{ResponseWriter: w, statusCode: 200}

		// Call the original handler
		handler(ww, r)

		// Record metrics
		duration := time.Since(startTime).Seconds()
		statusCode := fmt.Sprintf("%d", ww.statusCode)

		h.metrics.RecordHTTPRequest(r.Method, endpoint, statusCode, duration)

		// Record error if status code indicates an error
		if ww.statusCode >= 400 {
			errorType := "client_error"
			if ww.statusCode >= 500 {
				errorType = "server_error"
			}
			h.metrics.RecordHTTPError(r.Method, endpoint, errorType)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP API server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP API server...")

	return h.server.Shutdown(ctx)
}

// handleHealth implements the /health endpoint
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(h.startTime)

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    uptime.String(),
		"service": map[string]interface{}{
			"name":    "voicefront",
			"version": "1.0.0",
		},
		"components": map[string]interface{}{
			"pipeline": map[string]interface{}{
				"status":    "running",
				"recording": h.pipeline.IsRecording(),
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleStatus implements the /status endpoint
func (h *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	transcript := h.pipeline.Transcript()

	status := map[string]interface{}{
		"recording":  h.pipeline.IsRecording(),
		"utterances": transcript.Len(),
		"uptime":     time.Since(h.startTime).String(),
		"timestamp":  time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleTranscript implements the /transcript endpoint
func (h *HTTPServer) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	transcript := h.pipeline.Transcript()

	response := map[string]interface{}{
		"total_utterances": transcript.Len(),
		"timestamp":        time.Now().UTC(),
		"utterances":       transcript.Utterances(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleConfig implements the /config endpoint
func (h *HTTPServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Return sanitized configuration (remove sensitive data)
	sanitizedConfig := map[string]interface{}{
		"audio": map[string]interface{}{
			"sample_rate": h.config.Audio.SampleRate,
			"channels":    h.config.Audio.Channels,
			"bit_depth":   h.config.Audio.BitDepth,
		},
		"recognizer": map[string]interface{}{
			"backend":              h.config.Recognizer.Backend,
			"model_dir":            h.config.Recognizer.ModelDir,
			"threshold":            h.config.Recognizer.Threshold,
			"window_size":          h.config.Recognizer.WindowSize,
			"min_speech_duration":  h.config.Recognizer.MinSpeechDuration,
			"min_silence_duration": h.config.Recognizer.MinSilenceDuration,
		},
		"synthesis": map[string]interface{}{
			"backend":        h.config.Synthesis.Backend,
			"speaker_id":     h.config.Synthesis.SpeakerID,
			"speed":          h.config.Synthesis.Speed,
			"gain":           h.config.Synthesis.Gain,
			"endpoint":       h.config.Synthesis.Endpoint,
			"timeout":        h.config.Synthesis.Timeout,
			"max_retries":    h.config.Synthesis.MaxRetries,
			"max_concurrent": h.config.Synthesis.MaxConcurrent,
			// Note: API key is intentionally omitted for security
		},
		"playback": map[string]interface{}{
			"output_dir":            h.config.Playback.OutputDir,
			"player":                h.config.Playback.Player,
			"resume_after_playback": h.config.Playback.ResumeAfterPlayback,
		},
		"logging": map[string]interface{}{
			"level":  h.config.Logging.Level,
			"format": h.config.Logging.Format,
			"output": h.config.Logging.Output,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sanitizedConfig)
}

// handleRoot implements the / endpoint with API documentation
func (h *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	apiDoc := map[string]interface{}{
		"service": "Voice Front-End",
		"version": "1.0.0",
		"endpoints": map[string]interface{}{
			"GET /":           "API documentation",
			"GET /health":     "Service health check",
			"GET /status":     "Pipeline recording status",
			"GET /transcript": "Finalized utterances",
			"GET /config":     "Service configuration",
			"GET /metrics":    "Prometheus metrics",
		},
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiDoc)
}
