package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the voice front-end
type Metrics struct {
	// Capture metrics
	ChunksCaptured prometheus.Counter
	BytesCaptured  prometheus.Counter
	QueueDepth     prometheus.Gauge
	RecordingActive prometheus.Gauge

	// Recognition metrics
	ChunksProcessed     prometheus.Counter
	DecodeErrors        prometheus.Counter
	PartialUpdates      prometheus.Counter
	UtterancesFinalized prometheus.Counter

	// Synthesis metrics
	SynthesisRequests prometheus.Counter
	SynthesisFailures prometheus.Counter
	SynthesisDuration prometheus.Histogram

	// Playback metrics
	PlaybackWrites    prometheus.Counter
	PlaybackBytes     prometheus.Counter
	PlaybackCancelled prometheus.Counter

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Capture metrics
		ChunksCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_chunks_captured_total",
			Help: "Total number of PCM chunks captured from the microphone",
		}),
		BytesCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_bytes_captured_total",
			Help: "Total number of raw PCM bytes captured",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "voicefront_chunk_queue_depth",
			Help: "Current number of chunks waiting for recognition",
		}),
		RecordingActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "voicefront_recording_active",
			Help: "Whether the capture pipeline is currently recording (0 or 1)",
		}),

		// Recognition metrics
		ChunksProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_chunks_processed_total",
			Help: "Total number of chunks fed into the recognition stream",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_decode_errors_total",
			Help: "Total number of chunks rejected by the PCM decoder",
		}),
		PartialUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_partial_updates_total",
			Help: "Total number of partial recognition updates",
		}),
		UtterancesFinalized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_utterances_finalized_total",
			Help: "Total number of utterances committed to the transcript",
		}),

		// Synthesis metrics
		SynthesisRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_synthesis_requests_total",
			Help: "Total number of synthesis requests issued",
		}),
		SynthesisFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_synthesis_failures_total",
			Help: "Total number of failed synthesis requests",
		}),
		SynthesisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicefront_synthesis_duration_seconds",
			Help:    "Duration of synthesis requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),

		// Playback metrics
		PlaybackWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_playback_writes_total",
			Help: "Total number of replies written to the playback slot",
		}),
		PlaybackBytes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_playback_bytes_total",
			Help: "Total number of WAV bytes written for playback",
		}),
		PlaybackCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicefront_playback_cancelled_total",
			Help: "Total number of playback jobs cancelled before completion",
		}),

		// HTTP API metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voicefront_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voicefront_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordChunkCaptured records one captured chunk and its size
func (m *Metrics) RecordChunkCaptured(sizeBytes int) {
	m.ChunksCaptured.Inc()
	m.BytesCaptured.Add(float64(sizeBytes))
}

// SetQueueDepth sets the current chunk queue depth
func (m *Metrics) SetQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}

// SetRecordingActive sets the recording gauge
func (m *Metrics) SetRecordingActive(active bool) {
	if active {
		m.RecordingActive.Set(1)
	} else {
		m.RecordingActive.Set(0)
	}
}

// RecordChunkProcessed increments the chunks processed counter
func (m *Metrics) RecordChunkProcessed() {
	m.ChunksProcessed.Inc()
}

// RecordDecodeError increments the decode errors counter
func (m *Metrics) RecordDecodeError() {
	m.DecodeErrors.Inc()
}

// RecordPartialUpdate increments the partial updates counter
func (m *Metrics) RecordPartialUpdate() {
	m.PartialUpdates.Inc()
}

// RecordUtteranceFinalized increments the finalized utterances counter
func (m *Metrics) RecordUtteranceFinalized() {
	m.UtterancesFinalized.Inc()
}

// RecordSynthesisRequest increments the synthesis requests counter
func (m *Metrics) RecordSynthesisRequest() {
	m.SynthesisRequests.Inc()
}

// RecordSynthesisSuccess records a successful synthesis with its duration
func (m *Metrics) RecordSynthesisSuccess(durationSeconds float64) {
	m.SynthesisDuration.Observe(durationSeconds)
}

// RecordSynthesisFailure records a failed synthesis with its duration
func (m *Metrics) RecordSynthesisFailure(durationSeconds float64) {
	m.SynthesisFailures.Inc()
	m.SynthesisDuration.Observe(durationSeconds)
}

// RecordPlaybackWrite records one reply written to the playback slot
func (m *Metrics) RecordPlaybackWrite(sizeBytes int) {
	m.PlaybackWrites.Inc()
	m.PlaybackBytes.Add(float64(sizeBytes))
}

// RecordPlaybackCancelled increments the cancelled playback counter
func (m *Metrics) RecordPlaybackCancelled() {
	m.PlaybackCancelled.Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
