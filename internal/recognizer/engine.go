package recognizer

import (
	"fmt"
	"time"
)

// Stream is one streaming recognition context. It accumulates incremental
// audio and internal decode state across chunks until Reset is called.
// Reset clears decode state but keeps the stream allocation reusable for
// the next utterance; Close frees it for good. Streams are not safe for
// concurrent use - the owning session serializes all calls.
type Stream interface {
	// AcceptWaveform feeds normalized float samples at the declared rate.
	AcceptWaveform(sampleRate int, samples []float32)
	// IsReady reports whether the stream has undecoded audio. Callers must
	// poll it until false before reading a result.
	IsReady() bool
	// Decode runs one decode step over pending audio.
	Decode()
	// Result returns the current partial transcript text.
	Result() string
	// IsEndpoint reports whether the engine detected the end of the
	// current utterance.
	IsEndpoint() bool
	// Reset clears decode state for the next utterance.
	Reset()
	// Close frees the stream.
	Close() error
}

// Engine creates recognition streams. Implementations wrap an external
// inference backend; the engine must outlive every stream it created.
type Engine interface {
	CreateStream() (Stream, error)
	Close() error
}

// EndpointConfig tunes endpoint detection for backends that implement it
// locally (currently the energy backend).
type EndpointConfig struct {
	Threshold          float32
	WindowSize         int
	MinSpeechDuration  time.Duration
	MinSilenceDuration time.Duration
}

// Config selects and configures a recognition backend.
type Config struct {
	Backend    string
	ModelDir   string
	SampleRate int
	Endpoint   EndpointConfig
}

// New creates an Engine based on the configured backend.
func New(cfg Config) (Engine, error) {
	switch cfg.Backend {
	case "energy", "":
		return NewEnergyEngine(cfg.SampleRate, cfg.Endpoint)
	default:
		return nil, fmt.Errorf("recognizer: unknown backend %q (supported: energy)", cfg.Backend)
	}
}
