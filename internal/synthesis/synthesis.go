package synthesis

import (
	"context"
	"fmt"
	"time"
)

// Audio is one synthesized utterance: a sample-rate tagged sequence of
// normalized float samples. It is consumed exactly once by the WAV encoder.
type Audio struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the audio length at its declared rate.
func (a Audio) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(a.Samples)) / float64(a.SampleRate) * float64(time.Second))
}

// Synthesizer converts finalized transcript text into audio samples.
type Synthesizer interface {
	Generate(ctx context.Context, text string, speakerID int, speed float32) (Audio, error)
	Close() error
}

// HTTPConfig configures the remote synthesis backend.
type HTTPConfig struct {
	Endpoint      string
	APIKey        string
	Timeout       time.Duration
	MaxRetries    int
	MaxConcurrent int
}

// Config selects and configures a synthesis backend.
type Config struct {
	Backend    string
	SampleRate int
	HTTP       HTTPConfig
}

// New creates a Synthesizer based on the configured backend.
func New(cfg Config) (Synthesizer, error) {
	switch cfg.Backend {
	case "tone", "":
		return NewToneSynthesizer(cfg.SampleRate)
	case "http":
		return NewHTTPSynthesizer(cfg.HTTP)
	default:
		return nil, fmt.Errorf("synthesis: unknown backend %q (supported: tone, http)", cfg.Backend)
	}
}
