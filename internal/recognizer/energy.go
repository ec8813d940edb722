package recognizer

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	defaultEnergyThreshold  = float32(0.015)
	defaultEnergyWindowSize = 512
	defaultMinSpeech        = 200 * time.Millisecond
	defaultMinSilence       = 500 * time.Millisecond
)

// EnergyEngine is a built-in, model-free recognition backend. It endpoints
// on RMS energy with minimum speech and silence windows and reports a
// duration placeholder instead of words, which is enough to exercise the
// whole capture-to-playback pipeline without native inference bindings.
type EnergyEngine struct {
	sampleRate int
	cfg        EndpointConfig

	mu     sync.Mutex
	closed bool
}

// NewEnergyEngine creates an energy-based engine. Zero config fields fall
// back to defaults.
func NewEnergyEngine(sampleRate int, cfg EndpointConfig) (*EnergyEngine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("recognizer: sample rate must be positive, got %d", sampleRate)
	}

	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("recognizer: threshold must be between 0 and 1, got %f", cfg.Threshold)
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = defaultEnergyThreshold
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultEnergyWindowSize
	}
	if cfg.MinSpeechDuration <= 0 {
		cfg.MinSpeechDuration = defaultMinSpeech
	}
	if cfg.MinSilenceDuration <= 0 {
		cfg.MinSilenceDuration = defaultMinSilence
	}

	return &EnergyEngine{sampleRate: sampleRate, cfg: cfg}, nil
}

// CreateStream opens a new endpointing stream.
func (e *EnergyEngine) CreateStream() (Stream, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("recognizer: engine is closed")
	}

	return &energyStream{
		sampleRate:        e.sampleRate,
		threshold:         e.cfg.Threshold,
		windowSize:        e.cfg.WindowSize,
		minSpeechSamples:  durationToSamples(e.cfg.MinSpeechDuration, e.sampleRate),
		minSilenceSamples: durationToSamples(e.cfg.MinSilenceDuration, e.sampleRate),
	}, nil
}

// Close marks the engine unusable for new streams.
func (e *EnergyEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func durationToSamples(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}

// energyStream tracks voice activity over fixed windows of pending audio.
type energyStream struct {
	sampleRate        int
	threshold         float32
	windowSize        int
	minSpeechSamples  int
	minSilenceSamples int

	pending       []float32
	sawSpeech     bool
	speechSamples int
	silenceRun    int
	endpoint      bool
	closed        bool
}

func (s *energyStream) AcceptWaveform(sampleRate int, samples []float32) {
	if s.closed {
		return
	}
	s.pending = append(s.pending, samples...)
}

func (s *energyStream) IsReady() bool {
	return !s.closed && len(s.pending) >= s.windowSize
}

func (s *energyStream) Decode() {
	if !s.IsReady() {
		return
	}

	window := s.pending[:s.windowSize]
	s.pending = s.pending[s.windowSize:]

	if rms(window) >= s.threshold {
		s.sawSpeech = true
		s.speechSamples += s.windowSize
		s.silenceRun = 0
	} else if s.sawSpeech {
		s.silenceRun += s.windowSize
	}

	if s.sawSpeech &&
		s.speechSamples >= s.minSpeechSamples &&
		s.silenceRun >= s.minSilenceSamples {
		s.endpoint = true
	}
}

// Result reports a duration placeholder once voice has been observed. Real
// backends return recognized words here.
func (s *energyStream) Result() string {
	if !s.sawSpeech {
		return ""
	}
	ms := s.speechSamples * 1000 / s.sampleRate
	return fmt.Sprintf("(speech %dms)", ms)
}

func (s *energyStream) IsEndpoint() bool {
	return s.endpoint
}

func (s *energyStream) Reset() {
	s.pending = s.pending[:0]
	s.sawSpeech = false
	s.speechSamples = 0
	s.silenceRun = 0
	s.endpoint = false
}

func (s *energyStream) Close() error {
	s.closed = true
	s.pending = nil
	return nil
}

// rms computes the root mean square energy of one window.
func rms(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}

	var energy float64
	for _, v := range samples {
		energy += float64(v) * float64(v)
	}

	return float32(math.Sqrt(energy / float64(len(samples))))
}
