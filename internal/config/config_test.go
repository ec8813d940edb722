package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate: 16000,
			Channels:   1,
			BitDepth:   16,
		},
		Recognizer: RecognizerConfig{
			Backend:            "energy",
			ModelDir:           "./models",
			Threshold:          0.015,
			WindowSize:         512,
			MinSpeechDuration:  0.2,
			MinSilenceDuration: 0.5,
		},
		Synthesis: SynthesisConfig{
			Backend:   "tone",
			SpeakerID: 0,
			Speed:     1.0,
			Gain:      1.0,
		},
		Playback: PlaybackConfig{
			OutputDir: "/tmp/voicefront",
			Player:    "aplay",
		},
		HTTP: HTTPConfig{
			Enabled: true,
			Address: "127.0.0.1",
			Port:    8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Valid config failed validation: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "wrong sample rate",
			mutate: func(c *Config) { c.Audio.SampleRate = 8000 },
		},
		{
			name:   "stereo capture",
			mutate: func(c *Config) { c.Audio.Channels = 2 },
		},
		{
			name:   "wrong bit depth",
			mutate: func(c *Config) { c.Audio.BitDepth = 24 },
		},
		{
			name:   "unknown recognizer backend",
			mutate: func(c *Config) { c.Recognizer.Backend = "neural" },
		},
		{
			name:   "threshold out of range",
			mutate: func(c *Config) { c.Recognizer.Threshold = 1.5 },
		},
		{
			name:   "window size too small",
			mutate: func(c *Config) { c.Recognizer.WindowSize = 64 },
		},
		{
			name:   "unknown synthesis backend",
			mutate: func(c *Config) { c.Synthesis.Backend = "parrot" },
		},
		{
			name: "http synthesis without endpoint",
			mutate: func(c *Config) {
				c.Synthesis.Backend = "http"
				c.Synthesis.Endpoint = ""
			},
		},
		{
			name:   "zero synthesis speed",
			mutate: func(c *Config) { c.Synthesis.Speed = 0 },
		},
		{
			name:   "zero synthesis gain",
			mutate: func(c *Config) { c.Synthesis.Gain = 0 },
		},
		{
			name:   "empty playback dir",
			mutate: func(c *Config) { c.Playback.OutputDir = "" },
		},
		{
			name: "http enabled without address",
			mutate: func(c *Config) {
				c.HTTP.Enabled = true
				c.HTTP.Address = ""
			},
		},
		{
			name:   "invalid log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
		},
		{
			name:   "invalid log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestHTTPDisabledSkipsValidation(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP = HTTPConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Disabled HTTP should not be validated: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	yaml := `
audio:
  sample_rate: 16000
  channels: 1
  bit_depth: 16
recognizer:
  backend: energy
  model_dir: ./models
  threshold: 0.02
  window_size: 512
  min_speech_duration: 0.2
  min_silence_duration: 0.5
synthesis:
  backend: tone
  speaker_id: 1
  speed: 1.2
  gain: 1.0
playback:
  output_dir: /tmp/voicefront
  player: aplay
  resume_after_playback: true
http:
  enabled: false
logging:
  level: debug
  format: text
  output: stderr
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Synthesis.SpeakerID != 1 || cfg.Synthesis.Speed != 1.2 {
		t.Errorf("Unexpected synthesis config: %+v", cfg.Synthesis)
	}
	if !cfg.Playback.ResumeAfterPlayback {
		t.Error("Expected resume_after_playback to be true")
	}
	if cfg.Recognizer.GetMinSpeechDuration() != 200*time.Millisecond {
		t.Errorf("Unexpected min speech duration: %v", cfg.Recognizer.GetMinSpeechDuration())
	}
	if cfg.Recognizer.GetMinSilenceDuration() != 500*time.Millisecond {
		t.Errorf("Unexpected min silence duration: %v", cfg.Recognizer.GetMinSilenceDuration())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("audio: [not a mapping"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("audio:\n  sample_rate: 44100\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for wrong sample rate")
	}
}

func TestSynthesisTimeoutDuration(t *testing.T) {
	s := SynthesisConfig{Timeout: 15}
	if s.GetTimeoutDuration() != 15*time.Second {
		t.Errorf("Unexpected timeout duration: %v", s.GetTimeoutDuration())
	}
}
