package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Audio      AudioConfig      `yaml:"audio"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Synthesis  SynthesisConfig  `yaml:"synthesis"`
	Playback   PlaybackConfig   `yaml:"playback"`
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AudioConfig contains capture parameters
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
	BitDepth   int `yaml:"bit_depth"`
}

// RecognizerConfig contains recognition engine configuration
type RecognizerConfig struct {
	Backend            string  `yaml:"backend"`
	ModelDir           string  `yaml:"model_dir"`
	Threshold          float32 `yaml:"threshold"`
	WindowSize         int     `yaml:"window_size"`          // samples
	MinSpeechDuration  float64 `yaml:"min_speech_duration"`  // seconds
	MinSilenceDuration float64 `yaml:"min_silence_duration"` // seconds
}

// SynthesisConfig contains reply synthesis configuration
type SynthesisConfig struct {
	Backend       string  `yaml:"backend"`
	SpeakerID     int     `yaml:"speaker_id"`
	Speed         float32 `yaml:"speed"`
	Gain          float64 `yaml:"gain"`
	Endpoint      string  `yaml:"endpoint"`
	APIKey        string  `yaml:"api_key"`
	Timeout       int     `yaml:"timeout"` // seconds
	MaxRetries    int     `yaml:"max_retries"`
	MaxConcurrent int     `yaml:"max_concurrent"`
}

// PlaybackConfig contains reply playback configuration
type PlaybackConfig struct {
	OutputDir           string `yaml:"output_dir"`
	Player              string `yaml:"player"`
	ResumeAfterPlayback bool   `yaml:"resume_after_playback"`
}

// HTTPConfig contains status API server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
	Enabled bool   `yaml:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Recognizer.Validate(); err != nil {
		return fmt.Errorf("recognizer config: %w", err)
	}

	if err := c.Synthesis.Validate(); err != nil {
		return fmt.Errorf("synthesis config: %w", err)
	}

	if err := c.Playback.Validate(); err != nil {
		return fmt.Errorf("playback config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	if a.SampleRate != 16000 {
		return fmt.Errorf("sample_rate must be 16000 Hz for streaming recognition, got %d", a.SampleRate)
	}

	if a.Channels != 1 {
		return fmt.Errorf("channels must be 1 (mono), got %d", a.Channels)
	}

	if a.BitDepth != 16 {
		return fmt.Errorf("bit_depth must be 16, got %d", a.BitDepth)
	}

	return nil
}

// Validate validates recognizer configuration
func (r *RecognizerConfig) Validate() error {
	switch r.Backend {
	case "", "energy":
	default:
		return fmt.Errorf("backend must be 'energy', got '%s'", r.Backend)
	}

	if r.Threshold < 0 || r.Threshold > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %f", r.Threshold)
	}

	if r.WindowSize != 0 && (r.WindowSize < 256 || r.WindowSize > 2048) {
		return fmt.Errorf("window_size must be between 256 and 2048 samples, got %d", r.WindowSize)
	}

	if r.MinSpeechDuration < 0 {
		return fmt.Errorf("min_speech_duration cannot be negative, got %f", r.MinSpeechDuration)
	}

	if r.MinSilenceDuration < 0 {
		return fmt.Errorf("min_silence_duration cannot be negative, got %f", r.MinSilenceDuration)
	}

	return nil
}

// Validate validates synthesis configuration
func (s *SynthesisConfig) Validate() error {
	switch s.Backend {
	case "", "tone":
	case "http":
		if s.Endpoint == "" {
			return fmt.Errorf("endpoint cannot be empty for http backend")
		}
		if s.Timeout < 1 {
			return fmt.Errorf("timeout must be at least 1 second, got %d", s.Timeout)
		}
		if s.MaxRetries < 0 {
			return fmt.Errorf("max_retries cannot be negative, got %d", s.MaxRetries)
		}
		if s.MaxConcurrent < 1 {
			return fmt.Errorf("max_concurrent must be at least 1, got %d", s.MaxConcurrent)
		}
	default:
		return fmt.Errorf("backend must be 'tone' or 'http', got '%s'", s.Backend)
	}

	if s.SpeakerID < 0 {
		return fmt.Errorf("speaker_id cannot be negative, got %d", s.SpeakerID)
	}

	if s.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %f", s.Speed)
	}

	if s.Gain <= 0 {
		return fmt.Errorf("gain must be positive, got %f", s.Gain)
	}

	return nil
}

// Validate validates playback configuration
func (p *PlaybackConfig) Validate() error {
	if p.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("http port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("http address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetMinSpeechDuration returns the minimum speech duration as a time.Duration
func (r *RecognizerConfig) GetMinSpeechDuration() time.Duration {
	return time.Duration(r.MinSpeechDuration * float64(time.Second))
}

// GetMinSilenceDuration returns the minimum silence duration as a time.Duration
func (r *RecognizerConfig) GetMinSilenceDuration() time.Duration {
	return time.Duration(r.MinSilenceDuration * float64(time.Second))
}

// GetTimeoutDuration returns the synthesis timeout as a time.Duration
func (s *SynthesisConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}
