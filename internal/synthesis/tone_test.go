package synthesis

import (
	"context"
	"testing"
	"time"
)

func TestNewToneSynthesizerValidation(t *testing.T) {
	if _, err := NewToneSynthesizer(0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
	if _, err := NewToneSynthesizer(-16000); err == nil {
		t.Error("Expected error for negative sample rate")
	}
	if _, err := NewToneSynthesizer(16000); err != nil {
		t.Errorf("Unexpected error for valid sample rate: %v", err)
	}
}

func TestToneGenerateEmptyText(t *testing.T) {
	syn, err := NewToneSynthesizer(16000)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}

	for _, text := range []string{"", "   ", "\t\n"} {
		out, err := syn.Generate(context.Background(), text, 0, 1.0)
		if err != nil {
			t.Errorf("Unexpected error for blank text %q: %v", text, err)
		}
		if len(out.Samples) != 0 {
			t.Errorf("Expected no samples for blank text %q, got %d", text, len(out.Samples))
		}
		if out.SampleRate != 16000 {
			t.Errorf("Expected sample rate 16000, got %d", out.SampleRate)
		}
	}
}

func TestToneGenerateDeterministic(t *testing.T) {
	syn, err := NewToneSynthesizer(16000)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}

	first, err := syn.Generate(context.Background(), "hello world", 0, 1.0)
	if err != nil {
		t.Fatalf("First generate failed: %v", err)
	}
	second, err := syn.Generate(context.Background(), "hello world", 0, 1.0)
	if err != nil {
		t.Fatalf("Second generate failed: %v", err)
	}

	if len(first.Samples) != len(second.Samples) {
		t.Fatalf("Sample counts differ: %d vs %d", len(first.Samples), len(second.Samples))
	}
	for i := range first.Samples {
		if first.Samples[i] != second.Samples[i] {
			t.Fatalf("Samples differ at index %d: %f vs %f", i, first.Samples[i], second.Samples[i])
		}
	}
}

func TestToneGenerateDurationBounds(t *testing.T) {
	syn, err := NewToneSynthesizer(16000)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}

	short, err := syn.Generate(context.Background(), "hi", 0, 1.0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if short.Duration() < toneMinDuration {
		t.Errorf("Short text duration %v below minimum %v", short.Duration(), toneMinDuration)
	}

	longText := ""
	for i := 0; i < 200; i++ {
		longText += "a"
	}
	long, err := syn.Generate(context.Background(), longText, 0, 1.0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if long.Duration() > toneMaxDuration {
		t.Errorf("Long text duration %v exceeds maximum %v", long.Duration(), toneMaxDuration)
	}
}

func TestToneGenerateSpeedScalesDuration(t *testing.T) {
	syn, err := NewToneSynthesizer(16000)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}

	normal, err := syn.Generate(context.Background(), "a reasonably long test sentence", 0, 1.0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	fast, err := syn.Generate(context.Background(), "a reasonably long test sentence", 0, 2.0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(fast.Samples) >= len(normal.Samples) {
		t.Errorf("Expected speed 2.0 to shorten output: %d vs %d samples", len(fast.Samples), len(normal.Samples))
	}
}

func TestToneGenerateCancelledContext(t *testing.T) {
	syn, err := NewToneSynthesizer(16000)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := syn.Generate(ctx, "hello", 0, 1.0); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestToneGenerateSpeakerFrequency(t *testing.T) {
	syn, err := NewToneSynthesizer(16000)
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}

	base, err := syn.Generate(context.Background(), "test", 0, 1.0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	harmonic, err := syn.Generate(context.Background(), "test", 1, 1.0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Speaker 1 doubles the frequency, so zero crossings double too.
	if crossings(harmonic.Samples) <= crossings(base.Samples) {
		t.Errorf("Expected speaker 1 to produce more zero crossings: %d vs %d",
			crossings(harmonic.Samples), crossings(base.Samples))
	}
}

func crossings(samples []float32) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] < 0) != (samples[i] < 0) {
			n++
		}
	}
	return n
}

func TestNewBackendSelection(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "tone backend",
			cfg:  Config{Backend: "tone", SampleRate: 16000},
		},
		{
			name: "default backend",
			cfg:  Config{Backend: "", SampleRate: 16000},
		},
		{
			name: "http backend",
			cfg: Config{
				Backend: "http",
				HTTP:    HTTPConfig{Endpoint: "http://localhost:9000/generate", Timeout: time.Second},
			},
		},
		{
			name:    "unknown backend",
			cfg:     Config{Backend: "neural", SampleRate: 16000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syn, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if err := syn.Close(); err != nil {
				t.Errorf("Close failed: %v", err)
			}
		})
	}
}
