package synthesis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	toneBaseFrequency = 220.0
	toneAmplitude     = 0.5
	tonePerRune       = 60 * time.Millisecond
	toneMinDuration   = 300 * time.Millisecond
	toneMaxDuration   = 5 * time.Second
)

// ToneSynthesizer is a built-in backend that renders the reply as a sine
// tone whose length tracks the text length. It produces deterministic
// output and exists so the playback path can run without a real engine.
type ToneSynthesizer struct {
	sampleRate int
}

// NewToneSynthesizer creates a tone backend emitting at the given rate.
func NewToneSynthesizer(sampleRate int) (*ToneSynthesizer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("synthesis: sample rate must be positive, got %d", sampleRate)
	}
	return &ToneSynthesizer{sampleRate: sampleRate}, nil
}

// Generate renders a sine tone for the text. Empty text yields empty audio
// so callers can short-circuit playback. The speaker ID selects a harmonic
// of the base frequency and speed divides the duration.
func (t *ToneSynthesizer) Generate(ctx context.Context, text string, speakerID int, speed float32) (Audio, error) {
	if err := ctx.Err(); err != nil {
		return Audio{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Audio{SampleRate: t.sampleRate}, nil
	}

	if speed <= 0 {
		speed = 1.0
	}
	if speakerID < 0 {
		speakerID = 0
	}

	duration := time.Duration(len([]rune(text))) * tonePerRune
	if duration < toneMinDuration {
		duration = toneMinDuration
	}
	if duration > toneMaxDuration {
		duration = toneMaxDuration
	}
	duration = time.Duration(float64(duration) / float64(speed))

	frequency := toneBaseFrequency * float64(speakerID+1)
	numSamples := int(duration.Seconds() * float64(t.sampleRate))

	samples := make([]float32, numSamples)
	for i := range samples {
		at := float64(i) / float64(t.sampleRate)
		samples[i] = float32(toneAmplitude * math.Sin(2*math.Pi*frequency*at))
	}

	return Audio{Samples: samples, SampleRate: t.sampleRate}, nil
}

// Close is a no-op; the tone backend holds no resources.
func (t *ToneSynthesizer) Close() error {
	return nil
}
