package recognizer

import (
	"strings"
	"testing"
	"time"
)

func newTestEnergyStream(t *testing.T) Stream {
	t.Helper()

	engine, err := NewEnergyEngine(16000, EndpointConfig{
		Threshold:          0.05,
		WindowSize:         160, // 10ms at 16kHz
		MinSpeechDuration:  50 * time.Millisecond,
		MinSilenceDuration: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewEnergyEngine failed: %v", err)
	}

	stream, err := engine.CreateStream()
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}
	return stream
}

// feed pushes samples and drains the decode loop the way a session would.
func feed(stream Stream, samples []float32) {
	stream.AcceptWaveform(16000, samples)
	for stream.IsReady() {
		stream.Decode()
	}
}

func loud(n int) []float32 {
	samples := make([]float32, n)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 0.5
		} else {
			samples[i] = -0.5
		}
	}
	return samples
}

func TestEnergyStreamSilenceNeverEndpoints(t *testing.T) {
	stream := newTestEnergyStream(t)

	feed(stream, make([]float32, 16000)) // 1s of silence

	if stream.IsEndpoint() {
		t.Error("Endpoint fired on pure silence")
	}
	if stream.Result() != "" {
		t.Errorf("Expected empty result for silence, got %q", stream.Result())
	}
}

func TestEnergyStreamEndpointsAfterSpeechThenSilence(t *testing.T) {
	stream := newTestEnergyStream(t)

	feed(stream, loud(3200))              // 200ms of voice
	feed(stream, make([]float32, 3200))   // 200ms of silence

	if !stream.IsEndpoint() {
		t.Fatal("Expected endpoint after speech followed by silence")
	}
	if !strings.HasPrefix(stream.Result(), "(speech ") {
		t.Errorf("Unexpected result %q", stream.Result())
	}
}

func TestEnergyStreamNoEndpointWhileSpeaking(t *testing.T) {
	stream := newTestEnergyStream(t)

	feed(stream, loud(16000)) // 1s of continuous voice

	if stream.IsEndpoint() {
		t.Error("Endpoint fired during continuous speech")
	}
	if stream.Result() == "" {
		t.Error("Expected non-empty partial result during speech")
	}
}

func TestEnergyStreamResetClearsEndpoint(t *testing.T) {
	// Finalization is idempotent per utterance: after Reset, IsEndpoint
	// must report false until new non-silent audio is fed.
	stream := newTestEnergyStream(t)

	feed(stream, loud(3200))
	feed(stream, make([]float32, 3200))
	if !stream.IsEndpoint() {
		t.Fatal("Expected endpoint before reset")
	}

	stream.Reset()

	if stream.IsEndpoint() {
		t.Error("Endpoint still set immediately after reset")
	}
	if stream.Result() != "" {
		t.Errorf("Expected empty result after reset, got %q", stream.Result())
	}

	// More silence alone must not re-trigger the endpoint.
	feed(stream, make([]float32, 6400))
	if stream.IsEndpoint() {
		t.Error("Endpoint re-fired on silence after reset")
	}

	// A new utterance endpoints again.
	feed(stream, loud(3200))
	feed(stream, make([]float32, 3200))
	if !stream.IsEndpoint() {
		t.Error("Expected endpoint for the next utterance")
	}
}

func TestEnergyEngineValidation(t *testing.T) {
	if _, err := NewEnergyEngine(0, EndpointConfig{}); err == nil {
		t.Error("Expected error for zero sample rate")
	}

	if _, err := NewEnergyEngine(16000, EndpointConfig{Threshold: 1.5}); err == nil {
		t.Error("Expected error for out-of-range threshold")
	}
}

func TestEnergyEngineClosedCreateStream(t *testing.T) {
	engine, err := NewEnergyEngine(16000, EndpointConfig{})
	if err != nil {
		t.Fatalf("NewEnergyEngine failed: %v", err)
	}

	if err := engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := engine.CreateStream(); err == nil {
		t.Error("Expected error creating a stream on a closed engine")
	}
}
