package capture

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// MicSource captures mono 16-bit PCM from the default microphone and
// delivers it chunk by chunk to a single handler.
type MicSource struct {
	ctx        *malgo.AllocatedContext
	sampleRate uint32

	mu      sync.Mutex
	device  *malgo.Device
	onChunk ChunkHandler
	started bool
	paused  bool
}

// NewMicSource creates a microphone source. Call Close when done.
func NewMicSource(sampleRate int) (*MicSource, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("capture: sample rate must be positive, got %d", sampleRate)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}

	return &MicSource{
		ctx:        ctx,
		sampleRate: uint32(sampleRate),
	}, nil
}

// Start opens the default capture device and begins delivering chunks.
// A second Start without an intervening Stop fails.
func (m *MicSource) Start(onChunk ChunkHandler) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.onChunk = onChunk
	m.started = true
	m.paused = false
	m.mu.Unlock()

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceCfg.Capture.Format = malgo.FormatS16
	deviceCfg.Capture.Channels = 1
	deviceCfg.SampleRate = m.sampleRate

	callbacks := malgo.DeviceCallbacks{
		Data: m.onData,
	}

	device, err := malgo.InitDevice(m.ctx.Context, deviceCfg, callbacks)
	if err != nil {
		m.reset()
		return fmt.Errorf("initializing capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		m.reset()
		return fmt.Errorf("starting capture device: %w", err)
	}

	m.mu.Lock()
	m.device = device
	m.mu.Unlock()

	return nil
}

// Pause stops the device without releasing it, so no chunks arrive
// while a reply is playing.
func (m *MicSource) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started || m.paused {
		return nil
	}
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			return fmt.Errorf("pausing capture device: %w", err)
		}
	}
	m.paused = true
	return nil
}

// Resume restarts a paused device.
func (m *MicSource) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started || !m.paused {
		return nil
	}
	if m.device != nil {
		if err := m.device.Start(); err != nil {
			return fmt.Errorf("resuming capture device: %w", err)
		}
	}
	m.paused = false
	return nil
}

// Stop releases the device. The source can be started again afterwards.
func (m *MicSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}
	m.started = false
	m.paused = false
	m.onChunk = nil
	return nil
}

// Close stops capture and releases the audio context.
func (m *MicSource) Close() error {
	if err := m.Stop(); err != nil {
		return err
	}

	if m.ctx != nil {
		if err := m.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninitializing audio context: %w", err)
		}
		m.ctx.Free()
		m.ctx = nil
	}
	return nil
}

// onData is the malgo callback invoked when audio frames are available.
// Mono S16 means two bytes per frame.
func (m *MicSource) onData(_, pSample []byte, frameCount uint32) {
	m.mu.Lock()
	handler := m.onChunk
	paused := m.paused
	m.mu.Unlock()

	if handler == nil || paused || len(pSample) == 0 {
		return
	}

	chunk := make([]byte, len(pSample))
	copy(chunk, pSample)
	handler(chunk)
}

func (m *MicSource) reset() {
	m.mu.Lock()
	m.started = false
	m.onChunk = nil
	m.mu.Unlock()
}
