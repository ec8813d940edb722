package capture

import "errors"

// ErrAlreadyStarted is returned by Start when capture is already running.
var ErrAlreadyStarted = errors.New("capture: source already started")

// ChunkHandler receives one raw PCM chunk (little-endian 16-bit mono).
// The callback owns the slice; the source never reuses it.
type ChunkHandler func(chunk []byte)

// Source produces a stream of raw PCM chunks from a capture device.
// Pause keeps the device open but stops delivery; Resume restarts it.
type Source interface {
	Start(onChunk ChunkHandler) error
	Pause() error
	Resume() error
	Stop() error
	Close() error
}
