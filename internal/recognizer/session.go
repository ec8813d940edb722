package recognizer

import (
	"errors"
	"sync"

	"github.com/mpetrenko/voicefront/internal/audio"
)

// ErrSessionClosed is returned when a chunk is fed to a session whose
// stream has been freed.
var ErrSessionClosed = errors.New("recognizer: session has no open stream")

// Update describes the session state after processing one chunk.
type Update struct {
	// Partial is the best-effort decode of the in-progress utterance.
	// It is overwritten on each chunk and empty when the chunk finalized
	// an utterance.
	Partial string
	// Finalized reports that an endpoint fired with non-empty text.
	Finalized bool
	// Utterance is the finalized result, valid only when Finalized is set.
	Utterance Utterance
}

// Session wraps one streaming recognition context for one recording
// session. It owns the decode/endpoint loop: chunks are decoded to
// normalized samples, fed to the stream, drained until the engine has no
// more ready audio, and checked for an endpoint. The stream handle is the
// single owned resource; all access is serialized by the session mutex.
type Session struct {
	sampleRate int
	transcript *Transcript

	mu     sync.Mutex
	stream Stream
}

// NewSession opens one recognition stream on the engine. The caller must
// Close the session before closing the engine.
func NewSession(engine Engine, sampleRate int) (*Session, error) {
	stream, err := engine.CreateStream()
	if err != nil {
		return nil, err
	}

	return &Session{
		sampleRate: sampleRate,
		transcript: NewTranscript(),
		stream:     stream,
	}, nil
}

// ProcessChunk feeds one raw PCM chunk through the decode loop and returns
// the resulting session update. Chunks must be processed in arrival order;
// the session serializes concurrent callers but does not reorder.
func (s *Session) ProcessChunk(chunk []byte) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return Update{}, ErrSessionClosed
	}

	samples, err := audio.DecodePCM16(chunk)
	if err != nil {
		return Update{}, err
	}

	s.stream.AcceptWaveform(s.sampleRate, samples)

	// Drain every ready decode so the partial text reflects the most
	// decoded-so-far state after this chunk.
	for s.stream.IsReady() {
		s.stream.Decode()
	}

	text := s.stream.Result()

	// Empty partial text never triggers finalization; endpoint flags fire
	// on silence too.
	if s.stream.IsEndpoint() && text != "" {
		utt := s.transcript.Append(text)
		s.stream.Reset()
		return Update{Finalized: true, Utterance: utt}, nil
	}

	return Update{Partial: text}, nil
}

// Transcript returns the accumulator of finalized utterances.
func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// IsOpen reports whether the session still owns an open stream.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// Close frees the underlying stream. It is safe to call more than once;
// only the first call releases the stream.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return nil
	}

	err := s.stream.Close()
	s.stream = nil
	return err
}
