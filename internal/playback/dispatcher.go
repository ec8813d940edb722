package playback

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mpetrenko/voicefront/internal/audio"
	"github.com/mpetrenko/voicefront/internal/synthesis"
)

// outputFileName is the single reusable slot every reply is written to.
// A new dispatch overwrites the previous reply.
const outputFileName = "reply.wav"

// Sink plays a WAV file that has already been written to disk.
type Sink interface {
	Play(ctx context.Context, path string) error
}

// Job is one in-flight playback. Cancel stops it; Done closes when the
// sink has returned and Err carries its outcome.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Cancel aborts the playback. It is safe to call more than once and
// after the job has finished.
func (j *Job) Cancel() {
	j.cancel()
}

// Done returns a channel closed when playback has finished or been cancelled.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err returns the playback outcome. It is only meaningful after Done is closed.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *Job) finish(err error) {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
	close(j.done)
}

// Dispatcher encodes synthesized audio into the output slot and starts
// playback through the sink. Each Dispatch cancels nothing by itself;
// the caller cancels a previous Job before starting the next one.
type Dispatcher struct {
	sink   Sink
	dir    string
	gain   float64
	logger *slog.Logger

	mu sync.Mutex
}

// NewDispatcher creates a dispatcher writing into dir with the given
// encoding gain.
func NewDispatcher(sink Sink, dir string, gain float64, logger *slog.Logger) (*Dispatcher, error) {
	if sink == nil {
		return nil, fmt.Errorf("playback: sink cannot be nil")
	}
	if gain <= 0 {
		return nil, fmt.Errorf("playback: gain must be positive, got %f", gain)
	}
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Dispatcher{
		sink:   sink,
		dir:    dir,
		gain:   gain,
		logger: logger,
	}, nil
}

// OutputPath returns the path of the reusable output slot.
func (d *Dispatcher) OutputPath() string {
	return filepath.Join(d.dir, outputFileName)
}

// Dispatch encodes the audio, overwrites the output slot and starts
// playback. Empty audio is skipped and returns a nil job. The write is
// serialized so a dispatch never observes a half-written slot.
func (d *Dispatcher) Dispatch(ctx context.Context, a synthesis.Audio) (*Job, error) {
	if len(a.Samples) == 0 {
		d.logger.Debug("Skipping playback of empty audio")
		return nil, nil
	}

	data, err := audio.EncodeWAV(a.Samples, a.SampleRate, d.gain)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reply: %w", err)
	}

	path := d.OutputPath()

	d.mu.Lock()
	err = os.WriteFile(path, data, 0o644)
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to write reply file: %w", err)
	}

	d.logger.Debug("Wrote reply audio",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", a.Duration()))

	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer cancel()
		err := d.sink.Play(jobCtx, path)
		if err != nil && jobCtx.Err() == nil {
			d.logger.Error("Playback failed", slog.String("error", err.Error()))
		}
		job.finish(err)
	}()

	return job, nil
}
