package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mpetrenko/voicefront/internal/capture"
	"github.com/mpetrenko/voicefront/internal/metrics"
	"github.com/mpetrenko/voicefront/internal/playback"
	"github.com/mpetrenko/voicefront/internal/recognizer"
	"github.com/mpetrenko/voicefront/internal/synthesis"
)

// ErrAlreadyRecording is returned when StartRecording is called while a
// recording session is already active.
var ErrAlreadyRecording = errors.New("pipeline: recording already in progress")

// Config holds pipeline behavior settings.
type Config struct {
	SampleRate int
	SpeakerID  int
	Speed      float32
	// ResumeAfterPlayback re-opens the microphone automatically once a
	// reply has finished playing. When false the user restarts capture.
	ResumeAfterPlayback bool
	// OnUpdate is invoked for every processed chunk with the resulting
	// session update. Optional.
	OnUpdate func(recognizer.Update)
}

// Controller connects capture to recognition to synthesis to playback.
// Captured chunks go through an ordered queue into a single consumer
// goroutine, so the recognition stream sees them in arrival order.
type Controller struct {
	cfg        Config
	source     capture.Source
	session    *recognizer.Session
	synth      synthesis.Synthesizer
	dispatcher *playback.Dispatcher
	metrics    *metrics.Metrics
	logger     *slog.Logger

	mu         sync.Mutex
	recording  bool
	closed     bool
	queue      *chunkQueue
	loopCancel context.CancelFunc
	loopDone   chan struct{}
	currentJob *playback.Job

	replies sync.WaitGroup
}

// NewController creates a pipeline controller. All collaborators are
// owned by the caller except the recognition session, which the
// controller closes.
func NewController(cfg Config, source capture.Source, session *recognizer.Session,
	synth synthesis.Synthesizer, dispatcher *playback.Dispatcher,
	m *metrics.Metrics, logger *slog.Logger) *Controller {

	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}

	return &Controller{
		cfg:        cfg,
		source:     source,
		session:    session,
		synth:      synth,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
	}
}

// StartRecording opens the microphone and begins feeding chunks into the
// recognition stream. A second start while recording fails with
// ErrAlreadyRecording. Any reply still playing is cancelled so it cannot
// bleed into the new recording.
func (c *Controller) StartRecording() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("pipeline: controller is closed")
	}
	if c.recording {
		c.mu.Unlock()
		return ErrAlreadyRecording
	}

	if c.currentJob != nil {
		c.currentJob.Cancel()
		c.currentJob = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	queue := newChunkQueue()
	done := make(chan struct{})

	c.recording = true
	c.queue = queue
	c.loopCancel = cancel
	c.loopDone = done
	c.mu.Unlock()

	go c.consumeLoop(ctx, queue, done)

	err := c.source.Start(func(chunk []byte) {
		c.metrics.RecordChunkCaptured(len(chunk))
		queue.push(chunk)
		c.metrics.SetQueueDepth(queue.GetStats().Depth)
	})
	if err != nil {
		cancel()
		<-done
		c.mu.Lock()
		c.recording = false
		c.queue = nil
		c.loopCancel = nil
		c.loopDone = nil
		c.mu.Unlock()
		return err
	}

	c.metrics.SetRecordingActive(true)
	c.logger.Info("Recording started", slog.Int("sample_rate", c.cfg.SampleRate))

	return nil
}

// StopRecording closes the microphone and stops the consumer loop. Any
// in-progress partial text is abandoned, not finalized.
func (c *Controller) StopRecording() error {
	c.mu.Lock()
	if !c.recording {
		c.mu.Unlock()
		return nil
	}
	c.recording = false
	cancel := c.loopCancel
	done := c.loopDone
	queue := c.queue
	c.loopCancel = nil
	c.loopDone = nil
	c.queue = nil
	c.mu.Unlock()

	err := c.source.Stop()

	cancel()
	<-done
	queue.drain()

	c.metrics.SetRecordingActive(false)
	c.metrics.SetQueueDepth(0)
	c.logger.Info("Recording stopped",
		slog.Int("utterances", c.session.Transcript().Len()))

	return err
}

// ResumeRecording re-opens a microphone paused for reply playback.
func (c *Controller) ResumeRecording() error {
	c.mu.Lock()
	recording := c.recording
	c.mu.Unlock()

	if !recording {
		return errors.New("pipeline: no recording session to resume")
	}
	return c.source.Resume()
}

// IsRecording reports whether a recording session is active.
func (c *Controller) IsRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// Transcript returns the accumulated finalized utterances.
func (c *Controller) Transcript() *recognizer.Transcript {
	return c.session.Transcript()
}

// consumeLoop is the single consumer of the chunk queue. One goroutine
// per recording session keeps chunk order intact.
func (c *Controller) consumeLoop(ctx context.Context, queue *chunkQueue, done chan struct{}) {
	defer close(done)

	for {
		chunk, err := queue.pop(ctx)
		if err != nil {
			return
		}
		c.metrics.SetQueueDepth(queue.GetStats().Depth)

		update, err := c.session.ProcessChunk(chunk)
		if err != nil {
			if errors.Is(err, recognizer.ErrSessionClosed) {
				return
			}
			c.metrics.RecordDecodeError()
			c.logger.Warn("Dropping chunk",
				slog.Int("size", len(chunk)),
				slog.String("error", err.Error()))
			continue
		}
		c.metrics.RecordChunkProcessed()

		if c.cfg.OnUpdate != nil {
			c.cfg.OnUpdate(update)
		}

		if update.Finalized {
			c.metrics.RecordUtteranceFinalized()
			c.handleFinalized(ctx, update.Utterance)
		} else if update.Partial != "" {
			c.metrics.RecordPartialUpdate()
		}
	}
}

// handleFinalized pauses capture so the reply cannot echo back into the
// microphone, then synthesizes and plays it off the consumer goroutine.
func (c *Controller) handleFinalized(ctx context.Context, utt recognizer.Utterance) {
	if err := c.source.Pause(); err != nil {
		c.logger.Warn("Failed to pause capture", slog.String("error", err.Error()))
	}

	c.logger.Info("Utterance finalized",
		slog.Int("index", utt.Index),
		slog.String("id", utt.ID),
		slog.String("text", utt.Text))

	c.replies.Add(1)
	go func() {
		defer c.replies.Done()
		c.speakReply(ctx, utt)
	}()
}

func (c *Controller) speakReply(ctx context.Context, utt recognizer.Utterance) {
	c.metrics.RecordSynthesisRequest()
	start := time.Now()

	reply, err := c.synth.Generate(ctx, utt.Text, c.cfg.SpeakerID, c.cfg.Speed)
	if err != nil {
		c.metrics.RecordSynthesisFailure(time.Since(start).Seconds())
		if ctx.Err() == nil {
			c.logger.Error("Synthesis failed",
				slog.Int("utterance", utt.Index),
				slog.String("error", err.Error()))
		}
		c.maybeResume()
		return
	}
	c.metrics.RecordSynthesisSuccess(time.Since(start).Seconds())

	// Playback is tied to its own Job, not the recording session:
	// stopping capture lets the reply finish, a new start cancels it.
	job, err := c.dispatcher.Dispatch(context.Background(), reply)
	if err != nil {
		c.logger.Error("Playback dispatch failed",
			slog.Int("utterance", utt.Index),
			slog.String("error", err.Error()))
		c.maybeResume()
		return
	}
	if job == nil {
		c.maybeResume()
		return
	}
	c.metrics.RecordPlaybackWrite(44 + 2*len(reply.Samples))

	c.mu.Lock()
	c.currentJob = job
	c.mu.Unlock()

	<-job.Done()
	if errors.Is(job.Err(), context.Canceled) {
		c.metrics.RecordPlaybackCancelled()
	}

	c.mu.Lock()
	if c.currentJob == job {
		c.currentJob = nil
	}
	c.mu.Unlock()

	c.maybeResume()
}

// maybeResume re-opens the microphone after playback when the resume
// policy allows it. Otherwise capture stays paused until the user acts.
func (c *Controller) maybeResume() {
	if !c.cfg.ResumeAfterPlayback {
		return
	}

	c.mu.Lock()
	recording := c.recording
	c.mu.Unlock()

	if !recording {
		return
	}
	if err := c.source.Resume(); err != nil {
		c.logger.Warn("Failed to resume capture", slog.String("error", err.Error()))
	}
}

// Close stops recording, cancels any playback and frees the recognition
// stream. The caller closes the engine and synthesizer afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	job := c.currentJob
	c.currentJob = nil
	c.mu.Unlock()

	err := c.StopRecording()

	if job != nil {
		job.Cancel()
	}
	c.replies.Wait()

	if cerr := c.session.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
