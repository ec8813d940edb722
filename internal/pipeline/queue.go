package pipeline

import (
	"context"
	"sync"
)

// chunkQueue is an unbounded FIFO of PCM chunks between the capture
// callback and the single consumer goroutine. Chunks leave in exactly
// the order they arrived; there is no reordering.
type chunkQueue struct {
	mu     sync.Mutex
	chunks [][]byte
	signal chan struct{}

	totalPushed uint64
	maxDepth    int
}

// QueueStats represents queue statistics for monitoring.
type QueueStats struct {
	Depth       int    `json:"depth"`
	TotalPushed uint64 `json:"total_pushed"`
	MaxDepth    int    `json:"max_depth"`
}

func newChunkQueue() *chunkQueue {
	return &chunkQueue{
		signal: make(chan struct{}, 1),
	}
}

// push appends a copy of the chunk. Safe to call from the audio callback.
func (q *chunkQueue) push(chunk []byte) {
	buf := make([]byte, len(chunk))
	copy(buf, chunk)

	q.mu.Lock()
	q.chunks = append(q.chunks, buf)
	q.totalPushed++
	if len(q.chunks) > q.maxDepth {
		q.maxDepth = len(q.chunks)
	}
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// pop removes the oldest chunk, blocking until one is available or the
// context is cancelled.
func (q *chunkQueue) pop(ctx context.Context) ([]byte, error) {
	for {
		q.mu.Lock()
		if len(q.chunks) > 0 {
			chunk := q.chunks[0]
			q.chunks = q.chunks[1:]
			q.mu.Unlock()
			return chunk, nil
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// drain discards all pending chunks.
func (q *chunkQueue) drain() {
	q.mu.Lock()
	q.chunks = nil
	q.mu.Unlock()
}

// GetStats returns current queue statistics.
func (q *chunkQueue) GetStats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return QueueStats{
		Depth:       len(q.chunks),
		TotalPushed: q.totalPushed,
		MaxDepth:    q.maxDepth,
	}
}
