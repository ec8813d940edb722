package pipeline

import (
	"context"
	"testing"
	"time"
)

func TestChunkQueueOrder(t *testing.T) {
	q := newChunkQueue()

	q.push([]byte{1})
	q.push([]byte{2})
	q.push([]byte{3})

	for i := byte(1); i <= 3; i++ {
		chunk, err := q.pop(context.Background())
		if err != nil {
			t.Fatalf("pop failed: %v", err)
		}
		if len(chunk) != 1 || chunk[0] != i {
			t.Errorf("Expected chunk %d, got %v", i, chunk)
		}
	}
}

func TestChunkQueuePushCopies(t *testing.T) {
	q := newChunkQueue()

	buf := []byte{1, 2}
	q.push(buf)
	buf[0] = 99

	chunk, err := q.pop(context.Background())
	if err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if chunk[0] != 1 {
		t.Errorf("Queue shares the caller's buffer: got %v", chunk)
	}
}

func TestChunkQueuePopBlocksUntilPush(t *testing.T) {
	q := newChunkQueue()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.push([]byte{42})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	chunk, err := q.pop(ctx)
	if err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if chunk[0] != 42 {
		t.Errorf("Unexpected chunk: %v", chunk)
	}
}

func TestChunkQueuePopCancelled(t *testing.T) {
	q := newChunkQueue()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := q.pop(ctx); err == nil {
		t.Error("Expected error from cancelled pop")
	}
}

func TestChunkQueueStats(t *testing.T) {
	q := newChunkQueue()

	q.push([]byte{1})
	q.push([]byte{2})

	stats := q.GetStats()
	if stats.Depth != 2 {
		t.Errorf("Expected depth 2, got %d", stats.Depth)
	}
	if stats.TotalPushed != 2 {
		t.Errorf("Expected 2 pushed, got %d", stats.TotalPushed)
	}
	if stats.MaxDepth != 2 {
		t.Errorf("Expected max depth 2, got %d", stats.MaxDepth)
	}

	q.drain()
	if q.GetStats().Depth != 0 {
		t.Error("Expected empty queue after drain")
	}
}
