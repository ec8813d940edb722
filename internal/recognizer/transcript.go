package recognizer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Utterance is one finalized recognition result.
type Utterance struct {
	Index int       `json:"index"`
	ID    string    `json:"id"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// Transcript accumulates finalized utterances. It only grows, and the index
// only increments, on endpoint events - never on partial results. The
// display text shows the newest utterance first.
type Transcript struct {
	mu      sync.RWMutex
	entries []Utterance
}

// NewTranscript creates an empty transcript accumulator.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append finalizes text into the transcript and returns the new utterance
// with its monotonically increasing index.
func (t *Transcript) Append(text string) Utterance {
	t.mu.Lock()
	defer t.mu.Unlock()

	utt := Utterance{
		Index: len(t.entries),
		ID:    uuid.NewString(),
		Text:  text,
		At:    time.Now(),
	}
	t.entries = append(t.entries, utt)

	return utt
}

// Len returns the number of finalized utterances.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Utterances returns a snapshot of all finalized utterances in
// finalization order.
func (t *Transcript) Utterances() []Utterance {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Utterance, len(t.entries))
	copy(out, t.entries)
	return out
}

// Display renders the running transcript with the newest utterance
// prepended first.
func (t *Transcript) Display() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var b strings.Builder
	for i := len(t.entries) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%d: %s\n", t.entries[i].Index, t.entries[i].Text)
	}
	return b.String()
}
