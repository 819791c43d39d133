package chat

import (
	"errors"
	"fmt"
	"iter"
	"sync"
)

// Replace errors. Both indicate a bug in the caller rather than a user-facing
// condition: in correct operation every placeholder id is replaced exactly once.
var (
	ErrMessageNotFound = errors.New("transcript: no message with that id")
	ErrAlreadyTerminal = errors.New("transcript: message already terminal")
)

// Transcript is the ordered record of all messages exchanged in one session.
//
// Messages are addressed by stable id, never by position. The id is assigned at
// append time and Replace resolves it by lookup, so a deep-research placeholder
// written back after a slow call can never clobber a message that was appended
// in the meantime. Order is creation order and is never changed afterwards,
// even when a message is later mutated via Replace.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
	index    map[string]int // id -> position in messages
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		index: make(map[string]int),
	}
}

// Append adds a message at the end of the transcript and returns its id.
// If the message carries no id, one is assigned.
func (t *Transcript) Append(msg Message) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if msg.ID == "" {
		msg.ID = newMessageID()
	}
	t.index[msg.ID] = len(t.messages)
	t.messages = append(t.messages, msg)
	return msg.ID
}

// Replace overwrites the content of the pending message with the given id and
// marks it terminal (or pending, per the pending argument). It fails with
// ErrMessageNotFound for unknown ids and ErrAlreadyTerminal when the message
// has already been finalized; both are invariant violations, not user errors.
func (t *Transcript) Replace(id, content string, pending bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.index[id]
	if !ok {
		return fmt.Errorf("replace %s: %w", id, ErrMessageNotFound)
	}
	if !t.messages[pos].Pending {
		return fmt.Errorf("replace %s: %w", id, ErrAlreadyTerminal)
	}
	t.messages[pos].Content = content
	t.messages[pos].Pending = pending
	return nil
}

// All returns a read-only view of the transcript in creation order. The view
// is a snapshot taken at call time and can be iterated any number of times.
func (t *Transcript) All() iter.Seq[Message] {
	snapshot := t.Messages()
	return func(yield func(Message) bool) {
		for _, msg := range snapshot {
			if !yield(msg) {
				return
			}
		}
	}
}

// Messages returns a copy of the transcript in creation order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len reports the number of messages in the transcript.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
