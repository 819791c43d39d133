package chat

import "github.com/google/uuid"

// Sender identifies who authored a transcript message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one entry in the conversation transcript.
//
// ID is assigned when the message is appended and never changes. Content is
// immutable once the message is terminal; for a pending placeholder it is
// overwritten exactly once, when the real answer (or an error) arrives.
type Message struct {
	ID      string `json:"id"`
	Sender  Sender `json:"sender"`
	Content string `json:"content"`
	Pending bool   `json:"pending,omitempty"` // true only while awaiting a deep-research answer
}

func newMessageID() string {
	return uuid.NewString()
}
