package chat

import "fmt"

// Personality selects the assistant's answering style. The backend maps each
// name to a sampling temperature; the client only ever transmits the name.
type Personality string

const (
	PersonalityFactual  Personality = "factual"
	PersonalityFriendly Personality = "friendly"
	PersonalityHumorous Personality = "humorous"
)

// Personalities lists the selectable personalities in display order.
func Personalities() []Personality {
	return []Personality{PersonalityFactual, PersonalityFriendly, PersonalityHumorous}
}

// Valid reports whether p is one of the known personalities.
func (p Personality) Valid() bool {
	switch p {
	case PersonalityFactual, PersonalityFriendly, PersonalityHumorous:
		return true
	}
	return false
}

// Session binds an uploaded document's generated summary to the opaque
// identifier the backend expects on every subsequent question.
//
// ID is empty until the upload endpoint accepts a document, becomes non-empty
// exactly once, and never reverts within a run. Summary is set together with
// ID and is immutable afterwards. Personality may only change while ID is
// still empty.
type Session struct {
	ID          string      `json:"session_id"`
	Personality Personality `json:"personality"`
	Summary     string      `json:"summary,omitempty"`
}

// Active reports whether a document has been processed and the session can be
// used for questions.
func (s Session) Active() bool {
	return s.ID != ""
}

var (
	// ErrPersonalityLocked is returned when changing personality after the
	// session has started; the selector is frozen once a document is uploaded.
	ErrPersonalityLocked = fmt.Errorf("session: personality cannot change after upload")

	// ErrUnknownPersonality is returned for a personality outside the known set.
	ErrUnknownPersonality = fmt.Errorf("session: unknown personality")

	// ErrSessionActive is returned when submitting a second document; one
	// session per run, there is no reset operation.
	ErrSessionActive = fmt.Errorf("session: document already uploaded")
)
