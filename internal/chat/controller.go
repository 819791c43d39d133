// Package chat holds the conversation core: the transcript store, the session
// that binds an uploaded document to its backend identifier, and the
// controller that drives one question/answer exchange at a time.
package chat

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// LifecycleState reports whether an exchange is in flight.
type LifecycleState string

const (
	StateIdle    LifecycleState = "idle"
	StateSending LifecycleState = "sending"
)

// User-facing texts written into the transcript by the controller.
const (
	// PlaceholderText fills a pending message while deep research runs.
	PlaceholderText = "Conducting deep research..."

	// NoAnswerText stands in when the backend returns an empty answer.
	NoAnswerText = "The assistant returned no answer. Try rephrasing the question."

	// AnswerFailedText replaces or closes an exchange the backend failed.
	AnswerFailedText = "Sorry, something went wrong while answering. Please try again."

	// NoSessionText guides the user before any document is uploaded.
	NoSessionText = "Please upload a document first so I have something to work with."
)

// Controller owns the Session and Transcript and drives the request lifecycle
// for both the document hand-off and question/answer exchanges. At most one
// exchange is in flight at a time; Ask calls made while sending are dropped,
// which is the sole admission-control mechanism. The presentation layer gets
// read-only projections (Messages, State, Session, ToolsUsed) and change
// notifications through Hooks; it never mutates anything here.
type Controller struct {
	uploader  DocumentService
	assistant AssistantService
	hooks     Hooks
	timeout   time.Duration

	transcript *Transcript

	mu        sync.Mutex
	session   Session
	state     LifecycleState
	toolsUsed []string // advisory flag for the latest exchange, never a transcript entry
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	Uploader    DocumentService
	Assistant   AssistantService
	Personality Personality
	Hooks       Hooks         // optional; nil means no notifications
	Timeout     time.Duration // per-request deadline; zero means DefaultTimeout
}

// DefaultTimeout bounds one backend call. The deep-research path routinely
// takes tens of seconds, so this is deliberately generous.
const DefaultTimeout = 120 * time.Second

// NewController creates a controller with an empty transcript and an
// uninitialized session.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.Uploader == nil || cfg.Assistant == nil {
		return nil, fmt.Errorf("chat: controller requires uploader and assistant services")
	}
	personality := cfg.Personality
	if personality == "" {
		personality = PersonalityFactual
	}
	if !personality.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPersonality, cfg.Personality)
	}
	hooks := cfg.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		uploader:   cfg.Uploader,
		assistant:  cfg.Assistant,
		hooks:      hooks,
		timeout:    timeout,
		transcript: NewTranscript(),
		session:    Session{Personality: personality},
		state:      StateIdle,
	}, nil
}

// SetPersonality changes the assistant personality. Selection happens
// pre-chat: once a document has been uploaded the choice is frozen.
func (c *Controller) SetPersonality(p Personality) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPersonality, p)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Active() {
		return ErrPersonalityLocked
	}
	c.session.Personality = p
	return nil
}

// SubmitDocument uploads the file at path and, on success, stores the backend
// session id and summary. The transcript is untouched on success; on failure a
// single assistant-style message announcing the problem is appended and the
// session stays uninitialized.
func (c *Controller) SubmitDocument(ctx context.Context, path string) error {
	c.mu.Lock()
	if c.session.Active() {
		c.mu.Unlock()
		return ErrSessionActive
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.uploader.UploadDocument(ctx, path)
	if err != nil {
		c.append(Message{
			Sender:  SenderAssistant,
			Content: fmt.Sprintf("Document upload failed: %v", err),
		})
		return fmt.Errorf("submit document: %w", err)
	}

	c.mu.Lock()
	c.session.ID = res.SessionID
	c.session.Summary = res.Summary
	c.mu.Unlock()
	return nil
}

// Ask runs one question/answer exchange against the live session.
//
// Guards, applied in order: a question that is empty after trimming is a
// no-op; a call while another exchange is sending is a no-op; with no active
// session a single guidance message is appended and no network call is made.
//
// Otherwise: the user message is appended before the network call begins so it
// is visible immediately; in research mode a pending placeholder is appended
// and its id remembered; the backend is called; the answer (or the fixed error
// text) is reconciled back by placeholder id, or appended as a new terminal
// message when there was no placeholder. The lifecycle always returns to idle,
// on every exit path.
func (c *Controller) Ask(ctx context.Context, question string, research bool) {
	question = strings.TrimSpace(question)
	if question == "" {
		return
	}

	c.mu.Lock()
	if c.state == StateSending {
		c.mu.Unlock()
		return
	}
	if !c.session.Active() {
		c.mu.Unlock()
		c.append(Message{Sender: SenderAssistant, Content: NoSessionText})
		return
	}
	req := AskRequest{
		Question:    question,
		SessionID:   c.session.ID,
		Personality: c.session.Personality,
		Research:    research,
	}
	c.state = StateSending
	c.toolsUsed = nil
	c.mu.Unlock()
	c.hooks.OnStateChanged(StateSending)

	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		c.hooks.OnStateChanged(StateIdle)
	}()

	c.append(Message{Sender: SenderUser, Content: question})

	var placeholderID string
	if research {
		placeholderID = c.append(Message{
			Sender:  SenderAssistant,
			Content: PlaceholderText,
			Pending: true,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.assistant.Ask(ctx, req)
	if err != nil {
		c.reconcile(placeholderID, AnswerFailedText)
		return
	}

	answer := strings.TrimSpace(res.Answer)
	if answer == "" {
		answer = NoAnswerText
	}
	c.reconcile(placeholderID, answer)

	if len(res.ToolsUsed) > 0 {
		tools := slices.Clone(res.ToolsUsed)
		c.mu.Lock()
		c.toolsUsed = tools
		c.mu.Unlock()
		c.hooks.OnAdvisory(tools)
	}
}

// reconcile writes the final text of an exchange into the transcript: in
// place of the remembered placeholder when there is one, as a new terminal
// assistant message otherwise.
func (c *Controller) reconcile(placeholderID, content string) {
	if placeholderID == "" {
		c.append(Message{Sender: SenderAssistant, Content: content})
		return
	}
	if err := c.transcript.Replace(placeholderID, content, false); err != nil {
		// Cannot happen while one exchange runs at a time; if it ever does,
		// keep the transcript consistent rather than losing the answer.
		c.append(Message{Sender: SenderAssistant, Content: content})
		return
	}
	msg, _ := c.messageByID(placeholderID)
	c.hooks.OnTranscriptChanged(msg)
}

func (c *Controller) append(msg Message) string {
	id := c.transcript.Append(msg)
	msg.ID = id
	c.hooks.OnTranscriptChanged(msg)
	return id
}

func (c *Controller) messageByID(id string) (Message, bool) {
	for msg := range c.transcript.All() {
		if msg.ID == id {
			return msg, true
		}
	}
	return Message{}, false
}

// Messages returns a snapshot of the transcript in creation order.
func (c *Controller) Messages() []Message {
	return c.transcript.Messages()
}

// State returns the current lifecycle state.
func (c *Controller) State() LifecycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// ToolsUsed returns the advisory flag for the latest exchange: the names of
// external research tools the backend reported, or nil. It is cleared when a
// new exchange starts and is never part of the transcript.
func (c *Controller) ToolsUsed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.toolsUsed)
}
