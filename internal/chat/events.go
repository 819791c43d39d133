package chat

// EventKind names the controller notifications observers can receive.
type EventKind string

const (
	EventTranscriptChanged EventKind = "transcript_changed"
	EventStateChanged      EventKind = "state_changed"
	EventAdvisory          EventKind = "advisory"
)

// Event is a controller notification delivered to the presentation layer.
type Event struct {
	Kind      EventKind
	MessageID string         // set for transcript_changed
	State     LifecycleState // set for state_changed
	Tools     []string       // set for advisory
}

// Hooks receive controller notifications. All methods are called from the
// goroutine driving the exchange; implementations must not block.
type Hooks interface {
	OnTranscriptChanged(msg Message)
	OnStateChanged(state LifecycleState)
	OnAdvisory(tools []string)
}

// NopHooks discards all notifications.
type NopHooks struct{}

func (NopHooks) OnTranscriptChanged(Message)   {}
func (NopHooks) OnStateChanged(LifecycleState) {}
func (NopHooks) OnAdvisory([]string)           {}

// ChannelHook bridges controller events onto a channel for the TUI. Sends are
// non-blocking: if the channel is full the event is dropped, which is safe
// because the TUI re-reads the full transcript on every event it does see.
type ChannelHook struct {
	Ch chan<- Event
}

func (h ChannelHook) OnTranscriptChanged(msg Message) {
	h.send(Event{Kind: EventTranscriptChanged, MessageID: msg.ID})
}

func (h ChannelHook) OnStateChanged(state LifecycleState) {
	h.send(Event{Kind: EventStateChanged, State: state})
}

func (h ChannelHook) OnAdvisory(tools []string) {
	h.send(Event{Kind: EventAdvisory, Tools: tools})
}

func (h ChannelHook) send(ev Event) {
	select {
	case h.Ch <- ev:
	default:
	}
}
