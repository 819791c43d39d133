// Package ui is the terminal front end. It is a pure presentation layer over
// chat.Controller: it forwards key presses as controller calls, re-reads the
// controller's projections when notified, and renders them. All conversation
// rules live in the controller.
package ui

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"askdoc/internal/chat"
)

type phase int

const (
	phasePersonality phase = iota
	phasePickDocument
	phaseUploading
	phaseChat
)

// allowedDocTypes mirrors what the backend's upload endpoint accepts.
var allowedDocTypes = []string{".pdf", ".docx", ".doc"}

// Model is the bubbletea model for the whole program. It walks through four
// phases: personality selection, document selection, upload in flight, chat.
type Model struct {
	ctrl   *chat.Controller
	events <-chan chat.Event

	phase          phase
	personalityIdx int

	picker   filepicker.Model
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	styles styles
	width  int
	height int
	ready  bool

	research  bool
	docName   string
	uploadErr string
	quitting  bool
}

// NewModel builds the initial model around a controller and the event channel
// its ChannelHook feeds.
func NewModel(ctrl *chat.Controller, events <-chan chat.Event) Model {
	fp := filepicker.New()
	fp.AllowedTypes = allowedDocTypes
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question about the document"
	ti.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctrl:   ctrl,
		events: events,
		phase:  phasePersonality,
		picker: fp,
		input:  ti,
		spin:   sp,
		styles: defaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitEvent(m.events))
}

// uploadDoneMsg reports the outcome of a document upload command.
type uploadDoneMsg struct {
	name string
	err  error
}

// askDoneMsg signals that one Ask call has returned; transcript updates
// arrive separately as chat.Event values.
type askDoneMsg struct{}

// waitEvent blocks on the controller's event channel and resolves to the next
// chat.Event. Update re-arms it after every delivery.
func waitEvent(ch <-chan chat.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ev
	}
}

func (m Model) uploadCmd(path, name string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return uploadDoneMsg{name: name, err: ctrl.SubmitDocument(context.Background(), path)}
	}
}

func (m Model) askCmd(question string, research bool) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Ask(context.Background(), question, research)
		return askDoneMsg{}
	}
}
