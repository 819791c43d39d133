package ui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"askdoc/internal/chat"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.phase == phaseUploading || m.ctrl.State() == chat.StateSending {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case uploadDoneMsg:
		if msg.err != nil {
			m.phase = phasePickDocument
			m.uploadErr = msg.err.Error()
			return m, nil
		}
		m.phase = phaseChat
		m.docName = msg.name
		m.uploadErr = ""
		m.input.Focus()
		m.refreshTranscript()
		return m, tea.Batch(m.input.Cursor.BlinkCmd(), m.spin.Tick)

	case askDoneMsg:
		m.refreshTranscript()
		return m, nil

	case chat.Event:
		if msg.Kind == chat.EventTranscriptChanged || msg.Kind == chat.EventStateChanged {
			m.refreshTranscript()
		}
		cmds := []tea.Cmd{waitEvent(m.events)}
		if msg.Kind == chat.EventStateChanged && msg.State == chat.StateSending {
			cmds = append(cmds, m.spin.Tick)
		}
		return m, tea.Batch(cmds...)
	}

	return m.updateActiveComponent(msg)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 3
	inputHeight := 4
	vpHeight := msg.Height - headerHeight - inputHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 6
	m.picker.Height = vpHeight

	wrap := msg.Width - 8
	if wrap < 20 {
		wrap = 20
	}
	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	m.refreshTranscript()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.phase {
	case phasePersonality:
		return m.handlePersonalityKey(msg)
	case phasePickDocument:
		return m.handlePickerKey(msg)
	case phaseUploading:
		return m, nil
	case phaseChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m Model) handlePersonalityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := chat.Personalities()
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.personalityIdx > 0 {
			m.personalityIdx--
		}
	case "down", "j":
		if m.personalityIdx < len(options)-1 {
			m.personalityIdx++
		}
	case "enter":
		if err := m.ctrl.SetPersonality(options[m.personalityIdx]); err != nil {
			m.uploadErr = err.Error()
			return m, nil
		}
		m.phase = phasePickDocument
		return m, m.picker.Init()
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.phase = phasePersonality
		m.uploadErr = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.phase = phaseUploading
		m.uploadErr = ""
		return m, tea.Batch(m.uploadCmd(path, filepath.Base(path)), m.spin.Tick)
	}
	if didSelect, path := m.picker.DidSelectDisabledFile(msg); didSelect {
		m.uploadErr = filepath.Base(path) + " is not a supported document type"
	}
	return m, cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		// Send is disabled while an exchange is in flight. The controller
		// would drop the ask anyway; keeping the input untouched means text
		// typed during the wait survives until it can actually be sent.
		if m.ctrl.State() == chat.StateSending {
			return m, nil
		}
		question := m.input.Value()
		m.input.Reset()
		return m, m.askCmd(question, m.research)
	case tea.KeyCtrlR:
		m.research = !m.research
		return m, nil
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateActiveComponent forwards messages the model does not handle itself to
// whichever bubble is on screen, so cursor blinks and picker reads keep working.
func (m Model) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.phase {
	case phasePickDocument:
		m.picker, cmd = m.picker.Update(msg)
	case phaseChat:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// refreshTranscript re-renders the conversation into the viewport and keeps
// the latest message visible.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}
