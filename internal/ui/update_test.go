package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"askdoc/internal/chat"
)

type fakeUploader struct{}

func (fakeUploader) UploadDocument(ctx context.Context, path string) (chat.UploadResult, error) {
	return chat.UploadResult{SessionID: "s1", Summary: "a short summary"}, nil
}

type fakeAssistant struct{}

func (fakeAssistant) Ask(ctx context.Context, req chat.AskRequest) (chat.AskResult, error) {
	return chat.AskResult{Answer: "an answer"}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctrl, err := chat.NewController(chat.ControllerConfig{
		Uploader:  fakeUploader{},
		Assistant: fakeAssistant{},
	})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return NewModel(ctrl, make(chan chat.Event, 16))
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPersonalitySelectionAdvancesToPicker(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.phase != phasePickDocument {
		t.Fatalf("expected picker phase, got %d", m.phase)
	}
	if got := m.ctrl.Session().Personality; got != chat.PersonalityFriendly {
		t.Errorf("expected friendly personality, got %q", got)
	}
}

func TestPersonalityCursorStaysInBounds(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < 10; i++ {
		updated, _ := m.Update(keyMsg("j"))
		m = updated.(Model)
	}
	if want := len(chat.Personalities()) - 1; m.personalityIdx != want {
		t.Errorf("cursor ran past the last option: %d", m.personalityIdx)
	}

	for i := 0; i < 10; i++ {
		updated, _ := m.Update(keyMsg("k"))
		m = updated.(Model)
	}
	if m.personalityIdx != 0 {
		t.Errorf("cursor ran past the first option: %d", m.personalityIdx)
	}
}

func TestEnterDispatchesQuestionAndClearsInput(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseChat
	m.input.SetValue("what is this about?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("expected a command dispatching the question")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared after send: %q", m.input.Value())
	}
}

func TestEnterWhileSendingKeepsTypedText(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	ctrl, err := chat.NewController(chat.ControllerConfig{
		Uploader: fakeUploader{},
		Assistant: assistantFunc(func(ctx context.Context, req chat.AskRequest) (chat.AskResult, error) {
			close(started)
			<-release
			return chat.AskResult{Answer: "slow answer"}, nil
		}),
	})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	if err := ctrl.SubmitDocument(context.Background(), "ignored"); err != nil {
		t.Fatalf("SubmitDocument failed: %v", err)
	}
	m := NewModel(ctrl, make(chan chat.Event, 16))
	m.phase = phaseChat

	done := make(chan struct{})
	go func() {
		ctrl.Ask(context.Background(), "first question", false)
		close(done)
	}()
	<-started

	// Send is disabled mid-exchange: the text typed during the wait must
	// neither be dispatched nor cleared.
	m.input.SetValue("follow-up typed during the wait")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd != nil {
		t.Error("expected no dispatch while an exchange is in flight")
	}
	if got := m.input.Value(); got != "follow-up typed during the wait" {
		t.Errorf("typed text lost while sending: %q", got)
	}

	close(release)
	<-done
	if n := len(ctrl.Messages()); n != 2 {
		t.Errorf("expected only the first exchange in the transcript, got %d messages", n)
	}
}

func TestCtrlRTogglesResearchMode(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseChat

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)
	if !m.research {
		t.Fatal("expected research mode on after first toggle")
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)
	if m.research {
		t.Fatal("expected research mode off after second toggle")
	}
}

func TestWindowSizePreparesViewport(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	if !m.ready {
		t.Fatal("expected model ready after first resize")
	}
	if m.viewport.Width != 100 {
		t.Errorf("viewport width not set: %d", m.viewport.Width)
	}
	if m.renderer == nil {
		t.Error("markdown renderer not initialized on resize")
	}
}

func TestUploadFailureReturnsToPicker(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseUploading

	updated, _ := m.Update(uploadDoneMsg{name: "x.pdf", err: context.DeadlineExceeded})
	m = updated.(Model)

	if m.phase != phasePickDocument {
		t.Fatalf("expected picker phase after failed upload, got %d", m.phase)
	}
	if m.uploadErr == "" {
		t.Error("expected upload error to be surfaced")
	}
}

func TestUploadSuccessEntersChat(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseUploading

	updated, _ := m.Update(uploadDoneMsg{name: "cats.pdf"})
	m = updated.(Model)

	if m.phase != phaseChat {
		t.Fatalf("expected chat phase after upload, got %d", m.phase)
	}
	if m.docName != "cats.pdf" {
		t.Errorf("document name not recorded: %q", m.docName)
	}
}

func TestRenderHistoryShowsBothSides(t *testing.T) {
	m := newTestModel(t)
	if err := m.ctrl.SubmitDocument(context.Background(), "ignored"); err != nil {
		t.Fatalf("SubmitDocument failed: %v", err)
	}
	m.ctrl.Ask(context.Background(), "tell me things", false)

	history := m.renderHistory()
	if !strings.Contains(history, "tell me things") {
		t.Errorf("user question missing from history: %q", history)
	}
	if !strings.Contains(history, "an answer") {
		t.Errorf("assistant answer missing from history: %q", history)
	}
}

func TestViewShowsAdvisoryBanner(t *testing.T) {
	ctrl, err := chat.NewController(chat.ControllerConfig{
		Uploader: fakeUploader{},
		Assistant: assistantFunc(func(ctx context.Context, req chat.AskRequest) (chat.AskResult, error) {
			return chat.AskResult{Answer: "found online", ToolsUsed: []string{"Bing Search"}}, nil
		}),
	})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	m := NewModel(ctrl, make(chan chat.Event, 16))
	if err := ctrl.SubmitDocument(context.Background(), "ignored"); err != nil {
		t.Fatalf("SubmitDocument failed: %v", err)
	}
	ctrl.Ask(context.Background(), "look this up", true)

	if got := m.statusView(); !strings.Contains(got, "Bing Search") {
		t.Errorf("advisory banner missing: %q", got)
	}
}

type assistantFunc func(ctx context.Context, req chat.AskRequest) (chat.AskResult, error)

func (f assistantFunc) Ask(ctx context.Context, req chat.AskRequest) (chat.AskResult, error) {
	return f(ctx, req)
}
