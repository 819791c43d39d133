package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"askdoc/internal/chat"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phasePersonality:
		return m.viewPersonality()
	case phasePickDocument:
		return m.viewPicker()
	case phaseUploading:
		return fmt.Sprintf("\n  %s Uploading and summarizing document...\n", m.spin.View())
	case phaseChat:
		return m.viewChat()
	}
	return ""
}

func (m Model) viewPersonality() string {
	var b strings.Builder
	b.WriteString("\n  " + m.styles.title.Render("askdoc") + "\n")
	b.WriteString("  " + m.styles.subtitle.Render("Chat with a document. Pick a personality first.") + "\n\n")

	for i, p := range chat.Personalities() {
		cursor := "  "
		line := string(p)
		if i == m.personalityIdx {
			cursor = m.styles.cursor.Render("> ")
			line = m.styles.title.Render(line)
		}
		b.WriteString("  " + cursor + line + "\n")
	}

	b.WriteString("\n  " + m.styles.help.Render("up/down select · enter confirm · q quit") + "\n")
	return b.String()
}

func (m Model) viewPicker() string {
	var b strings.Builder
	b.WriteString("\n  " + m.styles.title.Render("Choose a document") + " " +
		m.styles.subtitle.Render("(pdf, docx or doc)") + "\n\n")
	b.WriteString(m.picker.View() + "\n")
	if m.uploadErr != "" {
		b.WriteString("  " + m.styles.errorText.Render(m.uploadErr) + "\n")
	}
	b.WriteString("  " + m.styles.help.Render("enter select · esc back · ctrl+c quit") + "\n")
	return b.String()
}

func (m Model) viewChat() string {
	var b strings.Builder

	b.WriteString(m.headerView() + "\n")
	if m.ready {
		b.WriteString(m.viewport.View() + "\n")
	}
	b.WriteString(m.statusView())
	b.WriteString(m.styles.inputBox.Render(m.input.View()) + "\n")

	mode := "off"
	if m.research {
		mode = "on"
	}
	b.WriteString(m.styles.help.Render(
		fmt.Sprintf("enter send · ctrl+r research: %s · pgup/pgdn scroll · ctrl+c quit", mode)))
	return b.String()
}

func (m Model) headerView() string {
	sess := m.ctrl.Session()
	title := m.docName
	if title == "" {
		title = "document"
	}
	summary := truncate(sess.Summary, maxInt(20, m.width-len(title)-16))
	return m.styles.header.Render(fmt.Sprintf("%s · %s · %s", title, sess.Personality, summary))
}

// statusView shows the typing indicator while an exchange is in flight and
// the research-tools banner after one that consulted external tools.
func (m Model) statusView() string {
	if m.ctrl.State() == chat.StateSending {
		return fmt.Sprintf("  %s %s\n", m.spin.View(), m.styles.pending.Render("thinking..."))
	}
	if tools := m.ctrl.ToolsUsed(); len(tools) > 0 {
		return "  " + m.styles.banner.Render("Answer informed by: "+strings.Join(tools, ", ")) + "\n"
	}
	return ""
}

// renderHistory lays out the full transcript, newest last. Terminal assistant
// messages go through the markdown renderer; pending placeholders and user
// lines are printed verbatim.
func (m Model) renderHistory() string {
	var b strings.Builder
	for _, msg := range m.ctrl.Messages() {
		switch {
		case msg.Sender == chat.SenderUser:
			b.WriteString(m.styles.userLabel.Render("You") + "\n")
			b.WriteString("  " + msg.Content + "\n\n")
		case msg.Pending:
			b.WriteString(m.styles.botLabel.Render("Assistant") + "\n")
			b.WriteString("  " + m.styles.pending.Render(msg.Content) + "\n\n")
		default:
			b.WriteString(m.styles.botLabel.Render("Assistant") + "\n")
			b.WriteString(safeRenderMarkdown(m.renderer, msg.Content) + "\n\n")
		}
	}
	return b.String()
}

// safeRenderMarkdown renders markdown, falling back to the raw text on any
// renderer error or panic. Glamour can panic on pathological input and a bad
// answer must never take the UI down with it.
func safeRenderMarkdown(r *glamour.TermRenderer, content string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = "  " + content
		}
	}()
	if r == nil {
		return "  " + content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return "  " + content
	}
	return strings.TrimRight(rendered, "\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
