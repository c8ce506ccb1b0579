// Package tail is a live terminal view of the call log.
package tail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/reqspy/internal/render"
	"github.com/sadopc/reqspy/internal/spy"
	"github.com/sadopc/reqspy/internal/ui/theme"
)

// CallMsg delivers one recorded call to the model.
type CallMsg struct {
	Info spy.RequestInfo
}

// Model is the bubbletea model for `serve --tui`.
type Model struct {
	title    string
	printer  *render.Printer
	theme    theme.Theme
	viewport viewport.Model
	lines    []string
	follow   bool
	ready    bool
}

// New returns a model titled with the server address.
func New(title string, th theme.Theme, p *render.Printer) Model {
	return Model{
		title:    title,
		printer:  p,
		theme:    th,
		viewport: viewport.New(0, 0),
		follow:   true,
	}
}

// Subscribe forwards every call rec records to prog.
func Subscribe(rec *spy.Recorder, prog *tea.Program) {
	rec.OnCall(func(info spy.RequestInfo) {
		prog.Send(CallMsg{Info: info})
	})
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.ready = true
		m.refresh()
		return m, nil

	case CallMsg:
		m.lines = append(m.lines, fmt.Sprintf("%4d  %s", len(m.lines)+1, m.printer.FormatCall(msg.Info)))
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "f":
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
			return m, nil
		case "c":
			m.lines = nil
			m.refresh()
			return m, nil
		case "g":
			m.follow = false
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.follow = true
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// Lines returns the rendered call lines.
func (m Model) Lines() []string { return m.lines }

// Following reports whether the view sticks to the newest call.
func (m Model) Following() bool { return m.follow }

func (m Model) View() string {
	if !m.ready {
		return "waiting for terminal size..."
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Mauve).
		Render(fmt.Sprintf("reqspy  %s  %d calls", m.title, len(m.lines)))
	mode := "follow"
	if !m.follow {
		mode = "paused"
	}
	footer := lipgloss.NewStyle().Foreground(m.theme.Muted).
		Render(mode + "  f toggle follow  c clear  g/G top/bottom  q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}
