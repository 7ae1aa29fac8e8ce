// Package tui is the interactive chat surface. It renders engine output in
// a scrollable transcript and turns confirmation prompts into y/n input.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scribe/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB454")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Messages sent into the bubbletea loop from the engine goroutine.
type (
	sayMsg  string
	errMsg  string
	doneMsg struct{}

	confirmMsg struct {
		prompt string
		reply  chan bool
	}
)

// programSink forwards engine output into the running program.
type programSink struct {
	program *tea.Program
}

func (s *programSink) Say(msg string) {
	s.program.Send(sayMsg(msg))
}

func (s *programSink) Error(msg string) {
	s.program.Send(errMsg(msg))
}

func (s *programSink) Confirm(prompt string) <-chan bool {
	reply := make(chan bool, 1)
	s.program.Send(confirmMsg{prompt: prompt, reply: reply})
	return reply
}

type model struct {
	engine   *engine.Engine
	viewport viewport.Model
	input    textinput.Model
	lines    []string
	pending  *confirmMsg
	busy     bool
	ready    bool
	width    int
	height   int
}

func newModel(eng *engine.Engine) model {
	input := textinput.New()
	input.Placeholder = "Describe a change..."
	input.Focus()
	input.CharLimit = 0

	return model{
		engine: eng,
		input:  input,
		lines:  []string{"Welcome to scribe. Describe a change, or try: make a todo app"},
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chrome := 6 // title, input, help, spacing
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}
		m.refresh()
		return m, nil

	case sayMsg:
		m.append(string(msg))
		return m, nil

	case errMsg:
		m.append(errorStyle.Render(string(msg)))
		return m, nil

	case confirmMsg:
		pending := msg
		m.pending = &pending
		m.append(promptStyle.Render(msg.prompt))
		m.input.Placeholder = "y/n"
		return m, nil

	case doneMsg:
		m.busy = false
		m.input.Placeholder = "Describe a change..."
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")

	if m.pending != nil {
		accepted := strings.EqualFold(text, "y") || strings.EqualFold(text, "yes")
		m.pending.reply <- accepted
		m.pending = nil
		m.input.Placeholder = "Describe a change..."
		return m, nil
	}

	if m.busy {
		m.append(errorStyle.Render("Still working on the previous request."))
		return m, nil
	}

	m.append(userStyle.Render("> " + text))
	m.busy = true
	eng := m.engine
	return m, func() tea.Msg {
		_, _ = eng.Chat(context.Background(), text)
		return doneMsg{}
	}
}

func (m *model) append(line string) {
	m.lines = append(m.lines, line)
	m.refresh()
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	title := titleStyle.Render("scribe - AI coding assistant")

	body := strings.Join(m.lines, "\n")
	if m.ready {
		body = m.viewport.View()
	}

	status := ""
	if m.busy {
		status = helpStyle.Render("thinking...")
	}

	help := helpStyle.Render("Enter to send • Esc or Ctrl+C to quit")

	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s\n%s",
		title, body, m.input.View(), status, help)
}

// Start builds the engine around a program-backed sink and runs the chat
// loop until the user quits. build receives the sink the engine must report
// through.
func Start(build func(sink engine.Sink) (*engine.Engine, error)) error {
	sink := &programSink{}
	eng, err := build(sink)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(eng), tea.WithAltScreen())
	sink.program = p

	_, err = p.Run()
	return err
}
