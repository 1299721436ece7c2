package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/piexl/CAD-MCP/internal/drawing"
	"github.com/piexl/CAD-MCP/internal/session"
	"github.com/piexl/CAD-MCP/internal/ui/models"
	"github.com/piexl/CAD-MCP/internal/ui/services"
	"github.com/piexl/CAD-MCP/internal/ui/views"
)

const helpText = `## Drawing commands

Type a command in English or Chinese, for example:

- draw a red line from (0,0) to (100,100)
- create a circle at (50,50) with radius 25 on layer walls
- 画一个蓝色的矩形 从 (0,0) 到 (20,10)
- save as plan.dxf

## REPL commands

- **/connect** connect to the drawing backend
- **/close** close the session
- **/status** show the session status
- **/explain** *command* show how a command is understood without drawing it
- **/clear** clear the transcript
- **/quit** exit
`

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	ctx      context.Context
	svc      service
	renderer services.MarkdownRenderer
}

func newBubbleTeaModel(
	ctx context.Context,
	svc service,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "Type a drawing command, or /help"
	ti.Prompt = "› "
	ti.Focus()

	m := BubbleTeaModel{
		state: models.State{
			Input:    ti,
			Viewport: viewport.New(80, 20),
			Spinner:  spinnerFactory(),
		},
		ctx:      ctx,
		svc:      svc,
		renderer: renderer,
	}
	m.refreshStatus()
	return m
}

type tickMsg time.Time

// commandDoneMsg carries the outcome of a backend call run off the update loop.
type commandDoneMsg struct {
	output string
	err    error
}

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.state.Spinner.Tick, tick())
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = max(msg.Height-5, 1)
		m.state.Input.Width = max(msg.Width-4, 10)
		m.updateViewport()
		return m, nil

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case commandDoneMsg:
		m.state.Busy = false
		if msg.err != nil {
			m.appendMessage(models.RoleError, fmt.Sprintf("[%s] %v", drawing.Kind(msg.err), msg.err))
		} else {
			m.appendMessage(models.RoleResult, msg.output)
		}
		m.refreshStatus()
		return m, nil
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.state.Panel != nil {
		switch msg.String() {
		case "esc", "enter", "q":
			m.state.Panel = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.state.Input.Value())
		if m.state.Busy || input == "" {
			return m, nil
		}
		m.state.Input.SetValue("")
		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}
		m.appendMessage(models.RoleUser, input)
		return m.start(func(ctx context.Context) (string, error) {
			return m.svc.InterpretAndDispatch(ctx, input)
		})

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// handleCommand handles slash commands
func (m BubbleTeaModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "/help":
		m.appendMessage(models.RoleInfo, helpText)
	case "/connect":
		m.appendMessage(models.RoleUser, input)
		return m.start(m.svc.Connect)
	case "/close":
		m.appendMessage(models.RoleUser, input)
		return m.start(m.svc.Close)
	case "/status":
		m.state.Panel = statusPanel(m.svc.Status())
	case "/explain":
		if rest == "" {
			m.appendMessage(models.RoleError, "usage: /explain <command>")
			break
		}
		m.appendMessage(models.RoleUser, input)
		op, err := m.svc.Interpret(rest)
		if err != nil {
			m.appendMessage(models.RoleError, fmt.Sprintf("[%s] %v", drawing.Kind(err), err))
			break
		}
		m.appendMessage(models.RoleInfo, services.DescribeOperation(op))
	case "/clear":
		m.state.Messages = nil
		m.updateViewport()
	case "/quit", "/exit":
		return m, tea.Quit
	default:
		m.appendMessage(models.RoleError, fmt.Sprintf("unknown command %s (try /help)", name))
	}
	return m, nil
}

// start runs fn off the update loop and reports back with commandDoneMsg.
func (m BubbleTeaModel) start(fn func(ctx context.Context) (string, error)) (tea.Model, tea.Cmd) {
	m.state.Busy = true
	ctx := m.ctx
	return m, func() tea.Msg {
		out, err := fn(ctx)
		return commandDoneMsg{output: out, err: err}
	}
}

func (m *BubbleTeaModel) appendMessage(role, content string) {
	m.state.Messages = append(m.state.Messages, models.Message{Role: role, Content: content})
	m.updateViewport()
}

func (m *BubbleTeaModel) refreshStatus() {
	st := m.svc.Status()
	m.state.SessionState = st.State
	m.state.Backend = st.Backend
	m.state.ActiveLayer = st.ActiveLayer
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	content := views.FormatChatContent(m.state.Messages, m.state.Width-4, m.renderer)
	m.state.Viewport.SetContent(content)
	m.state.Viewport.GotoBottom()
}

func statusPanel(st session.Status) *models.StatusPanel {
	lines := []string{
		"State:        " + st.State,
		"Backend:      " + st.Backend,
		"Active layer: " + st.ActiveLayer,
		"Default path: " + st.DefaultPath,
	}
	if st.ID != "" {
		lines = append(lines, "Session:      "+st.ID)
	}
	if !st.ConnectedAt.IsZero() {
		lines = append(lines, "Connected at: "+st.ConnectedAt.Format(time.DateTime))
	}
	if st.LastError != "" {
		lines = append(lines, "Last error:   "+st.LastError)
	}
	return &models.StatusPanel{Lines: lines}
}

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
