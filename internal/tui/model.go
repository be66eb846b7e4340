package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geminichat/internal/chat"
	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/render"
)

// Window texts
const (
	headerTitle     = "Gemini Chatbot"
	inputHint       = "Ask me anything..."
	typingIndicator = "Typing..."
	sendLabel       = "Send"
)

// Fixed rows around the viewport: header (3), message panel border (2),
// typing line (1), input panel (3), status bar (1).
const chromeHeight = 10

// minInputWidth keeps the input usable in very narrow windows
const minInputWidth = 1

// outcomeMsg carries a finished generation back into the update loop
type outcomeMsg struct {
	outcome chat.Outcome
}

// noticeMsg shows a short line in the status bar
type noticeMsg string

// stateChangedMsg reports that the controller's conversation or busy flag moved on
type stateChangedMsg struct{}

// watchController forwards controller changes into the update loop. Changes
// can originate inside Update itself, so each send gets its own goroutine.
func watchController(ctrl *chat.Controller, send func(tea.Msg)) {
	ctrl.OnChange(func(chat.State) {
		go send(stateChangedMsg{})
	})
}

// Model is the chat window. All conversation state lives in the controller;
// the model keeps the latest snapshot for rendering.
type Model struct {
	ctx       context.Context
	ctrl      *chat.Controller
	modelName string

	st         styles
	renderOpts render.Options
	copyText   func(string) error

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	state  chat.State
	notice string
	ready  bool

	width  int
	height int
}

// NewChatModel creates a chat window driven by ctrl
func NewChatModel(ctx context.Context, ctrl *chat.Controller, modelName string, cfg config.Config) Model {
	st := newStyles(render.PaletteOrDefault(cfg.TUITheme))

	ti := textinput.New()
	ti.Placeholder = inputHint
	ti.Prompt = "› "
	ti.CharLimit = 4000
	ti.PromptStyle = st.userLabel
	ti.TextStyle = lipgloss.NewStyle().Foreground(st.text)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(st.placeholder)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = st.typing

	return Model{
		ctx:        ctx,
		ctrl:       ctrl,
		modelName:  modelName,
		st:         st,
		renderOpts: render.OptionsFromConfig(cfg, 80),
		copyText:   clipboard.WriteAll,
		input:      ti,
		spinner:    s,
		state:      ctrl.Snapshot(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			return m.submit()

		case "ctrl+y":
			return m, m.copyLastReply()
		}

	case outcomeMsg:
		// The redraw follows from the controller's change notification
		m.ctrl.Settle(msg.outcome)
		m.input.Focus()

	case stateChangedMsg:
		m.refresh()

	case noticeMsg:
		m.notice = string(msg)

	case spinner.TickMsg:
		if m.state.Busy {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// The input is disabled while a request is outstanding
	if _, ok := msg.(tea.KeyMsg); ok && !m.state.Busy {
		m.input, cmd = m.input.Update(msg)
		m.ctrl.SetInput(m.input.Value())
		cmds = append(cmds, cmd)
	}

	// Printable keys belong to the input, not to viewport scrolling
	if key, ok := msg.(tea.KeyMsg); !ok || (key.Type != tea.KeyRunes && key.Type != tea.KeySpace) {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit hands the input to the controller and starts the generation call
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state.Busy {
		return m, nil
	}

	task, ok := m.ctrl.Begin(m.input.Value())
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.notice = ""
	m.refresh()

	return m, tea.Batch(m.runTask(task), m.spinner.Tick)
}

// runTask runs the task off the update loop
func (m Model) runTask(task *chat.Task) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg{outcome: task.Run(ctx)}
	}
}

func (m Model) copyLastReply() tea.Cmd {
	text := m.ctrl.LastBotText()
	copyText := m.copyText
	return func() tea.Msg {
		if err := copyText(text); err != nil {
			return noticeMsg("clipboard unavailable: " + err.Error())
		}
		return noticeMsg("Copied last reply")
	}
}

// resize fits the viewport and input to the window
func (m *Model) resize() {
	contentWidth := m.width - 2
	vpWidth := contentWidth - 4 // panel border and padding
	if vpWidth < 1 {
		vpWidth = 1
	}
	vpHeight := m.height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}

	// Leave room for the prompt, the cursor, a gap and the Send button
	inputWidth := vpWidth - lipgloss.Width(m.input.Prompt) - lipgloss.Width(m.sendButton()) - 2
	if inputWidth < minInputWidth {
		inputWidth = minInputWidth
	}
	m.input.Width = inputWidth
	m.renderOpts = m.renderOpts.WithWidth(m.bubbleWidth() - 4)
}

// refresh takes a new snapshot and scrolls to the newest turn
func (m *Model) refresh() {
	m.state = m.ctrl.Snapshot()
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTurns())
	m.viewport.GotoBottom()
}

// bubbleWidth is the maximum width of a single turn
func (m Model) bubbleWidth() int {
	w := m.viewport.Width * 3 / 4
	if w < 20 {
		w = 20
	}
	return w
}

// renderTurns lays out the conversation: user turns on the right,
// bot turns on the left rendered as markdown
func (m Model) renderTurns() string {
	width := m.viewport.Width - 2
	if width < 1 {
		width = 1
	}

	var content strings.Builder
	for i, turn := range m.state.Turns {
		if i > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(m.renderTurn(turn, width))
	}
	return content.String()
}

func (m Model) renderTurn(turn models.Turn, width int) string {
	if turn.IsUser() {
		label := m.st.userLabel.Render("You")
		w := lipgloss.Width(turn.Text) + m.st.userTurn.GetHorizontalPadding()
		if w > m.bubbleWidth() {
			w = m.bubbleWidth()
		}
		bubble := m.st.userTurn.Width(w).Render(turn.Text)
		block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	label := m.st.botLabel.Render("Gemini")
	body := render.MarkdownOrRaw(turn.Text, m.renderOpts)
	bubble := m.st.botTurn.MaxWidth(m.bubbleWidth()).Render(body)
	block := lipgloss.JoinVertical(lipgloss.Left, label, bubble)
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, block)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return m.st.typing.Render("  Initializing...")
	}

	contentWidth := m.width - 2

	header := m.st.header.Width(contentWidth - 2).Render(
		lipgloss.JoinHorizontal(lipgloss.Center,
			m.st.title.Render("✦ "+headerTitle),
			m.st.hint.Render("  •  "),
			m.st.subtitle.Render(m.modelName),
		),
	)

	messages := m.st.messages.Width(contentWidth - 2).Render(m.viewport.View())

	typing := " "
	if m.state.Busy {
		typing = m.spinner.View() + m.st.typing.Render(typingIndicator)
	}

	inputRow := lipgloss.JoinHorizontal(lipgloss.Center,
		m.input.View(),
		" ",
		m.sendButton(),
	)
	input := m.st.input.Width(contentWidth - 2).Render(inputRow)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		messages,
		typing,
		input,
		m.renderStatusBar(contentWidth),
	)
}

// sendButton renders the Send control, dimmed while a request is outstanding
func (m Model) sendButton() string {
	if m.state.Busy {
		return m.st.sendOff.Render(sendLabel)
	}
	return m.st.send.Render(sendLabel)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	if m.notice != "" {
		return m.st.notice.Width(width).Render(m.notice)
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy reply"},
		{"↑↓", "Scroll"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, m.st.statusKey.Render(s.key)+m.st.statusTxt.Render(" "+s.desc))
	}
	return m.st.statusBar.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, ctrl *chat.Controller, modelName string, cfg config.Config) error {
	p := tea.NewProgram(
		NewChatModel(ctx, ctrl, modelName, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	watchController(ctrl, p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat window: %w", err)
	}
	return nil
}
