package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/PeronGH/SydneyWeb/internal/cli/client"
	"github.com/PeronGH/SydneyWeb/internal/cli/types"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 4000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// streamState represents the state of the streaming response
type streamState int

const (
	streamIdle streamState = iota
	streamStreaming
)

// Options carries the per-session chat settings.
type Options struct {
	Cookies   []types.Cookie
	Style     string
	Locale    string
	NoSearch  bool
	ImagePath string // attached to the first turn only
}

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a new chat program instance
func NewChatProgram(apiClient *client.APIClient, opts Options) *ChatProgram {
	return &ChatProgram{model: initialModel(apiClient, opts)}
}

// Run starts the chat TUI program
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	// Dependencies
	apiClient *client.APIClient
	opts      Options

	// UI components
	input       textinput.Model
	contentView viewport.Model

	// Transcript sent back to the server each turn
	history []types.ChatMessage

	// Streaming response state
	state         streamState
	content       *strings.Builder // Use pointer to avoid Builder copy
	currentAnswer string           // full answer text so far this turn
	statusLine    string           // latest search/loading notice
	suggestions   []string
	imageSent     bool

	// Streaming data channels
	eventCh <-chan types.ChatEvent
	errCh   <-chan error

	// Error state
	err error

	// Window dimensions
	width  int
	height int
}

// initialModel creates the initial chat model
func initialModel(apiClient *client.APIClient, opts Options) chatModel {
	input := textinput.New()
	input.Placeholder = ""
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""
	input.TextStyle = lipgloss.NewStyle()
	input.PromptStyle = lipgloss.NewStyle()

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)
	contentViewport.SetContent("")

	return chatModel{
		apiClient: apiClient,
		opts:      opts,
		input:     input,
		contentView: contentViewport,
		state:     streamIdle,
		content:   &strings.Builder{},
		width:     defaultWindowWidth,
		height:    defaultWindowHeight,
	}
}

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Message type definitions
type (
	streamInitMsg struct {
		eventCh <-chan types.ChatEvent
		errCh   <-chan error
	}
	streamEventMsg struct{ event types.ChatEvent }
	streamErrMsg   struct{ err error }
	streamDoneMsg  struct{}
)

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case streamInitMsg:
		m.state = streamStreaming
		m.eventCh = msg.eventCh
		m.errCh = msg.errCh
		cmds = append(cmds, waitForEvent(m.eventCh, m.errCh))

	case streamEventMsg:
		m.handleEvent(msg.event)
		cmds = append(cmds, waitForEvent(m.eventCh, m.errCh))

	case streamErrMsg:
		m.err = msg.err
		m.state = streamIdle
		m.eventCh, m.errCh = nil, nil
		m.refreshContent()

	case streamDoneMsg:
		m.finishStream()
	}

	if m.state != streamStreaming {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cmds = append(cmds, tea.Quit)

	case tea.KeyEnter:
		if m.state != streamStreaming {
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.startStreaming(text)
				cmds = append(cmds, m.initStream())
			}
		}

	case tea.KeyUp:
		m.contentView.LineUp(1)

	case tea.KeyDown:
		m.contentView.LineDown(1)

	case tea.KeyPgUp:
		m.contentView.ViewUp()

	case tea.KeyPgDown:
		m.contentView.ViewDown()
	}

	return cmds
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	// Reapply wrapping when window size changes
	m.refreshContent()
}

// startStreaming starts a new streaming turn
func (m *chatModel) startStreaming(text string) {
	m.input.Reset()
	m.currentAnswer = ""
	m.statusLine = ""
	m.suggestions = nil
	m.err = nil

	m.history = append(m.history, types.ChatMessage{Role: "user", Content: text})

	m.content.WriteString("\n")
	m.content.WriteString(boldStyle.Render("You"))
	m.content.WriteString("\n")
	m.content.WriteString(text)
	m.content.WriteString("\n\n")
	m.content.WriteString(accentStyle.Render("Sydney"))
	m.content.WriteString("\n")

	m.state = streamStreaming
	m.refreshContent()
}

// finishStream completes the streaming turn
func (m *chatModel) finishStream() {
	m.state = streamIdle
	m.eventCh, m.errCh = nil, nil
	m.statusLine = ""

	if m.currentAnswer != "" {
		m.content.WriteString(m.currentAnswer)
		m.content.WriteString("\n")
		m.history = append(m.history, types.ChatMessage{
			Role:    "assistant",
			Type:    "message",
			Content: m.currentAnswer,
		})
		m.currentAnswer = ""
	}

	if len(m.suggestions) > 0 {
		m.content.WriteString("\n")
		for _, s := range m.suggestions {
			m.content.WriteString(dimStyle.Render("→ " + s))
			m.content.WriteString("\n")
		}
	}

	m.refreshContent()
}

// initStream initializes a streaming request
func (m *chatModel) initStream() tea.Cmd {
	params := &types.ChatParams{
		Cookies:  m.opts.Cookies,
		Messages: append([]types.ChatMessage(nil), m.history...),
		Style:    m.opts.Style,
		NoSearch: m.opts.NoSearch,
		Locale:   m.opts.Locale,
	}

	imagePath := ""
	if m.opts.ImagePath != "" && !m.imageSent {
		imagePath = m.opts.ImagePath
		m.imageSent = true
	}

	return func() tea.Msg {
		ctx := context.Background()
		eventCh, errCh, err := m.apiClient.ChatStream(ctx, params, imagePath)
		if err != nil {
			return streamErrMsg{err: err}
		}
		return streamInitMsg{eventCh: eventCh, errCh: errCh}
	}
}

// waitForEvent waits for the next streaming event
func waitForEvent(eventCh <-chan types.ChatEvent, errCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return streamDoneMsg{}
			}
			return streamEventMsg{event: event}
		case err, ok := <-errCh:
			if !ok {
				return streamDoneMsg{}
			}
			if err != nil {
				return streamErrMsg{err: err}
			}
			return streamDoneMsg{}
		}
	}
}

// handleEvent processes one decoded stream event
func (m *chatModel) handleEvent(event types.ChatEvent) {
	switch event.Kind {
	case types.EventMessage:
		m.handleMessageEvent(event)

	case types.EventSuggestion:
		m.suggestions = event.Items

	case types.EventError:
		m.content.WriteString(errorStyle.Render(event.Detail))
		m.content.WriteString("\n")
		m.statusLine = ""
	}

	m.refreshContent()
}

// handleMessageEvent routes a message event by its subtype. Answer text
// arrives as the full accumulated text each time, so it replaces rather
// than appends.
func (m *chatModel) handleMessageEvent(event types.ChatEvent) {
	switch event.Type {
	case "message":
		if event.Content != "" {
			m.currentAnswer = event.Content
		}

	case "search_query":
		if event.Content != "" {
			m.statusLine = "searching: " + event.Content
		}

	case "search_results":
		m.statusLine = "reading search results"

	case "loading":
		if event.Content != "" {
			m.statusLine = event.Content
		}

	case "generative_image":
		m.content.WriteString(dimStyle.Render(event.Content))
		m.content.WriteString("\n")
	}
}

// refreshContent refreshes the display content
func (m *chatModel) refreshContent() {
	display := m.content.String()
	if m.currentAnswer != "" {
		display += m.currentAnswer
	}
	if m.statusLine != "" {
		display += "\n" + dimStyle.Render("⏳ "+m.statusLine)
	}
	if m.err != nil {
		display += "\n" + errorStyle.Render(fmt.Sprintf("error: %v", m.err))
	}

	if m.width > 0 {
		display = m.wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// wrapText applies auto-wrapping to text, handling wide character widths
func (m *chatModel) wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		result.WriteString(m.wrapLine(line, maxWidth))
	}

	return result.String()
}

// wrapLine wraps a single line of text, handling wide character widths
func (m *chatModel) wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	status := dimStyle.Render(fmt.Sprintf("style %s", m.opts.Style))
	if m.state == streamStreaming {
		status += dimStyle.Render(" • generating...")
	}

	content := m.contentView.View()

	var inputView string
	if m.state == streamStreaming {
		inputView = dimStyle.Render("> ") + dimStyle.Render("waiting for the reply...")
	} else {
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	help := ""
	if m.state != streamStreaming {
		help = dimStyle.Render("Enter to send • ↑↓ to scroll • Esc to quit")
	}

	parts := []string{status, "", content, "", inputView}
	if help != "" {
		parts = append(parts, help)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
