package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/whisper-darkly/tuitch/logger"
)

// queueSize bounds each tab's retained lines. Scrollback beyond this is
// dropped oldest-first.
const queueSize = 512

// ClosedMsg tells the enclosing program the overlay was dismissed.
type ClosedMsg struct{}

type lineMsg Line

var (
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	tabIdleStyle   = lipgloss.NewStyle().Faint(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
)

// Model is the chat overlay: one event channel fed by the IRC and pubsub
// goroutines (and the player's output writer), drained one message per
// update into per-tab queues.
type Model struct {
	channel string
	active  Tab
	queues  [3]*lineQueue
	view    viewport.Model
	lines   chan Line
	cancel  context.CancelFunc
	log     *logger.Logger
	ready   bool
}

// New starts the chat and event connections for a live channel and returns
// the overlay model. channelID may be empty when the id lookup failed; the
// event stream is skipped then and only chat connects.
func New(channel, channelID string, log *logger.Logger) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		channel: channel,
		lines:   make(chan Line, 64),
		cancel:  cancel,
		log:     log,
	}
	for i := range m.queues {
		m.queues[i] = newLineQueue(queueSize)
	}

	go runIRC(ctx, channel, m.lines, log)
	if channelID != "" {
		go runPubsub(ctx, channelID, m.lines, log)
	} else {
		m.queues[TabLog].push("pubsub: no channel id, live events disabled")
	}
	return m
}

// Close tears down the connections. The enclosing program calls this when
// the overlay is dismissed or the session ends.
func (m *Model) Close() {
	m.cancel()
}

// LogWriter returns a writer that lands each written line on the Log tab.
// Wired to the player process's output.
func (m *Model) LogWriter() *lineWriter {
	return &lineWriter{lines: m.lines}
}

func (m *Model) Init() tea.Cmd {
	return m.waitLine()
}

func (m *Model) waitLine() tea.Cmd {
	return func() tea.Msg {
		return lineMsg(<-m.lines)
	}
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view = viewport.New(msg.Width, msg.Height-2)
		m.ready = true
		m.refresh()
		return m, nil

	case lineMsg:
		m.queues[msg.Tab].push(msg.Text)
		if msg.Tab == m.active {
			m.refresh()
		}
		return m, m.waitLine()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			m.Close()
			return m, func() tea.Msg { return ClosedMsg{} }
		case "tab":
			m.active = (m.active + 1) % 3
			m.refresh()
			return m, nil
		case "shift+tab":
			m.active = (m.active + 2) % 3
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh repaints the viewport from the active queue, pinned to the newest
// line.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.view.SetContent(strings.Join(m.queues[m.active].all(), "\n"))
	m.view.GotoBottom()
}

func (m *Model) View() string {
	if !m.ready {
		return "connecting to #" + m.channel + "..."
	}

	tabs := make([]string, 0, 3)
	for t := TabChat; t <= TabLog; t++ {
		style := tabIdleStyle
		if t == m.active {
			style = tabActiveStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	header := titleStyle.Render("#"+m.channel) + "  " + strings.Join(tabs, " | ")
	return header + "\n" + m.view.View()
}

// lineWriter adapts an io.Writer stream to Log tab lines. Partial writes
// are buffered until a newline arrives.
type lineWriter struct {
	lines chan<- Line
	buf   []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := -1
		for j, b := range w.buf {
			if b == '\n' {
				i = j
				break
			}
		}
		if i < 0 {
			return len(p), nil
		}
		line := strings.TrimRight(string(w.buf[:i]), "\r")
		w.buf = w.buf[i+1:]
		if line != "" {
			w.lines <- Line{Tab: TabLog, Text: line, When: time.Now()}
		}
	}
}
