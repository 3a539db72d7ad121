// Package ui is the interactive browsing session: a list/detail view over
// the catalog, driven by one Bubble Tea event loop. Fetches run as
// commands off the loop; playback hands the terminal to the player process
// and resumes when it exits.
package ui

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/whisper-darkly/tuitch/browse"
	"github.com/whisper-darkly/tuitch/chat"
	"github.com/whisper-darkly/tuitch/logger"
	"github.com/whisper-darkly/tuitch/nav"
	"github.com/whisper-darkly/tuitch/player"
	"github.com/whisper-darkly/tuitch/twitch"
)

// Config collects the startup choices threaded into the session.
type Config struct {
	Browse browse.Config
	Player player.Config
	// HomeShelves picks the full discovery page over the recommended
	// sections as the home listing.
	HomeShelves bool
	// ChatEnabled opens the chat overlay instead of streamlink when a live
	// stream is selected.
	ChatEnabled bool
}

type rowsMsg struct {
	page *nav.Page
	rows []browse.Row
	err  error
}

type resolvedMsg struct {
	cmd *exec.Cmd
	err error
}

type playDoneMsg struct{ err error }

type chatReadyMsg struct {
	login string
	id    string
}

// Model is the top-level program state. The chat overlay, when open, takes
// over input and rendering until it reports ClosedMsg.
type Model struct {
	client *twitch.Client
	log    *logger.Logger
	cfg    Config
	keys   keyMap

	page    *nav.Page
	rows    []browse.Row
	loading bool
	status  string

	searching bool
	input     textinput.Model

	spin spinner.Model

	chat       *chat.Model
	streamProc *exec.Cmd

	width  int
	height int
}

// New builds the session model starting at the home page.
func New(client *twitch.Client, cfg Config, log *logger.Logger) *Model {
	input := textinput.New()
	input.Placeholder = "search"
	input.CharLimit = 128

	return &Model{
		client: client,
		log:    log,
		cfg:    cfg,
		keys:   defaultKeyMap(),
		page:   nav.NewHome(),
		input:  input,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.page), m.spin.Tick)
}

// fetch loads and projects the given page's listing off the event loop.
func (m *Model) fetch(page *nav.Page) tea.Cmd {
	m.loading = true
	m.status = ""
	client, cfg := m.client, m.cfg
	return func() tea.Msg {
		env, err := client.Fetch(context.Background(), page.Request(cfg.HomeShelves))
		if err != nil {
			return rowsMsg{page: page, err: err}
		}
		rows, err := browse.Project(env, cfg.Browse)
		return rowsMsg{page: page, rows: rows, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// the overlay owns the session while open
	if m.chat != nil {
		return m.updateChat(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case rowsMsg:
		// a result for a page the user has already left is stale: applying
		// it would revert the navigation that outran it
		if msg.page != m.page {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.fail("load failed", msg.err)
			return m, nil
		}
		m.rows = msg.rows
		m.page.Clamp(len(m.rows))
		return m, nil

	case resolvedMsg:
		m.loading = false
		if msg.err != nil {
			m.fail("playback failed", msg.err)
			return m, nil
		}
		return m, tea.ExecProcess(msg.cmd, func(err error) tea.Msg {
			return playDoneMsg{err: err}
		})

	case playDoneMsg:
		if msg.err != nil {
			m.fail("player exited", errors.Join(player.ErrSpawnFailed, msg.err))
		}
		return m, nil

	case chatReadyMsg:
		return m, m.openChat(msg.login, msg.id)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.pageStep())
	case key.Matches(msg, m.keys.PageDown):
		m.move(m.pageStep())

	case key.Matches(msg, m.keys.Select):
		return m, m.dispatch()

	case key.Matches(msg, m.keys.Back):
		prev := m.page
		m.page = m.page.Back()
		if m.page != prev {
			return m, tea.Batch(m.fetch(m.page), m.spin.Tick)
		}

	case key.Matches(msg, m.keys.Home):
		if m.page.Depth() > 1 {
			m.page = nav.NewHome()
			return m, tea.Batch(m.fetch(m.page), m.spin.Tick)
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.fetch(m.page), m.spin.Tick)

	case key.Matches(msg, m.keys.QualityUp):
		m.cfg.Player.Prefs = player.Raise(m.cfg.Player.Prefs)
	case key.Matches(msg, m.keys.QualityDown):
		m.cfg.Player.Prefs = player.Lower(m.cfg.Player.Prefs)
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := m.input.Value()
		m.searching = false
		m.input.Blur()
		if query == "" {
			return m, nil
		}
		m.page = m.page.PushSearch(query)
		return m, tea.Batch(m.fetch(m.page), m.spin.Tick)
	case "esc":
		m.searching = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(chat.ClosedMsg); ok {
		m.stopStream()
		m.chat = nil
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
		m.stopStream()
		m.chat.Close()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

// stopStream kills the streamlink child and reaps it off the loop so it
// cannot linger as a zombie for the rest of the session.
func (m *Model) stopStream() {
	proc := m.streamProc
	m.streamProc = nil
	if proc != nil && proc.Process != nil {
		proc.Process.Kill()
		go proc.Wait()
	}
}

// move shifts the selection by delta, clamped to the listing.
func (m *Model) move(delta int) {
	m.page.Selection += delta
	m.page.Clamp(len(m.rows))
}

func (m *Model) pageStep() int {
	if m.height > 4 {
		return m.height - 4
	}
	return 10
}

// dispatch acts on the selected row's node. Categories push a page, streams
// play or open chat, clips and videos resolve a URL first. Headers and
// placeholders carry the none node and fall through.
func (m *Model) dispatch() tea.Cmd {
	if m.page.Selection >= len(m.rows) {
		return nil
	}
	node := m.rows[m.page.Selection].Node

	switch node.Kind {
	case twitch.KindGame:
		m.page = m.page.PushCategory(node.Game.Name)
		return tea.Batch(m.fetch(m.page), m.spin.Tick)

	case twitch.KindStream:
		login := node.Stream.Broadcaster.Login
		if m.cfg.ChatEnabled {
			return tea.Batch(m.resolveChannelID(login), m.spin.Tick)
		}
		cmd, err := m.cfg.Player.StreamCommand(login)
		if err != nil {
			m.fail("cannot play stream", err)
			return nil
		}
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return playDoneMsg{err: err}
		})

	case twitch.KindClip:
		return tea.Batch(m.resolveClip(node.Clip.Slug), m.spin.Tick)

	case twitch.KindVideo:
		return tea.Batch(m.resolveVOD(node.VideoID), m.spin.Tick)
	}
	return nil
}

func (m *Model) resolveClip(slug string) tea.Cmd {
	m.loading = true
	client, cfg := m.client, m.cfg
	return func() tea.Msg {
		token, qualities, err := client.ClipToken(context.Background(), slug)
		if err != nil {
			return resolvedMsg{err: err}
		}
		url, err := player.ClipURL(token, qualities, cfg.Player.Prefs)
		if err != nil {
			return resolvedMsg{err: err}
		}
		cmd, err := cfg.Player.URLCommand(url)
		return resolvedMsg{cmd: cmd, err: err}
	}
}

func (m *Model) resolveVOD(id string) tea.Cmd {
	m.loading = true
	client, cfg := m.client, m.cfg
	return func() tea.Msg {
		token, err := client.VODToken(context.Background(), id)
		if err != nil {
			return resolvedMsg{err: err}
		}
		manifestURL := player.VODManifestURL(id, token)
		manifest, err := client.FetchManifest(context.Background(), manifestURL)
		if err != nil {
			return resolvedMsg{err: err}
		}
		url, err := player.PickVODVariant(manifest, manifestURL, cfg.Player.Prefs)
		if err != nil {
			return resolvedMsg{err: err}
		}
		cmd, err := cfg.Player.URLCommand(url)
		return resolvedMsg{cmd: cmd, err: err}
	}
}

// resolveChannelID looks up the numeric id the event stream topics need. A
// failed lookup still opens the overlay, just without live events.
func (m *Model) resolveChannelID(login string) tea.Cmd {
	m.loading = true
	client, log := m.client, m.log
	return func() tea.Msg {
		id, err := client.ChannelID(context.Background(), login)
		if err != nil {
			log.Warn("channel id lookup failed for %s: %v", login, err)
		}
		return chatReadyMsg{login: login, id: id}
	}
}

// openChat starts the overlay plus a streamlink process whose output lands
// on the overlay's Log tab.
func (m *Model) openChat(login, id string) tea.Cmd {
	m.loading = false
	m.chat = chat.New(login, id, m.log)

	cmd, err := m.cfg.Player.StreamCommand(login)
	if err != nil {
		m.fail("cannot play stream", err)
	} else {
		// player output goes to the overlay's Log tab and the log file
		w := io.MultiWriter(m.chat.LogWriter(), m.log.Writer(logger.LevelDebug))
		cmd.Stdout = w
		cmd.Stderr = w
		if err := cmd.Start(); err != nil {
			m.fail("cannot play stream", errors.Join(player.ErrSpawnFailed, err))
		} else {
			m.streamProc = cmd
		}
	}
	return m.chat.Init()
}

// fail records a recoverable failure on the status line. The session keeps
// running; back navigation and retry stay available.
func (m *Model) fail(what string, err error) {
	m.log.Error("%s: %v", what, err)
	m.status = what + ": " + friendlyError(err)
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, twitch.ErrTransport):
		return "network error, r to retry"
	case errors.Is(err, twitch.ErrMalformedResponse):
		return "unexpected response, r to retry"
	case errors.Is(err, player.ErrSpawnFailed):
		return "player failed to start, check --player"
	default:
		return err.Error()
	}
}
