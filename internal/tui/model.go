// Package tui is the interactive terminal front end. It drives the view
// reducer from Bubble Tea's event loop: key presses become view events,
// fetches run as commands and come back as messages.
package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/Sternrassler/gh-repo-browser/pkg/logging"
	"github.com/Sternrassler/gh-repo-browser/pkg/view"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type fetchResultMsg struct {
	event view.Event
}

type openURLResultMsg struct {
	url string
	err error
}

// Model is the Bubble Tea model of the repository browser.
type Model struct {
	ctx       context.Context
	fetcher   view.Fetcher
	state     view.State
	initial   view.Request
	cursor    int
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	width     int
	height    int
	notice    string
	nowFn     func() time.Time
	openURLFn func(string) error
	logger    zerolog.Logger
}

// NewModel creates the model in its mount-time state. The first page is
// requested by Init.
func NewModel(ctx context.Context, fetcher view.Fetcher) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAmber)

	state, req := view.Start(view.New())

	return Model{
		ctx:       ctx,
		fetcher:   fetcher,
		state:     state,
		initial:   req,
		spinner:   s,
		help:      help.New(),
		keys:      keys,
		nowFn:     time.Now,
		openURLFn: openURLInBrowser,
		logger:    logging.NewLogger("tui"),
	}
}

// State returns the current view state.
func (m Model) State() view.State {
	return m.state
}

// Init starts the first page fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(m.initial))
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchResultMsg:
		prevSeq, wasLoading := m.state.Seq, m.state.Loading
		m.state, _ = view.Reduce(m.state, msg.event)
		if wasLoading && m.state.Loading && m.state.Seq == prevSeq {
			m.logger.Debug().Int("page", m.state.Page).Msg("Discarded stale page result")
		}
		if m.cursor >= len(m.state.Items) {
			m.cursor = 0
		}
		return m, nil

	case openURLResultMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Str("url", msg.url).Msg("Failed to open URL")
			m.notice = "Could not open " + msg.url
		} else {
			m.notice = "Opened " + msg.url
		}
		return m, nil

	case spinner.TickMsg:
		if m.state.Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m.dispatch(view.NextPage{})
	case key.Matches(msg, m.keys.Prev):
		return m.dispatch(view.PrevPage{})
	case key.Matches(msg, m.keys.Retry):
		return m.dispatch(view.Retry{})
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Items)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if m.state.Loading || m.cursor >= len(m.state.Items) {
			return m, nil
		}
		return m, m.openCmd(m.state.Items[m.cursor].HTMLURL)
	}
	return m, nil
}

// dispatch runs ev through the reducer and starts any fetch it asks for.
func (m Model) dispatch(ev view.Event) (tea.Model, tea.Cmd) {
	var req *view.Request
	m.state, req = view.Reduce(m.state, ev)
	if req == nil {
		return m, nil
	}
	m.cursor = 0
	m.notice = ""
	return m, tea.Batch(m.spinner.Tick, m.fetchCmd(*req))
}

func (m Model) fetchCmd(req view.Request) tea.Cmd {
	ctx, fetcher := m.ctx, m.fetcher
	return func() tea.Msg {
		return fetchResultMsg{event: view.Run(ctx, fetcher, req)}
	}
}

func (m Model) openCmd(url string) tea.Cmd {
	open := m.openURLFn
	return func() tea.Msg {
		return openURLResultMsg{url: url, err: open(url)}
	}
}

// View renders the UI.
func (m Model) View() string {
	screen := view.Present(m.state, m.nowFn())

	var sections []string
	sections = append(sections, headingStyle.Render(screen.Heading))
	sections = append(sections, statusStyle.Render(screen.Status))

	switch screen.Mode {
	case view.ModeLoading:
		sections = append(sections, m.spinner.View()+" Loading...")
	case view.ModeError:
		sections = append(sections,
			errorStyle.Render("Error: "+screen.Error)+"\n"+retryStyle.Render("[r] Try again"))
	case view.ModeList:
		sections = append(sections, m.renderList(screen.Rows))
	}

	sections = append(sections, m.renderPagination(screen))
	if m.notice != "" {
		sections = append(sections, statusStyle.Render(m.notice))
	}

	km := m.keys
	km.Prev.SetEnabled(screen.PrevEnabled)
	km.Next.SetEnabled(screen.NextEnabled)
	km.Retry.SetEnabled(screen.CanRetry)
	sections = append(sections, m.help.View(km))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderList(rows []view.Row) string {
	if len(rows) == 0 {
		return listStyle.Render(descStyle.Render("No repositories on this page"))
	}

	entries := make([]string, 0, len(rows))
	for i, row := range rows {
		marker, name := "  ", nameStyle.Render(row.Name)
		if i == m.cursor {
			marker, name = cursorStyle.Render("› "), selectedNameStyle.Render(row.Name)
		}

		meta := []string{}
		if row.Language != "" {
			meta = append(meta, languageDot(row.LanguageColor)+" "+row.Language)
		}
		meta = append(meta,
			"★ "+row.StarsLabel,
			"⑂ "+row.ForksLabel,
			row.Updated,
		)

		entries = append(entries, marker+name+"\n"+
			"  "+descStyle.Render(truncate(row.Description, m.descWidth()))+"\n"+
			"  "+metaStyle.Render(strings.Join(meta, "   ")))
	}
	return listStyle.Render(strings.Join(entries, "\n\n"))
}

func (m Model) renderPagination(screen view.Screen) string {
	prev, next := buttonStyle, buttonStyle
	if !screen.PrevEnabled {
		prev = disabledButtonStyle
	}
	if !screen.NextEnabled {
		next = disabledButtonStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		prev.Render("Previous"),
		pageStyle.Render(screen.PageLabel),
		next.Render("Next"),
	)
}

// descWidth is the room for a description: two lines of the terminal width.
func (m Model) descWidth() int {
	if m.width <= 0 {
		return 160
	}
	return 2 * (m.width - 8)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 1 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func openURLInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	return nil
}
