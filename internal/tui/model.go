// Package tui is the interactive terminal front end: the paged catalog, the
// details overlay, the box and the catch/edit form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/listenupapp/pokedex/internal/app"
	"github.com/listenupapp/pokedex/internal/auth"
	"github.com/listenupapp/pokedex/internal/box"
	"github.com/listenupapp/pokedex/internal/catalog"
	"github.com/listenupapp/pokedex/internal/domain"
	"github.com/listenupapp/pokedex/internal/fetch"
)

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context //nolint:containedctx // parent of every command
	session *app.Session
	logger  *slog.Logger
	now     func() time.Time

	pager   *catalog.Pager
	box     *box.View
	details *fetch.Scope
	form    *formModel

	detailsLoading bool

	spinner   spinner.Model
	cursor    int
	boxCursor int
	confirm   string // entry id awaiting release confirmation
	status    string

	width  int
	height int
}

// New creates the root model. ctx bounds every request the UI makes.
func New(ctx context.Context, session *app.Session, pageSize int, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return Model{
		ctx:     ctx,
		session: session,
		logger:  logger,
		now:     time.Now,
		pager:   catalog.NewPager(session.Client(), pageSize, logger),
		box:     box.NewView(session.Client(), session.Names(), logger),
		details: &fetch.Scope{},
		spinner: sp,
	}
}

// Close cancels requests still in flight.
func (m Model) Close() {
	m.pager.Close()
	m.box.Close()
	m.details.Close()
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadPage(0), m.buildIndex(), m.spinner.Tick}
	if m.session.View() == app.ViewBox {
		cmds = append(cmds, m.loadBox())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageLoadedMsg:
		if !errors.Is(msg.err, catalog.ErrSuperseded) {
			m.cursor = clamp(m.cursor, len(m.pager.Snapshot().Items))
		}
		return m, nil

	case boxLoadedMsg:
		if !errors.Is(msg.err, box.ErrSuperseded) {
			m.boxCursor = clamp(m.boxCursor, len(m.box.Snapshot().Entries))
		}
		return m, nil

	case boxDeletedMsg:
		if msg.err != nil && !errors.Is(msg.err, box.ErrSuperseded) {
			m.status = errorStyle.Render(box.ErrorMessage(msg.err))
		} else if msg.err == nil {
			m.status = okStyle.Render("Released.")
		}
		m.boxCursor = clamp(m.boxCursor, len(m.box.Snapshot().Entries))
		return m, nil

	case detailsMsg:
		if !m.details.Current(msg.ticket) {
			return m, nil
		}
		m.detailsLoading = false
		if m.session.DetailsOpen() {
			m.session.Select(msg.pokemon)
			if msg.fellBack {
				m.status = mutedStyle.Render("Showing summary; full details unavailable.")
			}
		}
		return m, nil

	case formSavedMsg:
		return m.formSaved(msg)

	case indexDoneMsg:
		known, _ := m.session.IndexStatus()
		m.logger.Debug("name index ready", "known", known)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.confirm != "" {
		return m.updateConfirm(msg)
	}
	if m.session.DetailsOpen() {
		return m.updateDetails(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.session.View() == app.ViewCatalog {
			return m.switchView(app.ViewBox)
		}
		return m.switchView(app.ViewCatalog)
	case "1":
		return m.switchView(app.ViewCatalog)
	case "2":
		return m.switchView(app.ViewBox)
	}

	if m.session.View() == app.ViewBox {
		return m.updateBox(msg)
	}
	return m.updateCatalog(msg)
}

func (m Model) switchView(v app.View) (tea.Model, tea.Cmd) {
	m.status = ""
	if m.session.View() == v {
		return m, nil
	}
	m.session.SwitchView(v)
	if v == app.ViewBox {
		return m, m.loadBox()
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	switch {
	case m.form != nil:
		body = m.form.view(m.spinner.View())
	case m.session.DetailsOpen():
		body = m.detailsView()
	case m.session.View() == app.ViewBox:
		body = m.boxView()
	default:
		body = m.catalogView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		"",
		body,
		"",
		m.footer(),
	)
}

func (m Model) header() string {
	tabs := make([]string, 0, 2)
	for _, v := range []app.View{app.ViewCatalog, app.ViewBox} {
		label := fmt.Sprintf("%d %s", int(v)+1, v)
		if v == m.session.View() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render("Pokedex"), "  ", strings.Join(tabs, " "))
}

func (m Model) footer() string {
	known, done := m.session.IndexStatus()
	var index string
	if done {
		index = mutedStyle.Render(fmt.Sprintf("%d Pokemon indexed", known))
	} else {
		index = mutedStyle.Render(fmt.Sprintf("%s indexing Pokemon (%d)", m.spinner.View(), known))
	}

	token := mutedStyle.Render(auth.Describe(m.session.Client().Token(), m.now()))
	lines := []string{index + mutedStyle.Render(" • ") + token}
	if m.status != "" {
		lines = append(lines, m.status)
	}
	lines = append(lines, helpStyle.Render(m.help()))
	return strings.Join(lines, "\n")
}

func (m Model) help() string {
	switch {
	case m.form != nil:
		return "tab next field • ctrl+j new line in notes • enter save • esc cancel"
	case m.confirm != "":
		return "y release • any other key cancels"
	case m.session.DetailsOpen() && m.detailsLoading:
		return "esc close"
	case m.session.DetailsOpen():
		return "c catch • esc close"
	case m.session.View() == app.ViewBox:
		return "↑/↓ select • e edit • d release • r reload • tab switch • q quit"
	default:
		return "↑/↓ select • ←/→ page • enter details • r retry • tab switch • q quit"
	}
}

func (m Model) loadPage(page int) tea.Cmd {
	pager, ctx := m.pager, m.ctx
	return func() tea.Msg {
		return pageLoadedMsg{err: pager.Load(ctx, page)}
	}
}

func (m Model) loadBox() tea.Cmd {
	view, ctx := m.box, m.ctx
	return func() tea.Msg {
		return boxLoadedMsg{err: view.Load(ctx)}
	}
}

func (m Model) buildIndex() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		session.StartIndex(ctx)
		<-session.IndexDone()
		return indexDoneMsg{}
	}
}

// openDetails shows the overlay in its loading state and fetches the full
// record behind summary.
func (m Model) openDetails(summary domain.Pokemon) (Model, tea.Cmd) {
	m.session.Select(summary)
	m.detailsLoading = true
	ctx, ticket := m.details.Begin(m.ctx)
	client, logger := m.session.Client(), m.logger
	return m, func() tea.Msg {
		p, fellBack, err := catalog.LoadDetails(ctx, client, summary)
		if err != nil {
			logger.Debug("details fetch failed", "name", summary.Name, "error", err)
		}
		return detailsMsg{ticket: ticket, pokemon: p, fellBack: fellBack}
	}
}

// clamp keeps a cursor inside [0, n).
func clamp(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(cursor, n-1))
}
