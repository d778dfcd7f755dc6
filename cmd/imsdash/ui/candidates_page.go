package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"imsdash/internal/domain"
	"imsdash/internal/pipeline"
	"imsdash/internal/session"
)

type (
	candidatesLoadedMsg struct {
		token   pipeline.Token
		records []domain.CandidateRecord
	}
	candidatesFailedMsg struct {
		token pipeline.Token
		err   error
	}
	// queryDebounceMsg delivers an armed debounce generation back after the
	// quiet period.
	queryDebounceMsg struct{ gen uint64 }
)

var (
	gateDetails  = session.Allow(domain.RoleAdmin, domain.RoleTAMember, domain.RolePanelist)
	gateFeedback = session.Allow(domain.RolePanelist)
)

// candidatesModel drives the candidate list: one collection fetch guarded by
// a cancellation token, and the debounced search / sort / pagination view
// over it.
type candidatesModel struct {
	app *App

	// The controller outlives the model copies Bubble Tea makes each cycle,
	// so tokens issued in one cycle stay comparable in later ones.
	ctrl       *pipeline.Controller
	fetchState pipeline.FetchState
	data       *pipeline.View

	search  textinput.Model
	table   table.Model
	spinner spinner.Model

	searchFocused bool
	rowIDs        []int

	width  int
	height int
}

func newCandidatesModel(app *App) candidatesModel {
	search := textinput.New()
	search.Placeholder = "Search by name or username"
	search.CharLimit = 64
	search.Width = 40

	t := table.New(
		table.WithColumns(candidateColumns(80)),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = app.Styles.Spinner

	return candidatesModel{
		app:     app,
		ctrl:    pipeline.NewController(),
		data:    pipeline.NewView(app.Config.View.PageSize),
		search:  search,
		table:   t,
		spinner: sp,
	}
}

func candidateColumns(width int) []table.Column {
	name := width / 4
	if name < 16 {
		name = 16
	}
	return []table.Column{
		{Title: "Name", Width: name},
		{Title: "Department", Width: 16},
		{Title: "Username", Width: 14},
		{Title: "Role", Width: 14},
		{Title: "Status", Width: 10},
	}
}

func (m *candidatesModel) setSize(w, h int) {
	m.width, m.height = w, h
	m.table.SetColumns(candidateColumns(w - 2*ContentPadding))
	m.table.SetHeight(TableBodyHeight(ContentHeight(h)))
}

func (m candidatesModel) typing() bool { return m.searchFocused }

// fetch starts a collection fetch. The returned command carries the token
// issued for this attempt; any response arriving after the token went stale
// is discarded by FetchState.
func (m *candidatesModel) fetch() tea.Cmd {
	token := m.ctrl.Next()
	m.fetchState.Begin(token)

	client := m.app.Client
	timeout := m.app.Config.API.Timeout
	load := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		records, err := client.ListCandidates(ctx)
		if err != nil {
			return candidatesFailedMsg{token: token, err: err}
		}
		return candidatesLoadedMsg{token: token, records: records}
	}
	return tea.Batch(m.spinner.Tick, load)
}

// teardown invalidates the outstanding fetch token so a late response cannot
// mutate this page's state.
func (m *candidatesModel) teardown() {
	m.ctrl.Cancel()
}

func (m candidatesModel) update(msg tea.Msg) (candidatesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case candidatesLoadedMsg:
		if m.fetchState.Apply(msg.token, msg.records) {
			m.data.SetRecords(msg.records)
			m.refreshRows()
		}
		return m, nil

	case candidatesFailedMsg:
		m.fetchState.Fail(msg.token, msg.err)
		return m, nil

	case queryDebounceMsg:
		if m.data.ApplyDebounced(msg.gen) {
			m.refreshRows()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		if m.fetchState.Status() == pipeline.FetchLoading {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m candidatesModel) handleKey(msg tea.KeyMsg) (candidatesModel, tea.Cmd) {
	if m.searchFocused {
		switch msg.String() {
		case "esc", "enter":
			m.searchFocused = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		// The raw query echoes immediately; only the debounced value filters.
		gen := m.data.SetQuery(m.search.Value())
		window := m.app.Config.View.DebounceWindow
		debounce := tea.Tick(window, func(time.Time) tea.Msg {
			return queryDebounceMsg{gen: gen}
		})
		return m, tea.Batch(cmd, debounce)
	}

	switch msg.String() {
	case "/":
		m.searchFocused = true
		m.search.Focus()
		return m, nil
	case "s":
		if m.data.SortKey() == pipeline.SortByName {
			m.data.SetSortKey(pipeline.SortByDepartment)
		} else {
			m.data.SetSortKey(pipeline.SortByName)
		}
		m.refreshRows()
		return m, nil
	case "left", "p":
		m.data.PrevPage()
		m.refreshRows()
		return m, nil
	case "right", "n":
		m.data.NextPage()
		m.refreshRows()
		return m, nil
	case "r":
		return m, m.fetch()
	case "enter":
		if id, ok := m.selectedID(); ok && gateDetails.Admits(m.app.Store.Session()) {
			return m, func() tea.Msg { return openDetailMsg{id: id} }
		}
		return m, nil
	case "f":
		if id, ok := m.selectedID(); ok && gateFeedback.Admits(m.app.Store.Session()) {
			return m, func() tea.Msg { return openDetailMsg{id: id, feedback: true} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *candidatesModel) refreshRows() {
	rowRecords := m.data.Rows()
	rows := make([]table.Row, 0, len(rowRecords))
	m.rowIDs = m.rowIDs[:0]
	for _, r := range rowRecords {
		dept := r.Department
		if dept == "" {
			dept = "-"
		}
		role := r.Role
		if role == "" {
			role = "-"
		}
		rows = append(rows, table.Row{
			r.FullName(),
			dept,
			r.Username,
			role,
			string(r.DisplayStatus()),
		})
		m.rowIDs = append(m.rowIDs, r.ID)
	}
	m.table.SetRows(rows)
	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m candidatesModel) selectedID() (int, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rowIDs) {
		return 0, false
	}
	return m.rowIDs[cursor], true
}

func (m candidatesModel) view() string {
	s := m.app.Styles

	sortLabel := "name"
	if m.data.SortKey() == pipeline.SortByDepartment {
		sortLabel = "department"
	}
	top := fmt.Sprintf("%s %s    %s", s.Bold.Render("/"), m.search.View(),
		s.Muted.Render("sort: "+sortLabel+" (s)"))

	switch m.fetchState.Status() {
	case pipeline.FetchIdle, pipeline.FetchLoading:
		return top + "\n\n" + m.spinner.View() + " Loading..."
	case pipeline.FetchFailed:
		return top + "\n\n" + s.Error.Render("Failed to load candidates") +
			"\n" + s.Muted.Render("r to retry")
	}

	status := fmt.Sprintf("Page %d / %d (%d records)",
		m.data.Page(), m.data.TotalPages(), m.data.FilteredCount())

	hints := "←/→ page"
	sess := m.app.Store.Session()
	if gateDetails.Admits(sess) {
		hints += " · enter details"
	}
	if gateFeedback.Admits(sess) {
		hints += " · f feedback"
	}

	return top + "\n\n" + m.table.View() + "\n" +
		s.Muted.Render(status) + "  " + s.Muted.Render(hints)
}
