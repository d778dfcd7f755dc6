package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"imsdash/internal/api"
	"imsdash/internal/config"
	"imsdash/internal/session"
)

// App bundles the shared dependencies every page needs.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Client *api.Client
	Store  *session.Store
	Vault  *session.Persistence
	Styles Styles
}

// page identifies the active view.
type page int

const (
	pageLogin page = iota
	pageDashboard
	pageCandidates
	pageDetail
	pageAdmin
)

func (p page) title() string {
	switch p {
	case pageLogin:
		return "Sign in"
	case pageDashboard:
		return "Overview"
	case pageCandidates:
		return "Candidates"
	case pageDetail:
		return "Candidate Details"
	case pageAdmin:
		return "Admin"
	}
	return ""
}

// Navigation messages emitted by pages.
type (
	// navigateMsg switches the active page.
	navigateMsg struct{ to page }
	// openDetailMsg switches to the detail page for one candidate,
	// optionally landing on the feedback tab.
	openDetailMsg struct {
		id       int
		feedback bool
	}
	// logoutMsg asks the app to clear the session and return to login.
	logoutMsg struct{}
)

func navigate(to page) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// Model is the root Bubble Tea model: a page router with the authentication
// route guard applied on every cycle.
type Model struct {
	app  *App
	page page

	width  int
	height int

	login      loginModel
	dashboard  dashboardModel
	candidates candidatesModel
	detail     detailModel
	admin      adminModel
}

// NewModel builds the root model. The starting page depends on whether a
// persisted session was bootstrapped.
func NewModel(app *App) Model {
	m := Model{
		app:        app,
		page:       pageLogin,
		login:      newLoginModel(app),
		dashboard:  newDashboardModel(app),
		candidates: newCandidatesModel(app),
		detail:     newDetailModel(app),
		admin:      newAdminModel(app),
	}
	if session.Guard(app.Store.Session()) == session.GuardRender {
		m.page = pageDashboard
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.page == pageCandidates {
		return m.candidates.fetch()
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.login.setSize(msg.Width, msg.Height)
		m.dashboard.setSize(msg.Width, msg.Height)
		m.candidates.setSize(msg.Width, msg.Height)
		m.detail.setSize(msg.Width, msg.Height)
		m.admin.setSize(msg.Width, msg.Height)
		return m, nil

	case navigateMsg:
		return m.switchTo(msg.to)

	case openDetailMsg:
		prev := m.page
		m.teardown(prev)
		m.page = pageDetail
		return m, m.detail.open(msg.id, msg.feedback)

	case logoutMsg:
		m.app.Store.Logout()
		m.app.Vault.Clear()
		m.teardown(m.page)
		m.page = pageLogin
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	// The route guard runs every cycle: an unauthenticated session on any
	// gated page redirects to login before the page sees the message.
	if m.page != pageLogin && session.Guard(m.app.Store.Session()) == session.GuardRedirectLogin {
		m.teardown(m.page)
		m.page = pageLogin
		return m, nil
	}

	var cmd tea.Cmd
	switch m.page {
	case pageLogin:
		m.login, cmd = m.login.update(msg)
	case pageDashboard:
		m.dashboard, cmd = m.dashboard.update(msg)
	case pageCandidates:
		m.candidates, cmd = m.candidates.update(msg)
	case pageDetail:
		m.detail, cmd = m.detail.update(msg)
	case pageAdmin:
		m.admin, cmd = m.admin.update(msg)
	}
	return m, cmd
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true
	}

	// Remaining shortcuts only apply while no text input has focus.
	if m.typing() {
		return nil, false
	}
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "1":
		return navigate(pageDashboard), m.page != pageLogin
	case "2":
		return navigate(pageCandidates), m.page != pageLogin
	case "3":
		return navigate(pageAdmin), m.page != pageLogin
	case "L":
		if m.page != pageLogin {
			return func() tea.Msg { return logoutMsg{} }, true
		}
	}
	return nil, false
}

// typing reports whether the active page has a focused text input, in which
// case plain-letter shortcuts must pass through.
func (m Model) typing() bool {
	switch m.page {
	case pageLogin:
		return true
	case pageCandidates:
		return m.candidates.typing()
	case pageDetail:
		return m.detail.typing()
	}
	return false
}

func (m Model) switchTo(to page) (tea.Model, tea.Cmd) {
	if to == m.page {
		return m, nil
	}
	m.teardown(m.page)
	m.page = to
	switch to {
	case pageCandidates:
		return m, m.candidates.fetch()
	case pageDashboard, pageAdmin, pageLogin:
		return m, nil
	}
	return m, nil
}

// teardown cancels outstanding work owned by the page being left, so late
// fetch resolutions cannot write into its state.
func (m *Model) teardown(p page) {
	switch p {
	case pageCandidates:
		m.candidates.teardown()
	case pageDetail:
		m.detail.teardown()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width > 0 && (m.width < MinimumTerminalWidth || m.height < MinimumTerminalHeight) {
		return m.app.Styles.Warning.Render(
			fmt.Sprintf("Terminal too small (need %dx%d)", MinimumTerminalWidth, MinimumTerminalHeight))
	}

	// Same guard as Update. While unauthenticated on a gated page, render
	// nothing at all for this cycle; the next Update lands on login.
	if m.page != pageLogin && session.Guard(m.app.Store.Session()) == session.GuardRedirectLogin {
		return ""
	}

	if m.page == pageLogin {
		return m.login.view()
	}

	var body string
	switch m.page {
	case pageDashboard:
		body = m.dashboard.view()
	case pageCandidates:
		body = m.candidates.view()
	case pageDetail:
		body = m.detail.view()
	case pageAdmin:
		body = m.admin.view()
	}

	s := m.app.Styles
	header := s.Header.Render("IMS Dashboard · "+m.page.title()) + "  " + m.roleBadge()
	footer := s.Footer.Render("1 overview · 2 candidates · 3 admin · L logout · q quit")
	return header + "\n" + s.Content.Render(body) + "\n" + footer
}

func (m Model) roleBadge() string {
	sess := m.app.Store.Session()
	if !sess.Authenticated {
		return ""
	}
	return m.app.Styles.Badge.Render(sess.Role.Label())
}
