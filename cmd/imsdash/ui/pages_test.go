package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"imsdash/internal/api"
	"imsdash/internal/config"
	"imsdash/internal/domain"
	"imsdash/internal/pipeline"
	"imsdash/internal/session"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	return &App{
		Config: cfg,
		Client: api.NewClient("http://127.0.0.1:0", cfg.API.Timeout, nil),
		Store:  session.NewStore(),
		Vault:  session.NewPersistence(t.TempDir()),
		Styles: NewStyles(LightTheme()),
	}
}

func signIn(app *App, role domain.Role) {
	app.Store.Login("tok", role, domain.UserSummary{ID: 1, Username: "emilys", FirstName: "Emily"})
}

func TestRouteGuardRendersNothingWhenLoggedOut(t *testing.T) {
	app := testApp(t)
	m := NewModel(app)
	m.page = pageCandidates

	if view := m.View(); view != "" {
		t.Fatalf("unauthenticated gated page must render nothing, got %q", view)
	}

	// The next update lands back on the login page.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if got := next.(Model).page; got != pageLogin {
		t.Fatalf("expected redirect to login page, got page %d", got)
	}
}

func TestModelStartsOnDashboardWithBootstrappedSession(t *testing.T) {
	app := testApp(t)
	signIn(app, domain.RoleAdmin)

	m := NewModel(app)
	if m.page != pageDashboard {
		t.Fatalf("expected dashboard start for authenticated session, got page %d", m.page)
	}
	if view := m.View(); !strings.Contains(view, "Admin") {
		t.Errorf("expected role badge in header")
	}
}

func TestLogoutClearsSessionAndReturnsToLogin(t *testing.T) {
	app := testApp(t)
	signIn(app, domain.RolePanelist)
	app.Vault.Save(session.Record{Token: "tok", Role: "panelist"})

	m := NewModel(app)
	next, _ := m.Update(logoutMsg{})
	model := next.(Model)

	if model.page != pageLogin {
		t.Fatalf("expected login page after logout, got %d", model.page)
	}
	if app.Store.Session().Authenticated {
		t.Error("session must be cleared on logout")
	}
	if _, ok := app.Vault.Load(); ok {
		t.Error("persisted session must be cleared on logout")
	}
}

func TestCandidatesPageAppliesLoadedRecords(t *testing.T) {
	app := testApp(t)
	signIn(app, domain.RoleTAMember)

	m := newCandidatesModel(app)
	token := m.ctrl.Next()
	m.fetchState.Begin(token)

	m, _ = m.update(candidatesLoadedMsg{token: token, records: []domain.CandidateRecord{
		{ID: 1, FirstName: "Bob", Username: "bob1"},
		{ID: 2, FirstName: "Alice", Username: "alice1"},
	}})

	view := m.view()
	if !strings.Contains(view, "Alice") || !strings.Contains(view, "Bob") {
		t.Fatalf("expected loaded records in view:\n%s", view)
	}
	if !strings.Contains(view, "Page 1 / 1 (2 records)") {
		t.Errorf("expected pagination status line:\n%s", view)
	}
}

func TestCandidatesPageDiscardsStaleResponse(t *testing.T) {
	app := testApp(t)
	signIn(app, domain.RoleTAMember)

	m := newCandidatesModel(app)
	stale := m.ctrl.Next()
	m.fetchState.Begin(stale)
	m.teardown()

	m, _ = m.update(candidatesLoadedMsg{token: stale, records: []domain.CandidateRecord{
		{ID: 1, FirstName: "Ghost", Username: "ghost"},
	}})

	if m.fetchState.Status() == pipeline.FetchReady {
		t.Fatal("stale response must not transition the fetch state")
	}
	if len(m.fetchState.Records()) != 0 {
		t.Fatal("stale response must not write records")
	}
}

func TestCandidatesSearchDebounce(t *testing.T) {
	app := testApp(t)
	signIn(app, domain.RoleTAMember)

	m := newCandidatesModel(app)
	token := m.ctrl.Next()
	m.fetchState.Begin(token)
	m, _ = m.update(candidatesLoadedMsg{token: token, records: []domain.CandidateRecord{
		{ID: 1, FirstName: "Alice", Username: "alice1"},
		{ID: 2, FirstName: "Bob", Username: "bob1"},
	}})

	// Focus the search box and type one character.
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})

	// Until the quiet period elapses the filter is unchanged.
	if m.data.FilteredCount() != 2 {
		t.Fatalf("filter must not apply before the debounce fires")
	}

	// First edit armed generation 1.
	m, _ = m.update(queryDebounceMsg{gen: 1})
	if m.data.FilteredCount() != 1 {
		t.Fatalf("expected one match after debounce, got %d", m.data.FilteredCount())
	}
}

func TestAdminPageGatedByRole(t *testing.T) {
	app := testApp(t)
	signIn(app, domain.RolePanelist)

	m := newAdminModel(app)
	if view := m.view(); view != "" {
		t.Fatalf("non-admin must see nothing on the admin page, got %q", view)
	}

	signIn(app, domain.RoleAdmin)
	if view := m.view(); !strings.Contains(view, "Alice") {
		t.Fatalf("admin must see the role table:\n%s", view)
	}
}

func TestAdminRoleCycling(t *testing.T) {
	app := testApp(t)
	signIn(app, domain.RoleAdmin)

	m := newAdminModel(app)
	before := m.users[0].role
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.users[0].role == before {
		t.Fatal("enter must cycle the selected user's role")
	}

	// Cycling through the whole closed set returns to the start.
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.users[0].role != before {
		t.Fatalf("three cycles must return to %s, got %s", before, m.users[0].role)
	}
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	app := testApp(t)
	m := newLoginModel(app)

	res := api.LoginResponse{ID: 5, Username: "emilys", FirstName: "Emily"}
	m, cmd := m.update(loginOKMsg{res: res, role: domain.RolePanelist})
	if cmd == nil {
		t.Fatal("successful login must navigate away")
	}

	sess := app.Store.Session()
	if !sess.Authenticated || sess.Role != domain.RolePanelist {
		t.Fatalf("unexpected session after login: %+v", sess)
	}
	if !strings.HasPrefix(sess.Token, "client_") {
		t.Errorf("token absent from response must be synthesized, got %q", sess.Token)
	}

	rec, ok := app.Vault.Load()
	if !ok || rec.Token != sess.Token {
		t.Error("session must be persisted on login")
	}
}

func TestLoginFailureShowsBlockingNotice(t *testing.T) {
	app := testApp(t)
	m := newLoginModel(app)

	m, _ = m.update(loginFailedMsg{})
	if m.notice == "" {
		t.Fatal("login failure must surface a notice")
	}
	if !strings.Contains(m.view(), "Login failed") {
		t.Error("notice must be rendered")
	}
}

func TestDetailPageDiscardsSupersededIdentity(t *testing.T) {
	app := testApp(t)
	signIn(app, domain.RolePanelist)

	m := newDetailModel(app)
	_ = m.open(1, false)
	stale := m.ctrl.Next()
	m.ctrl.Cancel()

	// Opening a second candidate supersedes the first fetch.
	_ = m.open(2, false)

	m, _ = m.update(detailLoadedMsg{
		token:  stale,
		detail: domain.CandidateDetail{Profile: domain.CandidateRecord{ID: 1, FirstName: "Old"}},
	})

	if m.detail.Profile.ID == 1 {
		t.Fatal("superseded detail fetch must not land")
	}
	if !m.loading {
		t.Fatal("page must still be loading the latest identity")
	}
}
