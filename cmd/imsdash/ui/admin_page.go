package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"imsdash/internal/domain"
	"imsdash/internal/session"
)

var gateAdmin = session.Allow(domain.RoleAdmin)

// mockUser is one row of the admin role table. The table is an in-memory
// simulation: edits go nowhere and are discarded on exit.
type mockUser struct {
	id   int
	name string
	role domain.Role
}

// adminModel is the admin-only role table.
type adminModel struct {
	app    *App
	users  []mockUser
	cursor int
	width  int
	height int
}

func newAdminModel(app *App) adminModel {
	return adminModel{
		app: app,
		users: []mockUser{
			{id: 1, name: "Alice", role: domain.RolePanelist},
			{id: 2, name: "Bob", role: domain.RoleTAMember},
			{id: 3, name: "Charlie", role: domain.RolePanelist},
		},
	}
}

func (m *adminModel) setSize(w, h int) {
	m.width, m.height = w, h
}

func (m adminModel) update(msg tea.Msg) (adminModel, tea.Cmd) {
	if !gateAdmin.Admits(m.app.Store.Session()) {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.users)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.users[m.cursor].role = nextRole(m.users[m.cursor].role)
		}
	}
	return m, nil
}

// nextRole cycles through the closed role set in display order.
func nextRole(r domain.Role) domain.Role {
	roles := domain.Roles()
	for i, cur := range roles {
		if cur == r {
			return roles[(i+1)%len(roles)]
		}
	}
	return roles[0]
}

func (m adminModel) view() string {
	s := m.app.Styles

	// Role gate: non-admins see nothing here, silently.
	if !gateAdmin.Admits(m.app.Store.Session()) {
		return ""
	}

	t := NewSimpleTable("", []string{"", "Name", "Role"})
	for i, u := range m.users {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		t.AddRow(marker, u.name, string(u.role))
	}

	return s.Subtitle.Render("UI-only simulation. No backend updates.") + "\n\n" +
		t.View(s) + "\n" +
		s.Muted.Render("↑/↓ select · enter cycles role")
}
