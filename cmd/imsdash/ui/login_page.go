package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"imsdash/internal/api"
	"imsdash/internal/domain"
	"imsdash/internal/session"
)

// Login form fields, in focus order.
const (
	fieldUsername = iota
	fieldPassword
	fieldRole
	fieldCount
)

type (
	loginOKMsg struct {
		res  api.LoginResponse
		role domain.Role
	}
	loginFailedMsg struct{ err error }
)

// loginModel is the sign-in form: username, password, and the simulated role
// selector. The role is user-chosen and never verified upstream.
type loginModel struct {
	app *App

	username textinput.Model
	password textinput.Model
	roleIdx  int
	focus    int

	spinner    spinner.Model
	submitting bool
	notice     string

	width  int
	height int
}

func newLoginModel(app *App) loginModel {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.Width = 32
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = app.Styles.Spinner

	return loginModel{
		app:      app,
		username: username,
		password: password,
		spinner:  sp,
	}
}

func (m *loginModel) setSize(w, h int) {
	m.width, m.height = w, h
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginOKMsg:
		m.submitting = false
		token := msg.res.EnsureToken()
		user := msg.res.User()
		m.app.Store.Login(token, msg.role, user)
		m.app.Vault.Save(session.Record{
			Token: token,
			Role:  string(msg.role),
			User:  &user,
		})
		m.password.SetValue("")
		m.notice = ""
		return m, navigate(pageDashboard)

	case loginFailedMsg:
		m.submitting = false
		m.notice = "Login failed. If the mock API is unavailable, try 'emilys' / 'emilyspass'."
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "left", "right":
			if m.focus == fieldRole {
				roles := domain.Roles()
				if msg.String() == "right" {
					m.roleIdx = (m.roleIdx + 1) % len(roles)
				} else {
					m.roleIdx = (m.roleIdx + len(roles) - 1) % len(roles)
				}
				return m, nil
			}
		case "enter":
			if m.focus < fieldRole {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldUsername:
		m.username, cmd = m.username.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *loginModel) setFocus(f int) {
	m.focus = f
	m.username.Blur()
	m.password.Blur()
	switch f {
	case fieldUsername:
		m.username.Focus()
	case fieldPassword:
		m.password.Focus()
	}
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" {
		m.notice = "Username is required"
		return m, nil
	}
	if password == "" {
		m.notice = "Password is required"
		return m, nil
	}

	role := domain.Roles()[m.roleIdx]
	client := m.app.Client
	timeout := m.app.Config.API.Timeout

	m.submitting = true
	m.notice = ""
	login := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := client.Login(ctx, username, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return loginOKMsg{res: res, role: role}
	}
	return m, tea.Batch(m.spinner.Tick, login)
}

func (m loginModel) view() string {
	s := m.app.Styles
	var sb strings.Builder

	sb.WriteString(s.Title.Render("Sign in"))
	sb.WriteString("\n")
	sb.WriteString(s.Subtitle.Render("Use mock API credentials. Choose a role to simulate access."))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderField("Username", m.username.View(), fieldUsername))
	sb.WriteString(m.renderField("Password", m.password.View(), fieldPassword))

	roles := domain.Roles()
	parts := make([]string, len(roles))
	for i, r := range roles {
		label := r.Label()
		if i == m.roleIdx {
			label = s.Selected.Render("[" + label + "]")
		} else {
			label = s.Muted.Render(" " + label + " ")
		}
		parts[i] = label
	}
	sb.WriteString(m.renderField("Role", strings.Join(parts, " "), fieldRole))

	sb.WriteString("\n")
	if m.submitting {
		sb.WriteString(m.spinner.View() + " Signing in...")
	} else {
		sb.WriteString(s.Muted.Render("enter to sign in · tab to move"))
	}
	if m.notice != "" {
		sb.WriteString("\n\n" + s.Error.Render(m.notice))
	}

	return s.Content.Render(sb.String())
}

func (m loginModel) renderField(label, control string, field int) string {
	s := m.app.Styles
	marker := "  "
	if m.focus == field {
		marker = s.Prompt.Render("> ")
	}
	return fmt.Sprintf("%s%s\n  %s\n", marker, s.Bold.Render(label), control)
}
