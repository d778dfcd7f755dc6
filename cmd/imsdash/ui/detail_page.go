package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"imsdash/internal/domain"
	"imsdash/internal/pipeline"
)

// Detail page tabs.
type detailTab int

const (
	tabProfile detailTab = iota
	tabSchedule
	tabFeedback
)

func (t detailTab) label() string {
	switch t {
	case tabProfile:
		return "Profile"
	case tabSchedule:
		return "Schedule"
	case tabFeedback:
		return "Feedback"
	}
	return ""
}

type (
	detailLoadedMsg struct {
		token  pipeline.Token
		detail domain.CandidateDetail
	}
	detailFailedMsg struct {
		token pipeline.Token
		err   error
	}
	feedbackSubmittedMsg struct{}
)

// feedbackSubmitDelay simulates the round trip of a real submission.
const feedbackSubmitDelay = 700 * time.Millisecond

// detailModel shows one candidate: profile, schedule and feedback tabs, with
// the panelist-gated feedback form. Rapid navigation between candidates is
// resolved latest-request-wins via the fetch controller.
type detailModel struct {
	app *App

	ctrl    *pipeline.Controller
	id      int
	detail  domain.CandidateDetail
	loading bool
	loadErr error

	tab detailTab

	// Feedback form.
	validate     *validator.Validate
	score        textinput.Model
	strengths    textinput.Model
	improvements textinput.Model
	formFocus    int // -1 none, 0..2 inputs
	formErr      string
	formNotice   string
	submitting   bool

	spinner spinner.Model
	width   int
	height  int
}

func newDetailModel(app *App) detailModel {
	score := textinput.New()
	score.Placeholder = "1-5"
	score.CharLimit = 1
	score.Width = 4

	strengths := textinput.New()
	strengths.Placeholder = "Strengths (5-500 chars)"
	strengths.CharLimit = 500
	strengths.Width = 60

	improvements := textinput.New()
	improvements.Placeholder = "Areas for improvement (5-500 chars)"
	improvements.CharLimit = 500
	improvements.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = app.Styles.Spinner

	return detailModel{
		app:          app,
		ctrl:         pipeline.NewController(),
		validate:     validator.New(),
		score:        score,
		strengths:    strengths,
		improvements: improvements,
		formFocus:    -1,
		spinner:      sp,
	}
}

func (m *detailModel) setSize(w, h int) {
	m.width, m.height = w, h
}

func (m detailModel) typing() bool { return m.formFocus >= 0 }

// open targets a new candidate identity and starts its fan-out fetch. The
// fresh token supersedes any fetch still in flight for a previous identity.
func (m *detailModel) open(id int, feedback bool) tea.Cmd {
	m.id = id
	m.tab = tabProfile
	if feedback {
		m.tab = tabFeedback
	}
	m.loading = true
	m.loadErr = nil
	m.detail = domain.CandidateDetail{}
	m.resetForm()

	token := m.ctrl.Next()
	client := m.app.Client
	timeout := m.app.Config.API.Timeout
	load := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		detail, err := client.CandidateDetail(ctx, id)
		if err != nil {
			return detailFailedMsg{token: token, err: err}
		}
		return detailLoadedMsg{token: token, detail: detail}
	}
	return tea.Batch(m.spinner.Tick, load)
}

// teardown invalidates outstanding fetches when the page is left.
func (m *detailModel) teardown() {
	m.ctrl.Cancel()
}

func (m *detailModel) resetForm() {
	m.score.SetValue("")
	m.strengths.SetValue("")
	m.improvements.SetValue("")
	m.setFormFocus(-1)
	m.formErr = ""
	m.formNotice = ""
	m.submitting = false
}

func (m detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		// Stale resolutions (superseded identity or page left) are dropped.
		if !msg.token.Live() {
			return m, nil
		}
		m.loading = false
		m.detail = msg.detail
		return m, nil

	case detailFailedMsg:
		if !msg.token.Live() {
			return m, nil
		}
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case feedbackSubmittedMsg:
		m.resetForm()
		m.formNotice = "Feedback submitted (simulated). Thank you!"
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		if m.loading || m.submitting {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m detailModel) handleKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.formFocus >= 0 {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "esc", "backspace":
		return m, navigate(pageCandidates)
	case "tab":
		m.tab = (m.tab + 1) % 3
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + 2) % 3
		return m, nil
	case "p":
		m.tab = tabProfile
		return m, nil
	case "s":
		m.tab = tabSchedule
		return m, nil
	case "f":
		m.tab = tabFeedback
		return m, nil
	case "enter", "i":
		if m.tab == tabFeedback && gateFeedback.Admits(m.app.Store.Session()) && !m.submitting {
			m.setFormFocus(0)
		}
		return m, nil
	}
	return m, nil
}

func (m detailModel) handleFormKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.setFormFocus(-1)
		return m, nil
	case "tab", "down":
		m.setFormFocus((m.formFocus + 1) % 3)
		return m, nil
	case "shift+tab", "up":
		m.setFormFocus((m.formFocus + 2) % 3)
		return m, nil
	case "enter":
		if m.formFocus < 2 {
			m.setFormFocus(m.formFocus + 1)
			return m, nil
		}
		return m.submitFeedback()
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case 0:
		m.score, cmd = m.score.Update(msg)
	case 1:
		m.strengths, cmd = m.strengths.Update(msg)
	case 2:
		m.improvements, cmd = m.improvements.Update(msg)
	}
	return m, cmd
}

func (m *detailModel) setFormFocus(f int) {
	m.formFocus = f
	m.score.Blur()
	m.strengths.Blur()
	m.improvements.Blur()
	switch f {
	case 0:
		m.score.Focus()
	case 1:
		m.strengths.Focus()
	case 2:
		m.improvements.Focus()
	}
}

func (m detailModel) submitFeedback() (detailModel, tea.Cmd) {
	score, err := strconv.Atoi(strings.TrimSpace(m.score.Value()))
	if err != nil {
		m.formErr = "Score must be a number between 1 and 5"
		return m, nil
	}
	form := domain.FeedbackForm{
		Score:        score,
		Strengths:    strings.TrimSpace(m.strengths.Value()),
		Improvements: strings.TrimSpace(m.improvements.Value()),
	}
	if err := m.validate.Struct(form); err != nil {
		m.formErr = feedbackErrorMessage(err)
		return m, nil
	}

	m.formErr = ""
	m.submitting = true
	submit := tea.Tick(feedbackSubmitDelay, func(time.Time) tea.Msg {
		return feedbackSubmittedMsg{}
	})
	return m, tea.Batch(m.spinner.Tick, submit)
}

func feedbackErrorMessage(err error) string {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) || len(invalid) == 0 {
		return "Invalid feedback"
	}
	fe := invalid[0]
	switch fe.Field() {
	case "Score":
		return "Score must be between 1 and 5"
	case "Strengths":
		return "Strengths must be 5-500 characters"
	case "Improvements":
		return "Areas for improvement must be 5-500 characters"
	}
	return "Invalid feedback"
}

func (m detailModel) view() string {
	s := m.app.Styles

	if m.loading {
		return m.spinner.View() + " Loading candidate..."
	}
	if m.loadErr != nil {
		return s.Error.Render("Failed to load candidate details") +
			"\n" + s.Muted.Render("esc to go back")
	}

	var tabs []string
	for _, t := range []detailTab{tabProfile, tabSchedule, tabFeedback} {
		if t == m.tab {
			tabs = append(tabs, s.TabOn.Render(t.label()))
		} else {
			tabs = append(tabs, s.TabOff.Render(t.label()))
		}
	}
	head := strings.Join(tabs, " ")

	var body string
	switch m.tab {
	case tabProfile:
		body = m.profileView()
	case tabSchedule:
		body = m.scheduleView()
	case tabFeedback:
		body = m.feedbackView()
	}

	return head + "\n\n" + body + "\n\n" + s.Muted.Render("tab switch · esc back")
}

func (m detailModel) profileView() string {
	s := m.app.Styles
	p := m.detail.Profile
	dept := p.Department
	if dept == "" {
		dept = "-"
	}
	return s.Title.Render(p.FullName()) + "\n" +
		s.Muted.Render(p.Email+" • "+p.Username) + "\n" +
		"Department: " + dept
}

func (m detailModel) scheduleView() string {
	s := m.app.Styles
	if len(m.detail.Schedule) == 0 {
		return s.Muted.Render("No scheduled items.")
	}
	var sb strings.Builder
	for _, item := range m.detail.Schedule {
		mark := "[ ]"
		if item.Completed {
			mark = "[x]"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, item.Title))
	}
	return sb.String()
}

func (m detailModel) feedbackView() string {
	s := m.app.Styles
	var sb strings.Builder

	sb.WriteString(s.Bold.Render("Existing Feedback"))
	sb.WriteString("\n")
	if len(m.detail.Feedback) == 0 {
		sb.WriteString(s.Muted.Render("No feedback yet."))
		sb.WriteString("\n")
	}
	for _, post := range m.detail.Feedback {
		sb.WriteString(s.Body.Render(post.Title))
		sb.WriteString("\n")
		sb.WriteString(s.Muted.Render(post.Body))
		sb.WriteString("\n\n")
	}

	// The entry form renders only for panelists; other roles silently see
	// just the recorded feedback.
	if !gateFeedback.Admits(m.app.Store.Session()) {
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(s.Bold.Render("Submit Feedback"))
	sb.WriteString("\n")
	sb.WriteString("Overall Score (1-5): " + m.score.View() + "\n")
	sb.WriteString("Strengths:           " + m.strengths.View() + "\n")
	sb.WriteString("Improvements:        " + m.improvements.View() + "\n")

	switch {
	case m.submitting:
		sb.WriteString(m.spinner.View() + " Submitting...")
	case m.formFocus < 0:
		sb.WriteString(s.Muted.Render("enter to edit form"))
	default:
		sb.WriteString(s.Muted.Render("enter on last field submits · esc leaves form"))
	}
	if m.formErr != "" {
		sb.WriteString("\n" + s.Error.Render(m.formErr))
	}
	if m.formNotice != "" {
		sb.WriteString("\n" + s.Success.Render(m.formNotice))
	}
	return sb.String()
}
