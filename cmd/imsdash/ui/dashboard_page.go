package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// kpi is one overview card: a headline number plus a 7-point series for the
// mini chart. The numbers are demo data; no reporting backend exists.
type kpi struct {
	title  string
	value  string
	series []float64
	spark  bool // sparkline instead of bars
}

// dashboardModel is the overview page with its KPI cards.
type dashboardModel struct {
	app    *App
	cards  []kpi
	width  int
	height int
}

func newDashboardModel(app *App) dashboardModel {
	return dashboardModel{
		app: app,
		cards: []kpi{
			{title: "Interviews this week", value: "8", series: []float64{2, 1, 3, 2, 4, 5, 8}},
			{title: "Avg feedback score", value: "4.3", series: []float64{3.8, 4.0, 4.1, 4.2, 4.0, 4.5, 4.3}, spark: true},
			{title: "No-shows", value: "1", series: []float64{1, 0, 1, 0, 2, 1, 1}},
		},
	}
}

func (m *dashboardModel) setSize(w, h int) {
	m.width, m.height = w, h
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	return m, nil
}

func (m dashboardModel) view() string {
	s := m.app.Styles

	cards := make([]string, 0, len(m.cards))
	for _, c := range m.cards {
		chart := BarMini(c.series)
		if c.spark {
			chart = Sparkline(c.series)
		}
		body := s.Muted.Render(c.title) + "\n" +
			s.Title.Render(c.value) + "\n" +
			s.Info.Render(chart)
		cards = append(cards, s.Card.Width(KPICardWidth).Render(body))
	}

	var out string
	if m.width >= 3*KPICardWidth+8 {
		out = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		for i, c := range cards {
			if i > 0 {
				out += "\n"
			}
			out += c
		}
	}
	if g := m.greeting(); g != "" {
		out += "\n\n" + s.Subtitle.Render(g)
	}
	return out
}

// greeting is shown under the cards when the signed-in user is known.
func (m dashboardModel) greeting() string {
	sess := m.app.Store.Session()
	if sess.User == nil {
		return ""
	}
	name := sess.User.FirstName
	if name == "" {
		name = sess.User.Username
	}
	return fmt.Sprintf("Welcome back, %s.", name)
}
