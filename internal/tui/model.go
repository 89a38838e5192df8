// Package tui is the review surface: two aggregate panes over one summary
// set, inline hour edits, and a markdown preview of the report.
package tui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hylla/tidrapport/internal/app"
	"github.com/hylla/tidrapport/internal/domain"
)

// Service represents the session operations the review surface needs.
type Service interface {
	Load(context.Context) (app.Session, error)
	Refresh(context.Context, domain.Month, time.Time) (app.Session, error)
	Recalculate(context.Context, time.Time) (app.Session, error)
	ApplyEdit(context.Context, app.EditInput) (app.Session, error)
}

// focusPane represents a selectable pane.
type focusPane int

const (
	focusProjects focusPane = iota
	focusPeople
)

// inputMode represents a selectable mode.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeEdit
	modePreview
)

// sessionMsg carries message data through update handling.
type sessionMsg struct {
	session app.Session
	status  string
	err     error
}

// Model represents model data used by this package.
type Model struct {
	svc   Service
	month domain.Month
	asOf  time.Time

	leadPerson string

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap
	md   markdownRenderer

	session app.Session
	loaded  bool

	projects []domain.ProjectSummary
	people   []domain.PersonSummary

	focus           focusPane
	selectedProject int
	selectedPerson  int

	mode       inputMode
	editInput  textinput.Model
	editTarget app.EditInput
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, month domain.Month, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	editInput := textinput.New()
	editInput.Prompt = "hours: "
	editInput.Placeholder = "total hours, e.g. 32.5"
	editInput.CharLimit = 12

	m := Model{
		svc:       svc,
		month:     month,
		asOf:      domain.DateOnly(time.Now().UTC()),
		status:    "loading...",
		help:      h,
		keys:      newKeyMap(),
		editInput: editInput,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadSession
}

func (m Model) loadSession() tea.Msg {
	session, err := m.svc.Load(context.Background())
	if err != nil {
		if errors.Is(err, app.ErrNoData) {
			return sessionMsg{status: "no saved session, press f to fetch the board"}
		}
		return sessionMsg{err: err}
	}
	return sessionMsg{session: session, status: "restored saved session"}
}

func (m Model) fetchSession() tea.Msg {
	session, err := m.svc.Refresh(context.Background(), m.month, m.asOf)
	if err != nil {
		return sessionMsg{err: err}
	}
	return sessionMsg{session: session, status: fmt.Sprintf("fetched %d records", len(session.Records))}
}

func (m Model) recalculateSession() tea.Msg {
	session, err := m.svc.Recalculate(context.Background(), m.asOf)
	if err != nil {
		return sessionMsg{err: err}
	}
	return sessionMsg{session: session, status: "recalculated, edits dropped"}
}

func (m Model) applyEdit(in app.EditInput) tea.Cmd {
	return func() tea.Msg {
		session, err := m.svc.ApplyEdit(context.Background(), in)
		if err != nil {
			return sessionMsg{err: err}
		}
		return sessionMsg{session: session, status: fmt.Sprintf("%s set to %.1fh", in.ID, in.Hours)}
	}
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		m.err = nil
		if msg.session.Summary != nil {
			m.session = msg.session
			m.loaded = true
			m.projects = msg.session.Summary.ProjectSummaries()
			m.people = msg.session.Summary.PersonSummaries()
			m.clampSelections()
		}
		if msg.status != "" {
			m.status = msg.status
		}
		return m, nil

	case tea.KeyPressMsg:
		switch m.mode {
		case modeEdit:
			return m.handleEditKey(msg)
		case modePreview:
			return m.handlePreviewKey(msg)
		default:
			return m.handleBrowseKey(msg)
		}

	default:
		return m, nil
	}
}

func (m Model) handleBrowseKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.fetch):
		m.status = "fetching board..."
		return m, m.fetchSession
	case key.Matches(msg, m.keys.recalculate):
		if !m.loaded {
			m.status = "nothing to recalculate"
			return m, nil
		}
		return m, m.recalculateSession
	case key.Matches(msg, m.keys.switchPane):
		if m.focus == focusProjects {
			m.focus = focusPeople
		} else {
			m.focus = focusProjects
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.preview):
		if !m.loaded {
			m.status = "nothing to preview"
			return m, nil
		}
		m.mode = modePreview
		return m, nil
	case key.Matches(msg, m.keys.edit):
		return m.startEdit()
	default:
		return m, nil
	}
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	if !m.loaded {
		m.status = "nothing to edit"
		return m, nil
	}
	var target app.EditInput
	var current float64
	switch m.focus {
	case focusProjects:
		if len(m.projects) == 0 {
			m.status = "no projects to edit"
			return m, nil
		}
		p := m.projects[clamp(m.selectedProject, 0, len(m.projects)-1)]
		target = app.EditInput{Entity: app.EntityProject, ID: p.ID}
		current = p.Total
	case focusPeople:
		if len(m.people) == 0 {
			m.status = "no people to edit"
			return m, nil
		}
		p := m.people[clamp(m.selectedPerson, 0, len(m.people)-1)]
		target = app.EditInput{Entity: app.EntityPerson, ID: p.Person}
		current = p.Total
	}
	m.mode = modeEdit
	m.editTarget = target
	m.editInput.SetValue(strconv.FormatFloat(current, 'f', 1, 64))
	m.status = fmt.Sprintf("editing %s", target.ID)
	return m, m.editInput.Focus()
}

func (m Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.editInput.Blur()
		m.status = "edit cancelled"
		return m, nil
	case "enter":
		raw := strings.TrimSpace(m.editInput.Value())
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.status = fmt.Sprintf("invalid hours %q", raw)
			return m, nil
		}
		in := m.editTarget
		in.Hours = hours
		m.mode = modeBrowse
		m.editInput.Blur()
		return m, m.applyEdit(in)
	default:
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}
}

func (m Model) handlePreviewKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "p", "q":
		m.mode = modeBrowse
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) moveSelection(delta int) {
	switch m.focus {
	case focusProjects:
		m.selectedProject = clamp(m.selectedProject+delta, 0, max(0, len(m.projects)-1))
	case focusPeople:
		m.selectedPerson = clamp(m.selectedPerson+delta, 0, max(0, len(m.people)-1))
	}
}

func (m *Model) clampSelections() {
	m.selectedProject = clamp(m.selectedProject, 0, max(0, len(m.projects)-1))
	m.selectedPerson = clamp(m.selectedPerson, 0, max(0, len(m.people)-1))
}

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("33")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	if m.mode == modePreview {
		content := m.md.render(m.previewMarkdown(), max(40, m.width-4))
		footer := statusStyle.Render("esc to return")
		v := tea.NewView(content + "\n" + footer)
		v.AltScreen = true
		return v
	}

	title := titleStyle.Render(fmt.Sprintf("tidrapport  %s", m.month.Label()))

	var body string
	if !m.loaded {
		body = "No session loaded.\nPress f to fetch the board, q to quit."
	} else {
		left := m.paneView("Projects", m.projectRows(), m.focus == focusProjects, accent, muted)
		right := m.paneView("People", m.personRows(), m.focus == focusPeople, accent, muted)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)

		totals := m.session.Summary.Totals()
		body += "\n\n" + lipgloss.NewStyle().Bold(true).Render(
			fmt.Sprintf("Department: %.1fh done, %.1fh remaining, %.1fh total",
				totals.Completed, totals.Remaining, totals.Total()))
	}

	lines := []string{title, "", body}
	if m.mode == modeEdit {
		lines = append(lines, "", m.editInput.View()+"  (enter to apply, esc to cancel)")
	}
	if strings.TrimSpace(m.status) != "" {
		lines = append(lines, "", statusStyle.Render(m.status))
	}

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	v := tea.NewView(strings.Join(lines, "\n") + "\n" + helpLine)
	v.AltScreen = true
	return v
}

type paneRow struct {
	label string
	hours domain.HourSplit
}

func (m Model) projectRows() []paneRow {
	rows := make([]paneRow, 0, len(m.projects))
	for _, p := range m.projects {
		rows = append(rows, paneRow{label: p.Name, hours: domain.HourSplit{Completed: p.Completed, Remaining: p.Remaining}})
	}
	return rows
}

func (m Model) personRows() []paneRow {
	rows := make([]paneRow, 0, len(m.people))
	for _, p := range m.people {
		rows = append(rows, paneRow{label: p.Person, hours: domain.HourSplit{Completed: p.Completed, Remaining: p.Remaining}})
	}
	return rows
}

func (m Model) paneView(title string, rows []paneRow, focused bool, accent, muted color.Color) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(muted)
	if focused {
		titleStyle = titleStyle.Foreground(accent)
	}
	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	selected := m.selectedPerson
	if title == "Projects" {
		selected = m.selectedProject
	}

	lines := []string{titleStyle.Render(title)}
	lines = append(lines, fmt.Sprintf("  %-24s %8s %8s %8s", "", "done", "left", "total"))
	if len(rows) == 0 {
		lines = append(lines, "  (none)")
	}
	for i, row := range rows {
		label := row.label
		if runes := []rune(label); len(runes) > 24 {
			label = string(runes[:23]) + "…"
		}
		line := fmt.Sprintf("  %-24s %7.1fh %7.1fh %7.1fh", label, row.hours.Completed, row.hours.Remaining, row.hours.Total())
		if focused && i == selected {
			line = selStyle.Render("▸" + line[1:])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// previewMarkdown builds the markdown summary shown before a deck is
// rendered. It mirrors the deck's section order.
func (m Model) previewMarkdown() string {
	s := m.session.Summary
	totals := s.Totals()

	var b strings.Builder
	fmt.Fprintf(&b, "# Department Time Report: %s\n\n", s.Month.Label())
	fmt.Fprintf(&b, "Hours as of %s.\n\n", s.AsOf.Format("January 2, 2006"))
	fmt.Fprintf(&b, "**%.1fh** completed, **%.1fh** remaining, **%.1fh** planned.\n\n", totals.Completed, totals.Remaining, totals.Total())

	b.WriteString("## Team\n\n")
	b.WriteString("| Person | Done | Left | Total |\n|---|---|---|---|\n")
	for _, p := range m.people {
		marker := ""
		if strings.EqualFold(p.Person, m.leadPerson) {
			marker = " (lead)"
		}
		fmt.Fprintf(&b, "| %s%s | %.1fh | %.1fh | %.1fh |\n", p.Person, marker, p.Completed, p.Remaining, p.Total)
	}

	b.WriteString("\n## Projects\n\n")
	b.WriteString("| Project | Done | Left | Total |\n|---|---|---|---|\n")
	for _, p := range m.projects {
		fmt.Fprintf(&b, "| %s | %.1fh | %.1fh | %.1fh |\n", p.Name, p.Completed, p.Remaining, p.Total)
	}

	if len(s.Weeks) > 0 {
		b.WriteString("\n## Weekly Progress\n\n")
		b.WriteString("| Week | Done | Left |\n|---|---|---|\n")
		for _, w := range s.Weeks {
			fmt.Fprintf(&b, "| %s to %s | %.1fh | %.1fh |\n", w.Start.Format("Jan 2"), w.End.Format("Jan 2"), w.Hours.Completed, w.Hours.Remaining)
		}
	}
	return b.String()
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
