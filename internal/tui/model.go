// Package tui provides the Bubble Tea survey exploration interface.
package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avelanarius/surveyscope/internal/distribution"
	"github.com/avelanarius/surveyscope/internal/question"
	"github.com/avelanarius/surveyscope/internal/report"
	"github.com/avelanarius/surveyscope/internal/session"
)

const (
	tabQuestions = iota
	tabDistribution
	tabStatus
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A8AC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea exploration UI over one session.
type Model struct {
	session  *session.Session
	renderer report.Renderer

	tabs      []string
	activeTab int
	viewports []viewport.Model

	questionTable table.Model
	questions     []string
	searchKeyword string

	errMsg string

	searchMode  bool
	searchInput textinput.Model

	filterMode  bool
	filterInput textinput.Model
	filterError string

	currentQuestion string
	currentDist     distribution.Distribution
	haveDist        bool
	tableFormat     bool

	width  int
	height int
}

// NewModel constructs an exploration UI bound to a session.
func NewModel(s *session.Session, renderer report.Renderer) *Model {
	m := &Model{
		session:  s,
		renderer: renderer,
		tabs:     []string{"Questions", "Distribution", "Status"},
	}
	m.searchInput = newPromptInput("Search: ")
	m.filterInput = newPromptInput("Filter (Question=Option): ")
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.questionTable = buildQuestionTable(nil, 0, 1)
	m.refreshQuestions()
	m.renderTabContents()
	return m
}

func newPromptInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.activeTab == tabQuestions && !m.searchMode && !m.filterMode {
			m.questionTable.Focus()
		} else {
			m.questionTable.Blur()
		}
		if m.searchMode {
			return m.updateSearch(msg)
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startSearch()
		case "f":
			return m.startFilter()
		case "r":
			m.session.Reset()
			m.errMsg = ""
			m.recomputeDistribution()
			m.refreshQuestions()
			m.renderTabContents()
			return m, nil
		case "t":
			m.tableFormat = !m.tableFormat
			m.renderTabContents()
			return m, nil
		case "enter":
			if m.activeTab == tabQuestions {
				m.selectQuestion()
				return m, tea.ClearScreen
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabQuestions {
				m.questionTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabQuestions {
				m.questionTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabQuestions {
				var cmd tea.Cmd
				m.questionTable, cmd = m.questionTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.searchMode || m.filterMode {
		footerHeight++
	}
	if m.errMsg != "" || m.filterError != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.questionTable.SetWidth(m.width)
	m.questionTable.SetHeight(maxInt(1, bodyHeight-1))
	for _, input := range []*textinput.Model{&m.searchInput, &m.filterInput} {
		promptWidth := lipgloss.Width(input.Prompt)
		input.Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabQuestions {
		m.questionTable.Focus()
	} else {
		m.questionTable.Blur()
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := padLines(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
	summary := padLines(m.renderSessionSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderSessionSummary() string {
	summary := m.session.Summary()
	line := fmt.Sprintf("%s  respondents=%d  questions=%d  filters=%d",
		summary.SourcePath, summary.Respondents, summary.Questions, len(summary.ActiveFilters))
	if m.searchKeyword != "" {
		line += fmt.Sprintf("  search=%q", m.searchKeyword)
	}
	return headerStyle.Render(truncateLine(line, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Select: enter  Search: /  Filter: f  Reset: r  Quit: q"
	if m.activeTab == tabDistribution {
		help = "Nav: left/right  Format: t  Scroll: up/down  Filter: f  Reset: r  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	lines := []string{}
	switch {
	case m.searchMode:
		lines = append(lines, m.searchInput.View(),
			headerStyle.Render("enter: apply  esc: cancel"))
	case m.filterMode:
		lines = append(lines, m.filterInput.View(),
			headerStyle.Render("enter: apply  esc: cancel"))
	default:
		lines = append(lines, m.renderHelp())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	} else if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody() string {
	_, bodyHeight, _ := m.layoutHeights()
	if m.activeTab == tabQuestions {
		if len(m.questions) == 0 {
			return fitLines("No questions match the current search.", m.width, bodyHeight)
		}
		return fitLines(tableMutedStyle.Render(m.questionTable.View()), m.width, bodyHeight)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, bodyHeight)
}

func (m *Model) refreshQuestions() {
	view := m.session.Current()
	if m.searchKeyword == "" {
		m.questions = view.Columns()
	} else {
		m.questions = question.Search(view, m.searchKeyword)
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.questionTable = buildQuestionTable(m.questionRows(), width, bodyHeight)
	if m.activeTab == tabQuestions {
		m.questionTable.Focus()
	}
}

func (m *Model) questionRows() []table.Row {
	view := m.session.Current()
	rows := make([]table.Row, 0, len(m.questions))
	for i, name := range m.questions {
		kind := "single"
		if multi, err := question.IsMultiAnswer(view, name, m.renderer.Delimiter); err == nil && multi {
			kind = "multi"
		}
		rows = append(rows, table.Row{fmt.Sprintf("%d", i+1), name, kind})
	}
	return rows
}

func buildQuestionTable(rows []table.Row, width, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Question", Width: maxInt(20, width-16)},
		{Title: "Kind", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(questionTableStyles())
	return t
}

func questionTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) selectQuestion() {
	row := m.questionTable.SelectedRow()
	if len(row) < 2 {
		return
	}
	m.currentQuestion = row[1]
	m.errMsg = ""
	m.recomputeDistribution()
	m.activeTab = tabDistribution
	m.renderTabContents()
}

func (m *Model) recomputeDistribution() {
	if m.currentQuestion == "" {
		m.haveDist = false
		return
	}
	dist, err := distribution.Compute(m.session.Current(), m.currentQuestion, m.renderer.Delimiter)
	if err != nil {
		m.errMsg = err.Error()
		m.haveDist = false
		return
	}
	m.currentDist = dist
	m.haveDist = true
}

func (m *Model) renderTabContents() {
	m.viewports[tabDistribution].SetContent(m.renderDistribution())
	m.viewports[tabStatus].SetContent(m.renderStatus())
}

func (m *Model) renderDistribution() string {
	if !m.haveDist {
		return "No question selected. Choose one on the Questions tab and press Enter."
	}
	renderer := m.renderer
	if renderer.BarWidth <= 0 {
		renderer.BarWidth = report.BarWidthFor(m.width)
	}
	var buf bytes.Buffer
	var err error
	if m.tableFormat {
		err = renderer.SummaryTable(&buf, m.currentDist)
	} else {
		err = renderer.BarChart(&buf, m.currentDist)
	}
	if err != nil {
		return fmt.Sprintf("Failed to render distribution: %v", err)
	}
	if ferr := renderer.DistributionFooter(&buf, m.currentDist); ferr != nil {
		return fmt.Sprintf("Failed to render distribution: %v", ferr)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderStatus() string {
	var buf bytes.Buffer
	if err := m.renderer.StatusSummary(&buf, m.session.Summary()); err != nil {
		return fmt.Sprintf("Failed to render status: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) startSearch() (tea.Model, tea.Cmd) {
	m.searchMode = true
	m.searchInput.SetValue(m.searchKeyword)
	return m, m.searchInput.Focus()
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	if m.activeTab == tabQuestions {
		if row := m.questionTable.SelectedRow(); len(row) >= 2 {
			m.filterInput.SetValue(row[1] + "=")
		}
	} else if m.currentQuestion != "" {
		m.filterInput.SetValue(m.currentQuestion + "=")
	}
	return m, m.filterInput.Focus()
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchMode = false
		return m, nil
	case tea.KeyEnter:
		m.searchMode = false
		m.searchKeyword = strings.TrimSpace(m.searchInput.Value())
		m.searchInput.Blur()
		m.refreshQuestions()
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		q, option, err := parseFilterInput(m.filterInput.Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		if _, err := m.session.ApplyFilter(q, option); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.errMsg = ""
		m.filterInput.Blur()
		m.recomputeDistribution()
		m.refreshQuestions()
		m.renderTabContents()
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// parseFilterInput splits a "Question=Option" entry. The option may
// contain further '=' characters; only the first one separates.
func parseFilterInput(input string) (string, string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", fmt.Errorf("filter is empty (expected Question=Option)")
	}
	idx := strings.Index(input, "=")
	if idx < 0 {
		return "", "", fmt.Errorf("invalid filter format (expected Question=Option)")
	}
	q := strings.TrimSpace(input[:idx])
	option := strings.TrimSpace(input[idx+1:])
	if q == "" || option == "" {
		return "", "", fmt.Errorf("both question and option must be provided")
	}
	return q, option, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
