// Package dashboard provides the Bubble Tea airport statistics interface.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/skymetrics/skymetrics/internal/compare"
	"github.com/skymetrics/skymetrics/internal/importer"
	"github.com/skymetrics/skymetrics/internal/logging"
	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/session"
	"github.com/skymetrics/skymetrics/internal/stats"
)

const (
	tabOverview = iota
	tabAirport
	tabRanking
	tabCompare
)

const (
	inputSeries = iota
	inputData
)

type refreshMsg struct {
	report model.RefreshReport
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	ctx     context.Context
	session *session.Session
	cfg     model.DashboardConfig
	logger  *zap.Logger

	theme  model.Theme
	styles styles

	report    stats.Report
	loading   bool
	updatedAt time.Time
	errMsg    string

	tabs      []string
	activeTab int
	overview  table.Model
	ranking   table.Model
	detail    viewport.Model
	compareVP viewport.Model

	selected       string
	month          int
	rankingMonth   int
	rankingEntries []stats.RankEntry

	cross       *compare.Comparator
	historical  *compare.Comparator
	compareMode compare.Mode
	cumulative  bool

	inputMode  bool
	inputKind  int
	input      textinput.Model
	inputError string

	width  int
	height int
}

// NewModel constructs the dashboard for sess. Data loads asynchronously once the program starts.
func NewModel(ctx context.Context, sess *session.Session, cfg model.DashboardConfig, logger *zap.Logger) *Model {
	theme := sess.Theme(ctx)
	m := &Model{
		ctx:          ctx,
		session:      sess,
		cfg:          cfg,
		logger:       logging.OrNop(logger).Named("dashboard"),
		theme:        theme,
		styles:       newStyles(theme),
		tabs:         []string{"Overview", "Airport", "Ranking", "Compare"},
		month:        cfg.Month,
		rankingMonth: -1,
		cross:        compare.New(compare.CrossAirport, sess, nil),
		historical:   compare.New(compare.Historical, sess, nil),
		cumulative:   cfg.Cumulative,
		loading:      true,
	}
	m.cross.SetTargetYear(cfg.Year)
	m.overview = m.newTable(overviewColumns(80))
	m.overview.Focus()
	m.ranking = m.newTable(rankingColumns(80))
	m.detail = viewport.New(0, 0)
	m.compareVP = viewport.New(0, 0)
	m.input = textinput.New()
	m.input.Prompt = "Series: "
	m.input.Cursor.SetMode(cursor.CursorBlink)
	m.report = stats.Report{Year: cfg.Year, LatestMonth: -1}
	return m
}

func (m *Model) newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(m.styles.table)
	return t
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.refreshCmd(m.cfg.Year)
}

func (m *Model) refreshCmd(year int) tea.Cmd {
	ctx := m.ctx
	sess := m.session
	return func() tea.Msg {
		return refreshMsg{report: sess.Refresh(ctx, year)}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderContents()
		return m, nil
	case refreshMsg:
		if msg.report.Year != m.cfg.Year {
			return m, nil
		}
		m.applyRefresh(msg.report)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.inputMode {
			return m.updateInput(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "-":
		return m, m.setYear(m.cfg.Year - 1)
	case "=", "+":
		return m, m.setYear(m.cfg.Year + 1)
	case "r":
		m.loading = true
		return m, m.refreshCmd(m.cfg.Year)
	case "t":
		m.toggleTheme()
		return m, nil
	}

	switch m.activeTab {
	case tabOverview:
		switch msg.String() {
		case "enter":
			if code := m.overviewCode(); code != "" {
				m.selected = code
				m.activeTab = tabAirport
				m.renderContents()
			}
			return m, nil
		case "n":
			return m.startDataInput("")
		case "e":
			return m.startDataInput(m.overviewCode())
		case "x":
			m.removeAirport(m.overviewCode())
			return m, nil
		}
		var cmd tea.Cmd
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	case tabRanking:
		switch msg.String() {
		case "[":
			m.setMonth(wrapMonth(m.rankingMonth, -1))
			return m, nil
		case "]":
			m.setMonth(wrapMonth(m.rankingMonth, 1))
			return m, nil
		}
		var cmd tea.Cmd
		m.ranking, cmd = m.ranking.Update(msg)
		return m, cmd
	case tabCompare:
		switch msg.String() {
		case "a":
			return m.startInput()
		case "x":
			m.removeLastSeries()
			return m, nil
		case "c":
			m.cumulative = !m.cumulative
			m.renderContents()
			return m, nil
		case "m":
			m.toggleCompareMode()
			return m, nil
		}
		var cmd tea.Cmd
		m.compareVP, cmd = m.compareVP.Update(msg)
		return m, cmd
	default:
		if msg.String() == "e" {
			return m.startDataInput(m.detailCode())
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
}

func (m *Model) overviewCode() string {
	row := m.overview.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return strings.TrimSuffix(row[0], "*")
}

func (m *Model) detailCode() string {
	if m.selected != "" {
		return m.selected
	}
	if all := m.session.Catalog().ListAll(); len(all) > 0 {
		return all[0].Code
	}
	return ""
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.inputMode {
		return fitLines(m.renderInputModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) applyRefresh(report model.RefreshReport) {
	m.loading = false
	m.updatedAt = report.CompletedAt
	m.month = m.cfg.Month
	m.reload()
	failed := 0
	for _, res := range report.Results {
		if res.Kind == model.ResolutionFailed {
			failed++
		}
	}
	m.errMsg = ""
	if failed > 0 {
		m.errMsg = fmt.Sprintf("%d airport(s) failed to load", failed)
	}
	m.updateLayout()
}

// reload rebuilds every view from the session cache.
func (m *Model) reload() {
	m.report = m.session.Report()
	m.refreshRanking()
	m.overview.SetRows(overviewRows(m.report))
	m.updateLayout()
	m.renderContents()
}

func (m *Model) removeAirport(code string) {
	if code == "" {
		return
	}
	if err := m.session.RemoveCustomAirport(m.ctx, code); err != nil {
		m.errMsg = err.Error()
		m.updateLayout()
		return
	}
	m.logger.Info("removed custom airport", zap.String("code", code))
	if m.selected == code {
		m.selected = ""
	}
	m.errMsg = ""
	m.reload()
	m.overview.SetCursor(0)
}

func (m *Model) refreshRanking() {
	m.rankingMonth, m.rankingEntries = m.session.Ranking(m.month)
	if m.rankingMonth < 0 {
		m.rankingMonth = 0
	}
	m.ranking.SetRows(rankingRows(m.rankingEntries, m.cfg.Rounding))
	m.ranking.SetCursor(0)
}

func (m *Model) setMonth(month int) {
	m.month = month
	m.refreshRanking()
}

func (m *Model) setYear(year int) tea.Cmd {
	if year < 1 {
		return nil
	}
	m.cfg.Year = year
	m.cross.SetTargetYear(year)
	m.report = stats.Report{Year: year, LatestMonth: -1}
	m.loading = true
	m.renderContents()
	return m.refreshCmd(year)
}

func (m *Model) toggleTheme() {
	next, err := m.session.ToggleTheme(m.ctx)
	if err != nil {
		m.logger.Warn("theme not saved", zap.Error(err))
		m.errMsg = err.Error()
	}
	m.theme = next
	m.styles = newStyles(next)
	m.overview.SetStyles(m.styles.table)
	m.ranking.SetStyles(m.styles.table)
	m.renderContents()
}

func (m *Model) activeComparator() *compare.Comparator {
	if m.compareMode == compare.Historical {
		return m.historical
	}
	return m.cross
}

func (m *Model) projection() compare.Projection {
	if m.cumulative {
		return compare.Cumulative
	}
	return compare.Monthly
}

func (m *Model) toggleCompareMode() {
	if m.compareMode == compare.Historical {
		m.compareMode = compare.CrossAirport
	} else {
		m.compareMode = compare.Historical
		if m.historical.Subject() == "" && m.selected != "" {
			m.historical.SetSubjectAirport(m.selected)
		}
	}
	m.renderContents()
}

func (m *Model) removeLastSeries() {
	c := m.activeComparator()
	active := c.Active()
	if len(active) == 0 {
		return
	}
	c.RemoveSeries(active[len(active)-1].ID)
	m.renderContents()
}

func (m *Model) startInput() (tea.Model, tea.Cmd) {
	m.openInput(inputSeries, "Series: ")
	if m.compareMode == compare.Historical {
		m.input.Placeholder = "HKG 2023 or 2023"
	} else {
		m.input.Placeholder = fmt.Sprintf("HKG or HKG %d", m.cfg.Year)
	}
	return m, m.input.Focus()
}

// startDataInput opens the entry modal, prefilled with the stored figures of code when present.
func (m *Model) startDataInput(code string) (tea.Model, tea.Cmd) {
	m.openInput(inputData, "Data: ")
	m.input.Placeholder = "KIX Kansai jan=2100000/1900000 feb=/1800000"
	if code != "" {
		value := code
		if res, ok := m.session.Result(code); ok {
			if data, ok := res.Statistics(); ok {
				value = formatDataInput(code, data)
			}
		}
		m.input.SetValue(value + " ")
		m.input.CursorEnd()
	}
	return m, m.input.Focus()
}

func (m *Model) openInput(kind int, prompt string) {
	m.inputMode = true
	m.inputKind = kind
	m.inputError = ""
	m.input.Prompt = prompt
	m.input.SetValue("")
	m.updateLayout()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = false
		m.inputError = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		if err := m.applyInput(); err != nil {
			m.inputError = err.Error()
			return m, nil
		}
		m.inputMode = false
		m.inputError = ""
		m.input.Blur()
		m.renderContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyInput() error {
	if m.inputKind == inputData {
		return m.applyDataInput()
	}
	sel, err := parseSeriesInput(m.input.Value(), m.cfg.Year)
	if err != nil {
		return err
	}
	c := m.activeComparator()
	if m.compareMode == compare.Historical && sel.Code != "" {
		c.SetSubjectAirport(sel.Code)
	}
	if m.compareMode == compare.CrossAirport && sel.Code == "" {
		return fmt.Errorf("enter an airport code")
	}
	if _, err := c.AddSeries(m.ctx, sel); err != nil {
		return err
	}
	return nil
}

func (m *Model) applyDataInput() error {
	in, err := parseDataInput(m.input.Value())
	if err != nil {
		return err
	}
	name := in.name
	if name == "" {
		if ap, ok := m.session.Catalog().Lookup(in.code); ok {
			name = ap.Name
		}
	}
	if name == "" {
		return fmt.Errorf("add a name for the new airport %s", in.code)
	}
	data, err := importer.Build(in.code, name, m.cfg.Year, in.entries)
	if err != nil {
		return err
	}
	if err := m.session.SaveStatistics(m.ctx, in.code, name, m.cfg.Year, data); err != nil {
		m.logger.Error("save failed", zap.String("code", in.code), zap.Error(err))
		return err
	}
	m.selected = in.code
	m.errMsg = ""
	m.reload()
	return nil
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(m.styles.activeNav.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
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
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
	m.compareVP.Width = m.width
	m.compareVP.Height = bodyHeight

	m.overview.SetColumns(overviewColumns(m.width))
	m.overview.SetWidth(m.width)
	m.overview.SetHeight(maxInt(1, bodyHeight-m.cardsHeight()-1))
	m.ranking.SetColumns(rankingColumns(m.width))
	m.ranking.SetWidth(m.width)
	m.ranking.SetHeight(maxInt(1, bodyHeight-2))
	m.input.Width = maxInt(10, modalInnerWidth(m.width)-lipgloss.Width(m.input.Prompt))
}

func (m *Model) cardsHeight() int {
	return lipgloss.Height(renderSummaryCards(m.styles, m.report, m.rankingEntries, m.rankingMonth, m.width))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabOverview {
		m.overview.Focus()
	} else {
		m.overview.Blur()
	}
	if m.activeTab == tabRanking {
		m.ranking.Focus()
	} else {
		m.ranking.Blur()
	}
}

func (m *Model) renderContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	code := m.detailCode()
	res, _ := m.session.Result(code)
	m.detail.SetContent(renderAirportDetail(m.styles, code, m.cfg.Year, res, m.cfg.Rounding))
	m.compareVP.SetContent(renderComparison(m.styles, m.activeComparator(), m.projection(), width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, m.styles.activeNav.Render(tab))
		} else {
			parts = append(parts, m.styles.inactiveNav.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	state := "updated " + m.updatedAt.Format("15:04:05")
	if m.loading {
		state = "loading..."
	} else if m.updatedAt.IsZero() {
		state = "not loaded"
	}
	summary := fmt.Sprintf("Year %d  theme=%s  %s", m.cfg.Year, m.theme, state)
	return tabs + "\n" + m.styles.header.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Year: -/=  Theme: t  Reload: r  Quit: q"
	switch m.activeTab {
	case tabOverview:
		help = "Nav: left/right  Select: up/down  Details: enter  New: n  Edit: e  Remove: x  Year: -/=  Theme: t  Quit: q"
	case tabAirport:
		help = "Nav: left/right  Edit: e  Year: -/=  Theme: t  Reload: r  Quit: q"
	case tabRanking:
		help = "Nav: left/right  Month: [/]  Year: -/=  Theme: t  Quit: q"
	case tabCompare:
		help = "Nav: left/right  Add: a  Remove: x  Cumulative: c  Mode: m  Year: -/=  Quit: q"
	}
	return m.styles.header.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + m.styles.errorText.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderBody() string {
	if m.loading && len(m.report.Airports) == 0 {
		return "Loading..."
	}
	switch m.activeTab {
	case tabOverview:
		if len(m.report.Airports) == 0 {
			return "No airports in catalog."
		}
		cards := renderSummaryCards(m.styles, m.report, m.rankingEntries, m.rankingMonth, m.width)
		return cards + "\n" + m.overview.View()
	case tabRanking:
		footer := m.styles.muted.Render(rankingFooter(m.cfg.Year, m.rankingMonth, m.rankingEntries))
		if len(m.rankingEntries) == 0 {
			return footer
		}
		return m.ranking.View() + "\n" + footer
	case tabCompare:
		return m.compareVP.View()
	default:
		return m.detail.View()
	}
}

func (m *Model) renderInputModal() string {
	title := "Add airport series"
	hint := "CODE [YEAR]; year defaults to the dashboard year"
	switch {
	case m.inputKind == inputData:
		title = fmt.Sprintf("Enter data for %d", m.cfg.Year)
		hint = "CODE [NAME] MONTH=CURRENT[/PRIOR YEAR]...; a name is needed for new airports"
	case m.compareMode == compare.Historical:
		title = "Add year"
		hint = "YEAR, or CODE YEAR to switch airport (clears the current years)"
	}
	body := []string{
		m.styles.cardValue.Render(title),
		m.input.View(),
		m.styles.header.Render(hint),
		m.styles.header.Render("Enter to apply / Esc to cancel"),
	}
	if m.inputError != "" {
		body = append(body, m.styles.errorText.Render(m.inputError))
	}
	box := m.styles.modal.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
