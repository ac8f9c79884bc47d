package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/attendance/internal/app"
	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type dashboardTab int

const (
	tabSummaries dashboardTab = iota
	tabAnomalies
	tabSessions
	tabWorkers
	tabCount
)

func (t dashboardTab) String() string {
	switch t {
	case tabSummaries:
		return "Summaries"
	case tabAnomalies:
		return "Anomalies"
	case tabSessions:
		return "Sessions"
	case tabWorkers:
		return "Workers"
	default:
		return "?"
	}
}

// reportLoadedMsg carries a report result stamped with the load that asked for it.
type reportLoadedMsg struct {
	seq  int
	resp *app.ReportResponse
	err  error
}

// dashboardModel is the bubbletea model behind `attendance dashboard`.
// Each load gets a sequence number; only the newest load's result is shown.
type dashboardModel struct {
	app  *App
	ctx  context.Context
	keys dashboardKeyMap

	tab     dashboardTab
	filters attendance.Filters
	order   attendance.Order
	now     *time.Time

	resp    *app.ReportResponse
	err     error
	loading bool
	loadSeq int

	vp     viewport.Model
	width  int
	height int

	form       *huh.Form
	formValues *filterValues
	formErr    error
	quitting   bool

	// pendingRefresh makes the first load fetch from the task service.
	pendingRefresh bool
}

func newDashboardModel(ctx context.Context, a *App, req app.ReportRequest) *dashboardModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = contentViewportKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &dashboardModel{
		app:     a,
		ctx:     ctx,
		keys:    defaultDashboardKeys(),
		filters: req.Filters,
		order:   req.Order,
		now:     req.Now,
		vp:      vp,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	refresh := m.pendingRefresh
	m.pendingRefresh = false
	return m.load(refresh)
}

// load issues a report request. refresh asks the service to fetch first.
func (m *dashboardModel) load(refresh bool) tea.Cmd {
	m.loadSeq++
	m.loading = true

	seq := m.loadSeq
	var svc app.ReportUseCase = m.app.Attendance
	ctx := m.ctx
	req := app.ReportRequest{
		Now:     m.now,
		Filters: m.filters,
		Order:   m.order,
		Refresh: refresh,
	}
	return func() tea.Msg {
		resp, err := svc.Report(ctx, req)
		return reportLoadedMsg{seq: seq, resp: resp, err: err}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		return m, nil

	case reportLoadedMsg:
		m.handleLoaded(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *dashboardModel) handleLoaded(msg reportLoadedMsg) {
	if msg.seq != m.loadSeq {
		return
	}
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		return
	}
	m.err = nil
	m.resp = msg.resp
	m.syncContent(true)
}

func (m *dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		m.syncContent(true)
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.syncContent(true)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load(true)

	case key.Matches(msg, m.keys.Reload):
		return m, m.load(false)

	case key.Matches(msg, m.keys.Sort):
		m.order.Field = nextSortField(m.order.Field)
		return m, m.load(false)

	case key.Matches(msg, m.keys.Reverse):
		m.order.Desc = !m.order.Desc
		return m, m.load(false)

	case key.Matches(msg, m.keys.Filter):
		m.formValues = newFilterValues(m.filters, m.order)
		m.formErr = nil
		m.form = newFilterForm(m.formValues)
		return m, m.form.Init()
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] < '1'+byte(tabCount) {
		m.tab = dashboardTab(s[0] - '1')
		m.syncContent(true)
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *dashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}
	if loaded, ok := msg.(reportLoadedMsg); ok {
		m.handleLoaded(loaded)
		return m, nil
	}
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.resizeViewport()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.applyForm()
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *dashboardModel) closeForm() {
	m.form = nil
	m.formValues = nil
}

// applyForm validates the submitted filter values and reloads on success.
// Invalid values keep the previous filters and show the error.
func (m *dashboardModel) applyForm() tea.Cmd {
	values := m.formValues
	m.closeForm()
	if values == nil {
		return nil
	}

	filters, field, err := values.filters()
	if err != nil {
		m.formErr = err
		return nil
	}
	m.formErr = nil
	m.filters = filters
	m.order.Field = field
	return m.load(false)
}

func nextSortField(cur attendance.SortField) attendance.SortField {
	if cur == "" {
		cur = attendance.SortByDate
	}
	for i, f := range attendance.SortFields {
		if f == cur {
			return attendance.SortFields[(i+1)%len(attendance.SortFields)]
		}
	}
	return attendance.SortByDate
}

// ── rendering ────────────────────────────────────────────────────────────────

const dashboardChromeLines = 6

func (m *dashboardModel) resizeViewport() {
	m.vp.Width = m.width
	h := m.height - dashboardChromeLines
	if h < 3 {
		h = 3
	}
	m.vp.Height = h
	m.syncContent(false)
}

func (m *dashboardModel) syncContent(top bool) {
	m.vp.SetContent(m.tabContent())
	if top {
		m.vp.GotoTop()
	}
}

func (m *dashboardModel) tabContent() string {
	if m.resp == nil {
		return ""
	}
	switch m.tab {
	case tabAnomalies:
		return formatter.FormatAnomalies(m.resp.Anomalies)
	case tabSessions:
		return formatter.FormatSessions(m.resp.Sessions, m.app.location())
	case tabWorkers:
		return formatter.FormatWorkerTotals(m.resp.WorkerTotals)
	default:
		return formatter.FormatSummaries(m.resp.Summaries)
	}
}

func (m *dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.form != nil {
		sections = append(sections, formatter.Header("Filters"), m.form.View())
		sections = append(sections, formatter.Dim("enter: next  esc: cancel"))
		return strings.Join(sections, "\n")
	}

	if m.resp != nil && m.resp.FetchError != nil {
		sections = append(sections, formatter.FormatFetchBanner(m.resp.FetchError))
	}
	if m.formErr != nil {
		sections = append(sections, formatter.StyleRed.Render("Filter not applied: "+m.formErr.Error()))
	}

	switch {
	case m.err != nil:
		sections = append(sections, formatter.StyleRed.Render("Error: "+m.err.Error()))
	case m.resp == nil && m.loading:
		sections = append(sections, formatter.Dim("Loading..."))
	case m.resp != nil:
		if m.height > 0 {
			sections = append(sections, m.vp.View())
		} else {
			sections = append(sections, m.tabContent())
		}
	}

	sections = append(sections, m.renderStatusBar())
	return strings.Join(sections, "\n")
}

func (m *dashboardModel) renderHeader() string {
	title := formatter.StylePurple.Render("attendance")

	tabs := make([]string, 0, tabCount)
	for t := dashboardTab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", t+1, t)
		if t == tabAnomalies && m.resp != nil && len(m.resp.Anomalies) > 0 {
			label += fmt.Sprintf(" (%d)", len(m.resp.Anomalies))
		}
		if t == m.tab {
			tabs = append(tabs, formatter.StyleHeader.Render("["+label+"]"))
		} else {
			tabs = append(tabs, formatter.Dim(" "+label+" "))
		}
	}

	header := title + "  " + strings.Join(tabs, " ")
	if m.loading {
		header += "  " + formatter.Dim("loading…")
	}

	info := m.describeQuery()
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return header + "\n" + info + "\n" + sep
}

func (m *dashboardModel) describeQuery() string {
	parts := []string{}
	if m.filters.DateFrom != "" {
		parts = append(parts, "from "+m.filters.DateFrom)
	}
	if m.filters.DateTo != "" {
		parts = append(parts, "to "+m.filters.DateTo)
	}
	if m.filters.WorkerKeyword != "" {
		parts = append(parts, fmt.Sprintf("worker ~ %q", m.filters.WorkerKeyword))
	}
	if len(parts) == 0 {
		parts = append(parts, "all dates, all workers")
	}

	field := m.order.Field
	if field == "" {
		field = attendance.SortByDate
	}
	sortDesc := "sort " + string(field)
	if m.order.Desc {
		sortDesc += " (reversed)"
	}
	parts = append(parts, sortDesc)

	if m.resp != nil && m.resp.Snapshot != nil {
		parts = append(parts, "snapshot "+formatter.HumanTimestamp(m.resp.Snapshot.FetchedAt, time.Now()))
	}
	return formatter.Dim(strings.Join(parts, " · "))
}

func (m *dashboardModel) renderStatusBar() string {
	var hints []string
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
