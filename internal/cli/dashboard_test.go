package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/attendance/internal/app"
	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/domain"
	"github.com/alexanderramin/attendance/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(t *testing.T, svc *fakeAttendance) (*dashboardModel, *teatest.Driver) {
	t.Helper()
	a := &App{Attendance: svc, Location: time.UTC}
	m := newDashboardModel(context.Background(), a, app.NewReportRequest())
	d := teatest.New(t, m, teatest.WithSize(140, 40))
	return m, d
}

func TestDashboard_InitLoadsSummaries(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)
	d.DrainInit()

	assert.False(t, m.loading)
	assert.Equal(t, 1, svc.requestCount())
	assert.False(t, svc.lastRequest().Refresh)
	d.AssertViewContains("attendance", "[1 Summaries]", "2 Anomalies (2)", "alice", "9.50", "11.00")
	d.AssertViewContains("all dates, all workers", "sort date")
}

func TestDashboard_TabSwitching(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)
	d.DrainInit()

	d.PressTab()
	assert.Equal(t, tabAnomalies, m.tab)
	d.AssertViewContains("[2 Anomalies (2)]", "overtime", "Pour slab")

	d.PressKey('3')
	assert.Equal(t, tabSessions, m.tab)
	d.AssertViewContains("[3 Sessions]", "Hang door", "START")

	d.PressKey('4')
	assert.Equal(t, tabWorkers, m.tab)
	d.AssertViewContains("[4 Workers]", "SHARE")

	d.PressTab()
	assert.Equal(t, tabSummaries, m.tab)

	d.PressShiftTab()
	assert.Equal(t, tabWorkers, m.tab)

	// Tab changes render from the loaded report without another request.
	assert.Equal(t, 1, svc.requestCount())
}

func TestDashboard_RefreshKeyFetches(t *testing.T) {
	svc := newFakeAttendance()
	_, d := newTestDashboard(t, svc)
	d.DrainInit()

	d.PressKey('r')
	assert.Equal(t, 2, svc.requestCount())
	assert.True(t, svc.lastRequest().Refresh)
}

func TestDashboard_PendingRefreshOnFirstLoad(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)
	m.pendingRefresh = true
	d.DrainInit()

	assert.True(t, svc.lastRequest().Refresh)
	assert.False(t, m.pendingRefresh)
}

func TestDashboard_SortAndReverseReload(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)
	d.DrainInit()

	d.PressKey('s')
	assert.Equal(t, attendance.SortByWorker, svc.lastRequest().Order.Field)

	d.PressKey('o')
	assert.Equal(t, attendance.Order{Field: attendance.SortByWorker, Desc: true}, svc.lastRequest().Order)
	assert.Equal(t, 3, svc.requestCount())
	assert.Equal(t, attendance.Order{Field: attendance.SortByWorker, Desc: true}, m.order)
	d.AssertViewContains("sort worker (reversed)")
}

func TestNextSortField_Cycles(t *testing.T) {
	assert.Equal(t, attendance.SortByWorker, nextSortField(""))
	assert.Equal(t, attendance.SortByHours, nextSortField(attendance.SortByWorker))
	assert.Equal(t, attendance.SortByTasks, nextSortField(attendance.SortByHours))
	assert.Equal(t, attendance.SortByDate, nextSortField(attendance.SortByTasks))
}

func TestDashboard_StaleLoadIsIgnored(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)

	older := m.load(false)
	newer := m.load(false)

	newerMsg := newer()

	svc.resp = &app.ReportResponse{
		Summaries: []domain.DailySummary{{Date: "2026-03-01", Worker: "carol", TotalHours: 3, TaskCount: 1}},
	}
	olderMsg := older()

	d.Send(newerMsg)
	d.Send(olderMsg)

	require.NotNil(t, m.resp)
	assert.Len(t, m.resp.Summaries, 2)
	d.AssertViewContains("alice")
	d.AssertViewNotContains("carol")
}

func TestDashboard_StaleLoadBeforeNewerStaysLoading(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)

	older := m.load(false)
	_ = m.load(false)

	d.Send(older())
	assert.True(t, m.loading)
	assert.Nil(t, m.resp)
}

func TestDashboard_ShowsFetchBannerAndErrors(t *testing.T) {
	svc := newFakeAttendance()
	svc.resp.FetchError = &app.FetchError{Kind: app.FetchFailed, Message: "task service timed out"}
	_, d := newTestDashboard(t, svc)
	d.DrainInit()

	d.AssertViewContains("Could not reach the task service", "task service timed out", "alice")

	svc.reportErr = errors.New("boom")
	d.PressKey('r')
	d.AssertViewContains("Error: boom")
}

func TestDashboard_FilterFormOpensAndCancels(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)
	d.DrainInit()

	d.PressKey('f')
	require.NotNil(t, m.form)
	d.AssertViewContains("FILTERS", "Worker contains")

	d.PressEsc()
	assert.Nil(t, m.form)
	d.AssertViewNotContains("Worker contains")
	assert.Equal(t, 1, svc.requestCount())
}

func TestDashboard_ApplyFormRejectsInvalidRange(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)
	d.DrainInit()

	m.formValues = &filterValues{from: "2026-03-05", to: "2026-03-01", sort: "date"}
	m.form = newFilterForm(m.formValues)

	cmd := m.applyForm()
	assert.Nil(t, cmd)
	assert.Nil(t, m.form)
	assert.True(t, m.filters.IsZero())
	d.AssertViewContains("Filter not applied", "cannot be before")
}

func TestDashboard_ApplyFormReloadsWithFilters(t *testing.T) {
	svc := newFakeAttendance()
	m, d := newTestDashboard(t, svc)
	d.DrainInit()

	m.formValues = &filterValues{from: " 2026-03-01 ", worker: "ali", sort: "hours"}
	m.form = newFilterForm(m.formValues)

	cmd := m.applyForm()
	require.NotNil(t, cmd)
	d.Send(cmd())

	req := svc.lastRequest()
	assert.Equal(t, attendance.Filters{DateFrom: "2026-03-01", WorkerKeyword: "ali"}, req.Filters)
	assert.Equal(t, attendance.SortByHours, req.Order.Field)
	d.AssertViewContains(`from 2026-03-01 · worker ~ "ali" · sort hours`)
}

func TestFilterValues_RoundTripDefaults(t *testing.T) {
	v := newFilterValues(attendance.Filters{DateTo: "2026-03-31"}, attendance.Order{})
	assert.Equal(t, "date", v.sort)
	assert.Equal(t, "2026-03-31", v.to)

	f, field, err := v.filters()
	require.NoError(t, err)
	assert.Equal(t, attendance.SortByDate, field)
	assert.Equal(t, "2026-03-31", f.DateTo)
}

func TestValidateOptionalDate(t *testing.T) {
	assert.NoError(t, validateOptionalDate(""))
	assert.NoError(t, validateOptionalDate(" 2026-02-28 "))
	assert.Error(t, validateOptionalDate("2026-02-30"))
	assert.Error(t, validateOptionalDate("03/01/2026"))
}

func TestDashboard_Quit(t *testing.T) {
	svc := newFakeAttendance()
	_, d := newTestDashboard(t, svc)
	d.DrainInit()

	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Equal(t, "", d.View())
}
