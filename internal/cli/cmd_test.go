package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/attendance/internal/app"
	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func runCLI(t *testing.T, svc *fakeAttendance, args ...string) (string, error) {
	t.Helper()
	a := &App{Attendance: svc, Location: time.UTC, IsInteractive: func() bool { return false }}
	root := NewRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return ansiRe.ReplaceAllString(out.String(), ""), err
}

func TestReportCmd_PrintsSummariesWorkersAndAnomalies(t *testing.T) {
	svc := newFakeAttendance()

	out, err := runCLI(t, svc, "report")
	require.NoError(t, err)

	assert.Contains(t, out, "DAILY SUMMARIES")
	assert.Contains(t, out, "WORKERS")
	assert.Contains(t, out, "ANOMALIES")
	assert.NotContains(t, out, "SESSIONS")
	assert.Contains(t, out, "9.50")
	assert.Contains(t, out, "▲ overtime")

	req := svc.lastRequest()
	assert.True(t, req.Filters.IsZero())
	assert.Equal(t, attendance.Order{}, req.Order)
	assert.Nil(t, req.Now)
	assert.False(t, req.Refresh)
}

func TestReportCmd_BuildsRequestFromFlags(t *testing.T) {
	svc := newFakeAttendance()

	_, err := runCLI(t, svc, "report",
		"--from", "2026-03-01", "--to", "2026-03-31", "--worker", "Ali",
		"--sort", "hours", "--desc", "--refresh", "--now", "2026-03-02T18:00:00Z")
	require.NoError(t, err)

	req := svc.lastRequest()
	assert.Equal(t, attendance.Filters{DateFrom: "2026-03-01", DateTo: "2026-03-31", WorkerKeyword: "Ali"}, req.Filters)
	assert.Equal(t, attendance.Order{Field: attendance.SortByHours, Desc: true}, req.Order)
	assert.True(t, req.Refresh)
	require.NotNil(t, req.Now)
	assert.True(t, req.Now.Equal(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)))
}

func TestReportCmd_RejectsUnknownSortField(t *testing.T) {
	svc := newFakeAttendance()

	_, err := runCLI(t, svc, "report", "--sort", "salary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort field")
	assert.Zero(t, svc.requestCount())
}

func TestReportCmd_RejectsBadNow(t *testing.T) {
	svc := newFakeAttendance()

	_, err := runCLI(t, svc, "report", "--now", "yesterday-ish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --now")
	assert.Zero(t, svc.requestCount())
}

func TestReportCmd_JSON(t *testing.T) {
	svc := newFakeAttendance()

	out, err := runCLI(t, svc, "report", "--json")
	require.NoError(t, err)

	var resp app.ReportResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Summaries, 2)
	assert.Len(t, resp.Anomalies, 2)
	assert.Len(t, resp.WorkerTotals, 2)
}

func TestReportCmd_PropagatesServiceError(t *testing.T) {
	svc := newFakeAttendance()
	svc.reportErr = &app.ReportError{Code: app.ReportErrNoData, Message: "no snapshot stored yet"}

	_, err := runCLI(t, svc, "report")
	var re *app.ReportError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, app.ReportErrNoData, re.Code)
}

func TestReportCmd_ShowsFetchBanner(t *testing.T) {
	svc := newFakeAttendance()
	svc.resp.FetchError = &app.FetchError{Kind: app.FetchFailed, Message: "connection refused"}

	out, err := runCLI(t, svc, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Could not reach the task service")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "DAILY SUMMARIES")
}

func TestAnomaliesCmd_FiltersByType(t *testing.T) {
	svc := newFakeAttendance()

	out, err := runCLI(t, svc, "anomalies", "--type", "overlap", "--json")
	require.NoError(t, err)

	var anomalies []domain.Anomaly
	require.NoError(t, json.Unmarshal([]byte(out), &anomalies))
	require.Len(t, anomalies, 1)
	assert.Equal(t, domain.AnomalyOverlap, anomalies[0].Type)
}

func TestAnomaliesCmd_Table(t *testing.T) {
	svc := newFakeAttendance()

	out, err := runCLI(t, svc, "anomalies")
	require.NoError(t, err)
	assert.Contains(t, out, "● overlap")
	assert.Contains(t, out, "Pour slab")
	assert.Contains(t, out, "2 anomalies")
}

func TestAnomaliesCmd_RejectsUnknownType(t *testing.T) {
	svc := newFakeAttendance()

	_, err := runCLI(t, svc, "anomalies", "--type", "late")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown anomaly type "late"`)
	assert.Contains(t, err.Error(), "missing-end, overlap, overtime")
	assert.Zero(t, svc.requestCount())
}

func TestSessionsCmd_Table(t *testing.T) {
	svc := newFakeAttendance()

	out, err := runCLI(t, svc, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "START")
	assert.Contains(t, out, "08:00")
	assert.Contains(t, out, "13:00")
	assert.Contains(t, out, "16:30")
	assert.Contains(t, out, "--")
}

func TestSessionsCmd_JSON(t *testing.T) {
	svc := newFakeAttendance()

	out, err := runCLI(t, svc, "sessions", "--json")
	require.NoError(t, err)

	var sessions []domain.Session
	require.NoError(t, json.Unmarshal([]byte(out), &sessions))
	require.Len(t, sessions, 3)
	assert.Nil(t, sessions[2].EndTime)
}

func TestRefreshCmd(t *testing.T) {
	svc := newFakeAttendance()

	out, err := runCLI(t, svc, "refresh")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.refreshN)
	assert.Contains(t, out, "Stored snapshot 9a8b7c6d")
	assert.Contains(t, out, "1 older snapshots removed")
}

func TestRefreshCmd_Error(t *testing.T) {
	svc := newFakeAttendance()
	svc.refErr = &app.FetchError{Kind: app.FetchFailed, Message: "task service unavailable"}
	svc.refresh = nil

	_, err := runCLI(t, svc, "refresh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch-failed")
}

func TestImportCmd(t *testing.T) {
	svc := newFakeAttendance()

	out, err := runCLI(t, svc, "import", "dump.json", "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"dump.json"}, svc.imported)

	var res app.RefreshResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3, res.Snapshot.EntryCount)
}

func TestImportCmd_RequiresFile(t *testing.T) {
	svc := newFakeAttendance()

	_, err := runCLI(t, svc, "import")
	require.Error(t, err)
	assert.Empty(t, svc.imported)
}

func TestDashboardCmd_RequiresTerminal(t *testing.T) {
	svc := newFakeAttendance()

	_, err := runCLI(t, svc, "dashboard")
	assert.ErrorIs(t, err, errNotInteractive)
	assert.Zero(t, svc.requestCount())
}

func TestSortFlag(t *testing.T) {
	var f sortFlag
	assert.Equal(t, "field", f.Type())
	require.NoError(t, f.Set("Worker"))
	assert.Equal(t, "worker", f.String())
	assert.Error(t, f.Set("nope"))
	assert.Equal(t, "worker", f.String())
}
