package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/attendance/internal/app"
	"github.com/alexanderramin/attendance/internal/domain"
)

// ReportView selects which sections FormatReport renders.
type ReportView struct {
	Summaries bool
	Anomalies bool
	Sessions  bool
	Workers   bool
}

// FullReport renders every section.
var FullReport = ReportView{Summaries: true, Anomalies: true, Sessions: true, Workers: true}

// FormatReport renders a report response as terminal text. Times are shown
// in loc.
func FormatReport(resp *app.ReportResponse, view ReportView, loc *time.Location) string {
	var b strings.Builder

	b.WriteString(FormatReportHeader(resp))
	b.WriteString("\n")

	if resp.FetchError != nil {
		b.WriteString(FormatFetchBanner(resp.FetchError))
		b.WriteString("\n\n")
	}

	sections := make([]string, 0, 4)
	if view.Summaries {
		sections = append(sections, Header("Daily Summaries")+"\n"+FormatSummaries(resp.Summaries))
	}
	if view.Workers {
		sections = append(sections, Header("Workers")+"\n"+FormatWorkerTotals(resp.WorkerTotals))
	}
	if view.Anomalies {
		sections = append(sections, Header("Anomalies")+"\n"+FormatAnomalies(resp.Anomalies))
	}
	if view.Sessions {
		sections = append(sections, Header("Sessions")+"\n"+FormatSessions(resp.Sessions, loc))
	}
	b.WriteString(strings.Join(sections, "\n"))
	return b.String()
}

// FormatReportHeader describes the snapshot and filters the report was built from.
func FormatReportHeader(resp *app.ReportResponse) string {
	var parts []string
	if resp.Snapshot != nil {
		s := resp.Snapshot
		parts = append(parts, fmt.Sprintf("%s %s  %s",
			Dim("snapshot"), TruncID(s.ID),
			Dim(fmt.Sprintf("%s · %d tasks · %d entries", HumanTimestamp(s.FetchedAt, resp.GeneratedAt), s.TaskCount, s.EntryCount))))
	} else {
		parts = append(parts, Dim("no snapshot"))
	}

	if f := resp.Filters; !f.IsZero() {
		var fs []string
		if f.DateFrom != "" {
			fs = append(fs, "from "+f.DateFrom)
		}
		if f.DateTo != "" {
			fs = append(fs, "to "+f.DateTo)
		}
		if f.WorkerKeyword != "" {
			fs = append(fs, fmt.Sprintf("worker ~ %q", f.WorkerKeyword))
		}
		parts = append(parts, Dim("filters: ")+strings.Join(fs, ", "))
	}

	if resp.SkippedEntries > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("%d entries skipped (no usable date)", resp.SkippedEntries)))
	}
	return strings.Join(parts, "\n") + "\n"
}

// FormatFetchBanner renders the warning shown when the last fetch failed.
func FormatFetchBanner(fe *app.FetchError) string {
	if fe == nil {
		return ""
	}
	return StyleRed.Render("✖ Could not reach the task service") + "\n" +
		Dim("  "+fe.Message) + "\n" +
		Dim("  showing the last stored snapshot")
}

// FormatSummaries renders per-day, per-worker totals.
func FormatSummaries(summaries []domain.DailySummary) string {
	if len(summaries) == 0 {
		return Dim("No sessions match the current filters.") + "\n"
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Date,
			WorkerLabel(s.Worker),
			FormatHours(s.TotalHours),
			strconv.Itoa(s.TaskCount),
		})
	}
	return RenderTableAligned([]string{"DATE", "WORKER", "HOURS", "TASKS"}, rows, 2, 3)
}

// FormatWorkerTotals renders per-worker totals with each worker's share of hours.
func FormatWorkerTotals(totals []domain.WorkerTotal) string {
	if len(totals) == 0 {
		return Dim("No workers.") + "\n"
	}
	var all float64
	for _, t := range totals {
		if t.TotalHours > 0 {
			all += t.TotalHours
		}
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		share := 0.0
		if all > 0 && t.TotalHours > 0 {
			share = t.TotalHours / all
		}
		rows = append(rows, []string{
			WorkerLabel(t.Worker),
			FormatHours(t.TotalHours),
			strconv.Itoa(t.Days),
			strconv.Itoa(t.TaskCount),
			RenderShareBar(share, 12),
		})
	}
	return RenderTableAligned([]string{"WORKER", "HOURS", "DAYS", "TASKS", "SHARE"}, rows, 1, 2, 3)
}

// FormatAnomalies renders detected anomalies, or a clean message when none.
func FormatAnomalies(anomalies []domain.Anomaly) string {
	if len(anomalies) == 0 {
		return StyleGreen.Render("✔ No anomalies detected.") + "\n"
	}
	rows := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		rows = append(rows, []string{
			a.Date,
			AnomalyPill(a.Type),
			WorkerLabel(a.Worker),
			Truncate(a.TaskTitle, 32),
			a.Detail,
		})
	}
	return RenderTable([]string{"DATE", "TYPE", "WORKER", "TASK", "DETAIL"}, rows) +
		Dim(fmt.Sprintf("%d anomalies", len(anomalies))) + "\n"
}

// FormatSessions renders individual sessions with local start and end times.
func FormatSessions(sessions []domain.Session, loc *time.Location) string {
	if len(sessions) == 0 {
		return Dim("No sessions match the current filters.") + "\n"
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.Date,
			WorkerLabel(s.Worker),
			Truncate(s.TaskTitle, 32),
			FormatClock(s.StartTime, loc),
			FormatClock(s.EndTime, loc),
			FormatHours(s.WorkHours),
		})
	}
	return RenderTableAligned([]string{"DATE", "WORKER", "TASK", "START", "END", "HOURS"}, rows, 5)
}

// FormatRefreshResult renders the outcome of a refresh or import.
func FormatRefreshResult(res *app.RefreshResult) string {
	s := res.Snapshot
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("✔ Stored snapshot"), TruncID(s.ID))
	fmt.Fprintf(&b, "  %s %s\n", Dim("source "), s.Source)
	fmt.Fprintf(&b, "  %s %d tasks, %d time entries\n", Dim("content"), s.TaskCount, s.EntryCount)
	if res.Pruned > 0 {
		fmt.Fprintf(&b, "  %s %d older snapshots removed\n", Dim("pruned "), res.Pruned)
	}
	return b.String()
}
