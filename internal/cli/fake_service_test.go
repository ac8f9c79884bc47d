package cli

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/attendance/internal/app"
	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/domain"
)

// fakeAttendance records requests and answers with canned results.
type fakeAttendance struct {
	mu       sync.Mutex
	requests []app.ReportRequest
	imported []string
	refreshN int

	resp      *app.ReportResponse
	reportErr error
	refresh   *app.RefreshResult
	refErr    error
}

func (f *fakeAttendance) Report(_ context.Context, req app.ReportRequest) (*app.ReportResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	resp := *f.resp
	resp.Filters = req.Filters
	return &resp, nil
}

func (f *fakeAttendance) Refresh(context.Context) (*app.RefreshResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshN++
	return f.refresh, f.refErr
}

func (f *fakeAttendance) ImportFile(_ context.Context, path string) (*app.RefreshResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imported = append(f.imported, path)
	return f.refresh, f.refErr
}

func (f *fakeAttendance) lastRequest() app.ReportRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return app.ReportRequest{}
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeAttendance) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func tsPtr(t time.Time) *time.Time { return &t }

func newFakeAttendance() *fakeAttendance {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	return &fakeAttendance{
		resp: &app.ReportResponse{
			GeneratedAt: start.Add(10 * time.Hour),
			Snapshot: &app.SnapshotInfo{
				ID: "5d2f0c9a-0000-4000-8000-000000000001", FetchedAt: start.Add(9 * time.Hour),
				Source: "api", TaskCount: 2, EntryCount: 3,
			},
			Summaries: []domain.DailySummary{
				{Date: "2026-03-02", Worker: "alice", TotalHours: 9.5, TaskCount: 2},
				{Date: "2026-03-02", Worker: "bob", TotalHours: 11, TaskCount: 1},
			},
			Anomalies: []domain.Anomaly{
				{ID: "x1", Type: domain.AnomalyOverlap, Worker: "alice", TaskID: 2, TaskTitle: "Paint wall", Date: "2026-03-02", Detail: "overlaps"},
				{ID: "x2", Type: domain.AnomalyOvertime, Worker: "bob", TaskID: 3, TaskTitle: "Pour slab", Date: "2026-03-02", Detail: "logged 11.00 hours in one session (limit 10)"},
			},
			Sessions: []domain.Session{
				{TaskID: 1, TaskTitle: "Hang door", Worker: "alice", Date: "2026-03-02", StartTime: tsPtr(start), EndTime: tsPtr(start.Add(5 * time.Hour)), WorkHours: 5},
				{TaskID: 2, TaskTitle: "Paint wall", Worker: "alice", Date: "2026-03-02", StartTime: tsPtr(start.Add(4 * time.Hour)), EndTime: tsPtr(start.Add(8*time.Hour + 30*time.Minute)), WorkHours: 4.5},
				{TaskID: 3, TaskTitle: "Pour slab", Worker: "bob", Date: "2026-03-02", StartTime: tsPtr(start), WorkHours: 11},
			},
			WorkerTotals: []domain.WorkerTotal{
				{Worker: "alice", TotalHours: 9.5, Days: 1, TaskCount: 2},
				{Worker: "bob", TotalHours: 11, Days: 1, TaskCount: 1},
			},
			Filters: attendance.Filters{},
		},
		refresh: &app.RefreshResult{
			Snapshot: app.SnapshotInfo{ID: "9a8b7c6d-0000-4000-8000-000000000002", Source: "api", TaskCount: 2, EntryCount: 3},
			Pruned:   1,
		},
	}
}
