package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/alexanderramin/attendance/internal/app"
	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/db"
	"github.com/alexanderramin/attendance/internal/domain"
	"github.com/alexanderramin/attendance/internal/repository"
	"github.com/alexanderramin/attendance/internal/taskapi"
	"github.com/google/uuid"
)

const sourceAPI = "api"

var errNoTaskService = errors.New("no task service configured")

// AttendanceOptions tunes the attendance service. Zero values take defaults.
type AttendanceOptions struct {
	Rules        attendance.Rules
	Location     *time.Location
	SnapshotKeep int
	Logger       *slog.Logger
	Clock        func() time.Time
}

type attendanceService struct {
	client    taskapi.Client
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	refresher *Refresher
	opts      AttendanceOptions
	observer  UseCaseObserver
}

// NewAttendanceService wires the report pipeline to the task service and the
// snapshot store. client may be nil when only stored or imported snapshots
// are used.
func NewAttendanceService(
	client taskapi.Client,
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
	refresher *Refresher,
	opts AttendanceOptions,
	observers ...UseCaseObserver,
) AttendanceService {
	if refresher == nil {
		refresher = NewRefresher()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.SnapshotKeep < 1 {
		opts.SnapshotKeep = 10
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &attendanceService{
		client:    client,
		snapshots: snapshots,
		uow:       uow,
		refresher: refresher,
		opts:      opts,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *attendanceService) Report(ctx context.Context, req app.ReportRequest) (resp *app.ReportResponse, err error) {
	startedAt := s.opts.Clock()
	fields := map[string]any{"refresh": req.Refresh}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "report",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err = req.Filters.Validate(); err != nil {
		return nil, &app.ReportError{Code: app.ReportErrInvalidFilter, Message: err.Error()}
	}
	if req.Order.Field, err = attendance.ParseSortField(string(req.Order.Field)); err != nil {
		return nil, &app.ReportError{Code: app.ReportErrInvalidFilter, Message: err.Error()}
	}

	if req.Refresh {
		// The outcome is recorded in the refresher; a failure surfaces as
		// the response's FetchError.
		if _, ferr := s.refresh(ctx, fields); ferr != nil {
			s.opts.Logger.DebugContext(ctx, "refresh before report failed", slog.String("error", ferr.Error()))
		}
	}

	now := s.opts.Clock()
	if req.Now != nil {
		now = *req.Now
	}

	snap, fetchErr := s.currentSnapshot(ctx)
	resp = &app.ReportResponse{
		GeneratedAt:  now,
		FetchError:   fetchErr,
		Summaries:    []domain.DailySummary{},
		Anomalies:    []domain.Anomaly{},
		Sessions:     []domain.Session{},
		WorkerTotals: []domain.WorkerTotal{},
		Filters:      req.Filters,
	}
	if snap == nil {
		if fetchErr == nil {
			return nil, &app.ReportError{Code: app.ReportErrNoData, Message: "no task data yet: run refresh or import first"}
		}
		return resp, nil
	}

	report := attendance.Build(snap.Tasks, attendance.BuildOptions{
		Now:      now,
		Location: s.opts.Location,
		Rules:    s.opts.Rules,
		Filters:  req.Filters,
		Order:    req.Order,
	})
	if report.Skipped > 0 {
		s.opts.Logger.DebugContext(ctx, "skipped time entries without timestamps",
			slog.Int("skipped", report.Skipped), slog.String("snapshot", snap.ID))
	}

	info := snapshotInfo(snap)
	resp.Snapshot = &info
	resp.SkippedEntries = report.Skipped
	resp.Summaries = report.Summaries
	resp.Anomalies = report.Anomalies
	resp.Sessions = report.Sessions
	resp.WorkerTotals = report.WorkerTotals

	fields["snapshot"] = snap.ID
	fields["summaries"] = len(resp.Summaries)
	fields["anomalies"] = len(resp.Anomalies)
	fields["skipped"] = report.Skipped
	return resp, nil
}

func (s *attendanceService) Refresh(ctx context.Context) (result *app.RefreshResult, err error) {
	startedAt := s.opts.Clock()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "refresh",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()
	return s.refresh(ctx, fields)
}

func (s *attendanceService) ImportFile(ctx context.Context, path string) (result *app.RefreshResult, err error) {
	startedAt := s.opts.Clock()
	fields := map[string]any{"path": path}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	gen := s.refresher.Begin()
	tasks, err := taskapi.ReadTasksFile(path)
	if err != nil {
		// A bad file is the caller's mistake, not a fetch failure; it does
		// not replace the current state.
		return nil, err
	}
	snap := domain.NewSnapshot(uuid.New().String(), "file:"+filepath.Base(path), s.opts.Clock(), tasks)
	return s.applyAndStore(ctx, gen, snap, fields)
}

// refresh fetches the task list and applies it under a new generation.
func (s *attendanceService) refresh(ctx context.Context, fields map[string]any) (*app.RefreshResult, error) {
	gen := s.refresher.Begin()
	fields["generation"] = gen

	var (
		tasks    []domain.Task
		fetchErr error
	)
	if s.client == nil {
		fetchErr = errNoTaskService
	} else {
		tasks, fetchErr = s.client.ListTasks(ctx)
	}
	if fetchErr != nil {
		if err := s.refresher.Apply(gen, nil, fetchErr); err != nil {
			fields["stale"] = true
			return nil, err
		}
		return nil, app.NewFetchError(fetchErr)
	}

	snap := domain.NewSnapshot(uuid.New().String(), sourceAPI, s.opts.Clock(), tasks)
	return s.applyAndStore(ctx, gen, snap, fields)
}

// applyAndStore installs snap as generation gen and, unless a newer
// generation won, persists it and prunes old snapshots.
func (s *attendanceService) applyAndStore(ctx context.Context, gen uint64, snap *domain.Snapshot, fields map[string]any) (*app.RefreshResult, error) {
	if err := s.refresher.Apply(gen, snap, nil); err != nil {
		fields["stale"] = true
		return nil, err
	}
	fields["snapshot"] = snap.ID
	fields["tasks"] = snap.TaskCount
	fields["entries"] = snap.EntryCount

	var pruned int
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSnapshotRepo(tx)
		if err := repo.Save(ctx, snap); err != nil {
			return err
		}
		n, err := repo.Prune(ctx, s.opts.SnapshotKeep)
		pruned = n
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("storing snapshot: %w", err)
	}
	fields["pruned"] = pruned

	return &app.RefreshResult{Snapshot: snapshotInfo(snap), Pruned: pruned}, nil
}

// currentSnapshot returns the in-memory snapshot, loading the newest stored
// one on first use.
func (s *attendanceService) currentSnapshot(ctx context.Context) (*domain.Snapshot, *app.FetchError) {
	snap, fetchErr := s.refresher.Current()
	if snap != nil || s.snapshots == nil {
		return snap, fetchErr
	}

	stored, err := s.snapshots.Latest(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.opts.Logger.WarnContext(ctx, "loading stored snapshot", slog.String("error", err.Error()))
		}
		return nil, fetchErr
	}
	s.refresher.Seed(stored)
	return s.refresher.Current()
}

func snapshotInfo(s *domain.Snapshot) app.SnapshotInfo {
	return app.SnapshotInfo{
		ID:         s.ID,
		FetchedAt:  s.FetchedAt,
		Source:     s.Source,
		TaskCount:  s.TaskCount,
		EntryCount: s.EntryCount,
	}
}
