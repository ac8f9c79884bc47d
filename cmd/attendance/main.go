package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alexanderramin/attendance/internal/cli"
	"github.com/alexanderramin/attendance/internal/config"
	"github.com/alexanderramin/attendance/internal/db"
	"github.com/alexanderramin/attendance/internal/repository"
	"github.com/alexanderramin/attendance/internal/service"
	"github.com/alexanderramin/attendance/internal/taskapi"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.NewLoader(bootLogger).Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.Store.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	snapshots := repository.NewSQLiteSnapshotRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	client := taskapi.NewHTTPClient(cfg.API, taskapi.NewLogObserver(logger))

	svc := service.NewAttendanceService(client, snapshots, uow, service.NewRefresher(), service.AttendanceOptions{
		Rules:        cfg.DetectionRules(),
		Location:     loc,
		SnapshotKeep: cfg.Store.SnapshotKeep,
		Logger:       logger,
	}, service.NewLogUseCaseObserver(logger))

	app := &cli.App{
		Attendance: svc,
		Location:   loc,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// newLogger builds the process logger from the log config: text or JSON on w
// at the configured level.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
