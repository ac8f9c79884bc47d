package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/attendance/internal/db"
	"github.com/alexanderramin/attendance/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

const snapshotColumns = `id, fetched_at, source, task_count, entry_count`

func (r *SQLiteSnapshotRepo) Save(ctx context.Context, s *domain.Snapshot) error {
	query := `INSERT INTO snapshots (` + snapshotColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.FetchedAt.UTC().Format(snapshotTimeLayout),
		s.Source,
		s.TaskCount,
		s.EntryCount,
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	for pos, task := range s.Tasks {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO snapshot_tasks (snapshot_id, position, task_id, title, assigned_to) VALUES (?, ?, ?, ?, ?)`,
			s.ID, pos, task.ID, task.Title, nullableString(task.AssignedTo))
		if err != nil {
			return fmt.Errorf("inserting snapshot task %d: %w", task.ID, err)
		}
		for epos, e := range task.TimeEntries {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO snapshot_time_entries
					(snapshot_id, task_position, position, entry_id, user_id, author, start_time, end_time, work_hours)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.ID, pos, epos,
				nullableInt64(e.ID),
				nullableInt64(e.UserID),
				nullableString(e.Author),
				nullableString(e.StartTime),
				nullableString(e.EndTime),
				hoursToValue(e.WorkHours),
			)
			if err != nil {
				return fmt.Errorf("inserting time entry %d of task %d: %w", epos, task.ID, err)
			}
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Latest(ctx context.Context) (*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY fetched_at DESC, rowid DESC LIMIT 1`
	s, err := r.scanSnapshot(r.db.QueryRowContext(ctx, query))
	if err != nil {
		return nil, err
	}
	if err := r.loadTasks(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE id = ?`
	s, err := r.scanSnapshot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTasks(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSnapshotRepo) List(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query := `SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY fetched_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.Snapshot
	for rows.Next() {
		var s domain.Snapshot
		var fetchedAt string
		if err := rows.Scan(&s.ID, &fetchedAt, &s.Source, &s.TaskCount, &s.EntryCount); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if err := populateSnapshot(&s, fetchedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SQLiteSnapshotRepo) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id NOT IN (
		SELECT id FROM snapshots ORDER BY fetched_at DESC, rowid DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned snapshots: %w", err)
	}
	return int(n), nil
}

// scanSnapshot scans a snapshot header from a *sql.Row.
func (r *SQLiteSnapshotRepo) scanSnapshot(row *sql.Row) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var fetchedAt string
	err := row.Scan(&s.ID, &fetchedAt, &s.Source, &s.TaskCount, &s.EntryCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	if err := populateSnapshot(&s, fetchedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func populateSnapshot(s *domain.Snapshot, fetchedAt string) error {
	t, err := time.Parse(snapshotTimeLayout, fetchedAt)
	if err != nil {
		return fmt.Errorf("parsing snapshot fetched_at %q: %w", fetchedAt, err)
	}
	s.FetchedAt = t
	return nil
}

// loadTasks fills s.Tasks in stored order.
func (r *SQLiteSnapshotRepo) loadTasks(ctx context.Context, s *domain.Snapshot) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT position, task_id, title, assigned_to FROM snapshot_tasks
			WHERE snapshot_id = ? ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("loading snapshot tasks: %w", err)
	}
	byPosition := make(map[int]int)
	tasks := []domain.Task{}
	for rows.Next() {
		var pos int
		var task domain.Task
		var assigned sql.NullString
		if err := rows.Scan(&pos, &task.ID, &task.Title, &assigned); err != nil {
			rows.Close()
			return fmt.Errorf("scanning snapshot task: %w", err)
		}
		task.AssignedTo = stringPtr(assigned)
		task.TimeEntries = []domain.TimeEntry{}
		byPosition[pos] = len(tasks)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating snapshot tasks: %w", err)
	}
	rows.Close()

	entryRows, err := r.db.QueryContext(ctx,
		`SELECT task_position, entry_id, user_id, author, start_time, end_time, work_hours
			FROM snapshot_time_entries WHERE snapshot_id = ? ORDER BY task_position, position`, s.ID)
	if err != nil {
		return fmt.Errorf("loading snapshot entries: %w", err)
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var (
			pos                int
			entryID, userID    sql.NullInt64
			author, start, end sql.NullString
			hours              sql.NullFloat64
		)
		if err := entryRows.Scan(&pos, &entryID, &userID, &author, &start, &end, &hours); err != nil {
			return fmt.Errorf("scanning snapshot entry: %w", err)
		}
		idx, ok := byPosition[pos]
		if !ok {
			continue
		}
		tasks[idx].TimeEntries = append(tasks[idx].TimeEntries, domain.TimeEntry{
			ID:        int64Ptr(entryID),
			UserID:    int64Ptr(userID),
			Author:    stringPtr(author),
			StartTime: stringPtr(start),
			EndTime:   stringPtr(end),
			WorkHours: hoursFrom(hours),
		})
	}
	if err := entryRows.Err(); err != nil {
		return fmt.Errorf("iterating snapshot entries: %w", err)
	}

	s.Tasks = tasks
	return nil
}
