package attendance

import (
	"time"

	"github.com/alexanderramin/attendance/internal/domain"
)

// Normalize flattens the time entries of tasks into sessions. Entries
// without a usable timestamp are dropped; nothing here fails. Timestamps are
// converted to loc (time.Local when nil) and the session date is the day of
// the start, or of the end when the start is missing.
func Normalize(tasks []domain.Task, loc *time.Location) []domain.Session {
	if loc == nil {
		loc = time.Local
	}

	var sessions []domain.Session
	for _, task := range tasks {
		for _, entry := range task.TimeEntries {
			s, ok := normalizeEntry(task, entry, loc)
			if !ok {
				continue
			}
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// CountEntries returns the number of raw time entries across tasks.
func CountEntries(tasks []domain.Task) int {
	n := 0
	for _, task := range tasks {
		n += len(task.TimeEntries)
	}
	return n
}

func normalizeEntry(task domain.Task, entry domain.TimeEntry, loc *time.Location) (domain.Session, bool) {
	start := parseOptional(entry.StartTime, loc)
	end := parseOptional(entry.EndTime, loc)
	if start == nil && end == nil {
		return domain.Session{}, false
	}

	anchor := start
	if anchor == nil {
		anchor = end
	}

	return domain.Session{
		TaskID:    task.ID,
		TaskTitle: task.Title,
		Worker:    domain.ResolveWorker(entry, task),
		Date:      DayKey(*anchor, loc),
		StartTime: start,
		EndTime:   end,
		WorkHours: entry.WorkHours.Or(0),
	}, true
}

func parseOptional(s *string, loc *time.Location) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := ParseTimestamp(*s, loc)
	if !ok {
		return nil
	}
	t = t.In(loc)
	return &t
}
