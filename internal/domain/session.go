package domain

import "time"

// Session is a normalized time-tracking record for one worker on one task.
// At least one of StartTime and EndTime is set.
type Session struct {
	TaskID    int64      `json:"task_id"`
	TaskTitle string     `json:"task_title"`
	Worker    string     `json:"worker"`
	Date      string     `json:"date"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	WorkHours float64    `json:"work_hours"`
}

// HasInterval reports whether both ends of the session are known.
func (s Session) HasInterval() bool {
	return s.StartTime != nil && s.EndTime != nil
}

// Anchor returns the timestamp that identifies the session: the start when
// known, otherwise the end.
func (s Session) Anchor() time.Time {
	if s.StartTime != nil {
		return *s.StartTime
	}
	if s.EndTime != nil {
		return *s.EndTime
	}
	return time.Time{}
}

type DailySummary struct {
	Date       string  `json:"date"`
	Worker     string  `json:"worker"`
	TotalHours float64 `json:"total_hours"`
	TaskCount  int     `json:"task_count"`
}

// WorkerTotal aggregates one worker across every day of a report.
type WorkerTotal struct {
	Worker     string  `json:"worker"`
	TotalHours float64 `json:"total_hours"`
	Days       int     `json:"days"`
	TaskCount  int     `json:"task_count"`
}
