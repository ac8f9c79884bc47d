package domain

// Task is a task record as returned by the task service's list endpoint.
// Only the fields the attendance engine reads are decoded.
type Task struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	AssignedTo  *string     `json:"assigned_to"`
	TimeEntries []TimeEntry `json:"time_entries"`
}

// TimeEntry is one raw time-tracking record nested under a Task.
// Timestamps are kept as the source strings; parsing happens during
// normalization so a malformed value only drops its own entry.
type TimeEntry struct {
	ID        *int64  `json:"id,omitempty"`
	UserID    *int64  `json:"user_id,omitempty"`
	Author    *string `json:"author"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	WorkHours Hours   `json:"work_hours"`
}
