package domain

import "time"

// Snapshot is one successful fetch of the task list, kept so the last good
// data can be shown when the task service is unreachable.
type Snapshot struct {
	ID         string    `json:"id"`
	FetchedAt  time.Time `json:"fetched_at"`
	Source     string    `json:"source"`
	TaskCount  int       `json:"task_count"`
	EntryCount int       `json:"entry_count"`
	// Tasks is nil when only the header was loaded.
	Tasks []Task `json:"tasks,omitempty"`
}

// NewSnapshot stamps tasks with the given id, source and fetch time and
// fills the counts.
func NewSnapshot(id, source string, fetchedAt time.Time, tasks []Task) *Snapshot {
	entries := 0
	for _, t := range tasks {
		entries += len(t.TimeEntries)
	}
	return &Snapshot{
		ID:         id,
		FetchedAt:  fetchedAt,
		Source:     source,
		TaskCount:  len(tasks),
		EntryCount: entries,
		Tasks:      tasks,
	}
}
