package app

import "time"

type FetchErrorKind string

const (
	FetchFailed FetchErrorKind = "fetch-failed"
)

// FetchError is the one error shape the display layer sees for a failed
// fetch from the task service.
type FetchError struct {
	Kind    FetchErrorKind `json:"kind"`
	Message string         `json:"message"`
}

func (e *FetchError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// NewFetchError wraps any fetch failure as a fetch-failed FetchError.
func NewFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}
	return &FetchError{Kind: FetchFailed, Message: err.Error()}
}

// SnapshotInfo describes the stored task list a response was computed from.
type SnapshotInfo struct {
	ID         string    `json:"id"`
	FetchedAt  time.Time `json:"fetched_at"`
	Source     string    `json:"source"`
	TaskCount  int       `json:"task_count"`
	EntryCount int       `json:"entry_count"`
}
