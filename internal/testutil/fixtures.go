package testutil

import (
	"sync/atomic"

	"github.com/alexanderramin/attendance/internal/domain"
)

var testTaskIDCounter atomic.Int64

// Task options
type TaskOption func(*domain.Task)

func WithTaskID(id int64) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithAssignee(name string) TaskOption {
	return func(t *domain.Task) {
		t.AssignedTo = &name
	}
}

func WithEntry(opts ...EntryOption) TaskOption {
	return func(t *domain.Task) {
		t.TimeEntries = append(t.TimeEntries, NewTestEntry(opts...))
	}
}

func NewTestTask(title string, opts ...TaskOption) domain.Task {
	t := domain.Task{
		ID:    testTaskIDCounter.Add(1),
		Title: title,
	}
	for _, o := range opts {
		o(&t)
	}
	return t
}

// Entry options
type EntryOption func(*domain.TimeEntry)

func ByAuthor(name string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Author = &name
	}
}

func StartingAt(ts string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.StartTime = &ts
	}
}

func EndingAt(ts string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.EndTime = &ts
	}
}

func WithHours(h float64) EntryOption {
	return func(e *domain.TimeEntry) {
		e.WorkHours = domain.HoursOf(h)
	}
}

func NewTestEntry(opts ...EntryOption) domain.TimeEntry {
	var e domain.TimeEntry
	for _, o := range opts {
		o(&e)
	}
	return e
}
