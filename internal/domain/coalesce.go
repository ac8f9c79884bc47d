package domain

import "strings"

// UnassignedWorker labels sessions with neither an author nor an assignee.
const UnassignedWorker = "unassigned"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// TrimmedStr dereferences p and trims surrounding whitespace.
// A nil pointer yields the empty string.
func TrimmedStr(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// ResolveWorker picks the worker a time entry is attributed to, in order:
// the entry's author, the task's assignee, then UnassignedWorker.
func ResolveWorker(entry TimeEntry, task Task) string {
	return CoalesceStr(TrimmedStr(entry.Author), TrimmedStr(task.AssignedTo), UnassignedWorker)
}
