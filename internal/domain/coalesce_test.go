package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestResolveWorker(t *testing.T) {
	tests := []struct {
		name     string
		author   *string
		assignee *string
		want     string
	}{
		{"author wins", strPtr("alice"), strPtr("bob"), "alice"},
		{"falls back to assignee", nil, strPtr("bob"), "bob"},
		{"blank author falls back", strPtr("  "), strPtr("bob"), "bob"},
		{"unassigned label", nil, nil, UnassignedWorker},
		{"trims author", strPtr(" carol "), nil, "carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWorker(TimeEntry{Author: tt.author}, Task{AssignedTo: tt.assignee})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSession_Anchor(t *testing.T) {
	assert.True(t, Session{}.Anchor().IsZero())
	assert.False(t, Session{}.HasInterval())
}
