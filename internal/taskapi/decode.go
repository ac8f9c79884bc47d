package taskapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexanderramin/attendance/internal/domain"
)

// DecodeTasks parses a task list payload. The service answers with a bare
// JSON array; an object wrapping it under "tasks" is accepted too.
func DecodeTasks(data []byte) ([]domain.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}

	var tasks []domain.Task
	if data[0] == '{' {
		var wrapped struct {
			Tasks *[]domain.Task `json:"tasks"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		if wrapped.Tasks == nil {
			return nil, fmt.Errorf("%w: object has no tasks field", ErrInvalidResponse)
		}
		tasks = *wrapped.Tasks
	} else if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// ReadTasksFile decodes a JSON dump of the task list from disk.
func ReadTasksFile(path string) ([]domain.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	tasks, err := DecodeTasks(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return tasks, nil
}
