package taskapi

import "log/slog"

// CallEvent records metadata about a single task list fetch.
type CallEvent struct {
	URL        string
	Attempts   int
	StatusCode int
	LatencyMs  int64
	Tasks      int
	Success    bool
	ErrorCode  string
}

// Observer receives events about task service calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"url", event.URL,
		"attempts", event.Attempts,
		"status", event.StatusCode,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.logger.Warn("taskapi_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("taskapi_call", append(attrs, "tasks", event.Tasks)...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
