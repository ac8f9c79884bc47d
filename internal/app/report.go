package app

import (
	"time"

	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/domain"
)

type ReportRequest struct {
	Now     *time.Time
	Filters attendance.Filters
	Order   attendance.Order
	// Refresh fetches from the task service before computing. On failure the
	// last stored snapshot is used and the response carries a FetchError.
	Refresh bool
}

func NewReportRequest() ReportRequest {
	return ReportRequest{}
}

type ReportResponse struct {
	GeneratedAt    time.Time             `json:"generated_at"`
	Snapshot       *SnapshotInfo         `json:"snapshot,omitempty"`
	FetchError     *FetchError           `json:"fetch_error,omitempty"`
	SkippedEntries int                   `json:"skipped_entries"`
	Summaries      []domain.DailySummary `json:"summaries"`
	Anomalies      []domain.Anomaly      `json:"anomalies"`
	Sessions       []domain.Session      `json:"sessions"`
	WorkerTotals   []domain.WorkerTotal  `json:"worker_totals"`
	Filters        attendance.Filters    `json:"filters"`
}

type ReportErrorCode string

const (
	ReportErrInvalidFilter ReportErrorCode = "INVALID_FILTER"
	ReportErrNoData        ReportErrorCode = "NO_DATA"
)

type ReportError struct {
	Code    ReportErrorCode
	Message string
}

func (e *ReportError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// RefreshResult reports a snapshot that was fetched or imported and stored.
type RefreshResult struct {
	Snapshot SnapshotInfo `json:"snapshot"`
	Pruned   int          `json:"pruned"`
}
