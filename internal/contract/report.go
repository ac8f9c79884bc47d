package contract

import "github.com/alexanderramin/attendance/internal/app"

type ReportRequest = app.ReportRequest

func NewReportRequest() ReportRequest {
	return app.NewReportRequest()
}

type ReportResponse = app.ReportResponse

type ReportErrorCode = app.ReportErrorCode

const (
	ReportErrInvalidFilter ReportErrorCode = app.ReportErrInvalidFilter
	ReportErrNoData        ReportErrorCode = app.ReportErrNoData
)

type ReportError = app.ReportError

type RefreshResult = app.RefreshResult
