package app

import "context"

type ReportUseCase interface {
	Report(ctx context.Context, req ReportRequest) (*ReportResponse, error)
}

type RefreshUseCase interface {
	Refresh(ctx context.Context) (*RefreshResult, error)
}

type ImportUseCase interface {
	ImportFile(ctx context.Context, path string) (*RefreshResult, error)
}
