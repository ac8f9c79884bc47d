package contract

import "github.com/alexanderramin/attendance/internal/app"

type FetchErrorKind = app.FetchErrorKind

const (
	FetchFailed FetchErrorKind = app.FetchFailed
)

type FetchError = app.FetchError

type SnapshotInfo = app.SnapshotInfo
