package service

import (
	"github.com/alexanderramin/attendance/internal/app"
)

// AttendanceService is every attendance use case behind one value.
type AttendanceService interface {
	app.ReportUseCase
	app.RefreshUseCase
	app.ImportUseCase
}
