package repository

import (
	"database/sql"

	"github.com/alexanderramin/attendance/internal/domain"
)

// snapshotTimeLayout is fixed width so stored UTC timestamps sort lexically,
// including fetches within the same second.
const snapshotTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// nullableString converts a *string to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// nullableInt64 converts a *int64 to a value suitable for SQLite storage.
func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// hoursToValue stores invalid hours as NULL.
func hoursToValue(h domain.Hours) interface{} {
	if !h.Valid {
		return nil
	}
	return h.Value
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func hoursFrom(f sql.NullFloat64) domain.Hours {
	if !f.Valid {
		return domain.Hours{}
	}
	return domain.HoursOf(f.Float64)
}
