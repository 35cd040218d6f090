package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the system of record for attendance.
// Implementations enforce one record per (employee, work date).
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrAttendanceExists when a record for
	// the same employee and work date is already stored.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID returns ErrAttendanceNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil, nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*Attendance, error)

	// Update persists the record. A stored check-in or check-out is never
	// replaced by a different value; such an update returns ErrAttendanceModified.
	Update(ctx context.Context, attendance Attendance) error

	// ListByEmployee returns records ordered by work date, limited to the
	// inclusive range when bounds are given.
	ListByEmployee(ctx context.Context, filter ListFilter) ([]Attendance, error)

	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}
