package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn records check-in for the calendar date of checkInTime, creating the
	// record when needed.
	CheckIn(ctx context.Context, employeeID string, checkInTime time.Time) (Attendance, error)

	// CheckOut records check-out on the record for the calendar date of checkOutTime.
	CheckOut(ctx context.Context, employeeID string, checkOutTime time.Time) (Attendance, error)

	// Create explicitly creates a record, optionally with check-in and check-out.
	Create(ctx context.Context, req CreateAttendanceRequest) (Attendance, error)

	// Update changes the type and notes of a record.
	Update(ctx context.Context, req UpdateAttendanceRequest) (Attendance, error)

	Get(ctx context.Context, id string) (Attendance, error)
	ListByEmployee(ctx context.Context, filter ListFilter) ([]Attendance, error)
	Delete(ctx context.Context, id string) error
}
