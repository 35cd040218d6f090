package attendance

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

// Attendance domain errors
var (
	// Input errors
	ErrEmployeeIDRequired      = apperror.New(apperror.Validation, "employee id is required")
	ErrTimestampRequired       = apperror.New(apperror.Validation, "timestamp is required")
	ErrInvalidAttendanceType   = apperror.New(apperror.Validation, "invalid attendance type: valid values are normal, remote, business_trip, half_day")
	ErrWorkDateInFuture        = apperror.New(apperror.Validation, "work date must not be in the future")
	ErrNotesTooLong            = apperror.New(apperror.Validation, "notes must not exceed 500 characters")
	ErrCheckInDateMismatch     = apperror.New(apperror.Validation, "check-in time must fall on the work date")
	ErrCheckOutNotAfterCheckIn = apperror.New(apperror.Validation, "check-out time must be after check-in time")

	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = apperror.New(apperror.Conflict, "check-in already recorded for this date")
	ErrNotCheckedIn      = apperror.New(apperror.Precondition, "no check-in recorded")
	ErrAlreadyCheckedOut = apperror.New(apperror.Conflict, "check-out already recorded for this date")

	// Store errors
	ErrAttendanceNotFound = apperror.New(apperror.NotFound, "attendance record not found")
	ErrAttendanceExists   = apperror.New(apperror.Conflict, "attendance record already exists for this date")
	ErrAttendanceModified = apperror.New(apperror.Conflict, "attendance record was modified concurrently")
)
