package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const MaxNotesLength = 500

type AttendanceType string

const (
	TypeNormal       AttendanceType = "normal"
	TypeRemote       AttendanceType = "remote"
	TypeBusinessTrip AttendanceType = "business_trip"
	TypeHalfDay      AttendanceType = "half_day"
)

func (t AttendanceType) IsValid() bool {
	switch t {
	case TypeNormal, TypeRemote, TypeBusinessTrip, TypeHalfDay:
		return true
	}
	return false
}

// ParseAttendanceType accepts both the stored form ("business_trip") and the
// display form ("BusinessTrip"), case-insensitively.
func ParseAttendanceType(s string) (AttendanceType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "businesstrip":
		normalized = string(TypeBusinessTrip)
	case "halfday":
		normalized = string(TypeHalfDay)
	}
	t := AttendanceType(normalized)
	if !t.IsValid() {
		return "", ErrInvalidAttendanceType
	}
	return t, nil
}

// State is the position of a record in the check-in/check-out state machine.
type State string

const (
	StateNoCheckIn State = "no_check_in"
	StateCheckedIn State = "checked_in"
	StateComplete  State = "complete"
)

// Attendance is one employee's attendance for one work date. Fields are
// exported for the persistence layer; workflows mutate records only through
// New, RecordCheckIn, RecordCheckOut and Update.
type Attendance struct {
	ID         string
	EmployeeID string
	WorkDate   time.Time // 00:00 UTC of the calendar date
	CheckIn    *time.Time
	CheckOut   *time.Time
	Type       AttendanceType
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DateOf returns the calendar date of t, as seen in t's location, at 00:00 UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New creates an attendance record without check-in. now is the caller's
// current time in the attendance location.
func New(employeeID string, workDate time.Time, attendanceType AttendanceType, notes *string, now time.Time) (Attendance, error) {
	if validator.IsEmpty(employeeID) {
		return Attendance{}, ErrEmployeeIDRequired
	}
	if !attendanceType.IsValid() {
		return Attendance{}, ErrInvalidAttendanceType
	}

	a := Attendance{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		WorkDate:   DateOf(workDate),
		Type:       attendanceType,
		Notes:      notes,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if err := a.validate(now); err != nil {
		return Attendance{}, err
	}
	return a, nil
}

// RecordCheckIn sets the check-in time. It must fall on the work date.
func (a *Attendance) RecordCheckIn(checkIn time.Time, now time.Time) error {
	if a.CheckIn != nil {
		return ErrAlreadyCheckedIn
	}
	if !DateOf(checkIn).Equal(a.WorkDate) {
		return ErrCheckInDateMismatch
	}
	a.CheckIn = &checkIn
	a.UpdatedAt = now.UTC()
	return nil
}

// RecordCheckOut sets the check-out time. It requires a check-in and is
// immutable once set.
func (a *Attendance) RecordCheckOut(checkOut time.Time, now time.Time) error {
	if a.CheckIn == nil {
		return ErrNotCheckedIn
	}
	if a.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	if !checkOut.After(*a.CheckIn) {
		return ErrCheckOutNotAfterCheckIn
	}
	a.CheckOut = &checkOut
	a.UpdatedAt = now.UTC()
	return nil
}

// Update changes the attendance type and notes. It does not touch the
// check-in/check-out state.
func (a *Attendance) Update(attendanceType AttendanceType, notes *string, now time.Time) error {
	if !attendanceType.IsValid() {
		return ErrInvalidAttendanceType
	}
	if notes != nil && validator.ExceedsLength(*notes, MaxNotesLength) {
		return ErrNotesTooLong
	}
	a.Type = attendanceType
	a.Notes = notes
	a.UpdatedAt = now.UTC()
	return nil
}

// WorkHours returns the fractional hours between check-in and check-out.
// ok is false until both are recorded.
func (a Attendance) WorkHours() (hours float64, ok bool) {
	if a.CheckIn == nil || a.CheckOut == nil {
		return 0, false
	}
	return a.CheckOut.Sub(*a.CheckIn).Hours(), true
}

func (a Attendance) State() State {
	switch {
	case a.CheckIn == nil:
		return StateNoCheckIn
	case a.CheckOut == nil:
		return StateCheckedIn
	default:
		return StateComplete
	}
}

func (a Attendance) validate(now time.Time) error {
	if a.WorkDate.After(DateOf(now)) {
		return ErrWorkDateInFuture
	}
	if a.Notes != nil && validator.ExceedsLength(*a.Notes, MaxNotesLength) {
		return ErrNotesTooLong
	}
	return nil
}
