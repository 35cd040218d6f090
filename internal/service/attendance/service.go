package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	repo      attendance.AttendanceRepository
	detector  attendance.AnomalyDetector
	location  *time.Location
	publisher event.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the service.
type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *AttendanceServiceImpl) { s.logger = l }
}

func NewAttendanceService(
	repo attendance.AttendanceRepository,
	policy attendance.Policy,
	publisher event.Publisher,
	opts ...Option,
) attendance.AttendanceService {
	location := policy.Location
	if location == nil {
		location = time.UTC
	}
	s := &AttendanceServiceImpl{
		repo:      repo,
		detector:  attendance.NewAnomalyDetector(policy),
		location:  location,
		publisher: publisher,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *AttendanceServiceImpl) today() time.Time {
	return s.now().In(s.location)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string, checkInTime time.Time) (attendance.Attendance, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.Attendance{}, attendance.ErrEmployeeIDRequired
	}
	if checkInTime.IsZero() {
		return attendance.Attendance{}, attendance.ErrTimestampRequired
	}

	now := s.today()
	checkIn := checkInTime.In(s.location)
	workDate := attendance.DateOf(checkIn)

	existing, err := s.repo.GetByEmployeeAndDate(ctx, employeeID, workDate)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	var record attendance.Attendance
	if existing == nil {
		record, err = attendance.New(employeeID, workDate, attendance.TypeNormal, nil, now)
		if err != nil {
			return attendance.Attendance{}, err
		}
		if err := record.RecordCheckIn(checkIn, now); err != nil {
			return attendance.Attendance{}, err
		}
		if err := ctx.Err(); err != nil {
			return attendance.Attendance{}, err
		}

		record, err = s.repo.Create(ctx, record)
		if err != nil {
			// Lost the race against a concurrent check-in for the same day.
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
			}
			return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
		}
	} else {
		record = *existing
		if err := record.RecordCheckIn(checkIn, now); err != nil {
			return attendance.Attendance{}, err
		}
		if err := ctx.Err(); err != nil {
			return attendance.Attendance{}, err
		}

		if err := s.repo.Update(ctx, record); err != nil {
			if errors.Is(err, attendance.ErrAttendanceModified) {
				return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
			}
			return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
		}
	}

	events := checkInEvents(record, s.detector)
	s.logger.InfoContext(ctx, "check-in recorded",
		"attendance_id", record.ID,
		"employee_id", record.EmployeeID,
		"work_date", record.WorkDate.Format("2006-01-02"),
		"late", len(events) > 1,
	)
	messaging.Dispatch(ctx, s.publisher, s.logger, events)

	return record, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string, checkOutTime time.Time) (attendance.Attendance, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.Attendance{}, attendance.ErrEmployeeIDRequired
	}
	if checkOutTime.IsZero() {
		return attendance.Attendance{}, attendance.ErrTimestampRequired
	}

	now := s.today()
	checkOut := checkOutTime.In(s.location)

	existing, err := s.repo.GetByEmployeeAndDate(ctx, employeeID, attendance.DateOf(checkOut))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if existing == nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}

	record := *existing
	if err := record.RecordCheckOut(checkOut, now); err != nil {
		return attendance.Attendance{}, err
	}
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, attendance.ErrAttendanceModified) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	hours, _ := record.WorkHours()
	events := checkOutEvents(record, s.detector)
	s.logger.InfoContext(ctx, "check-out recorded",
		"attendance_id", record.ID,
		"employee_id", record.EmployeeID,
		"work_date", record.WorkDate.Format("2006-01-02"),
		"work_hours", hours,
	)
	messaging.Dispatch(ctx, s.publisher, s.logger, events)

	return record, nil
}

// Create implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	now := s.today()
	record, err := attendance.New(req.EmployeeID, req.ParsedWorkDate, req.ParsedType, req.Notes, now)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if req.ParsedCheckIn != nil {
		if err := record.RecordCheckIn(req.ParsedCheckIn.In(s.location), now); err != nil {
			return attendance.Attendance{}, err
		}
	}
	if req.ParsedCheckOut != nil {
		if err := record.RecordCheckOut(req.ParsedCheckOut.In(s.location), now); err != nil {
			return attendance.Attendance{}, err
		}
	}

	existing, err := s.repo.GetByEmployeeAndDate(ctx, record.EmployeeID, record.WorkDate)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if existing != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceExists
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	s.logger.InfoContext(ctx, "attendance created", "attendance_id", created.ID, "employee_id", created.EmployeeID)
	return created, nil
}

// Update implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if err := record.Update(req.ParsedType, req.Notes, s.today()); err != nil {
		return attendance.Attendance{}, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, attendance.ErrAttendanceModified) || errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return record, nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.Attendance, error) {
	if validator.IsEmpty(id) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListByEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByEmployee(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	if validator.IsEmpty(filter.EmployeeID) {
		return nil, attendance.ErrEmployeeIDRequired
	}
	records, err := s.repo.ListByEmployee(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "attendance deleted", "attendance_id", id)
	return nil
}
