package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	repo      leave.LeaveRequestRepository
	location  *time.Location
	publisher event.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*LeaveServiceImpl)

func WithClock(now func() time.Time) Option {
	return func(s *LeaveServiceImpl) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *LeaveServiceImpl) { s.logger = l }
}

// WithLocation sets the timezone "today" is evaluated in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *LeaveServiceImpl) { s.location = loc }
}

func NewLeaveService(repo leave.LeaveRequestRepository, publisher event.Publisher, opts ...Option) leave.LeaveService {
	s := &LeaveServiceImpl{
		repo:      repo,
		location:  time.UTC,
		publisher: publisher,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateLeaveRequest implements leave.LeaveService.
// Pending and approved requests both block an overlapping new request.
func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	request, err := leave.NewLeaveRequest(req.EmployeeID, req.ParsedType, req.ParsedStartDate, req.ParsedEndDate, req.Reason, s.now().In(s.location))
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	overlapping, err := s.repo.GetOverlapping(ctx, request.EmployeeID, request.StartDate, request.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if len(overlapping) > 0 {
		s.logger.InfoContext(ctx, "leave request rejected: overlap",
			"employee_id", request.EmployeeID,
			"overlapping_id", overlapping[0].ID,
		)
		return leave.LeaveRequest{}, leave.ErrOverlappingLeave
	}
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}

	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.logger.InfoContext(ctx, "leave request created",
		"leave_request_id", created.ID,
		"employee_id", created.EmployeeID,
		"type", created.Type,
		"days", created.Days(),
	)
	messaging.Dispatch(ctx, s.publisher, s.logger, []event.Event{createdEvent(created)})

	return created, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.DecisionRequest) (leave.LeaveRequest, error) {
	return s.decide(ctx, req, leave.StatusApproved)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.DecisionRequest) (leave.LeaveRequest, error) {
	return s.decide(ctx, req, leave.StatusRejected)
}

func (s *LeaveServiceImpl) decide(ctx context.Context, req leave.DecisionRequest, status leave.LeaveRequestStatus) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	request, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	now := s.now().In(s.location)
	if status == leave.StatusApproved {
		err = request.Approve(req.ApproverID, req.Comment, now)
	} else {
		err = request.Reject(req.ApproverID, req.Comment, now)
	}
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}

	if err := s.repo.Update(ctx, request); err != nil {
		// Another decision or a cancellation got there first.
		if errors.Is(err, leave.ErrLeaveRequestModified) {
			return leave.LeaveRequest{}, leave.ErrLeaveNotPending
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	s.logger.InfoContext(ctx, "leave request decided",
		"leave_request_id", request.ID,
		"status", request.Status,
		"approver_id", req.ApproverID,
	)
	messaging.Dispatch(ctx, s.publisher, s.logger, []event.Event{decisionEvent(request)})

	return request, nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if validator.IsEmpty(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if err := request.Cancel(s.now().In(s.location)); err != nil {
		return leave.LeaveRequest{}, err
	}
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}

	if err := s.repo.Update(ctx, request); err != nil {
		if errors.Is(err, leave.ErrLeaveRequestModified) {
			return leave.LeaveRequest{}, s.cancelConflict(ctx, id)
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	s.logger.InfoContext(ctx, "leave request cancelled", "leave_request_id", request.ID)
	messaging.Dispatch(ctx, s.publisher, s.logger, []event.Event{cancelledEvent(request)})

	return request, nil
}

// cancelConflict reloads a request whose cancellation lost a race and reports
// why it can no longer be cancelled.
func (s *LeaveServiceImpl) cancelConflict(ctx context.Context, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return leave.ErrLeaveRequestModified
	}
	if current.Status == leave.StatusRejected {
		return leave.ErrCannotCancelRejected
	}
	return leave.ErrAlreadyCancelled
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if validator.IsEmpty(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListByEmployee implements leave.LeaveService.
func (s *LeaveServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	if validator.IsEmpty(employeeID) {
		return nil, leave.ErrEmployeeIDRequired
	}
	requests, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// ListByStatus implements leave.LeaveService.
func (s *LeaveServiceImpl) ListByStatus(ctx context.Context, status leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	if !status.IsValid() {
		return nil, leave.ErrInvalidStatus
	}
	requests, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}
