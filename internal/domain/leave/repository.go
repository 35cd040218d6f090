package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests storage
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	// GetByID returns ErrLeaveRequestNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetOverlapping returns the employee's pending and approved requests whose
	// range shares a day with [start, end].
	GetOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)

	// Update persists the request when the stored status is one of
	// request.Status.Predecessors(); otherwise it returns ErrLeaveRequestModified.
	Update(ctx context.Context, request LeaveRequest) error

	// ListByEmployee orders by start date, newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListByStatus(ctx context.Context, status LeaveRequestStatus) ([]LeaveRequest, error)
}
