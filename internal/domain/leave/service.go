package leave

import (
	"context"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequest, error)
	Approve(ctx context.Context, req DecisionRequest) (LeaveRequest, error)
	Reject(ctx context.Context, req DecisionRequest) (LeaveRequest, error)
	Cancel(ctx context.Context, id string) (LeaveRequest, error)

	Get(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListByStatus(ctx context.Context, status LeaveRequestStatus) ([]LeaveRequest, error)
}
