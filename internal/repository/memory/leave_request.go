package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
)

var _ leave.LeaveRequestRepository = (*leaveRequestRepository)(nil)

type leaveRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]leave.LeaveRequest
}

func NewLeaveRequestRepository() leave.LeaveRequestRepository {
	return &leaveRequestRepository{requests: make(map[string]leave.LeaveRequest)}
}

func cloneLeaveRequest(lr leave.LeaveRequest) leave.LeaveRequest {
	lr.ApproverID = cloneString(lr.ApproverID)
	lr.ApproverComment = cloneString(lr.ApproverComment)
	lr.DecidedAt = cloneTime(lr.DecidedAt)
	lr.CancelledAt = cloneTime(lr.CancelledAt)
	return lr
}

func (r *leaveRequestRepository) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[lr.ID] = cloneLeaveRequest(lr)
	return cloneLeaveRequest(lr), nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	lr, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return cloneLeaveRequest(lr), nil
}

func (r *leaveRequestRepository) GetOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	return r.filter(ctx, func(lr leave.LeaveRequest) bool {
		return lr.EmployeeID == employeeID && lr.Status.Blocking() && lr.Overlaps(start, end)
	})
}

func (r *leaveRequestRepository) Update(ctx context.Context, lr leave.LeaveRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[lr.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if !slices.Contains(lr.Status.Predecessors(), stored.Status) {
		return leave.ErrLeaveRequestModified
	}
	r.requests[lr.ID] = cloneLeaveRequest(lr)
	return nil
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.filter(ctx, func(lr leave.LeaveRequest) bool { return lr.EmployeeID == employeeID })
}

func (r *leaveRequestRepository) ListByStatus(ctx context.Context, status leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	return r.filter(ctx, func(lr leave.LeaveRequest) bool { return lr.Status == status })
}

// filter returns matching requests ordered by start date, newest first.
func (r *leaveRequestRepository) filter(ctx context.Context, match func(leave.LeaveRequest) bool) ([]leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]leave.LeaveRequest, 0)
	for _, lr := range r.requests {
		if match(lr) {
			result = append(result, cloneLeaveRequest(lr))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, nil
}
