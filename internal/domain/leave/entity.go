package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const (
	MaxReasonLength  = 1000
	MaxCommentLength = 1000
)

type LeaveType string

const (
	TypePaidLeave    LeaveType = "paid_leave"
	TypeSickLeave    LeaveType = "sick_leave"
	TypeSpecialLeave LeaveType = "special_leave"
	TypeUnpaidLeave  LeaveType = "unpaid_leave"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case TypePaidLeave, TypeSickLeave, TypeSpecialLeave, TypeUnpaidLeave:
		return true
	}
	return false
}

// ParseLeaveType accepts "paid_leave" as well as "PaidLeave", case-insensitively.
func ParseLeaveType(s string) (LeaveType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if !strings.Contains(normalized, "_") && strings.HasSuffix(normalized, "leave") {
		normalized = strings.TrimSuffix(normalized, "leave") + "_leave"
	}
	t := LeaveType(normalized)
	if !t.IsValid() {
		return "", ErrInvalidLeaveType
	}
	return t, nil
}

type LeaveRequestStatus string

const (
	StatusPending   LeaveRequestStatus = "pending"
	StatusApproved  LeaveRequestStatus = "approved"
	StatusRejected  LeaveRequestStatus = "rejected"
	StatusCancelled LeaveRequestStatus = "cancelled"
)

func (s LeaveRequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Blocking reports whether a request in this status reserves its dates.
func (s LeaveRequestStatus) Blocking() bool {
	return s == StatusPending || s == StatusApproved
}

// Predecessors lists the statuses a request may be in right before moving to s.
// Stores use it to refuse an update that lost a race with another decision.
func (s LeaveRequestStatus) Predecessors() []LeaveRequestStatus {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return []LeaveRequestStatus{StatusPending}
	case StatusCancelled:
		return []LeaveRequestStatus{StatusPending, StatusApproved}
	}
	return nil
}

func ParseLeaveRequestStatus(s string) (LeaveRequestStatus, error) {
	status := LeaveRequestStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType

	StartDate time.Time // 00:00 UTC
	EndDate   time.Time // 00:00 UTC, inclusive

	Reason string
	Status LeaveRequestStatus

	ApproverID      *string
	DecidedAt       *time.Time // approved or rejected at
	ApproverComment *string
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewLeaveRequest builds a pending request. now is the caller's current time
// in the attendance location.
func NewLeaveRequest(employeeID string, leaveType LeaveType, startDate, endDate time.Time, reason string, now time.Time) (LeaveRequest, error) {
	if validator.IsEmpty(employeeID) {
		return LeaveRequest{}, ErrEmployeeIDRequired
	}
	if !leaveType.IsValid() {
		return LeaveRequest{}, ErrInvalidLeaveType
	}

	start, end := dateOf(startDate), dateOf(endDate)
	if start.After(end) {
		return LeaveRequest{}, ErrInvalidDateRange
	}
	if end.Before(dateOf(now)) {
		return LeaveRequest{}, ErrEndDateInPast
	}
	if validator.IsEmpty(reason) {
		return LeaveRequest{}, ErrReasonRequired
	}
	if validator.ExceedsLength(reason, MaxReasonLength) {
		return LeaveRequest{}, ErrReasonTooLong
	}

	return LeaveRequest{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		Type:       leaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     reason,
		Status:     StatusPending,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}, nil
}

// Days is the inclusive number of calendar days the request covers.
func (r LeaveRequest) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// Overlaps reports whether the request shares at least one day with [start, end].
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(dateOf(end)) && !r.EndDate.Before(dateOf(start))
}

func (r *LeaveRequest) Approve(approverID string, comment *string, now time.Time) error {
	return r.decide(StatusApproved, approverID, comment, now)
}

func (r *LeaveRequest) Reject(approverID string, comment *string, now time.Time) error {
	return r.decide(StatusRejected, approverID, comment, now)
}

func (r *LeaveRequest) decide(status LeaveRequestStatus, approverID string, comment *string, now time.Time) error {
	if validator.IsEmpty(approverID) {
		return ErrApproverRequired
	}
	if comment != nil && validator.ExceedsLength(*comment, MaxCommentLength) {
		return ErrCommentTooLong
	}
	if r.Status != StatusPending {
		return ErrLeaveNotPending
	}

	decidedAt := now.UTC()
	r.Status = status
	r.ApproverID = &approverID
	r.ApproverComment = comment
	r.DecidedAt = &decidedAt
	r.UpdatedAt = decidedAt
	return nil
}

// Cancel is allowed from pending and approved.
func (r *LeaveRequest) Cancel(now time.Time) error {
	switch r.Status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusRejected:
		return ErrCannotCancelRejected
	}

	cancelledAt := now.UTC()
	r.Status = StatusCancelled
	r.CancelledAt = &cancelledAt
	r.UpdatedAt = cancelledAt
	return nil
}
