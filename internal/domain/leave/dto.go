package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type CreateLeaveRequestRequest struct {
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`

	ParsedType      LeaveType `json:"-"`
	ParsedStartDate time.Time `json:"-"`
	ParsedEndDate   time.Time `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if t, err := ParseLeaveType(r.Type); err != nil {
		errs.Add("type", "type must be one of paid_leave, sick_leave, special_leave, unpaid_leave")
	} else {
		r.ParsedType = t
	}

	startOK, endOK := false, false
	if d, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	} else {
		r.ParsedStartDate, startOK = d, true
	}
	if d, ok := validator.IsValidDate(r.EndDate); !ok {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	} else {
		r.ParsedEndDate, endOK = d, true
	}
	if startOK && endOK && r.ParsedStartDate.After(r.ParsedEndDate) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if validator.ExceedsLength(r.Reason, MaxReasonLength) {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

// DecisionRequest approves or rejects a pending request.
type DecisionRequest struct {
	ID         string  `json:"-"`
	ApproverID string  `json:"approver_id"`
	Comment    *string `json:"comment,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.ApproverID) {
		errs.Add("approver_id", "approver_id is required")
	}
	if r.Comment != nil && validator.ExceedsLength(*r.Comment, MaxCommentLength) {
		errs.Add("comment", "comment must not exceed 1000 characters")
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Type            string  `json:"type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Days            int     `json:"days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApproverID      *string `json:"approver_id"`
	DecidedAt       *string `json:"decided_at"`
	ApproverComment *string `json:"approver_comment"`
	CancelledAt     *string `json:"cancelled_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            string(r.Type),
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		Days:            r.Days(),
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApproverID:      r.ApproverID,
		DecidedAt:       timePtrToString(r.DecidedAt),
		ApproverComment: r.ApproverComment,
		CancelledAt:     timePtrToString(r.CancelledAt),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}

type ListLeaveRequestResponse struct {
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

func NewListLeaveRequestResponse(requests []LeaveRequest) ListLeaveRequestResponse {
	resp := ListLeaveRequestResponse{LeaveRequests: make([]LeaveRequestResponse, 0, len(requests))}
	for _, r := range requests {
		resp.LeaveRequests = append(resp.LeaveRequests, NewLeaveRequestResponse(r))
	}
	return resp
}
