package leave

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrEmployeeIDRequired = apperror.New(apperror.Validation, "employee id is required")
	ErrInvalidLeaveType   = apperror.New(apperror.Validation, "invalid leave type: valid values are paid_leave, sick_leave, special_leave, unpaid_leave")
	ErrInvalidStatus      = apperror.New(apperror.Validation, "invalid status: valid values are pending, approved, rejected, cancelled")
	ErrInvalidDateRange   = apperror.New(apperror.Validation, "start date must not be after end date")
	ErrEndDateInPast      = apperror.New(apperror.Validation, "end date must not be in the past")
	ErrReasonRequired     = apperror.New(apperror.Validation, "reason is required")
	ErrReasonTooLong      = apperror.New(apperror.Validation, "reason must not exceed 1000 characters")
	ErrApproverRequired   = apperror.New(apperror.Validation, "approver id is required")
	ErrCommentTooLong     = apperror.New(apperror.Validation, "comment must not exceed 1000 characters")

	ErrLeaveRequestNotFound = apperror.New(apperror.NotFound, "leave request not found")
	ErrOverlappingLeave     = apperror.New(apperror.Conflict, "overlapping leave request exists")
	ErrLeaveRequestModified = apperror.New(apperror.Conflict, "leave request was modified concurrently")

	ErrLeaveNotPending      = apperror.New(apperror.Precondition, "leave request is not pending")
	ErrAlreadyCancelled     = apperror.New(apperror.Precondition, "leave request is already cancelled")
	ErrCannotCancelRejected = apperror.New(apperror.Precondition, "rejected leave request cannot be cancelled")
)
