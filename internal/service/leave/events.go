package leave

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
)

func createdEvent(r leave.LeaveRequest) event.Event {
	return event.Event{
		Channel: event.ChannelLeaveCreated,
		Payload: event.LeaveRequestCreated{
			LeaveRequestID: r.ID,
			EmployeeID:     r.EmployeeID,
			Type:           string(r.Type),
			StartDate:      r.StartDate,
			EndDate:        r.EndDate,
			Reason:         r.Reason,
			Status:         string(r.Status),
			CreatedAt:      r.CreatedAt,
		},
	}
}

// decisionEvent describes an approved or rejected request.
func decisionEvent(r leave.LeaveRequest) event.Event {
	if r.Status == leave.StatusRejected {
		return event.Event{
			Channel: event.ChannelLeaveRejected,
			Payload: event.LeaveRequestRejected{
				LeaveRequestID:  r.ID,
				EmployeeID:      r.EmployeeID,
				ApproverID:      *r.ApproverID,
				Type:            string(r.Type),
				StartDate:       r.StartDate,
				EndDate:         r.EndDate,
				ApproverComment: r.ApproverComment,
				RejectedAt:      *r.DecidedAt,
			},
		}
	}
	return event.Event{
		Channel: event.ChannelLeaveApproved,
		Payload: event.LeaveRequestApproved{
			LeaveRequestID:  r.ID,
			EmployeeID:      r.EmployeeID,
			ApproverID:      *r.ApproverID,
			Type:            string(r.Type),
			StartDate:       r.StartDate,
			EndDate:         r.EndDate,
			ApproverComment: r.ApproverComment,
			ApprovedAt:      *r.DecidedAt,
		},
	}
}

func cancelledEvent(r leave.LeaveRequest) event.Event {
	return event.Event{
		Channel: event.ChannelLeaveCancelled,
		Payload: event.LeaveRequestCancelled{
			LeaveRequestID: r.ID,
			EmployeeID:     r.EmployeeID,
			Type:           string(r.Type),
			StartDate:      r.StartDate,
			EndDate:        r.EndDate,
			CancelledAt:    *r.CancelledAt,
		},
	}
}
