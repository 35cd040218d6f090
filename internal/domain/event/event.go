// Package event defines the notifications emitted by the attendance and leave
// workflows: channel names, payload contracts and the Publisher port.
package event

import (
	"context"
	"time"
)

// Channel names consumed by downstream notification services.
const (
	ChannelCheckIn        = "attendance:checkin"
	ChannelCheckOut       = "attendance:checkout"
	ChannelLateArrival    = "attendance:late-arrival"
	ChannelEarlyLeaving   = "attendance:early-leaving"
	ChannelOvertime       = "attendance:overtime"
	ChannelLeaveCreated   = "leaverequest:created"
	ChannelLeaveApproved  = "leaverequest:approved"
	ChannelLeaveRejected  = "leaverequest:rejected"
	ChannelLeaveCancelled = "leaverequest:cancelled"
)

// Event is a descriptor of something that happened, ready to be published.
type Event struct {
	Channel string
	Payload any
}

// Publisher transmits a payload on a named channel. Implementations return once
// the broker has accepted the message; delivery is their concern.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// ========================================
// ATTENDANCE PAYLOADS
// ========================================

type CheckInRecorded struct {
	AttendanceID string    `json:"attendance_id"`
	EmployeeID   string    `json:"employee_id"`
	CheckInTime  time.Time `json:"check_in_time"`
	WorkDate     time.Time `json:"work_date"`
}

type LateArrivalDetected struct {
	AttendanceID string    `json:"attendance_id"`
	EmployeeID   string    `json:"employee_id"`
	CheckInTime  time.Time `json:"check_in_time"`
	WorkDate     time.Time `json:"work_date"`
	LateMinutes  int       `json:"late_minutes"`
}

type CheckOutRecorded struct {
	AttendanceID string    `json:"attendance_id"`
	EmployeeID   string    `json:"employee_id"`
	CheckOutTime time.Time `json:"check_out_time"`
	WorkDate     time.Time `json:"work_date"`
	WorkHours    float64   `json:"work_hours"`
}

type EarlyLeavingDetected struct {
	AttendanceID string    `json:"attendance_id"`
	EmployeeID   string    `json:"employee_id"`
	CheckInTime  time.Time `json:"check_in_time"`
	CheckOutTime time.Time `json:"check_out_time"`
	WorkDate     time.Time `json:"work_date"`
	WorkHours    float64   `json:"work_hours"`
}

type OvertimeDetected struct {
	AttendanceID  string    `json:"attendance_id"`
	EmployeeID    string    `json:"employee_id"`
	CheckInTime   time.Time `json:"check_in_time"`
	CheckOutTime  time.Time `json:"check_out_time"`
	WorkDate      time.Time `json:"work_date"`
	WorkHours     float64   `json:"work_hours"`
	OvertimeHours float64   `json:"overtime_hours"`
}

// ========================================
// LEAVE REQUEST PAYLOADS
// ========================================

type LeaveRequestCreated struct {
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	Type           string    `json:"type"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type LeaveRequestApproved struct {
	LeaveRequestID  string    `json:"leave_request_id"`
	EmployeeID      string    `json:"employee_id"`
	ApproverID      string    `json:"approver_id"`
	Type            string    `json:"type"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	ApproverComment *string   `json:"approver_comment,omitempty"`
	ApprovedAt      time.Time `json:"approved_at"`
}

type LeaveRequestRejected struct {
	LeaveRequestID  string    `json:"leave_request_id"`
	EmployeeID      string    `json:"employee_id"`
	ApproverID      string    `json:"approver_id"`
	Type            string    `json:"type"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	ApproverComment *string   `json:"approver_comment,omitempty"`
	RejectedAt      time.Time `json:"rejected_at"`
}

type LeaveRequestCancelled struct {
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	Type           string    `json:"type"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	CancelledAt    time.Time `json:"cancelled_at"`
}

// Scoped is implemented by payloads that concern a single employee.
type Scoped interface {
	Subject() string
}

func (p CheckInRecorded) Subject() string       { return p.EmployeeID }
func (p LateArrivalDetected) Subject() string   { return p.EmployeeID }
func (p CheckOutRecorded) Subject() string      { return p.EmployeeID }
func (p EarlyLeavingDetected) Subject() string  { return p.EmployeeID }
func (p OvertimeDetected) Subject() string      { return p.EmployeeID }
func (p LeaveRequestCreated) Subject() string   { return p.EmployeeID }
func (p LeaveRequestApproved) Subject() string  { return p.EmployeeID }
func (p LeaveRequestRejected) Subject() string  { return p.EmployeeID }
func (p LeaveRequestCancelled) Subject() string { return p.EmployeeID }
