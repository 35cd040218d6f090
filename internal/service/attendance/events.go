package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
)

// checkInEvents returns the events for a freshly recorded check-in:
// CheckInRecorded, followed by LateArrivalDetected when late.
func checkInEvents(a attendance.Attendance, detector attendance.AnomalyDetector) []event.Event {
	checkIn := *a.CheckIn
	events := []event.Event{{
		Channel: event.ChannelCheckIn,
		Payload: event.CheckInRecorded{
			AttendanceID: a.ID,
			EmployeeID:   a.EmployeeID,
			CheckInTime:  checkIn,
			WorkDate:     a.WorkDate,
		},
	}}

	if detector.IsLateArrival(checkIn) {
		events = append(events, event.Event{
			Channel: event.ChannelLateArrival,
			Payload: event.LateArrivalDetected{
				AttendanceID: a.ID,
				EmployeeID:   a.EmployeeID,
				CheckInTime:  checkIn,
				WorkDate:     a.WorkDate,
				LateMinutes:  detector.CalculateLateMinutes(checkIn),
			},
		})
	}
	return events
}

// checkOutEvents evaluates early leaving and overtime independently; both may fire.
func checkOutEvents(a attendance.Attendance, detector attendance.AnomalyDetector) []event.Event {
	checkIn, checkOut := *a.CheckIn, *a.CheckOut
	hours, _ := a.WorkHours()

	events := []event.Event{{
		Channel: event.ChannelCheckOut,
		Payload: event.CheckOutRecorded{
			AttendanceID: a.ID,
			EmployeeID:   a.EmployeeID,
			CheckOutTime: checkOut,
			WorkDate:     a.WorkDate,
			WorkHours:    hours,
		},
	}}

	if detector.IsEarlyLeaving(checkIn, checkOut) {
		events = append(events, event.Event{
			Channel: event.ChannelEarlyLeaving,
			Payload: event.EarlyLeavingDetected{
				AttendanceID: a.ID,
				EmployeeID:   a.EmployeeID,
				CheckInTime:  checkIn,
				CheckOutTime: checkOut,
				WorkDate:     a.WorkDate,
				WorkHours:    hours,
			},
		})
	}

	if detector.IsOvertime(hours) {
		events = append(events, event.Event{
			Channel: event.ChannelOvertime,
			Payload: event.OvertimeDetected{
				AttendanceID:  a.ID,
				EmployeeID:    a.EmployeeID,
				CheckInTime:   checkIn,
				CheckOutTime:  checkOut,
				WorkDate:      a.WorkDate,
				WorkHours:     hours,
				OvertimeHours: detector.CalculateOvertimeHours(hours),
			},
		})
	}
	return events
}
