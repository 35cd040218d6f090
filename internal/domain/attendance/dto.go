package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// ClockRequest is the body of check-in and check-out calls. Time defaults to
// the server clock when omitted.
type ClockRequest struct {
	EmployeeID string  `json:"employee_id"`
	Time       *string `json:"time,omitempty"`

	ParsedTime *time.Time `json:"-"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if r.Time != nil {
		t, ok := validator.IsValidDateTime(*r.Time)
		if !ok {
			errs.Add("time", "time must be an ISO8601 timestamp")
		} else {
			r.ParsedTime = &t
		}
	}

	return errs.Err()
}

type CreateAttendanceRequest struct {
	EmployeeID   string  `json:"employee_id"`
	WorkDate     string  `json:"work_date"`
	Type         string  `json:"type"`
	Notes        *string `json:"notes,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`

	ParsedWorkDate time.Time      `json:"-"`
	ParsedType     AttendanceType `json:"-"`
	ParsedCheckIn  *time.Time     `json:"-"`
	ParsedCheckOut *time.Time     `json:"-"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if date, ok := validator.IsValidDate(r.WorkDate); !ok {
		errs.Add("work_date", "work_date must be in YYYY-MM-DD format")
	} else {
		r.ParsedWorkDate = date
	}

	if r.Type == "" {
		r.ParsedType = TypeNormal
	} else if t, err := ParseAttendanceType(r.Type); err != nil {
		errs.Add("type", "type must be one of normal, remote, business_trip, half_day")
	} else {
		r.ParsedType = t
	}

	if r.Notes != nil && validator.ExceedsLength(*r.Notes, MaxNotesLength) {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	if r.CheckInTime != nil {
		if t, ok := validator.IsValidDateTime(*r.CheckInTime); !ok {
			errs.Add("check_in_time", "check_in_time must be an ISO8601 timestamp")
		} else {
			r.ParsedCheckIn = &t
		}
	}

	if r.CheckOutTime != nil {
		if r.CheckInTime == nil {
			errs.Add("check_out_time", "check_out_time requires check_in_time")
		} else if t, ok := validator.IsValidDateTime(*r.CheckOutTime); !ok {
			errs.Add("check_out_time", "check_out_time must be an ISO8601 timestamp")
		} else {
			r.ParsedCheckOut = &t
		}
	}

	return errs.Err()
}

type UpdateAttendanceRequest struct {
	ID    string  `json:"-"`
	Type  string  `json:"type"`
	Notes *string `json:"notes,omitempty"`

	ParsedType AttendanceType `json:"-"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}

	if t, err := ParseAttendanceType(r.Type); err != nil {
		errs.Add("type", "type must be one of normal, remote, business_trip, half_day")
	} else {
		r.ParsedType = t
	}

	if r.Notes != nil && validator.ExceedsLength(*r.Notes, MaxNotesLength) {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	WorkDate     string   `json:"work_date"`
	CheckInTime  *string  `json:"check_in_time"`
	CheckOutTime *string  `json:"check_out_time"`
	Type         string   `json:"type"`
	Notes        *string  `json:"notes"`
	State        string   `json:"state"`
	WorkHours    *float64 `json:"work_hours"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		WorkDate:     a.WorkDate.Format("2006-01-02"),
		CheckInTime:  timePtrToString(a.CheckIn),
		CheckOutTime: timePtrToString(a.CheckOut),
		Type:         string(a.Type),
		Notes:        a.Notes,
		State:        string(a.State()),
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if hours, ok := a.WorkHours(); ok {
		resp.WorkHours = &hours
	}
	return resp
}

type ListAttendanceResponse struct {
	Attendances []AttendanceResponse `json:"attendances"`
}

func NewListAttendanceResponse(records []Attendance) ListAttendanceResponse {
	resp := ListAttendanceResponse{Attendances: make([]AttendanceResponse, 0, len(records))}
	for _, a := range records {
		resp.Attendances = append(resp.Attendances, NewAttendanceResponse(a))
	}
	return resp
}

// ListAttendanceRequest is built from query parameters.
type ListAttendanceRequest struct {
	EmployeeID string
	From       string
	To         string
}

func (r ListAttendanceRequest) Filter() (ListFilter, error) {
	var errs validator.ValidationErrors
	filter := ListFilter{EmployeeID: r.EmployeeID}

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.From != "" {
		if d, ok := validator.IsValidDate(r.From); !ok {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		} else {
			filter.From = &d
		}
	}
	if r.To != "" {
		if d, ok := validator.IsValidDate(r.To); !ok {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		} else {
			filter.To = &d
		}
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		errs.Add("to", "to must not be before from")
	}

	if err := errs.Err(); err != nil {
		return ListFilter{}, err
	}
	return filter, nil
}
