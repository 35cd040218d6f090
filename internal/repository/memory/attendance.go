// Package memory holds in-memory repositories. They enforce the same
// constraints as the database-backed ones and are safe for concurrent use.
// Intended for unit testing and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

var _ attendance.AttendanceRepository = (*attendanceRepository)(nil)

type attendanceKey struct {
	employeeID string
	workDate   time.Time
}

type attendanceRepository struct {
	mu sync.RWMutex

	records map[string]attendance.Attendance
	byDay   map[attendanceKey]string
}

func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepository{
		records: make(map[string]attendance.Attendance),
		byDay:   make(map[attendanceKey]string),
	}
}

func keyOf(a attendance.Attendance) attendanceKey {
	return attendanceKey{employeeID: a.EmployeeID, workDate: attendance.DateOf(a.WorkDate)}
}

// cloneAttendance detaches pointer fields so stored records are never shared.
func cloneAttendance(a attendance.Attendance) attendance.Attendance {
	a.CheckIn = cloneTime(a.CheckIn)
	a.CheckOut = cloneTime(a.CheckOut)
	a.Notes = cloneString(a.Notes)
	return a
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(a)
	if _, exists := r.byDay[key]; exists {
		return attendance.Attendance{}, attendance.ErrAttendanceExists
	}
	if _, exists := r.records[a.ID]; exists {
		return attendance.Attendance{}, attendance.ErrAttendanceExists
	}

	r.records[a.ID] = cloneAttendance(a)
	r.byDay[key] = a.ID
	return cloneAttendance(a), nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return cloneAttendance(a), nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[attendanceKey{employeeID: employeeID, workDate: attendance.DateOf(workDate)}]
	if !ok {
		return nil, nil
	}
	a := cloneAttendance(r.records[id])
	return &a, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[a.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if !sameOnceSet(stored.CheckIn, a.CheckIn) || !sameOnceSet(stored.CheckOut, a.CheckOut) {
		return attendance.ErrAttendanceModified
	}

	// Owner and work date are fixed at creation.
	a.EmployeeID = stored.EmployeeID
	a.WorkDate = stored.WorkDate
	a.CreatedAt = stored.CreatedAt
	r.records[a.ID] = cloneAttendance(a)
	return nil
}

// sameOnceSet reports whether next may replace stored: an unset timestamp can
// take any value, a set one only itself.
func sameOnceSet(stored, next *time.Time) bool {
	if stored == nil {
		return true
	}
	return next != nil && stored.Equal(*next)
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]attendance.Attendance, 0)
	for _, a := range r.records {
		if a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.From != nil && a.WorkDate.Before(attendance.DateOf(*filter.From)) {
			continue
		}
		if filter.To != nil && a.WorkDate.After(attendance.DateOf(*filter.To)) {
			continue
		}
		result = append(result, cloneAttendance(a))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].WorkDate.Before(result[j].WorkDate)
	})
	return result, nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.records, id)
	delete(r.byDay, keyOf(a))
	return nil
}
