package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

// Expected table:
//
//	CREATE TABLE attendances (
//	    id          UUID PRIMARY KEY,
//	    employee_id TEXT NOT NULL,
//	    work_date   DATE NOT NULL,
//	    check_in    TIMESTAMPTZ,
//	    check_out   TIMESTAMPTZ,
//	    type        TEXT NOT NULL,
//	    notes       TEXT,
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL,
//	    UNIQUE (employee_id, work_date)
//	);
const attendanceColumns = `id, employee_id, work_date, check_in, check_out, type, notes, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a       attendance.Attendance
		attType string
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.WorkDate, &a.CheckIn, &a.CheckOut,
		&attType, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a.Type = attendance.AttendanceType(attType)
	a.WorkDate = attendance.DateOf(a.WorkDate)
	a.CheckIn = utcPtr(a.CheckIn)
	a.CheckOut = utcPtr(a.CheckOut)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.WorkDate, a.CheckIn, a.CheckOut,
		string(a.Type), a.Notes, a.CreatedAt, a.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	if !validator.IsValidUUID(id) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND work_date = $2
		LIMIT 1
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, attendance.DateOf(workDate)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &a, nil
}

// Update implements attendance.AttendanceRepository. A stored check-in or
// check-out only matches itself, so a racing writer updates zero rows.
func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	if !validator.IsValidUUID(a.ID) {
		return attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in = $2,
		    check_out = $3,
		    type = $4,
		    notes = $5,
		    updated_at = $6
		WHERE id = $1
		  AND (check_in IS NULL OR check_in = $2)
		  AND (check_out IS NULL OR check_out = $3)
	`

	tag, err := q.Exec(ctx, query, a.ID, a.CheckIn, a.CheckOut, string(a.Type), a.Notes, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendances WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check attendance: %w", err)
	}
	if !exists {
		return attendance.ErrAttendanceNotFound
	}
	return attendance.ErrAttendanceModified
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1`
	args := []interface{}{filter.EmployeeID}
	if filter.From != nil {
		args = append(args, attendance.DateOf(*filter.From))
		query += fmt.Sprintf(" AND work_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, attendance.DateOf(*filter.To))
		query += fmt.Sprintf(" AND work_date <= $%d", len(args))
	}
	query += " ORDER BY work_date ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return result, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
