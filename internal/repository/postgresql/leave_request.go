package postgresql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

// Expected table:
//
//	CREATE TABLE leave_requests (
//	    id               UUID PRIMARY KEY,
//	    employee_id      TEXT NOT NULL,
//	    type             TEXT NOT NULL,
//	    start_date       DATE NOT NULL,
//	    end_date         DATE NOT NULL,
//	    reason           TEXT NOT NULL,
//	    status           TEXT NOT NULL,
//	    approver_id      TEXT,
//	    decided_at       TIMESTAMPTZ,
//	    approver_comment TEXT,
//	    cancelled_at     TIMESTAMPTZ,
//	    created_at       TIMESTAMPTZ NOT NULL,
//	    updated_at       TIMESTAMPTZ NOT NULL
//	);
const leaveRequestColumns = `id, employee_id, type, start_date, end_date, reason, status,
	approver_id, decided_at, approver_comment, cancelled_at, created_at, updated_at`

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var (
		lr        leave.LeaveRequest
		leaveType string
		status    string
	)
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &leaveType, &lr.StartDate, &lr.EndDate, &lr.Reason, &status,
		&lr.ApproverID, &lr.DecidedAt, &lr.ApproverComment, &lr.CancelledAt, &lr.CreatedAt, &lr.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.Type = leave.LeaveType(leaveType)
	lr.Status = leave.LeaveRequestStatus(status)
	lr.DecidedAt = utcPtr(lr.DecidedAt)
	lr.CancelledAt = utcPtr(lr.CancelledAt)
	lr.CreatedAt = lr.CreatedAt.UTC()
	lr.UpdatedAt = lr.UpdatedAt.UTC()
	return lr, nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	result := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		result = append(result, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return result, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (` + leaveRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		lr.ID, lr.EmployeeID, string(lr.Type), lr.StartDate, lr.EndDate, lr.Reason, string(lr.Status),
		lr.ApproverID, lr.DecidedAt, lr.ApproverComment, lr.CancelledAt, lr.CreatedAt, lr.UpdatedAt,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}
	return lr, nil
}

// GetOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status IN ('pending', 'approved')
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get overlapping leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// Update implements leave.LeaveRequestRepository. The stored status is locked
// and checked against the allowed predecessors before writing.
func (r *leaveRequestRepository) Update(ctx context.Context, lr leave.LeaveRequest) error {
	if !validator.IsValidUUID(lr.ID) {
		return leave.ErrLeaveRequestNotFound
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := WithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		var current string
		err := q.QueryRow(txCtx, `SELECT status FROM leave_requests WHERE id = $1 FOR UPDATE`, lr.ID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return leave.ErrLeaveRequestNotFound
			}
			return fmt.Errorf("failed to lock leave request: %w", err)
		}
		if !slices.Contains(lr.Status.Predecessors(), leave.LeaveRequestStatus(current)) {
			return leave.ErrLeaveRequestModified
		}

		query := `
			UPDATE leave_requests
			SET status = $2,
			    approver_id = $3,
			    decided_at = $4,
			    approver_comment = $5,
			    cancelled_at = $6,
			    updated_at = $7
			WHERE id = $1
		`
		if _, err := q.Exec(txCtx, query,
			lr.ID, string(lr.Status), lr.ApproverID, lr.DecidedAt, lr.ApproverComment, lr.CancelledAt, lr.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveRequestColumns+`
		FROM leave_requests
		WHERE employee_id = $1
		ORDER BY start_date DESC, created_at DESC
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests by employee: %w", err)
	}
	return collectLeaveRequests(rows)
}

// ListByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByStatus(ctx context.Context, status leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveRequestColumns+`
		FROM leave_requests
		WHERE status = $1
		ORDER BY start_date DESC, created_at DESC
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests by status: %w", err)
	}
	return collectLeaveRequests(rows)
}
