package postgresql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
)

func newLeave(t *testing.T, employeeID string, start, end int) leave.LeaveRequest {
	t.Helper()
	lr, err := leave.NewLeaveRequest(employeeID, leave.TypeSickLeave, workDay(start), workDay(end), "flu", now)
	require.NoError(t, err)
	return lr
}

func TestLeaveRequestRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewLeaveRequestRepository(db)
	ctx := context.Background()

	lr := newLeave(t, "emp-1", 22, 24)
	created, err := repo.Create(ctx, lr)
	require.NoError(t, err)
	assert.Equal(t, workDay(22), created.StartDate)
	assert.Equal(t, leave.StatusPending, created.Status)

	approved, rejected := created, created
	require.NoError(t, approved.Approve("mgr-1", nil, now))
	require.NoError(t, rejected.Reject("mgr-2", nil, now))

	require.NoError(t, repo.Update(ctx, approved))
	assert.ErrorIs(t, repo.Update(ctx, rejected), leave.ErrLeaveRequestModified)

	stored, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	assert.Equal(t, "mgr-1", *stored.ApproverID)

	require.NoError(t, stored.Cancel(now))
	require.NoError(t, repo.Update(ctx, stored))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_GetOverlapping(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewLeaveRequestRepository(db)
	ctx := context.Background()

	pending := newLeave(t, "emp-1", 22, 24)
	rejected := newLeave(t, "emp-1", 23, 25)
	require.NoError(t, rejected.Reject("mgr-1", nil, now))
	other := newLeave(t, "emp-2", 22, 24)
	for _, lr := range []leave.LeaveRequest{pending, rejected, other} {
		_, err := repo.Create(ctx, lr)
		require.NoError(t, err)
	}

	got, err := repo.GetOverlapping(ctx, "emp-1", workDay(24), workDay(30))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)

	none, err := repo.GetOverlapping(ctx, "emp-1", workDay(25), workDay(30))
	require.NoError(t, err)
	assert.Empty(t, none)

	byStatus, err := repo.ListByStatus(ctx, leave.StatusRejected)
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	mine, err := repo.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
