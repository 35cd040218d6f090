package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
)

func newLeave(t *testing.T, employeeID string, start, end int) leave.LeaveRequest {
	t.Helper()
	lr, err := leave.NewLeaveRequest(employeeID, leave.TypePaidLeave, workDay(start), workDay(end), "holiday", now)
	require.NoError(t, err)
	return lr
}

func TestLeaveRequestRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository()
	lr := newLeave(t, "emp-1", 22, 24)

	_, err := repo.Create(ctx, lr)
	require.NoError(t, err)

	require.NoError(t, lr.Approve("mgr-1", nil, now))
	require.NoError(t, repo.Update(ctx, lr))

	stored, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	assert.Equal(t, "mgr-1", *stored.ApproverID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
	assert.ErrorIs(t, repo.Update(ctx, newLeave(t, "emp-1", 25, 25)), leave.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_GetOverlapping(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository()

	pending := newLeave(t, "emp-1", 22, 24)
	approved := newLeave(t, "emp-1", 26, 27)
	require.NoError(t, approved.Approve("mgr-1", nil, now))
	rejected := newLeave(t, "emp-1", 23, 23)
	require.NoError(t, rejected.Reject("mgr-1", nil, now))
	cancelled := newLeave(t, "emp-1", 24, 26)
	require.NoError(t, cancelled.Cancel(now))
	otherEmployee := newLeave(t, "emp-2", 22, 30)

	for _, lr := range []leave.LeaveRequest{pending, approved, rejected, cancelled, otherEmployee} {
		_, err := repo.Create(ctx, lr)
		require.NoError(t, err)
	}

	got, err := repo.GetOverlapping(ctx, "emp-1", workDay(24), workDay(26))
	require.NoError(t, err)
	ids := []string{}
	for _, lr := range got {
		ids = append(ids, lr.ID)
	}
	assert.ElementsMatch(t, []string{pending.ID, approved.ID}, ids)

	none, err := repo.GetOverlapping(ctx, "emp-1", workDay(28), workDay(29))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLeaveRequestRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository()

	early := newLeave(t, "emp-1", 21, 21)
	late := newLeave(t, "emp-1", 28, 29)
	other := newLeave(t, "emp-2", 22, 22)
	require.NoError(t, other.Reject("mgr-1", nil, now))
	for _, lr := range []leave.LeaveRequest{early, late, other} {
		_, err := repo.Create(ctx, lr)
		require.NoError(t, err)
	}

	mine, err := repo.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, late.ID, mine[0].ID, "newest start date first")

	pending, err := repo.ListByStatus(ctx, leave.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	rejected, err := repo.ListByStatus(ctx, leave.StatusRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, other.ID, rejected[0].ID)
}

func TestLeaveRequestRepository_UpdateRefusesLostRace(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository()
	lr := newLeave(t, "emp-1", 22, 24)
	_, err := repo.Create(ctx, lr)
	require.NoError(t, err)

	approved, rejected := lr, lr
	require.NoError(t, approved.Approve("mgr-1", nil, now))
	require.NoError(t, rejected.Reject("mgr-2", nil, now))

	require.NoError(t, repo.Update(ctx, approved))
	assert.ErrorIs(t, repo.Update(ctx, rejected), leave.ErrLeaveRequestModified)
	assert.ErrorIs(t, repo.Update(ctx, approved), leave.ErrLeaveRequestModified, "approving twice")

	stored, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)

	cancelled := stored
	require.NoError(t, cancelled.Cancel(now))
	assert.NoError(t, repo.Update(ctx, cancelled), "approved requests can be cancelled")
}
