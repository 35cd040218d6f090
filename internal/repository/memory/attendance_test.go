package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

var now = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func workDay(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func newRecord(t *testing.T, employeeID string, d int) attendance.Attendance {
	t.Helper()
	a, err := attendance.New(employeeID, workDay(d), attendance.TypeNormal, nil, now)
	require.NoError(t, err)
	return a
}

func TestAttendanceRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()
	a := newRecord(t, "emp-1", 15)

	created, err := repo.Create(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a.ID, created.ID)

	byID, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.EmployeeID, byID.EmployeeID)

	byDay, err := repo.GetByEmployeeAndDate(ctx, "emp-1", workDay(15).Add(10*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, byDay)
	assert.Equal(t, a.ID, byDay.ID)

	missing, err := repo.GetByEmployeeAndDate(ctx, "emp-1", workDay(16))
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_UniquePerEmployeeAndDay(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()

	_, err := repo.Create(ctx, newRecord(t, "emp-1", 15))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newRecord(t, "emp-1", 15))
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	_, err = repo.Create(ctx, newRecord(t, "emp-2", 15))
	assert.NoError(t, err, "other employees are unaffected")
}

func TestAttendanceRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := attendance.New("emp-1", workDay(15), attendance.TypeNormal, nil, now)
			if err != nil {
				return
			}
			if _, err := repo.Create(ctx, a); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
}

func TestAttendanceRepository_UpdateNeverReplacesTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()
	a := newRecord(t, "emp-1", 15)
	_, err := repo.Create(ctx, a)
	require.NoError(t, err)

	first := a
	require.NoError(t, first.RecordCheckIn(workDay(15).Add(9*time.Hour), now))
	require.NoError(t, repo.Update(ctx, first))

	second := a
	require.NoError(t, second.RecordCheckIn(workDay(15).Add(10*time.Hour), now))
	assert.ErrorIs(t, repo.Update(ctx, second), attendance.ErrAttendanceModified)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, workDay(15).Add(9*time.Hour), *stored.CheckIn)

	notes := "updated"
	require.NoError(t, stored.Update(attendance.TypeRemote, &notes, now))
	assert.NoError(t, repo.Update(ctx, stored), "type and notes remain editable")
}

func TestAttendanceRepository_UpdateUnknown(t *testing.T) {
	repo := NewAttendanceRepository()
	err := repo.Update(context.Background(), newRecord(t, "emp-1", 15))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ListByEmployee(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()
	for _, d := range []int{17, 15, 16, 18} {
		_, err := repo.Create(ctx, newRecord(t, "emp-1", d))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newRecord(t, "emp-2", 16))
	require.NoError(t, err)

	all, err := repo.ListByEmployee(ctx, attendance.ListFilter{EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, workDay(15), all[0].WorkDate)
	assert.Equal(t, workDay(18), all[3].WorkDate)

	from, to := workDay(16), workDay(17)
	ranged, err := repo.ListByEmployee(ctx, attendance.ListFilter{EmployeeID: "emp-1", From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, workDay(16), ranged[0].WorkDate)
}

func TestAttendanceRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()
	a := newRecord(t, "emp-1", 15)
	_, err := repo.Create(ctx, a)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), attendance.ErrAttendanceNotFound)

	_, err = repo.Create(ctx, newRecord(t, "emp-1", 15))
	assert.NoError(t, err, "the day is free again")
}

func TestAttendanceRepository_CancelledContext(t *testing.T) {
	repo := NewAttendanceRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, newRecord(t, "emp-1", 15))
	assert.ErrorIs(t, err, context.Canceled)

	found, err := repo.GetByEmployeeAndDate(context.Background(), "emp-1", workDay(15))
	require.NoError(t, err)
	assert.Nil(t, found)
}
