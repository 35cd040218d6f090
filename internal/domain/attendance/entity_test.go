package attendance

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 15, hour, minute, 0, 0, time.UTC)
}

func newTestAttendance(t *testing.T) Attendance {
	t.Helper()
	a, err := New("emp-1", at(0, 0), TypeNormal, nil, testNow)
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	a, err := New("emp-1", at(13, 45), TypeRemote, nil, testNow)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "emp-1", a.EmployeeID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), a.WorkDate, "time of day is discarded")
	assert.Equal(t, TypeRemote, a.Type)
	assert.Equal(t, StateNoCheckIn, a.State())
	_, ok := a.WorkHours()
	assert.False(t, ok)
}

func TestNew_Invalid(t *testing.T) {
	longNotes := strings.Repeat("a", MaxNotesLength+1)

	cases := []struct {
		name       string
		employeeID string
		workDate   time.Time
		typ        AttendanceType
		notes      *string
		want       error
	}{
		{"empty employee", "  ", at(0, 0), TypeNormal, nil, ErrEmployeeIDRequired},
		{"unknown type", "emp-1", at(0, 0), AttendanceType("holiday"), nil, ErrInvalidAttendanceType},
		{"future work date", "emp-1", at(0, 0).AddDate(0, 0, 1), TypeNormal, nil, ErrWorkDateInFuture},
		{"notes too long", "emp-1", at(0, 0), TypeNormal, &longNotes, ErrNotesTooLong},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.employeeID, c.workDate, c.typ, c.notes, testNow)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestRecordCheckIn(t *testing.T) {
	a := newTestAttendance(t)

	require.NoError(t, a.RecordCheckIn(at(9, 0), testNow))
	assert.Equal(t, StateCheckedIn, a.State())

	err := a.RecordCheckIn(at(9, 5), testNow)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Equal(t, at(9, 0), *a.CheckIn, "first check-in survives")
}

func TestRecordCheckIn_DifferentDate(t *testing.T) {
	a := newTestAttendance(t)

	err := a.RecordCheckIn(at(9, 0).AddDate(0, 0, -1), testNow)
	assert.ErrorIs(t, err, ErrCheckInDateMismatch)
	assert.Nil(t, a.CheckIn)
}

func TestRecordCheckOut(t *testing.T) {
	a := newTestAttendance(t)

	assert.ErrorIs(t, a.RecordCheckOut(at(17, 0), testNow), ErrNotCheckedIn)

	require.NoError(t, a.RecordCheckIn(at(9, 0), testNow))
	assert.ErrorIs(t, a.RecordCheckOut(at(9, 0), testNow), ErrCheckOutNotAfterCheckIn)
	assert.ErrorIs(t, a.RecordCheckOut(at(8, 0), testNow), ErrCheckOutNotAfterCheckIn)

	require.NoError(t, a.RecordCheckOut(at(17, 30), testNow))
	assert.Equal(t, StateComplete, a.State())

	assert.ErrorIs(t, a.RecordCheckOut(at(18, 0), testNow), ErrAlreadyCheckedOut)
	assert.Equal(t, at(17, 30), *a.CheckOut, "check-out is immutable")
}

func TestWorkHours(t *testing.T) {
	cases := []struct {
		in, out time.Time
		want    float64
	}{
		{at(9, 0), at(17, 0), 8},
		{at(9, 0), at(21, 0), 12},
		{at(9, 0), at(9, 30), 0.5},
		{at(8, 15), at(17, 0), 8.75},
	}
	for _, c := range cases {
		a := newTestAttendance(t)
		require.NoError(t, a.RecordCheckIn(c.in, testNow))
		require.NoError(t, a.RecordCheckOut(c.out, testNow))

		hours, ok := a.WorkHours()
		assert.True(t, ok)
		assert.Equal(t, c.want, hours)
	}
}

func TestUpdate(t *testing.T) {
	a := newTestAttendance(t)
	require.NoError(t, a.RecordCheckIn(at(9, 0), testNow))

	notes := "client visit"
	require.NoError(t, a.Update(TypeBusinessTrip, &notes, testNow))
	assert.Equal(t, TypeBusinessTrip, a.Type)
	assert.Equal(t, "client visit", *a.Notes)
	assert.Equal(t, StateCheckedIn, a.State(), "update leaves the state machine alone")

	long := strings.Repeat("x", MaxNotesLength+1)
	assert.ErrorIs(t, a.Update(TypeNormal, &long, testNow), ErrNotesTooLong)
	assert.ErrorIs(t, a.Update(AttendanceType("x"), nil, testNow), ErrInvalidAttendanceType)
	assert.Equal(t, TypeBusinessTrip, a.Type)
}

func TestParseAttendanceType(t *testing.T) {
	cases := map[string]AttendanceType{
		"normal":        TypeNormal,
		"Normal":        TypeNormal,
		"Remote":        TypeRemote,
		"BusinessTrip":  TypeBusinessTrip,
		"business_trip": TypeBusinessTrip,
		"HalfDay":       TypeHalfDay,
		" half_day ":    TypeHalfDay,
	}
	for in, want := range cases {
		got, err := ParseAttendanceType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseAttendanceType("sabbatical")
	assert.ErrorIs(t, err, ErrInvalidAttendanceType)
}

func TestDateOf_UsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 2024-01-15T20:00Z is already the 16th in Jakarta.
	ts := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateOf(ts))
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), DateOf(ts.In(jakarta)))
}
