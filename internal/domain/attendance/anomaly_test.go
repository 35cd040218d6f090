package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLateArrival(t *testing.T) {
	d := NewAnomalyDetector(DefaultPolicy())

	assert.False(t, d.IsLateArrival(at(8, 59)))
	assert.False(t, d.IsLateArrival(at(9, 0)))
	assert.True(t, d.IsLateArrival(at(9, 0).Add(time.Second)))
	assert.True(t, d.IsLateArrival(at(9, 30)))
}

func TestCalculateLateMinutes(t *testing.T) {
	d := NewAnomalyDetector(DefaultPolicy())

	assert.Equal(t, 30, d.CalculateLateMinutes(at(9, 30)))
	assert.Equal(t, 0, d.CalculateLateMinutes(at(9, 0).Add(59*time.Second)), "partial minutes are truncated")
	assert.Equal(t, 125, d.CalculateLateMinutes(at(11, 5)))
	assert.Equal(t, 0, d.CalculateLateMinutes(at(8, 0)), "not late returns zero")
}

func TestLateArrival_RespectsLocation(t *testing.T) {
	policy := DefaultPolicy()
	policy.Location = time.FixedZone("WIB", 7*60*60)
	d := NewAnomalyDetector(policy)

	// 02:30Z is 09:30 in WIB.
	checkIn := time.Date(2024, 1, 15, 2, 30, 0, 0, time.UTC)
	assert.True(t, d.IsLateArrival(checkIn))
	assert.Equal(t, 30, d.CalculateLateMinutes(checkIn))
}

func TestIsEarlyLeaving(t *testing.T) {
	d := NewAnomalyDetector(DefaultPolicy())

	assert.True(t, d.IsEarlyLeaving(at(9, 0), at(12, 0)))
	assert.True(t, d.IsEarlyLeaving(at(9, 0), at(16, 59)))
	assert.False(t, d.IsEarlyLeaving(at(9, 0), at(17, 0)))
	assert.False(t, d.IsEarlyLeaving(at(9, 0), at(21, 0)))
}

func TestOvertime(t *testing.T) {
	d := NewAnomalyDetector(DefaultPolicy())

	assert.False(t, d.IsOvertime(8))
	assert.False(t, d.IsOvertime(9.99))
	assert.True(t, d.IsOvertime(10))
	assert.True(t, d.IsOvertime(12))

	assert.Equal(t, 4.0, d.CalculateOvertimeHours(12))
	assert.Equal(t, 2.33, d.CalculateOvertimeHours(10.3333))
	assert.Equal(t, 0.0, d.CalculateOvertimeHours(9), "not overtime returns zero")
}

func TestEarlyLeavingAndOvertime_NeverBothWithDefaultPolicy(t *testing.T) {
	d := NewAnomalyDetector(DefaultPolicy())
	checkIn := at(0, 0)

	for minutes := 1; minutes < 24*60; minutes++ {
		checkOut := checkIn.Add(time.Duration(minutes) * time.Minute)
		hours := checkOut.Sub(checkIn).Hours()
		early := d.IsEarlyLeaving(checkIn, checkOut)
		overtime := d.IsOvertime(hours)
		if early && overtime {
			t.Fatalf("worked %.2fh flagged as both early leaving and overtime", hours)
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	overlapping := DefaultPolicy()
	overlapping.FullDayHours = 11
	assert.Error(t, overlapping.Validate())

	noLocation := DefaultPolicy()
	noLocation.Location = nil
	assert.Error(t, noLocation.Validate())

	badStart := DefaultPolicy()
	badStart.StandardStart = 25 * time.Hour
	assert.Error(t, badStart.Validate())

	lowThreshold := DefaultPolicy()
	lowThreshold.OvertimeThresholdHours = 7
	lowThreshold.FullDayHours = 6
	assert.Error(t, lowThreshold.Validate())
}
