package attendance

import (
	"errors"
	"math"
	"time"
)

// Policy holds the thresholds used to flag attendance anomalies.
type Policy struct {
	// StandardStart is the offset from midnight after which a check-in is late.
	StandardStart time.Duration
	// FullDayHours is the minimum worked duration that is not an early leave.
	FullDayHours float64
	// StandardWorkHours is the baseline overtime hours are measured from.
	StandardWorkHours float64
	// OvertimeThresholdHours is the worked duration at which overtime is flagged.
	OvertimeThresholdHours float64
	// Location is the timezone work dates and times of day are evaluated in.
	Location *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		StandardStart:          9 * time.Hour,
		FullDayHours:           8,
		StandardWorkHours:      8,
		OvertimeThresholdHours: 10,
		Location:               time.UTC,
	}
}

// Validate checks the thresholds. FullDayHours may not exceed
// OvertimeThresholdHours, which keeps early leaving and overtime disjoint.
func (p Policy) Validate() error {
	if p.StandardStart < 0 || p.StandardStart >= 24*time.Hour {
		return errors.New("standard start must be within the day")
	}
	if p.FullDayHours <= 0 {
		return errors.New("full day hours must be positive")
	}
	if p.StandardWorkHours <= 0 {
		return errors.New("standard work hours must be positive")
	}
	if p.OvertimeThresholdHours < p.StandardWorkHours {
		return errors.New("overtime threshold must not be below standard work hours")
	}
	if p.FullDayHours > p.OvertimeThresholdHours {
		return errors.New("full day hours must not exceed the overtime threshold")
	}
	if p.Location == nil {
		return errors.New("location is required")
	}
	return nil
}

// AnomalyDetector flags late arrivals, early leaving and overtime. It is pure:
// no I/O and no clock reads.
type AnomalyDetector interface {
	IsLateArrival(checkIn time.Time) bool
	// CalculateLateMinutes returns 0 when the check-in is not late.
	CalculateLateMinutes(checkIn time.Time) int
	IsEarlyLeaving(checkIn, checkOut time.Time) bool
	IsOvertime(workHours float64) bool
	// CalculateOvertimeHours returns 0 when workHours is not overtime.
	CalculateOvertimeHours(workHours float64) float64
}

type thresholdDetector struct {
	policy Policy
}

func NewAnomalyDetector(policy Policy) AnomalyDetector {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &thresholdDetector{policy: policy}
}

func (d *thresholdDetector) timeOfDay(t time.Time) time.Duration {
	local := t.In(d.policy.Location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, d.policy.Location)
	return local.Sub(midnight)
}

// IsLateArrival implements AnomalyDetector.
func (d *thresholdDetector) IsLateArrival(checkIn time.Time) bool {
	return d.timeOfDay(checkIn) > d.policy.StandardStart
}

// CalculateLateMinutes implements AnomalyDetector.
func (d *thresholdDetector) CalculateLateMinutes(checkIn time.Time) int {
	if !d.IsLateArrival(checkIn) {
		return 0
	}
	return int((d.timeOfDay(checkIn) - d.policy.StandardStart).Minutes())
}

// IsEarlyLeaving implements AnomalyDetector.
func (d *thresholdDetector) IsEarlyLeaving(checkIn, checkOut time.Time) bool {
	return checkOut.Sub(checkIn).Hours() < d.policy.FullDayHours
}

// IsOvertime implements AnomalyDetector.
func (d *thresholdDetector) IsOvertime(workHours float64) bool {
	return workHours >= d.policy.OvertimeThresholdHours
}

// CalculateOvertimeHours implements AnomalyDetector.
func (d *thresholdDetector) CalculateOvertimeHours(workHours float64) float64 {
	if !d.IsOvertime(workHours) {
		return 0
	}
	return math.Round((workHours-d.policy.StandardWorkHours)*100) / 100
}
