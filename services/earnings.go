package services

import (
	"github.com/shopspring/decimal"

	"github.com/gigbridge/gigwork-app/models"
)

// Earnings math is kept pure and decimal-based so that hours and pay derived
// from the same shift are reproducible to the cent, independent of platform
// float behavior.

var minutesPerHour = decimal.NewFromInt(60)

// WorkedHours returns the billable hours of a closed shift, rounded to two
// decimals: clocked time minus break, floored at zero. An open shift has no
// billable time yet and yields zero; callers must not bill open shifts.
func WorkedHours(shift *models.Shift) float64 {
	if shift.ClockOutAt == nil {
		return 0
	}

	worked := shift.ClockOutAt.Sub(shift.ClockInAt).Minutes()
	minutes := decimal.NewFromFloat(worked).
		Sub(decimal.NewFromInt(int64(shift.BreakMinutes)))
	if minutes.IsNegative() {
		return 0
	}

	hours, _ := minutes.Div(minutesPerHour).Round(2).Float64()
	return hours
}

// Earnings returns round(workedHours × rate, 2) for the shift.
func Earnings(shift *models.Shift, hourlyRate float64) float64 {
	return Pay(WorkedHours(shift), hourlyRate)
}

// Pay returns round(hours × rate, 2).
func Pay(hours, hourlyRate float64) float64 {
	total, _ := decimal.NewFromFloat(hours).
		Mul(decimal.NewFromFloat(hourlyRate)).
		Round(2).
		Float64()
	return total
}
