package compensation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

const (
	// WorkingDaysPerYear is the annual working-day count behind derived monthly targets.
	WorkingDaysPerYear = 260
	monthsPerYear      = 12
)

// ExpectedMonthlyHours returns the explicit monthly target when configured,
// otherwise DefaultWorkHours*260/12 rounded to the nearest whole hour.
func ExpectedMonthlyHours(settings model.EffectiveSettings) float64 {
	if settings.ExpectedMonthlyHours != nil {
		return *settings.ExpectedMonthlyHours
	}
	return decimal.NewFromFloat(settings.DefaultWorkHours).
		Mul(decimal.NewFromInt(WorkingDaysPerYear)).
		Div(decimal.NewFromInt(monthsPerYear)).
		Round(0).
		InexactFloat64()
}

// ConvertedPassengerHours applies the passenger percentage to a raw monthly
// passenger-hour figure.
func ConvertedPassengerHours(rawPassengerHours float64, settings model.EffectiveSettings) float64 {
	return rawPassengerHours * settings.PassengerCompensationPercent / 100
}

// Overtime returns actual minus expected rounded to two decimals. Positive is
// ahead of target, negative is behind.
func Overtime(actualHours, expectedHours float64) float64 {
	return decimal.NewFromFloat(actualHours).
		Sub(decimal.NewFromFloat(expectedHours)).
		Round(2).
		InexactFloat64()
}

// RoundHours rounds an hour figure to two decimals.
func RoundHours(hours float64) decimal.Decimal {
	return decimal.NewFromFloat(hours).Round(2)
}

// FormatHours renders an hour figure with exactly two decimals, e.g. "173.00".
func FormatHours(hours float64) string {
	return RoundHours(hours).StringFixed(2)
}

// MonthlySummary holds the monthly figures shared by every consumer.
//
// TotalHours is the per-entry compensated total. ConvertedPassengerHours is
// computed once from the raw passenger figure and reported next to it;
// TotalAfterConversion is their sum and is what Overtime is measured on.
type MonthlySummary struct {
	Month                   timecalc.Month
	TotalHours              float64
	RawPassengerHours       float64
	ConvertedPassengerHours float64
	TotalAfterConversion    float64
	ExpectedHours           float64
	Overtime                float64
}

// SummarizeMonth computes the monthly summary for month in loc. Nil settings
// yield a zero summary.
func SummarizeMonth(month timecalc.Month, loc *time.Location, entriesForDay EntriesForDay, settings *model.EffectiveSettings) MonthlySummary {
	summary := MonthlySummary{Month: month}
	if settings == nil {
		return summary
	}

	weeks := timecalc.WeeksForMonth(month.First(loc))
	summary.TotalHours = MonthCompensatedHours(weeks, entriesForDay, settings, month)
	summary.RawPassengerHours = MonthPassengerHoursRaw(weeks, FilterMonth(entriesForDay, month))
	summary.ConvertedPassengerHours = ConvertedPassengerHours(summary.RawPassengerHours, *settings)
	summary.TotalAfterConversion = summary.TotalHours + summary.ConvertedPassengerHours
	summary.ExpectedHours = ExpectedMonthlyHours(*settings)
	summary.Overtime = Overtime(summary.TotalAfterConversion, summary.ExpectedHours)
	return summary
}
