package models

import "time"

// DateLayout is the fixed-width ISO calendar date used for expenses and budgets.
// Dates in this format compare correctly as strings.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current date as YYYY-MM-DD.
func Today() string {
	return FormatDate(time.Now())
}

// MonthRange returns the first and last day of t's month.
func MonthRange(t time.Time) (string, string) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, -1)
	return FormatDate(start), FormatDate(end)
}

// PreviousMonthRange returns the first and last day of the month before t's.
func PreviousMonthRange(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthRange(first.AddDate(0, -1, 0))
}

// WeekRange returns Monday through Sunday of t's week.
func WeekRange(t time.Time) (string, string) {
	offset := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
	return FormatDate(start), FormatDate(start.AddDate(0, 0, 6))
}

// YearRange returns January 1 and December 31 of t's year.
func YearRange(t time.Time) (string, string) {
	return FormatDate(time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())),
		FormatDate(time.Date(t.Year(), 12, 31, 0, 0, 0, 0, t.Location()))
}

// PeriodRange returns the calendar window of the given budget period containing t.
func PeriodRange(period BudgetPeriod, t time.Time) (string, string) {
	switch period {
	case BudgetPeriodWeekly:
		return WeekRange(t)
	case BudgetPeriodYearly:
		return YearRange(t)
	default:
		return MonthRange(t)
	}
}
