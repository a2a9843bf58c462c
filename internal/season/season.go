// Package season slices a timeline into consecutive calendar-month windows.
package season

import (
	"strings"
	"time"
)

// DateLayout is the canonical calendar-day layout used in labels and documents.
const DateLayout = "2006-01-02"

// missionLayouts are the accepted mission date formats, tried in order. Month
// and day may have one or two digits.
var missionLayouts = []string{"2006-1-2", "2.1.2006"}

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports Start <= t < End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Label renders the window as "YYYY-MM-DD_YYYY-MM-DD".
func (w Window) Label() string {
	return w.Start.Format(DateLayout) + "_" + w.End.Format(DateLayout)
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the number of days in month m of year.
func DaysIn(m time.Month, year int) int {
	if m == time.February && IsLeapYear(year) {
		return 29
	}
	return monthDays[m-1]
}

// AddMonths moves t by n calendar months, clamping the day to the target
// month's last day. Time of day is dropped.
func AddMonths(t time.Time, n int) time.Time {
	idx := int(t.Month()) - 1 + n
	year := t.Year() + floorDiv(idx, 12)
	month := time.Month(idx-floorDiv(idx, 12)*12 + 1)
	day := t.Day()
	if last := DaysIn(month, year); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Windows returns consecutive windows of months calendar months covering
// [epoch, horizon). The final window is clamped to horizon and may be short.
// It returns nil when months <= 0 or epoch is not before horizon.
func Windows(epoch, horizon time.Time, months int) []Window {
	if months <= 0 {
		return nil
	}
	var out []Window
	start := epoch
	for start.Before(horizon) {
		end := AddMonths(start, months)
		if end.After(horizon) {
			end = horizon
		}
		out = append(out, Window{Start: start, End: end})
		start = end
	}
	return out
}

// Find returns the index of the window containing t.
func Find(windows []Window, t time.Time) (int, bool) {
	for i, w := range windows {
		if w.Contains(t) {
			return i, true
		}
	}
	return -1, false
}

// ParseDate parses a mission date in "YYYY-MM-DD" or "DD.MM.YYYY" form as a
// UTC calendar day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range missionLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
