package abacus

import (
	"fmt"
	"time"
)

// Excel stores dates and times as serial numbers: the integer part counts
// days from the 1900 epoch and the fraction is the portion of a 24 hour
// day. Serial 1 is 1900-01-01, and Excel inherits the Lotus 1-2-3 bug
// that treats 1900 as a leap year, so every date from 1900-03-01 onward
// is offset by one day to compensate for the phantom 1900-02-29.

// Default number formats applied when a datetime is written without an
// explicit format.
const (
	dateFormat     = `yyyy\-mm\-dd;@`
	timeFormat     = `hh:mm:ss;@`
	datetimeFormat = `yyyy\-mm\-dd\ hh:mm:ss`
)

// DatetimeToSerial converts a time.Time to an Excel serial number in the
// 1900 date system. The zero-value date (year 1) converts to a bare time
// of day fraction; any other date must fall in the years 1900 to 9999.
func DatetimeToSerial(t time.Time) (float64, error) {
	year, month, day := t.Date()
	fraction := clockFraction(t)

	if isZeroDate(t) {
		return fraction, nil
	}

	// Excel's epoch day itself, stored as serial 0.
	if year == 1899 && month == time.December && day == 31 {
		return fraction, nil
	}

	if year < 1900 || year > 9999 {
		return 0, fmt.Errorf("%w: year %d outside Excel range of 1900-9999",
			ErrDatetimeRange, year)
	}

	return float64(dateToDays(year, int(month), day)) + fraction, nil
}

// isZeroDate reports whether the date part of t is Go's zero date, which
// stands for a bare time of day.
func isZeroDate(t time.Time) bool {
	year, month, day := t.Date()
	return year == 1 && month == time.January && day == 1
}

// clockFraction converts the time of day to a fraction of 24 hours.
func clockFraction(t time.Time) float64 {
	hour, min, sec := t.Clock()
	seconds := float64(hour*3600+min*60+sec) + float64(t.Nanosecond())/1e9
	return seconds / (24.0 * 60.0 * 60.0)
}

// dateToDays counts the days from the 1900 epoch, including the phantom
// leap day adjustment. The leap day arithmetic normalizes the year
// relative to the epoch so the 4, 100, and 400 year rules reduce to
// integer division.
func dateToDays(year, month, day int) int {
	months := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

	span := year - 1900

	leapDay := 0
	if isLeapYear(year) {
		months[1] = 29
		leapDay = 1
	}

	days := day
	for i := 1; i < month; i++ {
		days += months[i-1]
	}

	days += span * 365
	days += span / 4
	days -= span / 100
	days += (span + 300) / 400
	days -= leapDay

	// The phantom 1900-02-29 shifts everything after 1900-02-28.
	if days > 59 {
		days++
	}

	return days
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// datetimeNumFormat picks the default number format for a datetime that
// was written without one, based on which parts of t are set.
func datetimeNumFormat(t time.Time) string {
	hour, min, sec := t.Clock()
	hasClock := hour != 0 || min != 0 || sec != 0 || t.Nanosecond() != 0

	switch {
	case isZeroDate(t):
		return timeFormat
	case hasClock:
		return datetimeFormat
	default:
		return dateFormat
	}
}
