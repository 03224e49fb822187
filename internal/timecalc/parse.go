package timecalc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned when a clock string is not a valid "HH:mm".
var ErrInvalidTimeFormat = errors.New("invalid time format")

// InvalidTimeFormatError carries the rejected input.
type InvalidTimeFormatError struct {
	Input  string
	Reason string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: %s (expected HH:mm)", e.Input, e.Reason)
}

func (e *InvalidTimeFormatError) Unwrap() error {
	return ErrInvalidTimeFormat
}

// ParseTimeString parses "HH:mm" (hours 0-23, minutes 0-59) onto base's
// calendar day in base's location, with seconds zeroed. A zero base means today.
func ParseTimeString(text string, base time.Time) (time.Time, error) {
	if base.IsZero() {
		base = time.Now()
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return time.Time{}, &InvalidTimeFormatError{Input: text, Reason: "missing or extra ':' separator"}
	}
	hour, err := parseClockField(parts[0])
	if err != nil {
		return time.Time{}, &InvalidTimeFormatError{Input: text, Reason: "hour is not a number"}
	}
	minute, err := parseClockField(parts[1])
	if err != nil {
		return time.Time{}, &InvalidTimeFormatError{Input: text, Reason: "minute is not a number"}
	}
	if hour > 23 {
		return time.Time{}, &InvalidTimeFormatError{Input: text, Reason: "hour out of range 0-23"}
	}
	if minute > 59 {
		return time.Time{}, &InvalidTimeFormatError{Input: text, Reason: "minute out of range 0-59"}
	}

	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location()), nil
}

// parseClockField accepts exactly two ASCII digits.
func parseClockField(s string) (int, error) {
	if len(s) != 2 {
		return 0, strconv.ErrSyntax
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// FormatClock formats t as "HH:mm".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
