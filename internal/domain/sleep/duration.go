package sleep

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDurationFormat is returned for override expressions that match
// none of the supported forms.
var ErrInvalidDurationFormat = errors.New("invalid duration format")

var (
	minutesPattern = regexp.MustCompile(`^\d+m$`)
	hoursPattern   = regexp.MustCompile(`^\d+h$`)
	clockPattern   = regexp.MustCompile(`^(\d+):(\d+)$`)
)

// ParseOverride turns an override expression into an absolute expiry.
//
// Supported forms, checked in order:
//
//	"30m"  now + 30 minutes
//	"7h"   now + 7 hours
//	"9:00" today at 09:00 in now's location; tomorrow if that is before now
func ParseOverride(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)

	switch {
	case minutesPattern.MatchString(expr):
		return addUnits(expr, now, time.Minute)
	case hoursPattern.MatchString(expr):
		return addUnits(expr, now, time.Hour)
	case clockPattern.MatchString(expr):
		return nextClock(expr, now)
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDurationFormat, expr)
	}
}

// addUnits adds the leading count of unit to now. Counts that do not fit
// in a time.Duration are rejected.
func addUnits(expr string, now time.Time, unit time.Duration) (time.Time, error) {
	n, err := leadingNumber(expr)
	if err != nil {
		return time.Time{}, err
	}

	if int64(n) > math.MaxInt64/int64(unit) {
		return time.Time{}, fmt.Errorf("%w: %q: out of range", ErrInvalidDurationFormat, expr)
	}

	return now.Add(time.Duration(n) * unit), nil
}

// leadingNumber parses the digits before the unit suffix.
func leadingNumber(expr string) (int, error) {
	n, err := strconv.Atoi(expr[:len(expr)-1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidDurationFormat, expr, err)
	}

	return n, nil
}

// nextClock resolves "HH:MM" against now.
func nextClock(expr string, now time.Time) (time.Time, error) {
	parts := clockPattern.FindStringSubmatch(expr)

	hour, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidDurationFormat, expr, err)
	}

	minute, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidDurationFormat, expr, err)
	}

	year, month, day := now.Date()
	result := time.Date(year, month, day, hour, minute, 0, 0, now.Location())

	if result.Before(now) {
		result = result.AddDate(0, 0, 1)
	}

	return result, nil
}
