package sleep

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// InstantLayout is the canonical text form of a detection instant.
// It matches what the sensor API and the store use: UTC, millisecond precision.
const InstantLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidInstant is returned by ParseInstant for malformed input.
var ErrInvalidInstant = errors.New("invalid instant")

// DetectedSet is the insertion-ordered list of motion instants seen inside
// the trailing window. It never holds two equal normalized instants.
type DetectedSet []time.Time

// Normalize converts t to the representation used for equality checks.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FormatInstant renders t in InstantLayout.
func FormatInstant(t time.Time) string {
	return Normalize(t).Format(InstantLayout)
}

// ParseInstant parses an RFC 3339 instant and normalizes it.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidInstant, s, err)
	}

	return Normalize(t), nil
}

// Contains reports whether the normalized at is already present.
func (s DetectedSet) Contains(at time.Time) bool {
	at = Normalize(at)

	return slices.ContainsFunc(s, func(e time.Time) bool {
		return Normalize(e).Equal(at)
	})
}

// Strings renders the set in InstantLayout, preserving order.
func (s DetectedSet) Strings() []string {
	result := make([]string, 0, len(s))
	for _, e := range s {
		result = append(result, FormatInstant(e))
	}

	return result
}

// RecordIfNew appends at unless an equal instant is already recorded.
// The same sensor event is reported on every poll until a newer one arrives,
// so duplicates are expected and must not be counted twice.
func RecordIfNew(set DetectedSet, at time.Time) (DetectedSet, bool) {
	if set.Contains(at) {
		return set, false
	}

	result := make(DetectedSet, 0, len(set)+1)
	result = append(result, set...)
	result = append(result, Normalize(at))

	return result, true
}

// Prune keeps the entries e with e+window > now, in their original order.
func Prune(set DetectedSet, now time.Time, window time.Duration) DetectedSet {
	result := make(DetectedSet, 0, len(set))
	for _, e := range set {
		if e.Add(window).After(now) {
			result = append(result, e)
		}
	}

	return result
}
