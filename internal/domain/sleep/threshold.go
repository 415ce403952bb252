package sleep

import "time"

const (
	// DefaultCountThreshold is the number of detections that marks sleep.
	DefaultCountThreshold = 5
	// DefaultWindow is the length of the trailing detection window.
	DefaultWindow = 15 * time.Minute
)

// Thresholds configures the evaluator. Immutable once loaded.
type Thresholds struct {
	// Count is the minimum number of detections inside Window.
	Count int
	// Window is the trailing window length.
	Window time.Duration
}

// Verdict is the evaluator result.
type Verdict int

const (
	// VerdictBelow means fewer detections than the count threshold.
	VerdictBelow Verdict = iota
	// VerdictAtOrAbove means the count threshold has been reached.
	VerdictAtOrAbove
)

// Evaluate compares the pruned set with the count threshold.
func Evaluate(pruned DetectedSet, count int) Verdict {
	if len(pruned) >= count {
		return VerdictAtOrAbove
	}

	return VerdictBelow
}

// State is the outcome of one detection cycle. It is derived from the stored
// data every cycle and never persisted.
type State string

const (
	// StateNoMotion means the sensor has never reported motion.
	StateNoMotion State = "NO_MOTION"
	// StateIdle means the window is below the threshold.
	StateIdle State = "IDLE"
	// StateArmed means the threshold is reached and no override is active:
	// effects fire and the set is reset.
	StateArmed State = "ARMED"
	// StateSuppressed means the threshold is reached during an override:
	// nothing fires and the stored set is left untouched.
	StateSuppressed State = "SUPPRESSED"
)

// Classify maps a verdict and the override gate to a State.
func Classify(verdict Verdict, overrideActive bool) State {
	switch {
	case verdict == VerdictBelow:
		return StateIdle
	case overrideActive:
		return StateSuppressed
	default:
		return StateArmed
	}
}
