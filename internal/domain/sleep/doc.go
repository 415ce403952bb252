// Package sleep contains the detection rules of the watcher.
//
// It defines the DetectedSet of motion instants with its aggregation helpers
// (RecordIfNew, Prune), the threshold evaluator and the per-cycle State, and
// the parser that turns an override expression ("30m", "7h", "9:00") into an
// absolute expiry. Everything here is pure; persistence and effects live in
// the repository and service packages.
package sleep
