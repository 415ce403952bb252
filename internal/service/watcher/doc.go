// Package watcher runs the sleep detection loop.
//
// Controller executes one detection cycle: it reads the latest motion instant
// from the sensor, folds it into the stored detection set, evaluates the
// thresholds and, when sleep is detected outside an override window, resets
// the set and fires the notification and playback effects.
// Schedule repeats a cycle forever with a fixed pause between runs, and Run
// wires both together with the gRPC command surface.
package watcher
