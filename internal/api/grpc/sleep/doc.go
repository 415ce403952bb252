// Package sleep implements the gRPC transport for the override commands.
//
// It adapts the override handler to the sleepwatch.v1.SleepService stubs and
// maps domain errors to gRPC status codes.
package sleep
