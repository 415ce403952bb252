// Package state implements persistence for the watcher's shared state.
//
// Two independent keys are stored: the detected motion instants and the
// override expiry. KV is the narrow get/set/delete contract, with Redis, file
// and in-memory backends; Repository layers the typed keys on top of any KV.
// Each call touches exactly one key and no multi-key transaction is assumed.
package state
