// Package client implements the sleep-override commands.
//
// Each command dials the watcher, sends one request and prints the
// acknowledgement.
package client
