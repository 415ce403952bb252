// Package version exposes build metadata of the sleep-watch binaries.
package version
