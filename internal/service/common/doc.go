// Package common holds helpers shared by the watcher and the override client.
//
// It provides a lightweight gRPC client wrapper with timeouts and utilities to
// detect the calling user and host, which travel as request metadata for the
// audit log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
