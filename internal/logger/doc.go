// Package logger wraps zap for the sleep-watch binaries.
//
// A global sugared logger with a console encoder is created at init time.
// Services carry a named child logger in their context (WithName, WithKV) and
// log through the package helpers (Infof, InfoKV, ErrorKV, ...), which pull
// the logger back out of the context.
package logger
