// Package neosdk holds the package-level advisory logger shared across
// this module's packages. The core never logs on the hot path (signing,
// serialization) — no key, password, or signature bytes are ever placed
// in a log field, matching the "no key material in messages" rule this
// SDK is built around. The transaction builder is the only package that
// logs through this logger: its state transitions and an advisory note
// on HighPriority attributes, all at Debug.
package neosdk

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger installs l as the package-level advisory logger. Passing
// nil restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Logger returns the currently installed advisory logger.
func Logger() *zap.Logger {
	return logger
}
