// Package logtest provides a Logger for tests.
package logtest

import (
	"testing"

	"github.com/jonathan/hireflow/internal/logger"
	"go.uber.org/zap/zaptest"
)

// New creates a Logger that writes through t.
func New(t testing.TB) logger.Logger {
	return logger.FromZap(zaptest.NewLogger(t))
}
