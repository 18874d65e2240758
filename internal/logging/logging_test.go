package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevels(t *testing.T) {
	t.Parallel()

	quiet := New(false).Core()
	if quiet.Enabled(zapcore.InfoLevel) {
		t.Error("info enabled without verbose")
	}
	if !quiet.Enabled(zapcore.WarnLevel) {
		t.Error("warn disabled without verbose")
	}
	if !New(true).Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug disabled with verbose")
	}
}
