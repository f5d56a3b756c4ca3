// Package logger builds the zap loggers shared by the engine's packages
// and by tests.
package logger

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production JSON logger at the given level ("debug", "info",
// "warn", "error"). An unrecognized level falls back to info.
func New(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zap.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

type testWriter struct {
	*testing.T
	sync.Mutex
	buf bytes.Buffer
}

func (w *testWriter) Write(b []byte) (int, error) {
	w.Lock()
	defer w.Unlock()
	w.Logf("%s", b)
	return w.buf.Write(b)
}

func (w *testWriter) String() string {
	w.Lock()
	defer w.Unlock()
	return w.buf.String()
}

// ForTest returns a logger that writes through t.Logf, plus a Stringer
// exposing everything written so far (useful for asserting on log content).
func ForTest(t *testing.T) (*zap.Logger, fmt.Stringer) {
	w := &testWriter{T: t}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core).Named(t.Name()), w
}
