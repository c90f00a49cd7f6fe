// Package logging builds the zap logger used by the driver. The core
// module never logs; everything it has to say comes back in Results.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel accepts debug, info, warn and error (case-insensitive).
// An empty string means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// New returns a console logger writing to w at lvl. Timestamps are left
// out so output stays diffable in tests.
func New(lvl zapcore.Level, w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.StacktraceKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core)
}

// Level resolves the effective level from a configured name and the
// --quiet / --verbose switches. The switches win.
func Level(name string, quiet, verbose bool) (zapcore.Level, error) {
	switch {
	case verbose:
		return zapcore.DebugLevel, nil
	case quiet:
		return zapcore.WarnLevel, nil
	}
	return ParseLevel(name)
}
