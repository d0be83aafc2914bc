// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is the level used when none, or an invalid one, is
// given.
const DefaultLevel = zapcore.InfoLevel

// New returns a JSON logger writing to standard error at the given
// level. A nil level means DefaultLevel.
func New(level zapcore.LevelEnabler) *zap.Logger {
	return NewTo(os.Stderr, level)
}

// NewTo returns a JSON logger writing to w at the given level. A nil
// level means DefaultLevel.
func NewTo(w io.Writer, level zapcore.LevelEnabler) *zap.Logger {
	if level == nil {
		level = DefaultLevel
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)
	enc.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Named("reqtrack")
}

// Nop returns a logger which discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// ParseLogLevel parses a level name such as "debug" or "WARN". Leading
// and trailing spaces are ignored. If s is not a level name, it returns
// DefaultLevel and false.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLevel, false
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return DefaultLevel, false
	}

	return level, true
}
