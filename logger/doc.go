// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logger builds the zap loggers a tracker writes its dispatch
// logs to, and parses log level names from configuration.
package logger
