// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqtrack

import (
	"go.uber.org/zap"

	"github.com/gogama/reqtrack/history"
	"github.com/gogama/reqtrack/request"
)

// DefaultBodyLogLimit is the number of response body bytes included in
// debug dispatch logs when no WithBodyLogLimit option is given.
const DefaultBodyLogLimit = 1 << 10

// An Option configures a Tracker at construction time.
type Option interface{ apply(*Tracker) }

type optionFunc func(*Tracker)

func (f optionFunc) apply(t *Tracker) { f(t) }

// WithTransport sets the engine the Tracker dispatches through. A nil
// Transport panics.
func WithTransport(tr Transport) Option {
	if tr == nil {
		panic("reqtrack: nil transport")
	}
	return optionFunc(func(t *Tracker) { t.transport = tr })
}

// WithLogger sets the logger dispatches are logged to. A nil logger
// disables logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(t *Tracker) {
		if l == nil {
			l = zap.NewNop()
		}
		t.logger = l
	})
}

// WithDefaults sets the initial default configuration. The value is
// copied.
func WithDefaults(cfg request.Config) Option {
	return optionFunc(func(t *Tracker) { t.defaults = cfg.Clone() })
}

// WithHistory makes the Tracker record into l instead of a private log,
// so that several trackers can share one history.
func WithHistory(l *history.Log) Option {
	return optionFunc(func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	})
}

// WithBodyLogLimit sets how many response body bytes are included in
// debug dispatch logs. Zero omits the body.
func WithBodyLogLimit(n int) Option {
	return optionFunc(func(t *Tracker) {
		if n < 0 {
			n = 0
		}
		t.bodyLogLimit = n
	})
}
