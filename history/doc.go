// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package history records completed dispatches.

An Entry is an immutable snapshot of one dispatch: the method, URL,
body and per-call configuration the caller supplied, and either the
response and its duration (success) or the captured error (failure).
A Log is an ordered, append-only sequence of entries that may be
cleared as a whole but never edited entry by entry.

	for _, e := range tracker.RequestHistory() {
		if e.Failed() {
			log.Printf("%s %s failed (%s): %v", e.Method, e.URL, e.Kind(), e.Captured())
		}
	}

Log is safe for concurrent use. Concurrent dispatches are appended in
completion order, not call order.
*/
package history
