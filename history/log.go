// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"sync"
)

// A Log is an insertion-ordered, append-only sequence of entries. Its
// zero value is an empty log ready to use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds e to the end of the log.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// Entries returns a copy of the entries in insertion order. Changing
// the returned slice does not affect the log.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	es := make([]Entry, len(l.entries))
	copy(es, l.entries)
	return es
}

// Len returns the number of entries recorded since the last Clear.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Last returns the most recently appended entry, and false if the log
// is empty.
func (l *Log) Last() (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
