// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var l Log
		assert.Equal(t, 0, l.Len())
		assert.Empty(t, l.Entries())
		_, ok := l.Last()
		assert.False(t, ok)
	})
	t.Run("append and clear", func(t *testing.T) {
		l := NewLog()
		now := time.Now()
		l.Append(NewFailure("GET", "/a", nil, nil, errors.New("a"), now))
		l.Append(NewFailure("GET", "/b", nil, nil, errors.New("b"), now))
		require.Equal(t, 2, l.Len())
		es := l.Entries()
		assert.Equal(t, "/a", es[0].URL)
		assert.Equal(t, "/b", es[1].URL)
		last, ok := l.Last()
		require.True(t, ok)
		assert.Equal(t, "/b", last.URL)
		l.Clear()
		assert.Equal(t, 0, l.Len())
		assert.Empty(t, l.Entries())
	})
	t.Run("Entries is a copy", func(t *testing.T) {
		l := NewLog()
		l.Append(NewFailure("GET", "/a", nil, nil, errors.New("a"), time.Now()))
		es := l.Entries()
		es[0].URL = "changed"
		_ = append(es, Entry{URL: "extra"})
		assert.Equal(t, "/a", l.Entries()[0].URL)
		assert.Equal(t, 1, l.Len())
	})
	t.Run("concurrent append", func(t *testing.T) {
		l := NewLog()
		var wg sync.WaitGroup
		n := 50
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				l.Append(NewFailure("GET", "/"+strconv.Itoa(i), nil, nil, errors.New("x"), time.Now()))
			}(i)
		}
		wg.Wait()
		assert.Equal(t, n, l.Len())
	})
}
