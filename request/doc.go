// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core value types Config (how a request is
sent), Plan (one outgoing request) and Response (its fully-buffered
result). These are the types that flow through a tracker's
interceptors and transport.

A Config may be used both as a set of defaults and as a per-call
override. The effective configuration for a call is computed by
merging the override onto a snapshot of the defaults:

	effective := defaults.Merge(&request.Config{
		Header:  http.Header{"X-Trace": {"abc"}},
		Timeout: 2 * time.Second,
	})

Headers merge key-wise; every other field replaces the default when it
is set. Merge never shares mutable state with its inputs, so the
effective configuration can be handed to other goroutines safely.

Create a plan from a method, URL, body and effective configuration:

	p, err := request.NewPlan("POST", "/items", map[string]string{"name": "x"}, effective)
	...
	r, err := p.ToRequest(ctx)

Bodies may be strings, byte slices, readers, url.Values, or any value
that encodes as JSON. The plan keeps the encoded bytes, so the same
body can be recorded and sent without being consumed.

A Response whose status code fails the configured validation is
reported as a *StatusError carrying the Response. Use ResponseOf to
find the response carried by any error.
*/
package request
