// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqtrack provides an HTTP client which records every request it
sends, successful or not, in an ordered history.

Create a Tracker to begin making requests.

	tracker := reqtrack.New()
	tracker.SetBaseURL("https://api.example.com")
	resp, err := tracker.Get(ctx, "/items/1", nil)
	...
	resp, err := tracker.Post(ctx, "/items", map[string]string{"name": "x"}, nil)
	...
	for _, e := range tracker.RequestHistory() {
		fmt.Println(e.Method, e.URL, e.Duration, e.Err)
	}

Default configuration is mutable through the Set methods and is merged
with the optional per-call configuration of each request:

	tracker.SetDefaultHeaders(map[string]string{"Accept": "application/json"})
	tracker.SetTimeout(5 * time.Second)
	tracker.SetAuth(&request.Auth{Username: "ann", Password: "s3cret"})
	resp, err := tracker.Get(ctx, "/slow", &request.Config{
		Timeout: 30 * time.Second,
	})

To inspect or modify requests before they are sent, or responses before
they are returned, install an interceptor:

	tracker.AddRequestInterceptor(reqtrack.RequestInterceptorFunc(
		func(ctx context.Context, p *request.Plan) (*request.Plan, error) {
			p.Config.Header.Set("X-Request-Id", uuid.NewString())
			return p, nil
		}))

By default requests are sent using an HTTPTransport built on the GoLang
standard HTTP client. To send requests another way, supply a custom
Transport, such as one from package restytransport, or an HTTPDoer
wrapped with NewDoerTransport:

	tracker := reqtrack.New(
		reqtrack.WithTransport(restytransport.New(nil)),
		reqtrack.WithLogger(logger),
	)

Package reqtrack provides basic interfaces for each method of the
tracker (Dispatcher, Getter, Poster, Putter, Deleter, and Patcher); a
combined interface that composes all the basic methods (Executor); and
utility functions for working with a Dispatcher (Inflate, Get, Post,
Put, Delete, and Patch).
*/
package reqtrack
