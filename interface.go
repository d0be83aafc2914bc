// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqtrack

import (
	"context"

	"github.com/gogama/reqtrack/request"
)

// Dispatcher is the interface that wraps the basic Dispatch method.
//
// Dispatch sends a request with the given method, URL, body and per-call
// configuration and returns the response (and error, if any). Tracker
// implements the Dispatcher interface, and any other Dispatcher
// implementation must behave substantially the same as
// Tracker.Dispatch.
//
// Any Dispatcher can be converted into an Executor via the Inflate
// function.
type Dispatcher interface {
	Dispatch(ctx context.Context, method, url string, body interface{}, cfg *request.Config) (*request.Response, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Any Dispatcher can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(ctx context.Context, url string, cfg *request.Config) (*request.Response, error)
}

// Poster is the interface that wraps the basic Post method.
//
// The body parameter may be nil for an empty body, or any of the types
// supported by request.BodyBytes.
//
// Any Dispatcher can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error)
}

// Putter is the interface that wraps the basic Put method.
//
// Any Dispatcher can be used to emulate a Putter via the Put function.
type Putter interface {
	Put(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error)
}

// Deleter is the interface that wraps the basic Delete method.
//
// Any Dispatcher can be used to emulate a Deleter via the Delete
// function.
type Deleter interface {
	Delete(ctx context.Context, url string, cfg *request.Config) (*request.Response, error)
}

// Patcher is the interface that wraps the basic Patch method.
//
// Any Dispatcher can be used to emulate a Patcher via the Patch
// function.
type Patcher interface {
	Patch(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error)
}

// Executor is the interface that groups the basic Dispatch, Get, Post,
// Put, Delete and Patch methods.
//
// Any Dispatcher can be converted into an Executor via the Inflate
// function.
type Executor interface {
	Dispatcher
	Getter
	Poster
	Putter
	Deleter
	Patcher
}

// Get uses the specified Dispatcher to issue a GET to the specified
// URL.
func Get(ctx context.Context, d Dispatcher, url string, cfg *request.Config) (*request.Response, error) {
	return d.Dispatch(ctx, "GET", url, nil, cfg)
}

// Post uses the specified Dispatcher to issue a POST to the specified
// URL.
func Post(ctx context.Context, d Dispatcher, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return d.Dispatch(ctx, "POST", url, body, cfg)
}

// Put uses the specified Dispatcher to issue a PUT to the specified
// URL.
func Put(ctx context.Context, d Dispatcher, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return d.Dispatch(ctx, "PUT", url, body, cfg)
}

// Delete uses the specified Dispatcher to issue a DELETE to the
// specified URL.
func Delete(ctx context.Context, d Dispatcher, url string, cfg *request.Config) (*request.Response, error) {
	return d.Dispatch(ctx, "DELETE", url, nil, cfg)
}

// Patch uses the specified Dispatcher to issue a PATCH to the specified
// URL.
func Patch(ctx context.Context, d Dispatcher, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return d.Dispatch(ctx, "PATCH", url, body, cfg)
}

// Inflate converts any non-nil Dispatcher into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Dispatcher needs to call a function that requires an
// Executor.
func Inflate(d Dispatcher) Executor {
	if d == nil {
		panic("reqtrack: nil dispatcher")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	d Dispatcher
}

func (i inflated) Dispatch(ctx context.Context, method, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return i.d.Dispatch(ctx, method, url, body, cfg)
}

func (i inflated) Get(ctx context.Context, url string, cfg *request.Config) (*request.Response, error) {
	return Get(ctx, i.d, url, cfg)
}

func (i inflated) Post(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return Post(ctx, i.d, url, body, cfg)
}

func (i inflated) Put(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return Put(ctx, i.d, url, body, cfg)
}

func (i inflated) Delete(ctx context.Context, url string, cfg *request.Config) (*request.Response, error) {
	return Delete(ctx, i.d, url, cfg)
}

func (i inflated) Patch(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return Patch(ctx, i.d, url, body, cfg)
}
