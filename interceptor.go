// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqtrack

import (
	"context"
	"errors"

	"github.com/gogama/reqtrack/request"
)

var (
	// ErrNilPlan is returned from a dispatch when a request interceptor
	// returns a nil plan without an error.
	ErrNilPlan = errors.New("reqtrack: request interceptor returned nil plan")
	// ErrNilResponse is returned from a dispatch when a response
	// interceptor returns a nil response without an error.
	ErrNilResponse = errors.New("reqtrack: response interceptor returned nil response")
)

// A RequestInterceptor inspects or modifies an outgoing request plan
// before it is handed to the transport.
//
// InterceptRequest must return the plan to send, which may be p itself
// or a modified copy. A non-nil error aborts the dispatch: no further
// interceptors run, nothing is sent, and the error is returned to the
// caller as is.
type RequestInterceptor interface {
	InterceptRequest(ctx context.Context, p *request.Plan) (*request.Plan, error)
}

// The RequestInterceptorFunc type is an adapter to allow the use of
// ordinary functions as request interceptors.
type RequestInterceptorFunc func(context.Context, *request.Plan) (*request.Plan, error)

// InterceptRequest calls f(ctx, p).
func (f RequestInterceptorFunc) InterceptRequest(ctx context.Context, p *request.Plan) (*request.Plan, error) {
	return f(ctx, p)
}

// A ResponseInterceptor inspects or modifies a response before it is
// returned to the caller.
//
// InterceptResponse must return the response to hand on, which may be
// r itself or a modified copy. A non-nil error aborts the dispatch in
// the same way as for a RequestInterceptor.
type ResponseInterceptor interface {
	InterceptResponse(ctx context.Context, r *request.Response) (*request.Response, error)
}

// The ResponseInterceptorFunc type is an adapter to allow the use of
// ordinary functions as response interceptors.
type ResponseInterceptorFunc func(context.Context, *request.Response) (*request.Response, error)

// InterceptResponse calls f(ctx, r).
func (f ResponseInterceptorFunc) InterceptResponse(ctx context.Context, r *request.Response) (*request.Response, error) {
	return f(ctx, r)
}

// A Registration records one interceptor installed on a Tracker. Exactly
// one of Request and Response is set, according to Phase.
type Registration struct {
	Phase    Phase
	Request  RequestInterceptor
	Response ResponseInterceptor
}

// An interceptorChain holds the interceptors of both phases in
// registration order.
type interceptorChain struct {
	requests      []RequestInterceptor
	responses     []ResponseInterceptor
	registrations []Registration
}

func (c *interceptorChain) pushRequest(i RequestInterceptor) {
	if i == nil {
		panic("reqtrack: nil interceptor")
	}

	c.requests = append(c.requests, i)
	c.registrations = append(c.registrations, Registration{Phase: RequestPhase, Request: i})
}

func (c *interceptorChain) pushResponse(i ResponseInterceptor) {
	if i == nil {
		panic("reqtrack: nil interceptor")
	}

	c.responses = append(c.responses, i)
	c.registrations = append(c.registrations, Registration{Phase: ResponsePhase, Response: i})
}

// snapshot returns a copy of c whose slices are safe to range over after
// the lock guarding c is released.
func (c *interceptorChain) snapshot() interceptorChain {
	return interceptorChain{
		requests:  c.requests[:len(c.requests):len(c.requests)],
		responses: c.responses[:len(c.responses):len(c.responses)],
	}
}

func (c *interceptorChain) runRequest(ctx context.Context, p *request.Plan) (*request.Plan, error) {
	for _, i := range c.requests {
		var err error
		p, err = i.InterceptRequest(ctx, p)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrNilPlan
		}
	}

	return p, nil
}

func (c *interceptorChain) runResponse(ctx context.Context, r *request.Response) (*request.Response, error) {
	for _, i := range c.responses {
		var err error
		r, err = i.InterceptResponse(ctx, r)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, ErrNilResponse
		}
	}

	return r, nil
}
