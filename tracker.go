// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqtrack

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/gogama/reqtrack/failure"
	"github.com/gogama/reqtrack/history"
	"github.com/gogama/reqtrack/request"
)

// A Tracker sends HTTP requests through a Transport and records every
// dispatch, successful or not, in an ordered history.
//
// A Tracker holds mutable default configuration which is merged with
// the per-call configuration of each dispatch, and two interceptor
// chains which can inspect and modify requests before they are sent and
// responses before they are returned.
//
// Each dispatch follows the same steps:
//
// • the effective configuration is computed by merging the per-call
// configuration onto a snapshot of the defaults, so a dispatch in
// flight is unaffected by later calls to the Set methods;
//
// • the body is encoded and a request.Plan is built;
//
// • request interceptors run in registration order;
//
// • the plan is sent using the Transport;
//
// • if the Transport returned a response, response interceptors run in
// registration order; and
//
// • exactly one history entry is recorded, a success entry carrying the
// elapsed time or a failure entry carrying the error.
//
// Errors are always returned to the caller unchanged after they are
// recorded. Tracker is safe for concurrent use by multiple goroutines.
type Tracker struct {
	transport    Transport
	logger       *zap.Logger
	log          *history.Log
	bodyLogLimit int

	mu           sync.RWMutex
	defaults     request.Config
	interceptors interceptorChain
}

// New returns a Tracker configured by opts.
//
// Without options, the Tracker dispatches with NewHTTPTransport(nil),
// discards its logs, and records into a new, private history log.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		logger:       zap.NewNop(),
		bodyLogLimit: DefaultBodyLogLimit,
	}

	for _, opt := range opts {
		opt.apply(t)
	}

	if t.transport == nil {
		t.transport = NewHTTPTransport(nil)
	}
	if t.log == nil {
		t.log = history.NewLog()
	}

	return t
}

// Dispatch sends a request with the given method, URL and body, merging
// cfg onto the Tracker's defaults. The cfg parameter may be nil.
//
// The body parameter may be any of the types supported by
// request.BodyBytes. The URL is resolved against the effective base URL
// unless it is absolute.
//
// On success the response is returned with a nil error. Otherwise the
// response is nil and the error is either the error returned by a
// failing interceptor, a *request.StatusError carrying the response if
// the status failed validation, or a *url.Error from the Transport.
//
// For simple use cases, the Get, Post, Put, Delete and Patch methods
// may prove easier to use than Dispatch.
func (t *Tracker) Dispatch(ctx context.Context, method, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	start := time.Now()

	override := cloneOverride(cfg)
	defaults, chain := t.snapshot()
	p, err := request.NewPlan(method, url, body, defaults.Merge(override))
	if err != nil {
		return nil, t.recordFailure(normalizeMethod(method), url, nil, override, err)
	}

	method = p.Method
	sent := append([]byte(nil), p.Body...)

	resp, err := t.send(ctx, p, &chain)
	if err != nil {
		return nil, t.recordFailure(method, url, sent, override, err)
	}

	end := time.Now()
	t.log.Append(history.NewSuccess(method, url, sent, override, resp, end.Sub(start), end))
	t.logSuccess(resp, end.Sub(start))
	return resp, nil
}

func (t *Tracker) send(ctx context.Context, p *request.Plan, chain *interceptorChain) (*request.Response, error) {
	p, err := chain.runRequest(ctx, p)
	if err != nil {
		return nil, err
	}

	resp, err := t.transport.Execute(ctx, p)
	if err != nil {
		return nil, err
	}

	return chain.runResponse(ctx, resp)
}

func (t *Tracker) recordFailure(method, url string, body []byte, cfg *request.Config, err error) error {
	t.log.Append(history.NewFailure(method, url, body, cfg, err, time.Now()))
	class := failure.Classify(err)
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.Stringer("kind", class),
		zap.Error(err),
	}
	if r := request.ResponseOf(err); r != nil {
		fields = append(fields, zap.Int("status", r.Status))
	}
	t.logger.Warn("dispatch failed", fields...)
	return err
}

func (t *Tracker) logSuccess(resp *request.Response, d time.Duration) {
	ce := t.logger.Check(zap.DebugLevel, "dispatch succeeded")
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.Int("status", resp.Status),
		zap.Duration("duration", d),
		zap.String("size", humanize.Bytes(uint64(len(resp.Body)))),
	}
	if p := resp.Plan; p != nil {
		fields = append(fields, zap.String("method", p.Method), zap.String("url", p.URL))
	}
	if n := t.bodyLogLimit; n > 0 && len(resp.Body) > 0 {
		b := resp.Body
		if resp.Data != nil {
			b = pretty.Ugly(b)
		}
		if len(b) > n {
			b = b[:n]
		}
		fields = append(fields, zap.ByteString("body", b))
	}
	ce.Write(fields...)
}

func (t *Tracker) snapshot() (request.Config, interceptorChain) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.defaults.Clone(), t.interceptors.snapshot()
}

func normalizeMethod(method string) string {
	if method == "" {
		return "GET"
	}
	return strings.ToUpper(method)
}

func cloneOverride(cfg *request.Config) *request.Config {
	if cfg == nil {
		return nil
	}
	c := cfg.Clone()
	return &c
}

// Get issues a GET to the specified URL. See Dispatch.
func (t *Tracker) Get(ctx context.Context, url string, cfg *request.Config) (*request.Response, error) {
	return Get(ctx, t, url, cfg)
}

// Post issues a POST to the specified URL. See Dispatch.
func (t *Tracker) Post(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return Post(ctx, t, url, body, cfg)
}

// Put issues a PUT to the specified URL. See Dispatch.
func (t *Tracker) Put(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return Put(ctx, t, url, body, cfg)
}

// Delete issues a DELETE to the specified URL. See Dispatch.
func (t *Tracker) Delete(ctx context.Context, url string, cfg *request.Config) (*request.Response, error) {
	return Delete(ctx, t, url, cfg)
}

// Patch issues a PATCH to the specified URL. See Dispatch.
func (t *Tracker) Patch(ctx context.Context, url string, body interface{}, cfg *request.Config) (*request.Response, error) {
	return Patch(ctx, t, url, body, cfg)
}

// AddRequestInterceptor appends i to the request interceptor chain. It
// affects every dispatch started after it returns. A nil interceptor
// panics.
func (t *Tracker) AddRequestInterceptor(i RequestInterceptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interceptors.pushRequest(i)
}

// AddResponseInterceptor appends i to the response interceptor chain.
// It affects every dispatch started after it returns. A nil interceptor
// panics.
func (t *Tracker) AddResponseInterceptor(i ResponseInterceptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interceptors.pushResponse(i)
}

// Interceptors returns every interceptor registration in registration
// order, across both phases.
func (t *Tracker) Interceptors() []Registration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	regs := make([]Registration, len(t.interceptors.registrations))
	copy(regs, t.interceptors.registrations)
	return regs
}

// SetDefaultHeaders merges headers into the default headers. Existing
// headers with other names are kept.
func (t *Tracker) SetDefaultHeaders(headers map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.defaults.Header == nil {
		t.defaults.Header = make(http.Header, len(headers))
	}
	for k, v := range headers {
		t.defaults.Header.Set(k, v)
	}
}

// SetBaseURL sets the default base URL which relative request URLs are
// resolved against.
func (t *Tracker) SetBaseURL(baseURL string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaults.BaseURL = baseURL
}

// SetTimeout sets the default request timeout. Zero or a negative value
// means no timeout.
func (t *Tracker) SetTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaults.Timeout = d
}

// SetAuth sets the default Basic auth credentials. A nil value removes
// them. The value is copied.
func (t *Tracker) SetAuth(auth *request.Auth) {
	var a *request.Auth
	if auth != nil {
		a2 := *auth
		a = &a2
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaults.Auth = a
}

// SetProxy sets the default proxy. A nil value restores the
// Transport's own proxy behavior. The value is copied.
func (t *Tracker) SetProxy(p *request.Proxy) {
	var c request.Config
	if p != nil {
		c = (request.Config{Proxy: p}).Clone()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaults.Proxy = c.Proxy
}

// SetMaxRedirects sets the default maximum number of redirects to
// follow. Zero disables redirects. A negative value restores the
// Transport's own default.
func (t *Tracker) SetMaxRedirects(n int) {
	var limit *int
	if n >= 0 {
		limit = request.Redirects(n)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaults.MaxRedirects = limit
}

// Defaults returns a copy of the current default configuration.
func (t *Tracker) Defaults() request.Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.defaults.Clone()
}

// RequestHistory returns a copy of the recorded history, oldest entry
// first.
func (t *Tracker) RequestHistory() []history.Entry {
	return t.log.Entries()
}

// ClearRequestHistory removes every recorded entry.
func (t *Tracker) ClearRequestHistory() {
	t.log.Clear()
}

// History returns the log the Tracker records into.
func (t *Tracker) History() *history.Log {
	return t.log
}

// CloseIdleConnections invokes the same method on the Tracker's
// Transport, if the Transport implements IdleCloser.
func (t *Tracker) CloseIdleConnections() {
	if ic, ok := t.transport.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
