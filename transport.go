// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqtrack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/proxy"

	"github.com/gogama/reqtrack/request"
)

var (
	// ErrTooManyRedirects is the error wrapped inside the *url.Error
	// returned when a response redirects more times than the effective
	// Config.MaxRedirects allows.
	ErrTooManyRedirects = errors.New("reqtrack: maximum number of redirects exceeded")
	// ErrUnsupportedProxy is returned when Config.Proxy names a protocol
	// other than http, https, socks5 or socks5h.
	ErrUnsupportedProxy = errors.New("reqtrack: unsupported proxy protocol")
	// ErrNilContext is returned when a nil context is passed to a
	// Transport.
	ErrNilContext = errors.New("reqtrack: nil context")
)

// A Transport sends the HTTP request described by a plan and returns
// the fully-buffered response.
//
// Execute must honor every field of the plan's Config. It returns a
// *request.StatusError carrying the response when the response status
// fails Config.Validate, and an error of type *url.Error when the
// request could not be completed at the HTTP level. A Transport must be
// safe for concurrent use by multiple goroutines.
type Transport interface {
	Execute(ctx context.Context, p *request.Plan) (*request.Response, error)
}

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// HTTPTransport is the default Transport, built on the GoLang standard
// library HTTP client.
//
// HTTPTransport applies the plan's base URL, headers, Basic auth
// credentials and timeout to each request. The timeout covers both
// sending the request and reading the response body. The proxy and
// redirect settings are honored by giving each distinct proxy its own
// *http.Transport, cloned from the base transport, and each request its
// own redirect policy. Per-proxy transports are kept for the life of the
// HTTPTransport so that connections are pooled across requests.
//
// HTTPTransport is safe for concurrent use by multiple goroutines.
type HTTPTransport struct {
	base *http.Transport

	mu      sync.Mutex
	proxied map[string]*http.Transport
}

// NewHTTPTransport returns an HTTPTransport which uses base to send
// requests that have no explicit proxy, and clones of base for requests
// that do.
//
// If base is nil, a clone of http.DefaultTransport is used, so requests
// without an explicit proxy follow the proxy environment variables.
func NewHTTPTransport(base *http.Transport) *HTTPTransport {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &HTTPTransport{
		base:    base,
		proxied: make(map[string]*http.Transport),
	}
}

// Execute sends the request described by p.
func (t *HTTPTransport) Execute(ctx context.Context, p *request.Plan) (*request.Response, error) {
	rt, err := t.transportFor(p.Config.Proxy)
	if err != nil {
		return nil, urlErrorWrap(p, err)
	}

	cl := &http.Client{
		Transport:     rt,
		CheckRedirect: redirectPolicy(p.Config.MaxRedirects),
	}

	return execute(ctx, p, cl)
}

// CloseIdleConnections closes idle connections on the base transport
// and on every per-proxy transport.
func (t *HTTPTransport) CloseIdleConnections() {
	t.base.CloseIdleConnections()

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, rt := range t.proxied {
		rt.CloseIdleConnections()
	}
}

func (t *HTTPTransport) transportFor(p *request.Proxy) (*http.Transport, error) {
	if p == nil {
		return t.base, nil
	}

	u := p.URL()
	key := u.String()

	t.mu.Lock()
	defer t.mu.Unlock()
	if rt, ok := t.proxied[key]; ok {
		return rt, nil
	}

	rt, err := proxiedTransport(t.base, u)
	if err != nil {
		return nil, err
	}

	t.proxied[key] = rt
	return rt, nil
}

func proxiedTransport(base *http.Transport, u *url.URL) (*http.Transport, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("reqtrack: proxy %s has no host", u.Redacted())
	}

	rt := base.Clone()
	switch u.Scheme {
	case "http", "https":
		rt.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		dial, err := socksDialer(u)
		if err != nil {
			return nil, err
		}
		rt.Proxy = nil
		rt.DialContext = dial
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedProxy, u.Scheme)
	}

	return rt, nil
}

func socksDialer(u *url.URL) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	var auth *proxy.Auth
	if u.User != nil {
		password, _ := u.User.Password()
		auth = &proxy.Auth{
			User:     u.User.Username(),
			Password: password,
		}
	}

	d, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}

	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}, nil
}

// redirectPolicy returns the http.Client CheckRedirect function for a
// Config.MaxRedirects value. A nil limit keeps the net/http default.
func redirectPolicy(limit *int) func(*http.Request, []*http.Request) error {
	if limit == nil {
		return nil
	}

	n := *limit
	return func(_ *http.Request, via []*http.Request) error {
		if n <= 0 {
			return http.ErrUseLastResponse
		}
		if len(via) > n {
			return ErrTooManyRedirects
		}
		return nil
	}
}

// NewDoerTransport returns a Transport which sends every request using
// doer.
//
// The returned Transport applies the plan's base URL, headers, Basic
// auth credentials, timeout and status validation, but leaves proxy and
// redirect handling to doer's own policy. It is useful when the caller
// already has a configured HTTP client, such as the one returned by
// httptest.Server.Client.
//
// If doer implements IdleCloser, so does the returned Transport.
func NewDoerTransport(doer HTTPDoer) Transport {
	if doer == nil {
		panic("reqtrack: nil doer")
	}

	if _, ok := doer.(IdleCloser); ok {
		return idleCloserDoerTransport{doerTransport{doer}}
	}

	return doerTransport{doer}
}

type doerTransport struct {
	doer HTTPDoer
}

func (t doerTransport) Execute(ctx context.Context, p *request.Plan) (*request.Response, error) {
	return execute(ctx, p, t.doer)
}

type idleCloserDoerTransport struct {
	doerTransport
}

func (t idleCloserDoerTransport) CloseIdleConnections() {
	t.doer.(IdleCloser).CloseIdleConnections()
}

func execute(ctx context.Context, p *request.Plan, doer HTTPDoer) (*request.Response, error) {
	if ctx == nil {
		return nil, urlErrorWrap(p, ErrNilContext)
	}

	if p.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Config.Timeout)
		defer cancel()
	}

	req, err := p.ToRequest(ctx)
	if err != nil {
		return nil, urlErrorWrap(p, err)
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, urlErrorWrap(p, err)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, urlErrorWrap(p, err)
	}

	r := request.NewResponse(p, resp, body)
	if !p.Config.Validate(r.Status) {
		return nil, &request.StatusError{Response: r}
	}

	return r, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	return io.ReadAll(resp.Body)
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL,
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
