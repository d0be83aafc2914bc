// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package restytransport provides a reqtrack.Transport which sends
// requests using github.com/go-resty/resty/v2.
//
//	tracker := reqtrack.New(reqtrack.WithTransport(restytransport.New(nil)))
package restytransport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/gogama/reqtrack"
	"github.com/gogama/reqtrack/request"
)

// A Transport sends requests using resty clients.
//
// Every request shares a client with the other requests that have the
// same proxy and redirect settings. Clients are created on first use by
// the factory given to New and are kept for the life of the Transport.
type Transport struct {
	newClient func() *resty.Client

	mu      sync.Mutex
	clients map[clientKey]*resty.Client
}

type clientKey struct {
	proxy        string
	maxRedirects int
}

// New returns a Transport whose clients are created by newClient. If
// newClient is nil, resty.New is used.
//
// The factory must return a new client on every call, since the
// Transport changes the client's proxy and redirect policy.
func New(newClient func() *resty.Client) *Transport {
	if newClient == nil {
		newClient = resty.New
	}

	return &Transport{
		newClient: newClient,
		clients:   make(map[clientKey]*resty.Client),
	}
}

// Execute sends the request described by p.
func (t *Transport) Execute(ctx context.Context, p *request.Plan) (*request.Response, error) {
	if ctx == nil {
		return nil, urlError(p, reqtrack.ErrNilContext)
	}

	u, err := p.ResolveURL()
	if err != nil {
		return nil, urlError(p, err)
	}

	c, err := t.client(&p.Config)
	if err != nil {
		return nil, urlError(p, err)
	}

	if p.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Config.Timeout)
		defer cancel()
	}

	r := c.R().SetContext(ctx)
	for k, vv := range p.Config.Header {
		for _, v := range vv {
			r.Header.Add(k, v)
		}
	}
	if a := p.Config.Auth; a != nil {
		r.SetBasicAuth(a.Username, a.Password)
	}
	if len(p.Body) > 0 {
		r.SetBody(p.Body)
	}

	resp, err := r.Execute(p.Method, u.String())
	if err != nil {
		return nil, urlError(p, err)
	}

	out := request.NewResponse(p, resp.RawResponse, resp.Body())
	if !p.Config.Validate(out.Status) {
		return nil, &request.StatusError{Response: out}
	}

	return out, nil
}

func (t *Transport) client(cfg *request.Config) (*resty.Client, error) {
	key := clientKey{maxRedirects: -1}
	if cfg.MaxRedirects != nil {
		key.maxRedirects = *cfg.MaxRedirects
		if key.maxRedirects < 0 {
			key.maxRedirects = 0
		}
	}
	if cfg.Proxy != nil {
		u := cfg.Proxy.URL()
		if u.Host == "" {
			return nil, fmt.Errorf("reqtrack/restytransport: proxy %s has no host", u.Redacted())
		}
		switch u.Scheme {
		case "http", "https", "socks5", "socks5h":
		default:
			return nil, fmt.Errorf("%w %q", reqtrack.ErrUnsupportedProxy, u.Scheme)
		}
		key.proxy = u.String()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.clients[key]; ok {
		return c, nil
	}

	c := t.newClient()
	c.SetAllowGetMethodPayload(true)
	if key.proxy != "" {
		c.SetProxy(key.proxy)
	}
	if key.maxRedirects >= 0 {
		c.SetRedirectPolicy(redirectPolicy(key.maxRedirects))
	}

	t.clients[key] = c
	return c, nil
}

// CloseIdleConnections closes idle connections on every client the
// Transport has created.
func (t *Transport) CloseIdleConnections() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.clients {
		c.GetClient().CloseIdleConnections()
	}
}

func redirectPolicy(n int) resty.RedirectPolicy {
	return resty.RedirectPolicyFunc(func(_ *http.Request, via []*http.Request) error {
		if n == 0 {
			return http.ErrUseLastResponse
		}
		if len(via) > n {
			return reqtrack.ErrTooManyRedirects
		}
		return nil
	})
}

func urlError(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	op := "Get"
	if p.Method != "" {
		op = p.Method[:1] + strings.ToLower(p.Method[1:])
	}

	return &url.Error{
		Op:  op,
		URL: p.URL,
		Err: err,
	}
}
