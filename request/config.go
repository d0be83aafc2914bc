// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net"
	"net/http"
	urlpkg "net/url"
	"strconv"
	"strings"
	"time"
)

// NoTimeout may be set as the Timeout of a per-call override Config to
// disable a timeout inherited from the defaults.
const NoTimeout time.Duration = -1

// A Config describes how a request is sent: where relative URLs are
// resolved, which headers accompany it, how long it may take, and the
// credentials, proxy, and redirect policy to use.
//
// The same type serves both as the process-wide default configuration
// held by a tracker and as a per-call override. When used as an
// override, a zero-valued field means "inherit the default".
type Config struct {
	// BaseURL is prepended to relative request URLs. An empty string
	// means relative URLs are sent as given.
	BaseURL string

	// Header contains request header fields. When merging, headers are
	// merged key-wise and the override's values win.
	Header http.Header

	// Timeout bounds the whole request, including reading the response
	// body. Zero means no timeout in a default Config and "inherit" in
	// an override. NoTimeout in an override disables the default.
	Timeout time.Duration

	// Auth holds HTTP Basic credentials. Nil means no credentials.
	Auth *Auth

	// Proxy describes the proxy to send the request through. Nil means
	// the proxy settings from the environment are used.
	Proxy *Proxy

	// MaxRedirects is the maximum number of redirects to follow. Nil
	// means the engine default; zero means redirects are not followed
	// and the redirect response itself is returned.
	MaxRedirects *int

	// ValidateStatus decides whether a status code counts as success.
	// Nil means DefaultValidateStatus.
	ValidateStatus func(status int) bool
}

// Auth is an HTTP Basic credential pair. It is passed through to the
// engine unchanged.
type Auth struct {
	Username string
	Password string
}

// A Proxy describes an outbound proxy.
//
// Protocol is one of "http", "https", "socks5" or "socks5h". An empty
// protocol means "http".
type Proxy struct {
	Protocol string
	Host     string
	Port     int
	Auth     *Auth
}

// URL returns the proxy as a URL suitable for http.ProxyURL or a SOCKS
// dialer.
func (p *Proxy) URL() *urlpkg.URL {
	scheme := strings.ToLower(p.Protocol)
	if scheme == "" {
		scheme = "http"
	}
	host := p.Host
	if p.Port > 0 {
		host = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	}
	u := &urlpkg.URL{
		Scheme: scheme,
		Host:   host,
	}
	if p.Auth != nil {
		u.User = urlpkg.UserPassword(p.Auth.Username, p.Auth.Password)
	}
	return u
}

// String returns the proxy URL with any password redacted.
func (p *Proxy) String() string {
	return p.URL().Redacted()
}

// Redirects returns a pointer to n, for use as Config.MaxRedirects.
func Redirects(n int) *int {
	return &n
}

// DefaultValidateStatus treats every 2XX status code as success.
func DefaultValidateStatus(status int) bool {
	return status >= 200 && status < 300
}

// Merge returns a new Config computed by overlaying override on c.
//
// Header fields are merged key-wise, with override values replacing
// values for the same canonical key. Every other field of override
// replaces the corresponding field of c wholesale when it is set. The
// result shares no mutable state with either c or override.
//
// A nil override yields a deep copy of c.
func (c Config) Merge(override *Config) Config {
	m := c.Clone()
	if override == nil {
		return m
	}
	if override.BaseURL != "" {
		m.BaseURL = override.BaseURL
	}
	if len(override.Header) > 0 {
		if m.Header == nil {
			m.Header = make(http.Header, len(override.Header))
		}
		for k, vv := range override.Header {
			m.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vv...)
		}
	}
	switch {
	case override.Timeout == NoTimeout:
		m.Timeout = 0
	case override.Timeout > 0:
		m.Timeout = override.Timeout
	}
	if override.Auth != nil {
		m.Auth = cloneAuth(override.Auth)
	}
	if override.Proxy != nil {
		m.Proxy = cloneProxy(override.Proxy)
	}
	if override.MaxRedirects != nil {
		m.MaxRedirects = Redirects(*override.MaxRedirects)
	}
	if override.ValidateStatus != nil {
		m.ValidateStatus = override.ValidateStatus
	}
	return m
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c2 := c
	c2.Header = c.Header.Clone()
	c2.Auth = cloneAuth(c.Auth)
	c2.Proxy = cloneProxy(c.Proxy)
	if c.MaxRedirects != nil {
		c2.MaxRedirects = Redirects(*c.MaxRedirects)
	}
	return c2
}

// Validate reports whether status counts as success under c.
func (c *Config) Validate(status int) bool {
	if c.ValidateStatus == nil {
		return DefaultValidateStatus(status)
	}
	return c.ValidateStatus(status)
}

func cloneAuth(a *Auth) *Auth {
	if a == nil {
		return nil
	}
	a2 := *a
	return &a2
}

func cloneProxy(p *Proxy) *Proxy {
	if p == nil {
		return nil
	}
	p2 := *p
	p2.Auth = cloneAuth(p.Auth)
	return &p2
}
