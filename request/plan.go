// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const (
	nilCtxMsg = "reqtrack/request: nil context"
)

var (
	// ErrEmptyURL is returned when a plan is created without a URL.
	ErrEmptyURL = errors.New("reqtrack/request: empty url")
)

// A Plan is one outgoing request: the method and URL the caller asked
// for, the pre-encoded body, and the effective configuration computed
// for this call.
//
// Request interceptors receive the Plan before it is handed to the
// transport and may return a modified copy. The URL stays exactly as
// the caller gave it; it is resolved against Config.BaseURL only when
// the plan is converted into an http.Request.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL is the request URL as given by the caller. It may be relative
	// to Config.BaseURL or absolute.
	URL string

	// Body is the pre-buffered request body to be sent. A nil or empty
	// body indicates no request body should be sent, for example on a
	// GET or DELETE request.
	Body []byte

	// Config is the effective configuration for this request: the
	// tracker defaults with the per-call override merged on top.
	Config Config
}

// NewPlan returns a new Plan given a method, URL, optional body, and
// the effective configuration.
//
// Parameter body may be nil (empty body), a string, []byte, io.Reader,
// io.ReadCloser, url.Values, or any value that encodes as JSON. See
// BodyBytes for the conversion rules. If the body needs a Content-Type
// (JSON or form values) and cfg has none, one is added.
//
// The returned plan owns a deep copy of cfg, with a non-nil Header.
func NewPlan(method, url string, body interface{}, cfg Config) (*Plan, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("reqtrack/request: invalid method %q", method)
	}
	if url == "" {
		return nil, ErrEmptyURL
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	p := &Plan{
		Method: strings.ToUpper(method),
		URL:    url,
		Body:   b,
		Config: cfg.Clone(),
	}
	if p.Config.Header == nil {
		p.Config.Header = make(http.Header)
	}
	if ct := ContentType(body); ct != "" && p.Config.Header.Get("Content-Type") == "" {
		p.Config.Header.Set("Content-Type", ct)
	}
	return p, nil
}

// Clone returns a deep copy of p.
func (p *Plan) Clone() *Plan {
	p2 := new(Plan)
	*p2 = *p
	if p.Body != nil {
		p2.Body = append([]byte(nil), p.Body...)
	}
	p2.Config = p.Config.Clone()
	return p2
}

// ResolveURL returns the absolute URL the plan will be sent to.
//
// If URL is absolute, or Config.BaseURL is empty, URL is parsed as is.
// Otherwise the base URL, with any trailing slashes removed, is joined
// to URL, with any leading slashes removed, by a single slash.
func (p *Plan) ResolveURL() (*urlpkg.URL, error) {
	raw := p.URL
	if p.Config.BaseURL != "" && !isAbsoluteURL(raw) {
		raw = strings.TrimRight(p.Config.BaseURL, "/") + "/" + strings.TrimLeft(raw, "/")
	}
	return urlpkg.Parse(raw)
}

// ToRequest creates an HTTP request corresponding to the plan. The
// context of the new request is set to ctx, which may not be nil.
//
// The request headers are a copy of the plan's headers; Config.Auth,
// if set, is applied as HTTP Basic authentication.
func (p *Plan) ToRequest(ctx context.Context) (*http.Request, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	u, err := p.ResolveURL()
	if err != nil {
		return nil, err
	}
	for k := range p.Config.Header {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, fmt.Errorf("reqtrack/request: invalid header field name %q", k)
		}
	}
	var body io.Reader
	if len(p.Body) > 0 {
		body = bytes.NewReader(p.Body)
	}
	r, err := http.NewRequestWithContext(ctx, p.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if p.Config.Header != nil {
		r.Header = p.Config.Header.Clone()
	}
	if a := p.Config.Auth; a != nil {
		r.Header.Set("Authorization", "Basic "+basicAuth(a.Username, a.Password))
	}
	return r, nil
}

// isAbsoluteURL mirrors the usual client rule: a scheme followed by
// "//", or a protocol-relative "//" prefix.
func isAbsoluteURL(s string) bool {
	if strings.HasPrefix(s, "//") {
		return true
	}
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

func validMethod(method string) bool {
	/*
	     Method         = "OPTIONS"                ; Section 9.2
	                    | "GET"                    ; Section 9.3
	                    | "HEAD"                   ; Section 9.4
	                    | "POST"                   ; Section 9.5
	                    | "PUT"                    ; Section 9.6
	                    | "DELETE"                 ; Section 9.7
	                    | "TRACE"                  ; Section 9.8
	                    | "CONNECT"                ; Section 9.9
	                    | extension-method
	   extension-method = token
	     token          = 1*<any CHAR except CTLs or separators>
	*/
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}
