// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// A Response is the fully-buffered result of sending a Plan.
//
// Response interceptors receive the Response before the caller does
// and may modify it, typically by changing Data.
type Response struct {
	// Status is the HTTP status code, e.g. 200.
	Status int

	// StatusText is the HTTP status line text, e.g. "200 OK".
	StatusText string

	// Header contains the response header fields.
	Header http.Header

	// Body is the complete response body.
	Body []byte

	// Data is the decoded response body. If the response declares a
	// JSON content type and Body is valid JSON, Data holds the decoded
	// value (map[string]interface{}, []interface{}, string, float64,
	// bool or nil). Otherwise it is nil.
	Data interface{}

	// Plan is the plan that produced this response, after request
	// interceptors ran.
	Plan *Plan
}

// NewResponse builds a Response from an HTTP response whose body has
// already been read into body. The JSON body, if any, is decoded into
// Data.
func NewResponse(p *Plan, resp *http.Response, body []byte) *Response {
	r := &Response{
		Status:     resp.StatusCode,
		StatusText: resp.Status,
		Header:     resp.Header,
		Body:       body,
		Plan:       p,
	}
	r.Data = DecodeJSON(resp.Header.Get("Content-Type"), body)
	return r
}

// DecodeJSON decodes body if contentType is a JSON media type and body
// is valid JSON. Otherwise it returns nil.
func DecodeJSON(contentType string, body []byte) interface{} {
	if len(body) == 0 || !isJSONMediaType(contentType) {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}
	return v
}

func isJSONMediaType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == jsonContentType || strings.HasSuffix(mt, "+json")
}

// Clone returns a deep copy of r. JSON-shaped Data (maps, slices and
// scalars as produced by encoding/json) is copied recursively; any
// other Data value is shared.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	r2 := new(Response)
	*r2 = *r
	r2.Header = r.Header.Clone()
	if r.Body != nil {
		r2.Body = append([]byte(nil), r.Body...)
	}
	r2.Data = cloneValue(r.Data)
	if r.Plan != nil {
		r2.Plan = r.Plan.Clone()
	}
	return r2
}

func cloneValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			m[k] = cloneValue(e)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(x))
		for i, e := range x {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// A StatusError is returned when a response was received but its
// status code failed the configured status validation.
type StatusError struct {
	Response *Response
}

// Error describes the failing status code.
func (e *StatusError) Error() string {
	return fmt.Sprintf("reqtrack/request: request failed with status code %d", e.Response.Status)
}

// ErrorResponse returns the response carried by the error.
func (e *StatusError) ErrorResponse() *Response {
	return e.Response
}

// A responseCarrier is an error that embeds the response which caused
// it.
type responseCarrier interface {
	ErrorResponse() *Response
}

// ResponseOf returns the response embedded in err, looking through the
// whole error chain, or nil if there is none. Any error type with an
// ErrorResponse() *Response method qualifies.
func ResponseOf(err error) *Response {
	var rc responseCarrier
	if errors.As(err, &rc) {
		return rc.ErrorResponse()
	}
	return nil
}
