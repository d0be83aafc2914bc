// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"fmt"
	"io"
	urlpkg "net/url"
)

const (
	jsonContentType = "application/json"
	formContentType = "application/x-www-form-urlencoded"
)

// BodyBytes converts a generic body parameter to a byte slice for use
// as a request plan body.
//
// The conversion logic is:
//
// • If body is nil, a nil byte slice and no error is returned.
//
// • If body is a []byte, a copy of body is returned, so later changes
// by the caller do not leak into a recorded request.
//
// • If body is a string, the built-in conversion from string to byte
// slice is returned.
//
// • If body is an io.Reader or io.ReadCloser, the whole contents of the
// reader are read (and the reader is closed if it implements Closer).
//
// • If body is a url.Values, its URL encoding is returned.
//
// • Any other value is encoded as JSON. If encoding fails, a nil byte
// slice and the encoding error are returned.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return append([]byte(nil), x...), nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	case urlpkg.Values:
		return []byte(x.Encode()), nil
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("reqtrack/request: encoding body: %w", err)
		}
		return b, nil
	}
}

// ContentType returns the Content-Type implied by a body value, or the
// empty string if the body type implies none (nil, strings, bytes and
// readers are sent as given).
func ContentType(body interface{}) string {
	switch body.(type) {
	case nil, string, []byte, io.Reader:
		return ""
	case urlpkg.Values:
		return formContentType
	default:
		return jsonContentType
	}
}
