// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/gogama/reqtrack/failure"
	"github.com/gogama/reqtrack/request"
)

// TimestampFormat is the ISO-8601 layout used when an entry is encoded
// as JSON.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// An Entry records one completed dispatch.
//
// A successful entry has a non-nil Response, a nil Err, and a
// non-negative Duration. A failed entry has a non-nil Err; its Response
// is set only when the error carried one (an HTTP status failure), and
// its Duration is always zero.
//
// Entries are snapshots: none of their fields alias values the caller
// or the transport may still change. Treat them as read-only.
type Entry struct {
	// ID uniquely identifies the entry.
	ID string

	// Method is the HTTP method of the dispatch, upper case.
	Method string

	// URL is the URL exactly as the caller gave it, before any base URL
	// was applied.
	URL string

	// Body is the encoded request body the caller supplied, or nil.
	Body []byte

	// Config is the per-call override the caller supplied, or nil.
	Config *request.Config

	// Response is the response returned to the caller on success, or
	// the response carried by the error on an HTTP status failure.
	Response *request.Response

	// Err is the error returned to the caller, or nil on success.
	Err error

	// Duration is the time from the start of the dispatch until the
	// response was available. It is zero for failed entries.
	Duration time.Duration

	// Timestamp is the time the entry was recorded.
	Timestamp time.Time
}

// NewSuccess builds a successful entry. The body, config and response
// are copied.
func NewSuccess(method, url string, body []byte, cfg *request.Config, resp *request.Response, d time.Duration, ts time.Time) Entry {
	if d < 0 {
		d = 0
	}
	return Entry{
		ID:        uuid.NewString(),
		Method:    method,
		URL:       url,
		Body:      cloneBytes(body),
		Config:    cloneConfig(cfg),
		Response:  resp.Clone(),
		Duration:  d,
		Timestamp: ts,
	}
}

// NewFailure builds a failed entry. If err carries a response, a copy
// of it is recorded as the entry's Response.
func NewFailure(method, url string, body []byte, cfg *request.Config, err error, ts time.Time) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Method:    method,
		URL:       url,
		Body:      cloneBytes(body),
		Config:    cloneConfig(cfg),
		Response:  request.ResponseOf(err).Clone(),
		Err:       err,
		Timestamp: ts,
	}
}

// Succeeded reports whether the dispatch succeeded.
func (e *Entry) Succeeded() bool {
	return e.Err == nil
}

// Failed reports whether the dispatch failed.
func (e *Entry) Failed() bool {
	return e.Err != nil
}

// Captured returns what a failed dispatch captured: the response the
// error carried if there is one, otherwise the raw error. It returns
// nil for a successful entry.
func (e *Entry) Captured() interface{} {
	if e.Err == nil {
		return nil
	}
	if e.Response != nil {
		return e.Response
	}
	return e.Err
}

// Kind returns the failure class of the entry's error. Successful
// entries are failure.None.
func (e *Entry) Kind() failure.Class {
	return failure.Classify(e.Err)
}

// DurationMillis returns Duration in whole milliseconds.
func (e *Entry) DurationMillis() int64 {
	return e.Duration.Milliseconds()
}

type jsonResponse struct {
	Status     int         `json:"status"`
	StatusText string      `json:"statusText,omitempty"`
	Header     interface{} `json:"headers,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

type jsonEntry struct {
	ID         string          `json:"id"`
	Method     string          `json:"method"`
	URL        string          `json:"url"`
	Body       json.RawMessage `json:"data,omitempty"`
	RawBody    string          `json:"rawData,omitempty"`
	Response   *jsonResponse   `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
	Kind       string          `json:"kind,omitempty"`
	DurationMs *int64          `json:"durationMs,omitempty"`
	Timestamp  string          `json:"timestamp"`
}

// MarshalJSON encodes the entry with an ISO-8601 timestamp. Successful
// entries carry durationMs; failed entries carry error and kind
// instead. A JSON request body is embedded as is, any other body as a
// string.
func (e Entry) MarshalJSON() ([]byte, error) {
	j := jsonEntry{
		ID:        e.ID,
		Method:    e.Method,
		URL:       e.URL,
		Timestamp: e.Timestamp.UTC().Format(TimestampFormat),
	}
	if len(e.Body) > 0 {
		if json.Valid(e.Body) {
			j.Body = json.RawMessage(e.Body)
		} else {
			j.RawBody = string(e.Body)
		}
	}
	if e.Response != nil {
		j.Response = &jsonResponse{
			Status:     e.Response.Status,
			StatusText: e.Response.StatusText,
			Data:       e.Response.Data,
		}
		if len(e.Response.Header) > 0 {
			j.Response.Header = e.Response.Header
		}
	}
	if e.Err != nil {
		j.Error = e.Err.Error()
		j.Kind = e.Kind().String()
	} else {
		ms := e.DurationMillis()
		j.DurationMs = &ms
	}
	return json.Marshal(j)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func cloneConfig(cfg *request.Config) *request.Config {
	if cfg == nil {
		return nil
	}
	c := cfg.Clone()
	return &c
}
