// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"context"
	"errors"
	"syscall"

	"github.com/gogama/reqtrack/request"
)

// A Class is the failure class of an error, as reported by Classify.
type Class int

const (
	// None is the class of a nil error.
	None Class = iota
	// Status indicates a response was received but its status code
	// failed validation. The error carries the response, which can be
	// retrieved with request.ResponseOf.
	//
	// Classify returns Status before looking at any other cause, since
	// an error carrying a response is an HTTP-level failure, not a
	// network-level one.
	Status
	// Timeout indicates a client-side timeout, either the configured
	// request timeout or a deadline on the caller's context.
	//
	// Classify returns Timeout if the error or any of its wrapped
	// causes has a Timeout() function that reports true. This includes
	// context.DeadlineExceeded.
	Timeout
	// Canceled indicates the caller's context was canceled.
	Canceled
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED.
	ConnRefused
	// ConnReset indicates the remote host returned an RST packet on a
	// previously active TCP connection, and corresponds to the POSIX
	// error code ECONNRESET.
	ConnReset
	// Other is the class of every non-nil error not covered above, for
	// example DNS failures, TLS errors, or interceptor errors.
	Other
	// classSentinel provides the total number of classes.
	classSentinel
)

var classNames = []string{
	"None",
	"Status",
	"Timeout",
	"Canceled",
	"ConnRefused",
	"ConnReset",
	"Other",
}

// Classes returns all failure classes in declaration order.
func Classes() []Class {
	cs := make([]Class, int(classSentinel))
	for i := range cs {
		cs[i] = Class(i)
	}
	return cs
}

// Name returns the name of the class.
func (c Class) Name() string {
	return classNames[int(c)]
}

// String returns the name of the class.
func (c Class) String() string {
	return c.Name()
}

// Classify returns the failure class of err. Classify looks at wrapped
// cause errors within err, not just err itself.
func Classify(err error) Class {
	if err == nil {
		return None
	}

	if request.ResponseOf(err) != nil {
		return Status
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Other
}

type hasTimeout interface {
	Timeout() bool
}
