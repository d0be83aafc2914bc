// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqtrack

// A Phase identifies the point in a dispatch at which an interceptor
// runs. It is the capability tag of a Registration.
type Phase int

const (
	// RequestPhase identifies interceptors that run before the plan is
	// handed to the transport.
	//
	// When a Tracker runs RequestPhase interceptors, the plan carries
	// the effective configuration for the call. Interceptors may return
	// a modified plan, which is what the transport then sends.
	RequestPhase Phase = iota
	// ResponsePhase identifies interceptors that run after the
	// transport returned a response and before the caller sees it.
	//
	// ResponsePhase interceptors never run when the transport failed,
	// including when the response status failed validation.
	ResponsePhase
	// phaseSentinel provides the total number of phases typed as a
	// Phase.
	phaseSentinel

	// numPhases provides the total number of phases as an int.
	numPhases = int(phaseSentinel)
)

var phaseNames = []string{
	"Request",
	"Response",
}

// Phases returns a slice containing all phases, in the order in which
// they occur during a dispatch.
func Phases() []Phase {
	return []Phase{
		RequestPhase,
		ResponsePhase,
	}
}

// Name returns the name of the phase.
func (ph Phase) Name() string {
	return phaseNames[int(ph)]
}

// String returns the name of the phase.
func (ph Phase) String() string {
	return ph.Name()
}
