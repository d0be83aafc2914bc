// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package failure classifies the errors recorded for failed dispatches.
// The classification is purely observational: it feeds history queries
// and log fields, and never changes which error a caller receives.
package failure
