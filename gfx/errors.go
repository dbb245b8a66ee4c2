// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "errors"

// Error classes for every fallible GPU operation. Callers match them
// with errors.Is; concrete errors wrap one of these with the failing
// call prepended.
var (
	// ErrAllocationFailed covers host or device memory exhaustion.
	// Recoverable by the caller: retry smaller or surface to the user.
	ErrAllocationFailed = errors.New("gfx: allocation failed")

	// ErrInvalidUsage marks a programmer contract violation, such as
	// mapping a non-host-visible buffer or a zero-sized request.
	// Not retriable.
	ErrInvalidUsage = errors.New("gfx: invalid usage")

	// ErrDeviceLost is fatal. It must propagate to the top level and
	// terminate the session.
	ErrDeviceLost = errors.New("gfx: device lost")
)
