// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hal

import "errors"

// Sentinel errors re-exported to callers of this package.
var (
	// ErrDeviceLost is returned when the backend's device can no longer
	// accept work. device.Manager.EnsureProgram also wraps every
	// CompileProgram failure in it.
	ErrDeviceLost = errors.New("hal: device lost")

	// ErrOutOfMemory is returned when a buffer allocation cannot be
	// satisfied.
	ErrOutOfMemory = errors.New("hal: device out of memory")

	// ErrNoBackends is returned by RequestBackend when no backend has been
	// registered (the caller forgot a blank import of hal/software or
	// hal/noop).
	ErrNoBackends = errors.New("hal: no backends registered (import a backend package)")

	// ErrNoMatch is returned by RequestBackend when backends are registered
	// but none matches the requested BackendKind.
	ErrNoMatch = errors.New("hal: no backend matches the requested kind")
)
