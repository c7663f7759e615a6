package flame

import "errors"

// Sentinel errors returned by the engine's public surface: small, named,
// wrapped with %w where a cause exists.
var (
	// ErrInvalidSettings is returned by a Settings setter when the value
	// violates its documented range.
	ErrInvalidSettings = errors.New("flame: invalid settings value")

	// ErrNoMatchingBackend is returned when no registered hal.Backend
	// satisfies a requested BackendKind.
	ErrNoMatchingBackend = errors.New("flame: no backend matches the requested device type")

	// ErrProgramBuild wraps a kernel program compilation failure. The
	// assembled source is logged at slog.Warn before this error is
	// returned; it is not embedded in the error string to keep error
	// messages short.
	ErrProgramBuild = errors.New("flame: program build failed")
)
