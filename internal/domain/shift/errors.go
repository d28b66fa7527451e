package shift

import "errors"

// Shift domain errors
var (
	// ErrNoShiftConfigured means neither an active assignment nor a default
	// shift exists. Callers treat this as a configuration error and fall back
	// to FallbackConfig rather than failing the operation.
	ErrNoShiftConfigured = errors.New("no shift configured for user and no default shift exists")

	ErrShiftNotFound      = errors.New("shift not found")
	ErrAssignmentNotFound = errors.New("shift assignment not found")
	ErrShiftInactive      = errors.New("shift is not active")
)
