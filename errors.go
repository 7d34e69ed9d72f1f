package orrery

import "errors"

var (
	// ErrInvalidAxis is returned when a rotation is requested about anything but x, y or z.
	ErrInvalidAxis = errors.New("invalid rotation axis")
	// ErrDegenerateOrbit is returned when a sample cannot be placed on the conic.
	ErrDegenerateOrbit = errors.New("degenerate orbit")
	// ErrMissingOrbitalData is returned when neither a usable semi-major axis nor a period is known.
	ErrMissingOrbitalData = errors.New("missing orbital data")
	// ErrMalformedElements is returned for element records lacking a valid a or e.
	ErrMalformedElements = errors.New("malformed orbital elements")
	// ErrUnknownParent is returned when no frame correction exists for a parent body.
	ErrUnknownParent = errors.New("unknown parent body")
	// ErrUnknownBody is returned for catalog lookups of undefined objects.
	ErrUnknownBody = errors.New("unknown body")
)
