package rc

import "errors"

// Sentinel errors returned by handle constructors and promotions.
var (
	// ErrAllocationFailure is returned when a memory provider cannot supply
	// storage for a control block or a combined allocation. The constructor
	// has already run the destroy policy on the caller's object.
	ErrAllocationFailure = errors.New("rc: allocation failure")

	// ErrExpired is returned when promoting a weak reference whose object
	// has already been destroyed, or when asking an object for a handle to
	// itself before any Shared handle owns it.
	ErrExpired = errors.New("rc: expired reference")
)
