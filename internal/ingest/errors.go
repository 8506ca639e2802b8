package ingest

import "errors"

var (
	// ErrAuthentication means the Guardian credential was rejected or could
	// not be resolved. Fatal for the cycle: nothing can be fetched.
	ErrAuthentication = errors.New("authentication failed")

	// ErrUpstreamUnavailable means the content API was unreachable or
	// returned a non-success response. Fatal for the cycle.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
