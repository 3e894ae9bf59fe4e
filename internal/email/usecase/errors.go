package usecase

import "errors"

var (
	// ErrUnavailable signals that the record store or a generation provider
	// could not be reached. Callers surface it as service-unavailable.
	ErrUnavailable = errors.New("dependency unavailable")

	// ErrNotFound marks an absent record. A normal outcome, not a failure.
	ErrNotFound = errors.New("record not found")

	// ErrDigestSchema marks categorizer output that failed schema validation.
	// Distinct from ErrUnavailable so the caller can choose to serve stale
	// cached data instead.
	ErrDigestSchema = errors.New("digest output failed schema validation")
)
