package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: entity does not exist in the store
//   - ErrConflict: a uniqueness or occupancy constraint was hit
//   - ErrRetry: the store detected a serialization race; the enclosing
//     transaction must be retried with a fresh read
//   - ErrInvalidState: entity in the wrong state for the requested operation
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRetry        = errors.New("serialization retry")
	ErrInvalidState = errors.New("invalid state")
)
