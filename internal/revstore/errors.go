package revstore

import "errors"

// Typed outcomes shared by every management facade. Anything a facade returns
// that does not match one of these is a storage failure and is surfaced
// generically by the transport layer.
var (
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not_found")
	ErrInvalidReference = errors.New("invalid_reference")
	ErrAmbiguousMatch   = errors.New("ambiguous_match")
	ErrInvalidAttribute = errors.New("invalid_search_attribute")
	ErrNoStateChange    = errors.New("no_state_change")

	// ErrRevisionCollision marks a lost race on revision allocation. It never
	// leaves the store; WithTx retries the whole transaction on it.
	ErrRevisionCollision = errors.New("revision_collision")
)

// IsOutcome reports whether err is one of the business outcomes a caller is
// expected to branch on.
func IsOutcome(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrAmbiguousMatch),
		errors.Is(err, ErrNoStateChange):
		return true
	default:
		return false
	}
}
