// Package sentinel defines infrastructure-level sentinel errors. Stores
// return these (optionally wrapped) so services can translate them into
// domain errors without importing store internals.
package sentinel

import "errors"

// These represent factual states about stored records, not validation
// failures:
//   - ErrNotFound: no record matches the id or code
//   - ErrCodeTaken: a tracking/report code is already assigned
//   - ErrConflict: a uniqueness constraint other than codes was violated
//   - ErrUnavailable: the backing store is temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrCodeTaken   = errors.New("code already taken")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
