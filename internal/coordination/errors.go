// Package coordination implements the clinical resource and order
// coordination core: bed allocation, admission lifecycle, order claiming
// and patient transfers.  Every operation takes an explicit Actor and runs
// as a single database transaction; no state is held between calls and
// correctness comes entirely from row locks and conditional updates
// against the shared store.
package coordination

import "errors"

// ErrValidation indicates malformed input (bad time format, missing
// required field).  Rejected before any write.
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized indicates the actor lacks the ownership required for
// the operation, e.g. declaring death on another doctor's admission.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidState indicates the entity is not in the state the operation
// requires.  Rejected before any write.
var ErrInvalidState = errors.New("invalid state")

// ErrNoBedAvailable indicates allocation found no matching free bed.  The
// transaction is rolled back; no partial allocation is ever visible.
var ErrNoBedAvailable = errors.New("no bed available")

// ErrAlreadyClaimed is the losing outcome of a claim race: the
// conditional update affected zero rows.  The caller is not told who won
// and must re-read to find out.  Expected under concurrency, safe to
// surface to the human actor.
var ErrAlreadyClaimed = errors.New("order already claimed")

// ErrNotClaimant indicates the caller tried to release or complete an
// order they do not hold.
var ErrNotClaimant = errors.New("caller does not hold the claim")

// ErrInvalidOrder indicates a transfer was attempted against an order
// that is closed, untagged, or belongs to a different admission.
var ErrInvalidOrder = errors.New("invalid transfer order")
