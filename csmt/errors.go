package csmt

import (
	"fmt"

	"github.com/eth2030/csmt/field"
)

// KeyNotFoundError is returned by Get when the queried key has no occupant
// leaf. Grounded on the other_examples SMT reference's KeyNotFoundError
// shape, carrying the path that missed.
type KeyNotFoundError struct {
	Path field.Element
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("csmt: key not found: path=%s", e.Path)
}

// KeyExistsError is returned by InsertKV when the string key is already
// occupied. The field-keyed Update has no equivalent: it treats an
// already-occupied path as an overwrite, per §4.E's update/insert case; only
// the KV convenience layer distinguishes insert from update.
type KeyExistsError struct {
	Key string
}

func (e *KeyExistsError) Error() string {
	return fmt.Sprintf("csmt: key already exists: %q", e.Key)
}

// keyAlreadyEmptyError names the case where Delete's target path is already
// unoccupied. Delete treats that case as a documented no-op and never
// returns this error to callers.
type keyAlreadyEmptyError struct {
	Path field.Element
}

func (e *keyAlreadyEmptyError) Error() string {
	return fmt.Sprintf("csmt: key already empty: path=%s", e.Path)
}

// BadProofError is returned by Verify/Decompact when a proof is malformed:
// wrong side-node count, a bit mask inconsistent with NumSideNodes, or a
// non-membership leaf whose parsed path equals the queried path.
type BadProofError struct {
	Reason string
}

func (e *BadProofError) Error() string {
	return fmt.Sprintf("csmt: bad proof: %s", e.Reason)
}

// StorageInconsistentError is returned when the store returns data that
// violates an engine invariant: a referenced node hash has no record, or a
// stored triple's tag does not match what the walk expected.
type StorageInconsistentError struct {
	Hash   field.Element
	Reason string
}

func (e *StorageInconsistentError) Error() string {
	return fmt.Sprintf("csmt: storage inconsistent at %s: %s", e.Hash, e.Reason)
}

// StorageCommitFailedError wraps a failure returned by the store's Commit,
// after the engine has already restored its in-memory root to the
// pre-operation value.
type StorageCommitFailedError struct {
	Err error
}

func (e *StorageCommitFailedError) Error() string {
	return fmt.Sprintf("csmt: storage commit failed: %v", e.Err)
}

func (e *StorageCommitFailedError) Unwrap() error { return e.Err }

// InvalidDepthError is returned by New when its hasher reports a depth
// outside (0, field.Bits]. NewPoseidonHasher itself panics on such a depth.
type InvalidDepthError struct {
	Depth int
}

func (e *InvalidDepthError) Error() string {
	return fmt.Sprintf("csmt: invalid depth %d (must be in (0, %d])", e.Depth, field.Bits)
}

// OutOfRangeError is returned when a caller-supplied path value does not fit
// in the tree's configured depth.
type OutOfRangeError struct {
	Path  field.Element
	Depth int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("csmt: path %s out of range for depth %d", e.Path, e.Depth)
}
