// Package csmt implements the compact sparse Merkle tree: an authenticated
// key-value map over a prime field whose root is a single algebraic hash and
// whose membership/non-membership proofs are small enough, and built from
// few enough primitive operations, to verify inside a SNARK circuit.
package csmt

import "github.com/eth2030/csmt/field"

// Tag identifies the kind of node a stored (tag, a, b) triple represents.
// Tags are themselves hashed as the first input to every node digest, so a
// leaf and an inner node can never collide even if their other two fields
// happen to coincide.
type Tag uint8

const (
	// EmptyTag is never actually hashed (the empty subtree's digest is the
	// field's zero element, the Placeholder), but is reserved here so no
	// other tag may reuse the value 0.
	EmptyTag Tag = 0
	// LeafTag marks a (path, valueDigest) pair.
	LeafTag Tag = 1
	// InnerTag marks a (left, right) child-hash pair.
	InnerTag Tag = 2
)

// Triple is the canonical pre-image of a node's hash: a tag plus two field
// elements whose meaning depends on the tag (path/valueDigest for a leaf,
// left/right child hash for an inner node).
type Triple struct {
	Tag Tag
	A   field.Element
	B   field.Element
}

// IsEmpty reports whether t is the zero-value "no node" triple, used for the
// proof fields that are optional depending on the case (non-membership leaf
// data, sibling data).
func (t Triple) IsEmpty() bool {
	return t.Tag == EmptyTag
}

// emptyTriple is the canonical placeholder triple, carried in proofs where a
// field is not applicable rather than using a pointer/bool pair.
var emptyTriple = Triple{}
