package csmt

import "github.com/eth2030/csmt/field"

// pad is the sentinel side-node value marking "no real sibling beyond this
// point" in a fixed-length, depth-padded side-node array. It must never
// collide with a genuine digest; we reserve the 32-byte all-ones value reduced
// into the field, which Poseidon (and any other algebraic hash operating on reduced field
// elements near the BN254 modulus) does not produce from reducing a tag+two
// children the way node digests are constructed, since every real digest is
// itself a fresh Poseidon output rather than a hand-picked constant.
var pad = func() field.Element {
	b := make([]byte, 32)
	for i := range b {
		b[i] = 0xff
	}
	return field.FromBytes(b)
}()

// Proof is a membership/non-membership witness for a single path against a
// committed root (§4.C).
type Proof struct {
	// SideNodes is depth-length, root-nearest first, PAD-padded beyond the
	// real walk length.
	SideNodes []field.Element
	// NonMembershipLeafData is the occupant leaf triple found at the walk's
	// terminal position when it does not match the queried path, or the
	// empty triple if the terminal position was unoccupied or did match.
	NonMembershipLeafData Triple
	// SiblingData is the triple of the deepest sibling observed during the
	// walk, populated only for updatable proofs (empty otherwise).
	SiblingData Triple
	// Root is the root this proof was generated against.
	Root field.Element
}

// CompactProof is the wire-efficient encoding of a Proof, per §4.C/§6's
// compact codec: NumSideNodes is the real walk depth L (the PAD-padded tail
// past L is dropped entirely, implicitly, since nothing beyond L is ever
// addressed by the bit mask); BitMask then spans only positions 0..L-1 and
// has bit i set iff the i-th real side node was itself a placeholder, so
// SideNodes holds exactly the non-placeholder entries among those L, in
// order.
type CompactProof struct {
	SideNodes             []field.Element
	NonMembershipLeafData Triple
	SiblingData           Triple
	Root                  field.Element
	BitMask               []byte
	NumSideNodes          int
}

// Compact encodes p against placeholder (the hasher's empty-subtree digest):
// it first drops the PAD tail past the real walk depth L, then further drops
// every placeholder-valued entry among the remaining L, recording which
// positions those were in BitMask so Decompact can reinsert them.
func Compact(p Proof, placeholder field.Element) CompactProof {
	l := effectiveLength(p.SideNodes)
	mask := make([]byte, (l+7)/8)
	real := make([]field.Element, 0, l)
	for i := 0; i < l; i++ {
		s := p.SideNodes[i]
		if s.Equal(placeholder) {
			mask[i/8] |= 1 << uint(i%8)
			continue
		}
		real = append(real, s)
	}
	return CompactProof{
		SideNodes:             real,
		NonMembershipLeafData: p.NonMembershipLeafData,
		SiblingData:           p.SiblingData,
		Root:                  p.Root,
		BitMask:               mask,
		NumSideNodes:          l,
	}
}

// Decompact expands a CompactProof back to a full depth-length, PAD-padded
// Proof. depth must match the depth the proof was generated under, and
// placeholder must match the hasher's empty-subtree digest used to Compact
// it.
func Decompact(cp CompactProof, depth int, placeholder field.Element) (Proof, error) {
	if cp.NumSideNodes < 0 || cp.NumSideNodes > depth {
		return Proof{}, &BadProofError{Reason: "NumSideNodes out of range for depth"}
	}
	if len(cp.BitMask) < (cp.NumSideNodes+7)/8 {
		return Proof{}, &BadProofError{Reason: "bit mask too short for NumSideNodes"}
	}
	full := make([]field.Element, depth)
	real := 0
	for i := 0; i < cp.NumSideNodes; i++ {
		byteIdx, bitIdx := i/8, uint(i%8)
		if cp.BitMask[byteIdx]&(1<<bitIdx) != 0 {
			full[i] = placeholder
			continue
		}
		if real >= len(cp.SideNodes) {
			return Proof{}, &BadProofError{Reason: "bit mask references more entries than provided"}
		}
		full[i] = cp.SideNodes[real]
		real++
	}
	if real != len(cp.SideNodes) {
		return Proof{}, &BadProofError{Reason: "side node count does not match NumSideNodes and bit mask"}
	}
	for i := cp.NumSideNodes; i < depth; i++ {
		full[i] = pad
	}
	return Proof{
		SideNodes:             full,
		NonMembershipLeafData: cp.NonMembershipLeafData,
		SiblingData:           cp.SiblingData,
		Root:                  cp.Root,
	}, nil
}

// Pad returns the sentinel side-node value used to pad a Proof's SideNodes
// array beyond its real walk length. Exported so collaborators outside this
// package (the circuit verifier) can recognize padding without duplicating
// the sentinel's definition.
func Pad() field.Element { return pad }

// IsPad reports whether e is the PAD sentinel.
func IsPad(e field.Element) bool { return e.Equal(pad) }

// effectiveLength returns the number of leading non-PAD entries in
// sideNodes, i.e. the real walk depth the proof was built from.
func effectiveLength(sideNodes []field.Element) int {
	n := 0
	for _, s := range sideNodes {
		if s.Equal(pad) {
			break
		}
		n++
	}
	return n
}
