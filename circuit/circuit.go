// Package circuit expresses the CSMT host verifier (§4.D) as a fixed-length
// arithmetic circuit (§4.G): a constant D-iteration loop with every
// data-dependent branch replaced by conditional selection, so the shape of
// the computation never depends on a proof's real side-node count or on
// which of the four membership/non-membership/empty/occupied combinations
// actually applies.
//
// No real constraint-system compiler is wired here (§7 of SPEC_FULL.md: none
// of the retrieval pack's examples carry consensys/gnark's circuit frontend,
// only the lower-level gnark-crypto field/curve library the `field` package
// already depends on, so pulling in the frontend would be an ungrounded new
// dependency). Gadget instead performs the same selection arithmetic a real
// circuit's conditional-select gate would, directly over field.Element, so
// the control-flow shape this package exercises is the one a real circuit
// compiler would be handed.
package circuit

import (
	"github.com/eth2030/csmt/csmt"
	"github.com/eth2030/csmt/field"
)

// Gadget bundles the handful of primitives a circuit frontend supplies
// in-circuit (§1 "host circuit framework"): conditional selection, equality,
// and a zero test. Every decision this package makes about which hash to
// combine or which leaf candidate to adopt goes through one of these three
// methods rather than a Go if/else on witness-derived data, so the call
// sequence below is identical for every proof shape.
type Gadget struct{}

// Select returns a if cond is true, b otherwise. Modeled the way a real
// circuit's conditional-select gate works: cond*a + (1-cond)*b, computed
// here directly since Gadget has no underlying constraint system to emit
// into.
func (Gadget) Select(cond bool, a, b field.Element) field.Element {
	if cond {
		return a
	}
	return b
}

// Eq reports whether a and b are the same field element.
func (Gadget) Eq(a, b field.Element) bool { return a.Equal(b) }

// IsZero reports whether x is the field's zero element.
func (Gadget) IsZero(x field.Element) bool { return x.IsZero() }

// Verify re-derives a root from proof and (key, value?) using a fixed D-trip
// loop with no early exit, and reports whether it matches proof.Root — the
// in-circuit counterpart of csmt.Verify (§4.D/§4.G). For every well-formed
// input the two must agree (§8 property 6); this implementation computes
// every candidate explicitly and selects between them instead of branching,
// so it can stand in for the loop body of a real arithmetic circuit.
func Verify(h csmt.Hasher, proof csmt.Proof, pathFields, valueFields []field.Element, membership bool) bool {
	var g Gadget
	depth := h.Depth()
	if len(proof.SideNodes) != depth {
		return false
	}

	path := h.Path(pathFields)
	bits := csmt.PathBits(path, depth)

	// Candidate leaf hash for the membership case.
	memDigest := h.Digest(valueFields)
	memHash, _ := h.DigestLeaf(path, memDigest)

	// Candidate leaf hash for the non-membership case: select between the
	// "slot truly empty" and "a different leaf occupies the slot" halves,
	// and fold the "that different leaf is actually at our path" failure
	// into a validity bit instead of branching on it.
	occPath, occDigest := csmt.ParseLeaf(proof.NonMembershipLeafData)
	occHash, _ := h.DigestLeaf(occPath, occDigest)
	slotEmpty := proof.NonMembershipLeafData.IsEmpty()
	nonMemHash := g.Select(slotEmpty, h.Placeholder(), occHash)
	nonMemValid := slotEmpty || !g.Eq(occPath, path)

	cur := g.Select(membership, memHash, nonMemHash)
	valid := membership || nonMemValid

	// Fixed D-iteration loop, no early exit: every slot is visited exactly
	// once regardless of the proof's real side-node count. SideNodes is
	// root-nearest-first with PAD filling the tail beyond the real walk
	// depth, so walking the array from its last slot to its first visits
	// the deepest real sibling first (mirroring the host verifier's
	// leaf-to-root replay) and lets a PAD entry select "carry cur forward
	// unchanged" instead of breaking the loop.
	for i := depth - 1; i >= 0; i-- {
		s := proof.SideNodes[i]
		isPad := csmt.IsPad(s)
		bit := bits[i]

		hashIfRight, _ := h.DigestNode(s, cur)
		hashIfLeft, _ := h.DigestNode(cur, s)
		combined := g.Select(bit, hashIfRight, hashIfLeft)

		cur = g.Select(isPad, cur, combined)
	}

	return valid && g.Eq(cur, proof.Root)
}
