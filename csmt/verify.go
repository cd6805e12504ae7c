package csmt

import "github.com/eth2030/csmt/field"

// Update is one (hash -> triple) pair recomputed while verifying or
// replaying a proof, in the order they were produced (leaf first, root
// last). proveUpdatable-style callers stage these directly as the new
// node set after a verified update.
type Update struct {
	Hash   field.Element
	Triple Triple
}

// Verify is the host verifier (§4.D): it recomputes a root from proof and
// the claimed path/value, and reports whether it matches proof.Root. For a
// membership claim, pass the claimed valueFields and membership=true. For a
// non-membership claim, pass membership=false; valueFields is ignored.
//
// It also returns every (hash, triple) pair it derived along the way, in
// leaf-to-root order, so callers building an updatable proof flow can stage
// them directly rather than re-deriving the same digests.
func Verify(h Hasher, proof Proof, pathFields []field.Element, valueFields []field.Element, membership bool) (bool, []Update, error) {
	depth := h.Depth()
	if len(proof.SideNodes) != depth {
		return false, nil, &BadProofError{Reason: "side node array length does not match tree depth"}
	}
	path := h.Path(pathFields)
	bits := PathBits(path, depth)

	var cur field.Element
	updates := make([]Update, 0, depth+1)

	if membership {
		vh := h.Digest(valueFields)
		hash, triple := h.DigestLeaf(path, vh)
		cur = hash
		updates = append(updates, Update{Hash: hash, Triple: triple})
	} else {
		if proof.NonMembershipLeafData.IsEmpty() {
			cur = h.Placeholder()
		} else {
			if proof.NonMembershipLeafData.Tag != LeafTag {
				return false, nil, &BadProofError{Reason: "non-membership leaf data is not a leaf triple"}
			}
			occPath, occValueDigest := ParseLeaf(proof.NonMembershipLeafData)
			if occPath.Equal(path) {
				return false, nil, &BadProofError{Reason: "non-membership leaf data occupies the queried path"}
			}
			hash, triple := h.DigestLeaf(occPath, occValueDigest)
			cur = hash
			updates = append(updates, Update{Hash: hash, Triple: triple})
		}
	}

	l := effectiveLength(proof.SideNodes)
	for i := 0; i < l; i++ {
		k := l - 1 - i
		bit := bits[k]
		sib := proof.SideNodes[k]
		var hash field.Element
		var triple Triple
		if bit {
			hash, triple = h.DigestNode(sib, cur)
		} else {
			hash, triple = h.DigestNode(cur, sib)
		}
		updates = append(updates, Update{Hash: hash, Triple: triple})
		cur = hash
	}

	return cur.Equal(proof.Root), updates, nil
}
