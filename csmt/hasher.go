package csmt

import (
	"github.com/eth2030/csmt/field"
	"github.com/eth2030/csmt/poseidon"
)

// Hasher is the TreeHasher collaborator: it derives a key's path, digests
// leaf and inner node triples, and parses stored triples back apart. The
// tree engine depends only on this interface, never on poseidon directly, so
// a caller may supply any algebraic hash that honors the same domain
// separation (distinct tags for leaf vs. inner digests).
type Hasher interface {
	// Path reduces a key's field-element encoding to a single path value.
	// The result is not reduced into [0, 2^Depth); Tree.Update rejects a
	// path that does not fit with *OutOfRangeError.
	Path(keyFields []field.Element) field.Element
	// Digest reduces a value's field-element encoding to a single digest,
	// the second half of a leaf's pre-image.
	Digest(valueFields []field.Element) field.Element
	// DigestLeaf returns the hash and canonical triple for a leaf holding
	// the given path and value digest.
	DigestLeaf(path, valueDigest field.Element) (field.Element, Triple)
	// DigestNode returns the hash and canonical triple for an inner node
	// with the given left and right children.
	DigestNode(left, right field.Element) (field.Element, Triple)
	// Placeholder is the canonical digest of an empty subtree.
	Placeholder() field.Element
	// Depth is the fixed path bit-width this hasher's Path values decompose
	// to.
	Depth() int
}

// PoseidonHasher is the default Hasher, built on the package's width-3
// Poseidon permutation.
type PoseidonHasher struct {
	params *poseidon.Params
	depth  int
}

// NewPoseidonHasher builds a Hasher with the given path bit-width. depth
// must be in (0, field.Bits].
func NewPoseidonHasher(depth int) *PoseidonHasher {
	if depth <= 0 || depth > field.Bits {
		panic("csmt: invalid hasher depth")
	}
	return &PoseidonHasher{params: poseidon.Default(), depth: depth}
}

func (h *PoseidonHasher) Depth() int { return h.depth }

func (h *PoseidonHasher) Placeholder() field.Element { return field.Zero() }

// reduceFields folds an arbitrary-length field-element slice down to one
// element via a single Poseidon permutation pass per chunk, absorbing two
// elements (lanes 1 and 2 of the width-3 state) per step and carrying the
// first lane forward as the running digest. A nil/empty slice digests to the zero
// element, matching an empty key or value's canonical pre-image.
func (h *PoseidonHasher) reduceFields(fields []field.Element) field.Element {
	if len(fields) == 0 {
		return field.Zero()
	}
	state := [poseidon.Width]field.Element{}
	acc := field.Zero()
	for i := 0; i < len(fields); i += poseidon.Width - 1 {
		state[0] = acc
		for j := 1; j < poseidon.Width; j++ {
			idx := i + j - 1
			if idx < len(fields) {
				state[j] = fields[idx]
			} else {
				state[j] = field.Zero()
			}
		}
		state = h.params.Permute(state)
		acc = state[0]
	}
	return acc
}

// Path implements §3's special case: a key that reduces to exactly one
// field element uses that element as its path directly, with no hashing
// step; any other shape is folded through reduceFields, same as Digest.
func (h *PoseidonHasher) Path(keyFields []field.Element) field.Element {
	if len(keyFields) == 1 {
		return keyFields[0]
	}
	return h.reduceFields(keyFields)
}

func (h *PoseidonHasher) Digest(valueFields []field.Element) field.Element {
	return h.reduceFields(valueFields)
}

func (h *PoseidonHasher) DigestLeaf(path, valueDigest field.Element) (field.Element, Triple) {
	t := Triple{Tag: LeafTag, A: path, B: valueDigest}
	state := [poseidon.Width]field.Element{field.FromUint64(uint64(LeafTag)), path, valueDigest}
	state = h.params.Permute(state)
	return state[0], t
}

func (h *PoseidonHasher) DigestNode(left, right field.Element) (field.Element, Triple) {
	t := Triple{Tag: InnerTag, A: left, B: right}
	state := [poseidon.Width]field.Element{field.FromUint64(uint64(InnerTag)), left, right}
	state = h.params.Permute(state)
	return state[0], t
}

// ParseLeaf extracts the path and value digest from a leaf triple. Callers
// must check t.Tag == LeafTag first.
func ParseLeaf(t Triple) (path, valueDigest field.Element) {
	return t.A, t.B
}

// ParseInner extracts the child hashes from an inner triple. Callers must
// check t.Tag == InnerTag first.
func ParseInner(t Triple) (left, right field.Element) {
	return t.A, t.B
}

// PathBits decomposes path into exactly depth bits, root-nearest first:
// bits[0] is the bit consulted when descending from the root, bits[depth-1]
// is consulted immediately above the leaf. This is the single fixed
// convention every side-node array and path-bit reference in this package
// uses; see DESIGN.md for why it differs from the bit[]-numbering prose used
// to introduce the idea.
func PathBits(path field.Element, depth int) []bool {
	bits := make([]bool, depth)
	for i := 0; i < depth; i++ {
		// bits[0] must be the MSB of the depth-bit window, i.e. bit index
		// depth-1-0 = depth-1 of the canonical representation.
		bits[i] = path.Bit(depth-1-i) == 1
	}
	return bits
}
