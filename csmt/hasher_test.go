package csmt

import (
	"testing"

	"github.com/eth2030/csmt/field"
)

func TestPathSingleFieldKeyBypassesHash(t *testing.T) {
	h := NewPoseidonHasher(254)
	k := field.FromUint64(42)
	if got := h.Path([]field.Element{k}); !got.Equal(k) {
		t.Fatalf("Path of a single-field key = %s, want the key itself %s", got, k)
	}
}

func TestPathMultiFieldKeyHashes(t *testing.T) {
	h := NewPoseidonHasher(254)
	keyFields := []field.Element{field.FromUint64(1), field.FromUint64(2)}
	got := h.Path(keyFields)
	if got.Equal(field.FromUint64(1)) || got.Equal(field.FromUint64(2)) {
		t.Fatalf("multi-field key path must be hashed, got a raw input field %s", got)
	}
}

func TestDigestAlwaysHashesEvenForSingleField(t *testing.T) {
	h := NewPoseidonHasher(254)
	v := field.FromUint64(7)
	got := h.Digest([]field.Element{v})
	if got.Equal(v) {
		t.Fatalf("Digest must hash even a single-field value, got the value unchanged")
	}
}

func TestDigestLeafAndDigestNodeDoNotCollide(t *testing.T) {
	h := NewPoseidonHasher(254)
	a, b := field.FromUint64(1), field.FromUint64(2)
	leafHash, leafTriple := h.DigestLeaf(a, b)
	nodeHash, nodeTriple := h.DigestNode(a, b)
	if leafHash.Equal(nodeHash) {
		t.Fatalf("leaf and inner digests collided for the same (a,b) pair")
	}
	if leafTriple.Tag == nodeTriple.Tag {
		t.Fatalf("leaf and inner triples must carry distinct tags")
	}
}

func TestPathBitsConventionRootNearestFirst(t *testing.T) {
	// 0b1011 = 11, with depth 4: MSB-first means bits[0] is the top bit.
	p := field.FromUint64(0b1011)
	bits := PathBits(p, 4)
	want := []bool{true, false, true, true}
	for i, b := range want {
		if bits[i] != b {
			t.Fatalf("bits[%d] = %v, want %v (full: %v)", i, bits[i], b, bits)
		}
	}
}

func TestParseLeafAndParseInnerRoundTrip(t *testing.T) {
	h := NewPoseidonHasher(254)
	path, vh := field.FromUint64(5), field.FromUint64(6)
	_, leaf := h.DigestLeaf(path, vh)
	gotPath, gotVH := ParseLeaf(leaf)
	if !gotPath.Equal(path) || !gotVH.Equal(vh) {
		t.Fatalf("ParseLeaf round-trip failed: got (%s,%s), want (%s,%s)", gotPath, gotVH, path, vh)
	}

	l, r := field.FromUint64(9), field.FromUint64(10)
	_, inner := h.DigestNode(l, r)
	gotL, gotR := ParseInner(inner)
	if !gotL.Equal(l) || !gotR.Equal(r) {
		t.Fatalf("ParseInner round-trip failed: got (%s,%s), want (%s,%s)", gotL, gotR, l, r)
	}
}
