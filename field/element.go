// Package field provides the prime-field arithmetic the CSMT engine and its
// verifiers are built on: a fixed-width scalar field element with equality,
// bit decomposition, and canonical byte encoding.
//
// The field is the BN254 (alt_bn128) scalar field, the same field gnark-style
// SNARK circuits arithmetize over. This mirrors the teacher's own hand-rolled
// base-field arithmetic in crypto/bn254_fp.go, but delegates the actual
// modular arithmetic to gnark-crypto's fr.Element rather than re-deriving it
// on top of math/big.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
)

// Bits is the bit width used for path decomposition and proof side-node
// counts throughout the engine. It equals the bit length of the field
// modulus, so every field element decomposes into exactly Bits bits.
const Bits = 254

// Element is a single value in the BN254 scalar field.
type Element struct {
	inner fr.Element
}

// Zero returns the additive identity, also used as the tree's placeholder
// (the canonical hash of an empty subtree).
func Zero() Element { return Element{} }

// One returns the multiplicative identity.
func One() Element {
	var e Element
	e.inner.SetOne()
	return e
}

// FromUint64 builds an Element from a small unsigned constant. Used for the
// tag constants (LEAF_TAG, INNER_TAG, EMPTY_TAG) and other fixed literals.
func FromUint64(v uint64) Element {
	var e Element
	e.inner.SetUint64(v)
	return e
}

// FromBigInt reduces a big.Int into the field.
func FromBigInt(v *big.Int) Element {
	var e Element
	e.inner.SetBigInt(v)
	return e
}

// FromBytes reduces a big-endian byte string into the field. Used to turn
// arbitrary RLP-encoded chunks into field elements (see ToFieldsDefault).
func FromBytes(b []byte) Element {
	var e Element
	e.inner.SetBytes(b)
	return e
}

// Equal reports whether two elements are the same field value.
func (e Element) Equal(o Element) bool {
	return e.inner.Equal(&o.inner)
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.inner.IsZero()
}

// Add returns e + o.
func (e Element) Add(o Element) Element {
	var r Element
	r.inner.Add(&e.inner, &o.inner)
	return r
}

// Sub returns e - o.
func (e Element) Sub(o Element) Element {
	var r Element
	r.inner.Sub(&e.inner, &o.inner)
	return r
}

// Mul returns e * o.
func (e Element) Mul(o Element) Element {
	var r Element
	r.inner.Mul(&e.inner, &o.inner)
	return r
}

// Square returns e * e.
func (e Element) Square() Element {
	var r Element
	r.inner.Square(&e.inner)
	return r
}

// Exp returns e^k.
func (e Element) Exp(k uint64) Element {
	var r Element
	r.inner.Exp(e.inner, new(big.Int).SetUint64(k))
	return r
}

// Inverse returns e^-1. Panics if e is zero; callers must not invert a
// potentially-zero MDS denominator without checking first.
func (e Element) Inverse() Element {
	var r Element
	if r.inner.Inverse(&e.inner) == nil {
		panic("field: inverse of zero")
	}
	return r
}

// BigInt returns the canonical (non-Montgomery) big.Int representation.
func (e Element) BigInt() *big.Int {
	var b big.Int
	e.inner.BigInt(&b)
	return &b
}

// Bytes32 returns the canonical 32-byte big-endian encoding, using
// holiman/uint256 for the fixed-width round trip.
func (e Element) Bytes32() [32]byte {
	u, overflow := uint256.FromBig(e.BigInt())
	if overflow {
		// e.BigInt() is always < the field modulus, which fits in 256 bits,
		// so this path is unreachable for well-formed elements.
		panic("field: element does not fit in 256 bits")
	}
	return u.Bytes32()
}

// FromBytes32 decodes the canonical 32-byte big-endian encoding produced by
// Bytes32, reducing into the field.
func FromBytes32(b [32]byte) Element {
	u := new(uint256.Int).SetBytes32(b[:])
	return FromBigInt(u.ToBig())
}

// Bit returns the i-th least-significant bit (0 or 1) of the canonical
// representation, used to build MSB-first path decompositions.
func (e Element) Bit(i int) uint {
	return uint(e.BigInt().Bit(i))
}

// String returns a debug representation.
func (e Element) String() string {
	return fmt.Sprintf("0x%s", e.BigInt().Text(16))
}

// Modulus returns the field modulus, exposed so callers (e.g. the CLI) can
// report the field in use.
func Modulus() *big.Int {
	return fr.Modulus()
}
