// Package poseidon implements the width-3 Poseidon permutation used as the
// default algebraic hash for the CSMT engine's node digests.
//
// The parameter shape (t=3, 8 full rounds, 57 partial rounds, a t x t MDS
// matrix) matches the one asserted by the teacher's zkvm Poseidon test
// vectors; this package supplies the implementation the teacher's tree never
// carried. Round constants are expanded deterministically from a
// domain-separation string with golang.org/x/crypto/sha3's SHAKE256, the
// construction used by the reference Poseidon paper's parameter generator,
// rather than hand-picked or embedded literals.
package poseidon

import (
	"github.com/eth2030/csmt/field"
	"golang.org/x/crypto/sha3"
)

const (
	// Width is the permutation's state size (t).
	Width = 3
	// FullRounds is the number of full S-box rounds, split evenly before
	// and after the partial rounds.
	FullRounds = 8
	// PartialRounds is the number of partial (single S-box) rounds.
	PartialRounds = 57

	domainSeparator = "csmt-poseidon-bn254-t3-v1"
)

// Params holds a fully expanded set of round constants and the MDS matrix
// for a Width-t, FullRounds+PartialRounds permutation.
type Params struct {
	RoundConstants []field.Element // length Width * (FullRounds + PartialRounds)
	MDS            [Width][Width]field.Element
}

var defaultParams = generateParams()

// Default returns the package-wide Poseidon parameter set.
func Default() *Params { return defaultParams }

// Permute applies the full Poseidon permutation to a copy of state and
// returns the permuted Width elements.
func (p *Params) Permute(state [Width]field.Element) [Width]field.Element {
	rounds := FullRounds + PartialRounds
	half := FullRounds / 2
	for r := 0; r < rounds; r++ {
		for i := 0; i < Width; i++ {
			state[i] = state[i].Add(p.RoundConstants[r*Width+i])
		}
		if r < half || r >= half+PartialRounds {
			for i := 0; i < Width; i++ {
				state[i] = sbox(state[i])
			}
		} else {
			state[0] = sbox(state[0])
		}
		state = p.mdsMul(state)
	}
	return state
}

// sbox computes x^5, Poseidon's standard S-box for fields without small
// subgroups dividing x^3-1.
func sbox(x field.Element) field.Element {
	x2 := x.Square()
	x4 := x2.Square()
	return x4.Mul(x)
}

func (p *Params) mdsMul(state [Width]field.Element) [Width]field.Element {
	var out [Width]field.Element
	for i := 0; i < Width; i++ {
		acc := field.Zero()
		for j := 0; j < Width; j++ {
			acc = acc.Add(p.MDS[i][j].Mul(state[j]))
		}
		out[i] = acc
	}
	return out
}

// generateParams derives round constants via SHAKE256 over a fixed domain
// string and builds the MDS matrix as a Cauchy matrix from distinct field
// points, the standard way of guaranteeing the matrix (and every one of its
// square submatrices) is invertible.
func generateParams() *Params {
	n := Width * (FullRounds + PartialRounds)
	shake := sha3.NewShake256()
	_, _ = shake.Write([]byte(domainSeparator))
	rc := make([]field.Element, n)
	buf := make([]byte, 32)
	for i := 0; i < n; i++ {
		_, _ = shake.Read(buf)
		rc[i] = field.FromBytes(buf)
	}

	xs := make([]field.Element, Width)
	ys := make([]field.Element, Width)
	for i := 0; i < Width; i++ {
		xs[i] = field.FromUint64(uint64(i + 1))
		ys[i] = field.FromUint64(uint64(Width + i + 1))
	}
	var mds [Width][Width]field.Element
	for i := 0; i < Width; i++ {
		for j := 0; j < Width; j++ {
			mds[i][j] = xs[i].Add(ys[j]).Inverse()
		}
	}

	return &Params{RoundConstants: rc, MDS: mds}
}
