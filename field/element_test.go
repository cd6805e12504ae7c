package field

import "testing"

func TestFromUint64EqualityAndZero(t *testing.T) {
	if !FromUint64(5).Equal(FromUint64(5)) {
		t.Fatalf("FromUint64(5) != FromUint64(5)")
	}
	if FromUint64(5).Equal(FromUint64(6)) {
		t.Fatalf("FromUint64(5) == FromUint64(6)")
	}
	if !Zero().IsZero() {
		t.Fatalf("Zero().IsZero() = false")
	}
	if FromUint64(1).IsZero() {
		t.Fatalf("FromUint64(1).IsZero() = true")
	}
}

func TestArithmetic(t *testing.T) {
	a, b := FromUint64(3), FromUint64(4)
	if !a.Add(b).Equal(FromUint64(7)) {
		t.Fatalf("3+4 != 7")
	}
	if !b.Sub(a).Equal(FromUint64(1)) {
		t.Fatalf("4-3 != 1")
	}
	if !a.Mul(b).Equal(FromUint64(12)) {
		t.Fatalf("3*4 != 12")
	}
	if !a.Square().Equal(a.Mul(a)) {
		t.Fatalf("Square() != self-multiply")
	}
	if !a.Exp(3).Equal(a.Mul(a).Mul(a)) {
		t.Fatalf("Exp(3) != a*a*a")
	}
}

func TestInverse(t *testing.T) {
	a := FromUint64(7)
	inv := a.Inverse()
	if !a.Mul(inv).Equal(One()) {
		t.Fatalf("a * a.Inverse() != 1")
	}
}

func TestInverseOfZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Inverse of zero did not panic")
		}
	}()
	Zero().Inverse()
}

func TestBytes32RoundTrip(t *testing.T) {
	a := FromUint64(123456789)
	b := FromBytes32(a.Bytes32())
	if !a.Equal(b) {
		t.Fatalf("Bytes32 round trip: got %s, want %s", b, a)
	}
}

func TestBitDecomposition(t *testing.T) {
	// 0b1011 = 11
	e := FromUint64(0b1011)
	want := []uint{1, 1, 0, 1}
	for i, w := range want {
		if got := e.Bit(i); got != w {
			t.Fatalf("Bit(%d) = %d, want %d", i, got, w)
		}
	}
}
