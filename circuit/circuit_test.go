package circuit

import (
	"testing"

	"github.com/eth2030/csmt/csmt"
	"github.com/eth2030/csmt/field"
)

func fe(v uint64) []field.Element { return []field.Element{field.FromUint64(v)} }

func buildTestTree(t *testing.T) *csmt.Tree {
	t.Helper()
	tr, err := csmt.New(csmt.NewMemStore(), csmt.NewPoseidonHasher(8))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, kv := range []struct{ k, v uint64 }{{1, 10}, {2, 20}, {176, 111}, {160, 222}} {
		if err := tr.Update(fe(kv.k), fe(kv.v)); err != nil {
			t.Fatalf("Update(%d): %v", kv.k, err)
		}
	}
	return tr
}

// --- property: circuit/host agreement ---------------------------------------

func TestCircuitAgreesWithHostOnMembership(t *testing.T) {
	tr := buildTestTree(t)
	proof, err := tr.Prove(fe(1))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	hostOK, _, err := csmt.Verify(tr.Hasher(), proof, fe(1), fe(10), true)
	if err != nil {
		t.Fatalf("host Verify: %v", err)
	}
	circuitOK := Verify(tr.Hasher(), proof, fe(1), fe(10), true)

	if !hostOK || !circuitOK {
		t.Fatalf("host=%v circuit=%v, want both true", hostOK, circuitOK)
	}
}

func TestCircuitAgreesWithHostOnNonMembership(t *testing.T) {
	tr := buildTestTree(t)
	proof, err := tr.Prove(fe(99))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	hostOK, _, err := csmt.Verify(tr.Hasher(), proof, fe(99), nil, false)
	if err != nil {
		t.Fatalf("host Verify: %v", err)
	}
	circuitOK := Verify(tr.Hasher(), proof, fe(99), nil, false)

	if !hostOK || !circuitOK {
		t.Fatalf("host=%v circuit=%v, want both true", hostOK, circuitOK)
	}
}

func TestCircuitAgreesWithHostOnSparseShortcutSplit(t *testing.T) {
	tr := buildTestTree(t)

	proof, err := tr.Prove(fe(176))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	hostOK, _, err := csmt.Verify(tr.Hasher(), proof, fe(176), fe(111), true)
	if err != nil {
		t.Fatalf("host Verify: %v", err)
	}
	circuitOK := Verify(tr.Hasher(), proof, fe(176), fe(111), true)
	if !hostOK || !circuitOK {
		t.Fatalf("host=%v circuit=%v, want both true", hostOK, circuitOK)
	}
}

func TestCircuitRejectsWrongValue(t *testing.T) {
	tr := buildTestTree(t)
	proof, err := tr.Prove(fe(1))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	hostOK, _, err := csmt.Verify(tr.Hasher(), proof, fe(1), fe(999), true)
	if err != nil {
		t.Fatalf("host Verify: %v", err)
	}
	circuitOK := Verify(tr.Hasher(), proof, fe(1), fe(999), true)
	if hostOK || circuitOK {
		t.Fatalf("host=%v circuit=%v, want both false for a mismatched value", hostOK, circuitOK)
	}
}

func TestCircuitRejectsForgedNonMembership(t *testing.T) {
	tr := buildTestTree(t)
	// Key 1 is occupied; claiming non-membership against its own proof must
	// fail on both the host and the circuit verifier.
	proof, err := tr.Prove(fe(1))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	hostOK, _, err := csmt.Verify(tr.Hasher(), proof, fe(1), nil, false)
	if err != nil {
		t.Fatalf("host Verify: %v", err)
	}
	circuitOK := Verify(tr.Hasher(), proof, fe(1), nil, false)
	if hostOK || circuitOK {
		t.Fatalf("host=%v circuit=%v, want both false for an occupied key claimed absent", hostOK, circuitOK)
	}
}

func TestProofSideNodesHaveFixedDepthAcrossProofShapes(t *testing.T) {
	tr := buildTestTree(t)
	depth := tr.Hasher().Depth()
	for _, k := range []uint64{1, 176, 250} {
		proof, err := tr.Prove(fe(k))
		if err != nil {
			t.Fatalf("Prove(%d): %v", k, err)
		}
		if len(proof.SideNodes) != depth {
			t.Fatalf("proof for key %d has %d side nodes, want the fixed depth %d", k, len(proof.SideNodes), depth)
		}
	}
}
