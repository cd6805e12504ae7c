package csmt

import "testing"

func TestAddBranchRejectsMismatchedRoot(t *testing.T) {
	full := newTestTree(t, 8)
	if err := full.Update(fe(1), fe(10)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	proof, err := full.ProveUpdatable(fe(1))
	if err != nil {
		t.Fatalf("ProveUpdatable: %v", err)
	}

	sub := NewDeepSubTree(NewMemStore(), full.Hasher(), full.Hasher().Placeholder())
	err = sub.AddBranch(proof, fe(1), fe(10))
	if err == nil {
		t.Fatalf("AddBranch against a sub-tree seeded with the wrong root succeeded")
	}
	if _, ok := err.(*BadProofError); !ok {
		t.Fatalf("AddBranch error = %T, want *BadProofError", err)
	}
}

func TestAddBranchRejectsForgedProof(t *testing.T) {
	full := newTestTree(t, 8)
	if err := full.Update(fe(1), fe(10)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	proof, err := full.ProveUpdatable(fe(1))
	if err != nil {
		t.Fatalf("ProveUpdatable: %v", err)
	}

	sub := NewDeepSubTree(NewMemStore(), full.Hasher(), full.Root())
	// Claim a different value than the one actually committed at key 1.
	err = sub.AddBranch(proof, fe(1), fe(999))
	if err == nil {
		t.Fatalf("AddBranch with a forged value succeeded")
	}
}

func TestAddBranchSeedsNonMembership(t *testing.T) {
	full := newTestTree(t, 8)
	if err := full.Update(fe(1), fe(10)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	proof, err := full.ProveUpdatable(fe(2))
	if err != nil {
		t.Fatalf("ProveUpdatable: %v", err)
	}

	sub := NewDeepSubTree(NewMemStore(), full.Hasher(), full.Root())
	if err := sub.AddBranch(proof, fe(2), nil); err != nil {
		t.Fatalf("AddBranch (non-membership): %v", err)
	}

	if err := full.Update(fe(2), fe(20)); err != nil {
		t.Fatalf("full.Update: %v", err)
	}
	if err := sub.Update(fe(2), fe(20)); err != nil {
		t.Fatalf("sub.Update: %v", err)
	}
	if !full.Root().Equal(sub.Root()) {
		t.Fatalf("sub-tree root %s diverged from full tree root %s after inserting into a previously-absent key", sub.Root(), full.Root())
	}
}
