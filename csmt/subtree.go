package csmt

import "github.com/eth2030/csmt/field"

// DeepSubTree is the proof-seeded partial tree (§4.F): it wraps a Tree over
// a store that starts out empty except for whatever AddBranch ingests, so a
// caller can replay a batch of updates against a known root without holding
// the full node set. Once enough branches cover the keys a caller intends to
// modify, the embedded Tree behaves exactly like a fully-populated one for
// those keys.
type DeepSubTree struct {
	*Tree
}

// NewDeepSubTree creates a sub-tree rooted at root, backed by store (an
// empty MemStore in the common case). No branches are verified yet; Get/Has/
// Update against an un-seeded key fail with StorageInconsistentError, the
// same way they would against a full tree missing that part of its storage.
func NewDeepSubTree(store Store, hasher Hasher, root field.Element) *DeepSubTree {
	return &DeepSubTree{Tree: Import(store, hasher, root)}
}

// AddBranch verifies proof against the sub-tree's current root for
// (key, value) and, if it holds, ingests every node the verification walk
// derived plus — when proof carries sibling data — the preimage of the
// deepest side node, so a later walk can descend into it. value == nil
// requests a non-membership branch (the proof must verify accordingly); a
// non-nil value requests a membership branch.
//
// Grounded on §4.F: verify_with_updates -> stage(path,value)? -> stage each
// (hash,triple) -> stage deepest side node -> sibling_data -> commit.
func (d *DeepSubTree) AddBranch(proof Proof, keyFields []field.Element, valueFields []field.Element) error {
	if !proof.Root.Equal(d.root) {
		return &BadProofError{Reason: "add_branch: proof root does not match sub-tree's current root"}
	}
	ok, updates, err := Verify(d.hasher, proof, keyFields, valueFields, valueFields != nil)
	if err != nil {
		return err
	}
	if !ok {
		return &BadProofError{Reason: "add_branch: proof does not verify against current root"}
	}

	path := d.hasher.Path(keyFields)
	if valueFields != nil {
		d.store.PreparePutValue(path, valueFields)
	}
	for _, u := range updates {
		d.store.PreparePutNode(u.Hash, u.Triple)
	}
	if l := effectiveLength(proof.SideNodes); !proof.SiblingData.IsEmpty() && l > 0 {
		d.store.PreparePutNode(proof.SideNodes[l-1], proof.SiblingData)
	}

	if err := d.store.Commit(); err != nil {
		d.store.ClearPendingOps()
		return &StorageCommitFailedError{Err: err}
	}
	return nil
}
