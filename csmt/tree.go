package csmt

import (
	"github.com/eth2030/csmt/field"
	applog "github.com/eth2030/csmt/log"
)

// Tree is the CSMT engine (§4.E): get/has/update/delete/updateAll against a
// Store, plus proof generation in its three flavors.
type Tree struct {
	store   Store
	hasher  Hasher
	depth   int
	root    field.Element
	log     *applog.Logger
	metrics *Metrics
}

// New creates a Tree over an empty or already-populated store. If the store
// has a committed root, it is adopted; otherwise the tree starts at the
// Placeholder (the empty tree's root).
func New(store Store, hasher Hasher) (*Tree, error) {
	t := &Tree{
		store:  store,
		hasher: hasher,
		depth:  hasher.Depth(),
		log:    applog.Default().Module("csmt"),
	}
	if t.depth <= 0 || t.depth > field.Bits {
		return nil, &InvalidDepthError{Depth: t.depth}
	}
	root, ok, err := store.GetRoot()
	if err != nil {
		return nil, err
	}
	if ok {
		t.root = root
	} else {
		t.root = hasher.Placeholder()
	}
	return t, nil
}

// Import creates a Tree that starts at an externally supplied root (e.g. one
// checkpointed elsewhere), without requiring the store itself to carry a
// root pointer yet.
func Import(store Store, hasher Hasher, root field.Element) *Tree {
	return &Tree{
		store:  store,
		hasher: hasher,
		depth:  hasher.Depth(),
		root:   root,
		log:    applog.Default().Module("csmt"),
	}
}

// Root returns the tree's current root hash.
func (t *Tree) Root() field.Element { return t.root }

// Depth returns the tree's fixed path bit-width.
func (t *Tree) Depth() int { return t.depth }

// Hasher returns the tree's hasher.
func (t *Tree) Hasher() Hasher { return t.hasher }

// SetRoot repoints the tree at an externally validated root without
// touching any node or value record. Used to adopt a root recovered from a
// proof-driven replay or an external checkpoint.
func (t *Tree) SetRoot(root field.Element) error {
	t.store.PrepareUpdateRoot(root)
	if err := t.store.Commit(); err != nil {
		t.store.ClearPendingOps()
		return &StorageCommitFailedError{Err: err}
	}
	t.root = root
	return nil
}

// Clear resets the tree and its backing store to the empty state.
func (t *Tree) Clear() error {
	if err := t.store.Clear(); err != nil {
		return err
	}
	t.root = t.hasher.Placeholder()
	return nil
}

// walkResult captures everything a root-to-terminal descent produced.
type walkResult struct {
	path               field.Element
	bits               []bool
	sideNodes          []field.Element // root-near-first, length d
	visitedInnerHashes []field.Element // root-near-first, length d
	d                  int
	terminalEmpty      bool
	terminalHash       field.Element
	terminalTriple     Triple
	deepestSibling      Triple // triple of the last sibling observed (empty triple if none or if it was itself the placeholder)
}

// walk descends from the current root along path's bits until it reaches an
// empty slot or a leaf (the sparse shortcut guarantees one of the two
// happens at or before depth t.depth).
func (t *Tree) walk(path field.Element) (*walkResult, error) {
	bits := PathBits(path, t.depth)
	res := &walkResult{path: path, bits: bits}

	cur := t.root
	for {
		if cur.Equal(t.hasher.Placeholder()) {
			res.terminalEmpty = true
			res.terminalHash = cur
			return res, nil
		}
		node, ok, err := t.store.GetNode(cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &StorageInconsistentError{Hash: cur, Reason: "referenced node has no stored record"}
		}
		if node.Tag == LeafTag {
			res.terminalHash = cur
			res.terminalTriple = node
			return res, nil
		}
		if node.Tag != InnerTag {
			return nil, &StorageInconsistentError{Hash: cur, Reason: "expected inner node"}
		}
		if res.d >= t.depth {
			return nil, &StorageInconsistentError{Hash: cur, Reason: "inner node chain exceeds tree depth"}
		}
		left, right := ParseInner(node)
		var sibling, next field.Element
		if bits[res.d] {
			sibling, next = left, right
		} else {
			sibling, next = right, left
		}
		res.sideNodes = append(res.sideNodes, sibling)
		res.visitedInnerHashes = append(res.visitedInnerHashes, cur)
		if sibling.Equal(t.hasher.Placeholder()) {
			res.deepestSibling = emptyTriple
		} else {
			sibTriple, ok, err := t.store.GetNode(sibling)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &StorageInconsistentError{Hash: sibling, Reason: "sibling node has no stored record"}
			}
			res.deepestSibling = sibTriple
		}
		res.d++
		cur = next
	}
}

// Has reports whether key has an occupant leaf.
func (t *Tree) Has(keyFields []field.Element) (bool, error) {
	if t.metrics != nil {
		t.metrics.Gets.Inc()
	}
	path := t.hasher.Path(keyFields)
	res, err := t.walk(path)
	if err != nil {
		return false, err
	}
	return !res.terminalEmpty && res.terminalTriple.Tag == LeafTag && res.terminalTriple.A.Equal(path), nil
}

// Get returns the value stored at key, or a *KeyNotFoundError if key is
// unoccupied.
func (t *Tree) Get(keyFields []field.Element) ([]field.Element, error) {
	if t.metrics != nil {
		t.metrics.Gets.Inc()
	}
	path := t.hasher.Path(keyFields)
	res, err := t.walk(path)
	if err != nil {
		return nil, err
	}
	if res.terminalEmpty || res.terminalTriple.Tag != LeafTag || !res.terminalTriple.A.Equal(path) {
		return nil, &KeyNotFoundError{Path: path}
	}
	v, ok, err := t.store.GetValue(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &StorageInconsistentError{Hash: res.terminalHash, Reason: "occupied leaf has no stored value"}
	}
	return v, nil
}

// pendingApply carries the result of staging a single key's mutation before
// commit, so UpdateAll can stage many keys and commit once.
type pendingApply struct {
	newRoot field.Element
	changed bool
}

// applyUpdate stages (without committing) the node/value/root writes needed
// to set key to value, starting from the tree's current in-memory root.
func (t *Tree) applyUpdate(keyFields, valueFields []field.Element) (pendingApply, error) {
	path := t.hasher.Path(keyFields)
	if path.BigInt().BitLen() > t.depth {
		return pendingApply{}, &OutOfRangeError{Path: path, Depth: t.depth}
	}
	res, err := t.walk(path)
	if err != nil {
		return pendingApply{}, err
	}
	vh := t.hasher.Digest(valueFields)
	newLeafHash, newLeafTriple := t.hasher.DigestLeaf(path, vh)

	var cur field.Element
	switch {
	case res.terminalEmpty:
		cur = newLeafHash
		t.store.PreparePutNode(newLeafHash, newLeafTriple)
		t.store.PreparePutValue(path, valueFields)

	case res.terminalTriple.A.Equal(path):
		// Same key: update in place.
		_, oldValueDigest := ParseLeaf(res.terminalTriple)
		if oldValueDigest.Equal(vh) {
			return pendingApply{newRoot: t.root, changed: false}, nil
		}
		t.store.PrepareDeleteNode(res.terminalHash)
		t.store.PreparePutNode(newLeafHash, newLeafTriple)
		t.store.PreparePutValue(path, valueFields)
		cur = newLeafHash

	default:
		// Different key occupying the terminal slot: split.
		oldPath, oldValueDigest := ParseLeaf(res.terminalTriple)
		oldLeafHash := res.terminalHash
		oldBits := PathBits(oldPath, t.depth)
		c := res.d
		for c < t.depth && oldBits[c] == res.bits[c] {
			c++
		}
		t.store.PreparePutNode(newLeafHash, newLeafTriple)
		t.store.PreparePutValue(path, valueFields)

		var combined field.Element
		var combinedTriple Triple
		if res.bits[c] {
			combined, combinedTriple = t.hasher.DigestNode(oldLeafHash, newLeafHash)
		} else {
			combined, combinedTriple = t.hasher.DigestNode(newLeafHash, oldLeafHash)
		}
		t.store.PreparePutNode(combined, combinedTriple)
		cur = combined

		ph := t.hasher.Placeholder()
		for k := c - 1; k >= res.d; k-- {
			var h field.Element
			var tr Triple
			if res.bits[k] {
				h, tr = t.hasher.DigestNode(ph, cur)
			} else {
				h, tr = t.hasher.DigestNode(cur, ph)
			}
			t.store.PreparePutNode(h, tr)
			cur = h
		}
		_ = oldValueDigest
	}

	for k := res.d - 1; k >= 0; k-- {
		sib := res.sideNodes[k]
		var h field.Element
		var tr Triple
		if res.bits[k] {
			h, tr = t.hasher.DigestNode(sib, cur)
		} else {
			h, tr = t.hasher.DigestNode(cur, sib)
		}
		t.store.PreparePutNode(h, tr)
		t.store.PrepareDeleteNode(res.visitedInnerHashes[k])
		cur = h
	}

	t.store.PrepareUpdateRoot(cur)
	return pendingApply{newRoot: cur, changed: true}, nil
}

// Update inserts key->value if key is unoccupied, or overwrites its value if
// already occupied, committing immediately.
func (t *Tree) Update(keyFields, valueFields []field.Element) error {
	pending, err := t.applyUpdate(keyFields, valueFields)
	if err != nil {
		t.store.ClearPendingOps()
		return err
	}
	if !pending.changed {
		t.store.ClearPendingOps()
		return nil
	}
	if err := t.store.Commit(); err != nil {
		t.store.ClearPendingOps()
		t.log.Warn("storage commit failed", "op", "update")
		return &StorageCommitFailedError{Err: err}
	}
	t.root = pending.newRoot
	if t.metrics != nil {
		t.metrics.Updates.Inc()
	}
	return nil
}

// KV is a single key/value pair for UpdateAll.
type KV struct {
	Key   []field.Element
	Value []field.Element
}

// UpdateAll applies every pair in one staged, atomically committed batch.
func (t *Tree) UpdateAll(pairs []KV) error {
	anyChanged := false
	prev := t.root
	last := t.root
	for _, kv := range pairs {
		pending, err := t.applyUpdate(kv.Key, kv.Value)
		if err != nil {
			t.store.ClearPendingOps()
			t.root = prev
			return err
		}
		if pending.changed {
			anyChanged = true
			last = pending.newRoot
			t.root = pending.newRoot // let subsequent walks in this batch see it
		}
	}
	if !anyChanged {
		t.store.ClearPendingOps()
		return nil
	}
	if err := t.store.Commit(); err != nil {
		t.store.ClearPendingOps()
		t.root = prev
		t.log.Warn("storage commit failed", "op", "update_all")
		return &StorageCommitFailedError{Err: err}
	}
	t.root = last
	if t.metrics != nil && anyChanged {
		t.metrics.Updates.Inc()
	}
	return nil
}

// Delete removes key if occupied. Deleting an already-unoccupied key is a
// documented no-op: the root is left unchanged and no error is returned.
func (t *Tree) Delete(keyFields []field.Element) error {
	path := t.hasher.Path(keyFields)
	res, err := t.walk(path)
	if err != nil {
		return err
	}
	if res.terminalEmpty || res.terminalTriple.Tag != LeafTag || !res.terminalTriple.A.Equal(path) {
		// Internally this is a keyAlreadyEmptyError; the public surface
		// treats it as a no-op per §4.E.
		_ = &keyAlreadyEmptyError{Path: path}
		return nil
	}

	t.store.PrepareDeleteNode(res.terminalHash)
	t.store.PrepareDeleteValue(path)
	for k := res.d - 1; k >= 0; k-- {
		t.store.PrepareDeleteNode(res.visitedInnerHashes[k])
	}

	cur := t.hasher.Placeholder()
	curIsLeaf := false
	for k := res.d - 1; k >= 0; k-- {
		sib := res.sideNodes[k]
		bit := res.bits[k]
		if curIsLeaf && sib.Equal(t.hasher.Placeholder()) {
			// A lone hoisted leaf carries up past empty siblings unchanged.
			continue
		}
		if cur.Equal(t.hasher.Placeholder()) {
			if sib.Equal(t.hasher.Placeholder()) {
				continue
			}
			sibTriple, ok, err := t.store.GetNode(sib)
			if err != nil {
				return err
			}
			if !ok {
				return &StorageInconsistentError{Hash: sib, Reason: "sibling node has no stored record"}
			}
			if sibTriple.Tag == LeafTag {
				cur = sib
				curIsLeaf = true
				continue
			}
		}
		var h field.Element
		var tr Triple
		if bit {
			h, tr = t.hasher.DigestNode(sib, cur)
		} else {
			h, tr = t.hasher.DigestNode(cur, sib)
		}
		t.store.PreparePutNode(h, tr)
		cur = h
		curIsLeaf = false
	}

	t.store.PrepareUpdateRoot(cur)
	if err := t.store.Commit(); err != nil {
		t.store.ClearPendingOps()
		t.log.Warn("storage commit failed", "op", "delete")
		return &StorageCommitFailedError{Err: err}
	}
	t.root = cur
	if t.metrics != nil {
		t.metrics.Deletes.Inc()
	}
	return nil
}

// buildProof runs the shared walk and assembles the depth-padded side-node
// array plus the optional leaf-data fields every proof flavor needs.
func (t *Tree) buildProof(keyFields []field.Element, updatable bool) (Proof, error) {
	if t.metrics != nil {
		t.metrics.ProofsGenerated.Inc()
	}
	path := t.hasher.Path(keyFields)
	res, err := t.walk(path)
	if err != nil {
		return Proof{}, err
	}

	sides := make([]field.Element, t.depth)
	for i := 0; i < t.depth; i++ {
		if i < res.d {
			sides[i] = res.sideNodes[i]
		} else {
			sides[i] = pad
		}
	}

	var nonMembership Triple
	if !res.terminalEmpty && res.terminalTriple.Tag == LeafTag && !res.terminalTriple.A.Equal(path) {
		nonMembership = res.terminalTriple
	}

	var sibling Triple
	if updatable {
		sibling = res.deepestSibling
	}

	return Proof{
		SideNodes:              sides,
		NonMembershipLeafData:  nonMembership,
		SiblingData:            sibling,
		Root:                   t.root,
	}, nil
}

// Prove returns a membership or non-membership proof for key against the
// tree's current root.
func (t *Tree) Prove(keyFields []field.Element) (Proof, error) {
	return t.buildProof(keyFields, false)
}

// ProveUpdatable returns a proof that additionally carries the deepest
// sibling's triple, letting a caller replay an update against the proof
// alone (without store access) and recompute the resulting root.
func (t *Tree) ProveUpdatable(keyFields []field.Element) (Proof, error) {
	return t.buildProof(keyFields, true)
}

// ProveCompact returns the wire-compact encoding of Prove's result.
func (t *Tree) ProveCompact(keyFields []field.Element) (CompactProof, error) {
	p, err := t.Prove(keyFields)
	if err != nil {
		return CompactProof{}, err
	}
	return Compact(p, t.hasher.Placeholder()), nil
}
