package csmt

import "github.com/eth2030/csmt/field"

// Store is the persistence adapter contract (§4.B): a content-addressed
// node table, a path-addressed value table, and a single root pointer, all
// mutated through a stage-then-commit sequence so a failed commit can never
// leave the tables and the root pointer disagreeing with each other.
//
// Generalized from the teacher's resolve/collect split in
// trie/bintrie/node.go (NodeResolverFn reads lazily, NodeFlushFn collects
// writes) into an explicit staged-mutation contract: every Prepare* call
// only queues a pending operation, and Commit is the single point at which
// those operations become durable and visible to subsequent Get* calls.
type Store interface {
	// GetNode resolves a node hash to its stored triple. Returns
	// (Triple{}, false, nil) if hash is the Placeholder; any other unknown
	// hash is a caller/engine bug, not a legitimate miss.
	GetNode(hash field.Element) (Triple, bool, error)
	// GetValue resolves the value fields stored at path.
	GetValue(path field.Element) ([]field.Element, bool, error)
	// GetRoot returns the current committed root, or (zero, false, nil) if
	// the tree has never been written to.
	GetRoot() (field.Element, bool, error)

	// PreparePutNode stages hash -> triple for the next Commit.
	PreparePutNode(hash field.Element, t Triple)
	// PrepareDeleteNode stages the removal of hash for the next Commit.
	PrepareDeleteNode(hash field.Element)
	// PreparePutValue stages path -> fields for the next Commit.
	PreparePutValue(path field.Element, fields []field.Element)
	// PrepareDeleteValue stages the removal of path's value for the next
	// Commit.
	PrepareDeleteValue(path field.Element)
	// PrepareUpdateRoot stages the new root for the next Commit.
	PrepareUpdateRoot(root field.Element)

	// Commit atomically applies every staged operation since the last
	// Commit or ClearPendingOps, then clears the pending set. On error, no
	// staged operation is visible and the pending set is left intact so the
	// caller may inspect or retry it.
	Commit() error
	// ClearPendingOps discards every staged operation without applying it.
	ClearPendingOps()
	// Clear removes every node, value, and the root pointer, resetting the
	// store to its initial empty state.
	Clear() error
}
