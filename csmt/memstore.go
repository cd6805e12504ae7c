package csmt

import "github.com/eth2030/csmt/field"

// MemStore is an in-memory Store, the default adapter used by the engine's
// own tests and by small trees that don't need durability.
type MemStore struct {
	nodes map[field.Element]Triple
	vals  map[field.Element][]field.Element
	root  field.Element
	hasRoot bool

	pendingPutNodes map[field.Element]Triple
	pendingDelNodes map[field.Element]bool
	pendingPutVals  map[field.Element][]field.Element
	pendingDelVals  map[field.Element]bool
	pendingRoot     *field.Element
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{
		nodes: make(map[field.Element]Triple),
		vals:  make(map[field.Element][]field.Element),
	}
	// Note: the zero-value pending* maps are lazily allocated in the
	// Prepare* methods below so a freshly constructed store that is never
	// written to allocates nothing beyond the two tables.
}

func (m *MemStore) GetNode(hash field.Element) (Triple, bool, error) {
	if hash.IsZero() {
		return Triple{}, false, nil
	}
	t, ok := m.nodes[hash]
	return t, ok, nil
}

func (m *MemStore) GetValue(path field.Element) ([]field.Element, bool, error) {
	v, ok := m.vals[path]
	return v, ok, nil
}

func (m *MemStore) GetRoot() (field.Element, bool, error) {
	return m.root, m.hasRoot, nil
}

func (m *MemStore) PreparePutNode(hash field.Element, t Triple) {
	if m.pendingPutNodes == nil {
		m.pendingPutNodes = make(map[field.Element]Triple)
	}
	m.pendingPutNodes[hash] = t
}

func (m *MemStore) PrepareDeleteNode(hash field.Element) {
	if m.pendingDelNodes == nil {
		m.pendingDelNodes = make(map[field.Element]bool)
	}
	m.pendingDelNodes[hash] = true
}

func (m *MemStore) PreparePutValue(path field.Element, fields []field.Element) {
	if m.pendingPutVals == nil {
		m.pendingPutVals = make(map[field.Element][]field.Element)
	}
	cp := make([]field.Element, len(fields))
	copy(cp, fields)
	m.pendingPutVals[path] = cp
}

func (m *MemStore) PrepareDeleteValue(path field.Element) {
	if m.pendingDelVals == nil {
		m.pendingDelVals = make(map[field.Element]bool)
	}
	m.pendingDelVals[path] = true
}

func (m *MemStore) PrepareUpdateRoot(root field.Element) {
	r := root
	m.pendingRoot = &r
}

func (m *MemStore) Commit() error {
	for h, t := range m.pendingPutNodes {
		m.nodes[h] = t
	}
	for h := range m.pendingDelNodes {
		delete(m.nodes, h)
	}
	for p, v := range m.pendingPutVals {
		m.vals[p] = v
	}
	for p := range m.pendingDelVals {
		delete(m.vals, p)
	}
	if m.pendingRoot != nil {
		m.root = *m.pendingRoot
		m.hasRoot = true
	}
	m.ClearPendingOps()
	return nil
}

func (m *MemStore) ClearPendingOps() {
	m.pendingPutNodes = nil
	m.pendingDelNodes = nil
	m.pendingPutVals = nil
	m.pendingDelVals = nil
	m.pendingRoot = nil
}

func (m *MemStore) Clear() error {
	m.nodes = make(map[field.Element]Triple)
	m.vals = make(map[field.Element][]field.Element)
	m.root = field.Element{}
	m.hasRoot = false
	m.ClearPendingOps()
	return nil
}
