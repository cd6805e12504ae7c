package csmt

import (
	"testing"

	"github.com/eth2030/csmt/field"
)

func openTestPebbleStore(t *testing.T) *PebbleStore {
	t.Helper()
	s, err := OpenPebbleStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("OpenPebbleStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPebbleStoreNodeRoundTrip(t *testing.T) {
	s := openTestPebbleStore(t)
	h := field.FromUint64(7)
	tr := Triple{Tag: InnerTag, A: field.FromUint64(1), B: field.FromUint64(2)}
	s.PreparePutNode(h, tr)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, ok, err := s.GetNode(h)
	if err != nil || !ok {
		t.Fatalf("GetNode: ok=%v err=%v", ok, err)
	}
	if got.Tag != tr.Tag || !got.A.Equal(tr.A) || !got.B.Equal(tr.B) {
		t.Fatalf("GetNode = %+v, want %+v", got, tr)
	}
}

func TestPebbleStoreValueRoundTrip(t *testing.T) {
	s := openTestPebbleStore(t)
	path := field.FromUint64(3)
	vals := []field.Element{field.FromUint64(10), field.FromUint64(20)}
	s.PreparePutValue(path, vals)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, ok, err := s.GetValue(path)
	if err != nil || !ok {
		t.Fatalf("GetValue: ok=%v err=%v", ok, err)
	}
	if len(got) != len(vals) || !got[0].Equal(vals[0]) || !got[1].Equal(vals[1]) {
		t.Fatalf("GetValue = %v, want %v", got, vals)
	}
}

func TestPebbleStoreRootRoundTrip(t *testing.T) {
	s := openTestPebbleStore(t)
	if _, ok, err := s.GetRoot(); err != nil || ok {
		t.Fatalf("GetRoot on a fresh store: ok=%v err=%v, want ok=false", ok, err)
	}
	root := field.FromUint64(42)
	s.PrepareUpdateRoot(root)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, ok, err := s.GetRoot()
	if err != nil || !ok || !got.Equal(root) {
		t.Fatalf("GetRoot = %s ok=%v err=%v, want %s ok=true", got, ok, err, root)
	}
}

func TestPebbleStoreDeleteNodeEvictsCache(t *testing.T) {
	s := openTestPebbleStore(t)
	h := field.FromUint64(9)
	tr := Triple{Tag: LeafTag, A: field.FromUint64(1), B: field.FromUint64(2)}
	s.PreparePutNode(h, tr)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, ok, _ := s.GetNode(h); !ok {
		t.Fatalf("node missing right after commit")
	}
	s.PrepareDeleteNode(h)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, ok, _ := s.GetNode(h); ok {
		t.Fatalf("node still present after delete+commit")
	}
}

func TestPebbleStoreBackedTreeSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	h := NewPoseidonHasher(8)

	s1, err := OpenPebbleStore(dir, 1<<20)
	if err != nil {
		t.Fatalf("OpenPebbleStore: %v", err)
	}
	tr1, err := New(s1, h)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr1.Update(fe(1), fe(10)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	root := tr1.Root()
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := OpenPebbleStore(dir, 1<<20)
	if err != nil {
		t.Fatalf("reopen OpenPebbleStore: %v", err)
	}
	defer s2.Close()
	tr2, err := New(s2, h)
	if err != nil {
		t.Fatalf("New (reopen): %v", err)
	}
	if !tr2.Root().Equal(root) {
		t.Fatalf("root after reopen = %s, want %s", tr2.Root(), root)
	}
	v, err := tr2.Get(fe(1))
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if !v[0].Equal(field.FromUint64(10)) {
		t.Fatalf("Get(1) after reopen = %v, want [10]", v)
	}
}
