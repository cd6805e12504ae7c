package csmt

import "testing"

func TestInsertKVThenGetKV(t *testing.T) {
	tr := newTestTree(t, 254)
	if err := tr.InsertKV("alice", "100"); err != nil {
		t.Fatalf("InsertKV: %v", err)
	}
	v, err := tr.GetKV("alice")
	if err != nil {
		t.Fatalf("GetKV: %v", err)
	}
	want, _ := ToFieldsDefault("100")
	if len(v) != len(want) || !v[0].Equal(want[0]) {
		t.Fatalf("GetKV(alice) = %v, want %v", v, want)
	}
}

func TestInsertKVRejectsExistingKey(t *testing.T) {
	tr := newTestTree(t, 254)
	if err := tr.InsertKV("alice", "100"); err != nil {
		t.Fatalf("InsertKV: %v", err)
	}
	err := tr.InsertKV("alice", "200")
	if err == nil {
		t.Fatalf("InsertKV over an occupied key succeeded, want *KeyExistsError")
	}
	if _, ok := err.(*KeyExistsError); !ok {
		t.Fatalf("InsertKV error = %T, want *KeyExistsError", err)
	}
}

func TestUpdateKVRejectsMissingKey(t *testing.T) {
	tr := newTestTree(t, 254)
	err := tr.UpdateKV("bob", "1")
	if err == nil {
		t.Fatalf("UpdateKV on an absent key succeeded, want *KeyNotFoundError")
	}
	if _, ok := err.(*KeyNotFoundError); !ok {
		t.Fatalf("UpdateKV error = %T, want *KeyNotFoundError", err)
	}
}

func TestUpdateKVOverwritesValue(t *testing.T) {
	tr := newTestTree(t, 254)
	if err := tr.InsertKV("alice", "100"); err != nil {
		t.Fatalf("InsertKV: %v", err)
	}
	if err := tr.UpdateKV("alice", "200"); err != nil {
		t.Fatalf("UpdateKV: %v", err)
	}
	v, err := tr.GetKV("alice")
	if err != nil {
		t.Fatalf("GetKV: %v", err)
	}
	want, _ := ToFieldsDefault("200")
	if !v[0].Equal(want[0]) {
		t.Fatalf("GetKV(alice) = %v, want %v", v, want)
	}
}

func TestDeleteKVThenGetKVFails(t *testing.T) {
	tr := newTestTree(t, 254)
	if err := tr.InsertKV("alice", "100"); err != nil {
		t.Fatalf("InsertKV: %v", err)
	}
	if err := tr.DeleteKV("alice"); err != nil {
		t.Fatalf("DeleteKV: %v", err)
	}
	if _, err := tr.GetKV("alice"); err == nil {
		t.Fatalf("GetKV after DeleteKV succeeded, want *KeyNotFoundError")
	}
}

func TestDeleteKVOfAbsentKeyIsNoOp(t *testing.T) {
	tr := newTestTree(t, 254)
	if err := tr.DeleteKV("nobody"); err != nil {
		t.Fatalf("DeleteKV of an absent key returned an error: %v", err)
	}
}
