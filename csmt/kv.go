package csmt

import "github.com/eth2030/csmt/field"

// KV convenience layer (§9 "Supplemented features"): the core engine takes
// keys and values as field-element slices (§9 "Dynamic typing of
// keys/values"), leaving string-keyed access to a thin wrapper. Grounded on
// the other_examples SMT reference's InsertKV/UpdateKV/GetKV/DeleteKV family,
// which reduces a string key through a hash before delegating to the
// index-keyed tree; here the reduction is ToFieldsDefault + the tree's own
// Hasher.Path instead of a bare Keccak256-mod-depth index.

// keyFields reduces a string key to its default field-element encoding.
func keyFields(key string) []field.Element {
	fields, err := ToFieldsDefault(key)
	if err != nil {
		// ToFieldsDefault only fails on RLP encode errors, which cannot
		// happen for a Go string.
		panic("csmt: unreachable RLP encode failure for string key: " + err.Error())
	}
	return fields
}

// valueFields reduces an arbitrary value to its default field-element
// encoding, returning any RLP encode error from a non-string value.
func valueFields(value any) ([]field.Element, error) {
	return ToFieldsDefault(value)
}

// InsertKV inserts a value under a string key, failing if the key is already
// occupied (mirroring the reference's KeyExistsError semantics via Has).
func (t *Tree) InsertKV(key string, value any) error {
	kf := keyFields(key)
	has, err := t.Has(kf)
	if err != nil {
		return err
	}
	if has {
		return &KeyExistsError{Key: key}
	}
	vf, err := valueFields(value)
	if err != nil {
		return err
	}
	return t.Update(kf, vf)
}

// UpdateKV overwrites the value under an already-occupied string key,
// failing with KeyNotFoundError if the key is absent.
func (t *Tree) UpdateKV(key string, value any) error {
	kf := keyFields(key)
	has, err := t.Has(kf)
	if err != nil {
		return err
	}
	if !has {
		return &KeyNotFoundError{Path: t.hasher.Path(kf)}
	}
	vf, err := valueFields(value)
	if err != nil {
		return err
	}
	return t.Update(kf, vf)
}

// GetKV returns the raw field-element encoding stored under a string key.
func (t *Tree) GetKV(key string) ([]field.Element, error) {
	return t.Get(keyFields(key))
}

// DeleteKV removes the value under a string key. Deleting an absent key is
// the documented engine-level no-op, not an error, matching Delete.
func (t *Tree) DeleteKV(key string) error {
	return t.Delete(keyFields(key))
}
