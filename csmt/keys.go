package csmt

import (
	"github.com/eth2030/csmt/field"
	"github.com/ethereum/go-ethereum/rlp"
)

// fieldChunkBytes is the number of bytes packed into each field element
// produced by the default encoder. 31 bytes always fits under the BN254
// scalar field's ~254-bit modulus with no reduction ambiguity, unlike a
// full 32-byte chunk which could occasionally exceed it.
const fieldChunkBytes = 31

// FieldEncodable is implemented by keys/values that know how to reduce
// themselves to field elements directly, bypassing the default RLP-based
// encoder.
type FieldEncodable interface {
	ToFields() []field.Element
}

// ToFieldsDefault is the module's default key/value encoder (§9 "Dynamic
// typing of keys/values"): it RLP-encodes v into canonical bytes, then
// splits the result into fieldChunkBytes-sized big-endian chunks, each
// reduced to one field.Element. Types implementing FieldEncodable bypass
// this and supply their own chunking.
func ToFieldsDefault(v any) ([]field.Element, error) {
	if fe, ok := v.(FieldEncodable); ok {
		return fe.ToFields(), nil
	}
	raw, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]field.Element, 0, (len(raw)+fieldChunkBytes-1)/fieldChunkBytes)
	for i := 0; i < len(raw); i += fieldChunkBytes {
		end := i + fieldChunkBytes
		if end > len(raw) {
			end = len(raw)
		}
		out = append(out, field.FromBytes(raw[i:end]))
	}
	return out, nil
}
