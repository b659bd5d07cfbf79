// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ifc

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// guidAlphabet is the 64-character alphabet of compressed IFC GlobalIds.
const guidAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// ExpandGUID converts a 22-character IFC GlobalId to the UUID it encodes.
func ExpandGUID(id string) (uuid.UUID, error) {
	if len(id) != 22 {
		return uuid.Nil, fmt.Errorf("global id %q: length %d, want 22", id, len(id))
	}
	n := new(big.Int)
	base := big.NewInt(64)
	for i := 0; i < len(id); i++ {
		d := strings.IndexByte(guidAlphabet, id[i])
		if d < 0 {
			return uuid.Nil, fmt.Errorf("global id %q: invalid character %q", id, id[i])
		}
		if i == 0 && d > 3 {
			return uuid.Nil, fmt.Errorf("global id %q: first character out of range", id)
		}
		n.Mul(n, base).Add(n, big.NewInt(int64(d)))
	}
	var b [16]byte
	n.FillBytes(b[:])
	return uuid.UUID(b), nil
}

// CompressGUID encodes a UUID as a 22-character IFC GlobalId.
func CompressGUID(u uuid.UUID) string {
	n := new(big.Int).SetBytes(u[:])
	base := big.NewInt(64)
	var out [22]byte
	mod := new(big.Int)
	for i := len(out) - 1; i >= 0; i-- {
		n.DivMod(n, base, mod)
		out[i] = guidAlphabet[mod.Int64()]
	}
	return string(out[:])
}
