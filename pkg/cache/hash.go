package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Struct fields encode in
// declaration order and map keys sorted, so equal values hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return Hash(data), nil
}

// hashKey builds "<kind>:<digest>" from key parts. Parts are plain strings
// and option structs; if one cannot be encoded as JSON its %#v form is
// hashed instead.
func hashKey(kind string, parts ...any) string {
	digest, err := HashJSON(parts)
	if err != nil {
		digest = Hash(fmt.Appendf(nil, "%#v", parts))
	}
	return kind + ":" + digest
}
