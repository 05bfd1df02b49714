// Package digest provides the deterministic hashing support for the
// blockchain. Everything that is hashed in the system goes through this
// package so the digest function can be swapped in one place.
package digest

import (
	"encoding/hex"
	"encoding/json"

	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros. It is used as the predecessor
// digest of the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// HashLen is the length of the canonical hexadecimal representation
// of a digest.
const HashLen = 64

// Hash returns a unique string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	return hex.EncodeToString(crypto.Keccak256(data))
}
