// Package chain implements the block type, the proof-of-work puzzle and the
// append-only chain of accepted blocks.
package chain

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"

	"github.com/utxonet/utxonet/foundation/blockchain/digest"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// Block represents a group of transactions batched together behind a proof of
// work solution and linked to a predecessor by digest.
type Block struct {
	PrevHash string             `json:"prev_hash"`
	Nonce    uint64             `json:"nonce"`
	Trans    []utxo.Transaction `json:"trans"`
}

// Genesis constructs the block every chain starts from. Its predecessor
// digest is the zero hash sentinel and it carries no transactions.
func Genesis() Block {
	return Block{
		PrevHash: digest.ZeroHash,
	}
}

// Hash returns the digest for the block. The digest is a pure function of
// the predecessor digest, the nonce and the transaction sequence. It is
// computed on demand so it can never be observed out of sync with its inputs.
func (b Block) Hash() string {
	return digest.Hash(b)
}

// =============================================================================

// POW constructs a new block on the specified chain tip and performs the work
// to find a nonce that solves the proof of work puzzle. The search is
// unbounded and CPU bound, cancel the context to stop it. The context error
// is returned when the search is cancelled.
func POW(ctx context.Context, difficulty int, prevHash string, trans []utxo.Transaction, ev func(v string, args ...any)) (Block, error) {
	nb := Block{
		PrevHash: prevHash,
		Trans:    trans,
	}

	// Choose a random starting point for the nonce. After this, the nonce
	// is incremented by 1 until a solution is found.
	nBig, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return Block{}, err
	}
	nb.Nonce = nBig.Uint64()

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("chain: POW: MINING: attempts[%d]", attempts)
		}

		// The context check is the cooperative yield point, a stop signal
		// is observed within one hash of latency.
		if ctx.Err() != nil {
			ev("chain: POW: MINING: CANCELLED")
			return Block{}, ctx.Err()
		}

		hash := nb.Hash()
		if !IsSolved(difficulty, hash) {
			nb.Nonce++
			continue
		}

		ev("chain: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", nb.PrevHash, hash)
		ev("chain: POW: MINING: attempts[%d]", attempts)

		return nb, nil
	}
}

// IsSolved checks the hash to make sure it complies with the POW rules. We
// need to match a difficulty number of leading 0's. Any hash satisfies a
// difficulty of zero.
func IsSolved(difficulty int, hash string) bool {
	const match = "00000000000000000"

	if len(hash) != digest.HashLen {
		return false
	}

	if difficulty > len(match) {
		difficulty = len(match)
	}

	return hash[:difficulty] == match[:difficulty]
}
