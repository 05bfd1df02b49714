// Package mempool maintains the pending pool of candidate transactions for a
// node. The pool is a tentative view only, the chain is the authority. Two
// nodes may hold mutually conflicting transactions in their pools, the
// conflict is resolved at block acceptance.
package mempool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// Mempool represents a cache of pending transactions organized by
// transaction id. An index of claimed output references enforces that no two
// pooled transactions consume the same output.
type Mempool struct {
	mu      sync.RWMutex
	pool    map[string]utxo.Transaction
	claimed map[utxo.OutputRef]string
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool:    make(map[string]utxo.Transaction),
		claimed: make(map[utxo.OutputRef]string),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds a transaction to the pool. Re-adding a transaction with the
// same id is a no-op. A transaction that claims an output already claimed by
// a different pooled transaction is rejected.
func (mp *Mempool) Upsert(tx utxo.Transaction) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[tx.ID]; exists {
		return nil
	}

	for _, ref := range tx.Consumes() {
		if holder, exists := mp.claimed[ref]; exists && holder != tx.ID {
			return fmt.Errorf("input %s claimed by %s: %w", ref, holder, utxo.ErrDoubleSpend)
		}
	}

	mp.pool[tx.ID] = tx
	for _, ref := range tx.Consumes() {
		mp.claimed[ref] = tx.ID
	}

	return nil
}

// Delete removes a transaction from the pool and releases its claims. It is
// a no-op if the transaction is not present.
func (mp *Mempool) Delete(txID string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	tx, exists := mp.pool[txID]
	if !exists {
		return
	}

	delete(mp.pool, txID)
	for _, ref := range tx.Consumes() {
		if mp.claimed[ref] == txID {
			delete(mp.claimed, ref)
		}
	}
}

// Has reports whether a transaction with the specified id is pooled.
func (mp *Mempool) Has(txID string) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.pool[txID]
	return exists
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]utxo.Transaction)
	mp.claimed = make(map[utxo.OutputRef]string)
}

// Claimed returns the set of output references currently claimed by pooled
// transactions. This is the conflict set transaction validation runs against.
func (mp *Mempool) Claimed() map[utxo.OutputRef]struct{} {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	claimed := make(map[utxo.OutputRef]struct{}, len(mp.claimed))
	for ref := range mp.claimed {
		claimed[ref] = struct{}{}
	}

	return claimed
}

// Copy returns a copy of the pooled transactions ordered by transaction id.
func (mp *Mempool) Copy() []utxo.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return mp.sorted()
}

// PickConflictFree returns a maximal conflict-free subset of the pool for
// block assembly. The pool snapshot is walked in ascending transaction id
// order and a transaction is taken if none of its inputs have been claimed by
// an earlier pick. The order decides which of two conflicting transactions
// gets a chance to be mined. It is deterministic, not fair or optimal.
func (mp *Mempool) PickConflictFree() []utxo.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var picked []utxo.Transaction
	used := make(map[utxo.OutputRef]struct{})

	for _, tx := range mp.sorted() {
		conflict := false
		for _, ref := range tx.Consumes() {
			if _, exists := used[ref]; exists {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		for _, ref := range tx.Consumes() {
			used[ref] = struct{}{}
		}
		picked = append(picked, tx)
	}

	return picked
}

// =============================================================================

// sorted returns the pooled transactions ordered by transaction id. The lock
// must be held by the caller.
func (mp *Mempool) sorted() []utxo.Transaction {
	txs := make([]utxo.Transaction, 0, len(mp.pool))
	for _, tx := range mp.pool {
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].ID < txs[j].ID
	})

	return txs
}
