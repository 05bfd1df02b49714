package utxo

import (
	"sort"
	"sync"
)

// Ledger manages the set of unspent outputs for one node. An output reference
// is present iff it was produced by a transaction in that node's chain and has
// not been consumed by a later transaction in that chain. The ledger is only
// mutated by block acceptance and by genesis seeding.
type Ledger struct {
	mu      sync.RWMutex
	unspent map[OutputRef]Output
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		unspent: make(map[OutputRef]Output),
	}
}

// Has reports whether the specified output reference is spendable.
func (lgr *Ledger) Has(ref OutputRef) bool {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	_, exists := lgr.unspent[ref]
	return exists
}

// Get returns the output for the specified reference. Validation treats a
// not-found as "input unavailable".
func (lgr *Ledger) Get(ref OutputRef) (Output, bool) {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	output, exists := lgr.unspent[ref]
	return output, exists
}

// Put records a new spendable output under the specified reference.
func (lgr *Ledger) Put(ref OutputRef, output Output) {
	lgr.mu.Lock()
	defer lgr.mu.Unlock()

	lgr.unspent[ref] = output
}

// Remove consumes the output under the specified reference.
func (lgr *Ledger) Remove(ref OutputRef) {
	lgr.mu.Lock()
	defer lgr.mu.Unlock()

	delete(lgr.unspent, ref)
}

// Count returns the current number of unspent outputs.
func (lgr *Ledger) Count() int {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	return len(lgr.unspent)
}

// Keys returns the set of unspent output references ordered by transaction id
// and index so reporting is reproducible.
func (lgr *Ledger) Keys() []OutputRef {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	keys := make([]OutputRef, 0, len(lgr.unspent))
	for ref := range lgr.unspent {
		keys = append(keys, ref)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].TxID != keys[j].TxID {
			return keys[i].TxID < keys[j].TxID
		}
		return keys[i].Index < keys[j].Index
	})

	return keys
}

// Copy makes a copy of the current set of unspent outputs.
func (lgr *Ledger) Copy() map[OutputRef]Output {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	unspent := make(map[OutputRef]Output, len(lgr.unspent))
	for ref, output := range lgr.unspent {
		unspent[ref] = output
	}

	return unspent
}
