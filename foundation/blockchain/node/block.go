package node

import (
	"errors"
	"fmt"

	"github.com/utxonet/utxonet/foundation/blockchain/chain"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// ErrBadProofOfWork is returned when a block's digest does not carry the
// leading zeros the network difficulty requires. The rejection is permanent,
// the block is discarded and never retried.
var ErrBadProofOfWork = errors.New("bad proof of work")

// ErrMissingOrDuplicateInput is returned when a block's transactions claim an
// output that is not in the ledger or is claimed twice within the block. The
// whole block is rejected with no partial application.
var ErrMissingOrDuplicateInput = errors.New("missing or duplicate input")

// ReceiveBlock is the block-receipt entry point. It validates the block fully
// before mutating anything: the proof of work against the network-wide
// difficulty, then every consumed output against the current ledger. On
// success the block is applied atomically, appended to the chain and gossiped
// to every peer under duplicate suppression.
//
// This re-validation at receipt time is what enforces double-spend prevention
// globally: two conflicting transactions may sit in different nodes' pools,
// but only one can ever pass this check, because applying it consumes the
// shared ledger entry.
func (n *Node) ReceiveBlock(b chain.Block) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	hash := b.Hash()

	// Delivering the same block twice changes nothing.
	if n.chain.Has(hash) {
		return nil
	}

	// A block mined at a stricter miner difficulty automatically satisfies
	// the network minimum.
	if !chain.IsSolved(n.genesis.Difficulty, hash) {
		n.ev("node: %s: receiveBlock: block[%s] rejected: bad proof of work", n.name, hash)
		return ErrBadProofOfWork
	}

	// Walk the transactions in order accumulating the claimed outputs. Any
	// claim that does not resolve, or resolves twice within the block,
	// rejects the whole block before anything is applied.
	consumed := make(map[utxo.OutputRef]struct{})
	for _, tx := range b.Trans {
		for _, ref := range tx.Consumes() {
			if _, dup := consumed[ref]; dup || !n.ledger.Has(ref) {
				n.ev("node: %s: receiveBlock: block[%s] rejected: %s input %s missing or duplicate", n.name, hash, tx, ref)
				return fmt.Errorf("%s input %s: %w", tx, ref, ErrMissingOrDuplicateInput)
			}
			consumed[ref] = struct{}{}
		}
	}

	// Apply: consume every claimed output, record every produced output,
	// prune included transactions from the pool. A transaction may be absent
	// from the pool if this node never saw it directly, block-level
	// validation supersedes pool membership.
	for _, tx := range b.Trans {
		for _, ref := range tx.Consumes() {
			n.ledger.Remove(ref)
		}
		for i, output := range tx.Outputs {
			n.ledger.Put(utxo.NewOutputRef(tx.ID, i), output)
		}
		n.mempool.Delete(tx.ID)
	}

	n.chain.Append(b)

	// Pooled transactions that lost the race now reference consumed outputs.
	// Dropping them keeps the pool invariant that every pooled transaction
	// resolves in the ledger.
	n.pruneInvalid()

	n.ev("node: %s: receiveBlock: block[%s] accepted: txs[%d] chain[%d]", n.name, hash, len(b.Trans), n.chain.Height())

	for _, peer := range n.sendPeers() {
		peer.enqueueBlock(b)
	}

	return nil
}

// pruneInvalid removes pooled transactions whose inputs no longer resolve in
// the ledger. The node lock must be held by the caller.
func (n *Node) pruneInvalid() {
	for _, tx := range n.mempool.Copy() {
		for _, ref := range tx.Consumes() {
			if !n.ledger.Has(ref) {
				n.ev("node: %s: pruneInvalid: %s dropped: input %s consumed", n.name, tx, ref)
				n.mempool.Delete(tx.ID)
				break
			}
		}
	}
}
