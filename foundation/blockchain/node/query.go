package node

import (
	"github.com/utxonet/utxonet/foundation/blockchain/chain"
	"github.com/utxonet/utxonet/foundation/blockchain/genesis"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// Read-only snapshot accessors used for reporting, not for control.

// Genesis returns the genesis settings the node was started with.
func (n *Node) Genesis() genesis.Genesis {
	return n.genesis
}

// RetrieveLedger returns a copy of the node's unspent outputs.
func (n *Node) RetrieveLedger() map[utxo.OutputRef]utxo.Output {
	return n.ledger.Copy()
}

// RetrieveLedgerKeys returns the node's unspent output references in a
// deterministic order.
func (n *Node) RetrieveLedgerKeys() []utxo.OutputRef {
	return n.ledger.Keys()
}

// RetrieveMempool returns a copy of the node's pending transactions ordered
// by transaction id.
func (n *Node) RetrieveMempool() []utxo.Transaction {
	return n.mempool.Copy()
}

// QueryMempoolLength returns the current number of pending transactions.
func (n *Node) QueryMempoolLength() int {
	return n.mempool.Count()
}

// RetrieveChain returns a copy of the node's accepted blocks.
func (n *Node) RetrieveChain() []chain.Block {
	return n.chain.Blocks()
}

// RetrieveLatestBlock returns the node's current chain tip.
func (n *Node) RetrieveLatestBlock() chain.Block {
	return n.chain.Tip()
}

// PickTransactions returns the deterministic conflict-free subset of the
// node's pool a miner assembles the next candidate block from.
func (n *Node) PickTransactions() []utxo.Transaction {
	return n.mempool.PickConflictFree()
}
