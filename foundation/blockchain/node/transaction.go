package node

import (
	"fmt"

	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// ReceiveTransaction is the transaction-receipt entry point, invoked by an
// external submitter or by a peer's gossip delivery. The transaction is
// validated against the current ledger and the set of outputs already claimed
// by every pooled transaction. On success it is pooled and forwarded to every
// peer, on failure it is dropped with no mutation and no forwarding.
func (n *Node) ReceiveTransaction(tx utxo.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	// A transaction this node already pooled is a no-op. Not forwarding it
	// again is what terminates gossip on cyclic peer graphs.
	if n.mempool.Has(tx.ID) {
		return nil
	}

	if err := utxo.ValidateTransaction(n.ledger, n.mempool.Claimed(), tx); err != nil {
		n.ev("node: %s: receiveTransaction: %s rejected: %s", n.name, tx, err)
		return fmt.Errorf("validate %s: %w", tx, err)
	}

	if err := n.mempool.Upsert(tx); err != nil {
		return fmt.Errorf("pool %s: %w", tx, err)
	}

	n.ev("node: %s: receiveTransaction: %s accepted", n.name, tx)

	for _, peer := range n.sendPeers() {
		peer.enqueueTransaction(tx)
	}

	return nil
}
