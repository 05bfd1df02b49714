// Package utxo implements the unspent-output model for the blockchain. It
// provides the transaction types, the per-node ledger of spendable outputs,
// and the validation rules both the mempool and block acceptance share.
package utxo

import (
	"fmt"

	"github.com/google/uuid"
)

// OutputRef uniquely identifies a spendable output by the transaction that
// produced it and the position of the output in that transaction. It is the
// key of the ledger.
type OutputRef struct {
	TxID  string `json:"tx_id"`
	Index int    `json:"index"`
}

// NewOutputRef constructs a reference to the output at the specified index
// of the specified transaction.
func NewOutputRef(txID string, index int) OutputRef {
	return OutputRef{
		TxID:  txID,
		Index: index,
	}
}

// String implements the fmt.Stringer interface for logging.
func (ref OutputRef) String() string {
	return fmt.Sprintf("%s:%d", ref.TxID, ref.Index)
}

// =============================================================================

// Output represents value assigned to an owner. Once created it is never
// changed, only consumed as a whole.
type Output struct {
	OwnerID string `json:"owner"`
	Amount  uint64 `json:"amount"`
}

// Input references the output a transaction intends to consume. The owner is
// a claim only, there is no cryptographic proof in this model.
type Input struct {
	Ref     OutputRef `json:"ref"`
	OwnerID string    `json:"owner"`
}

// =============================================================================

// Transaction moves value from a set of unspent outputs to a set of new
// outputs. A transaction is immutable after construction.
type Transaction struct {
	ID      string   `json:"id"`
	Inputs  []Input  `json:"inputs"`
	Outputs []Output `json:"outputs"`
}

// NewTransaction constructs a transaction with a process-wide unique id.
func NewTransaction(inputs []Input, outputs []Output) Transaction {
	return Transaction{
		ID:      uuid.NewString(),
		Inputs:  inputs,
		Outputs: outputs,
	}
}

// Consumes returns the set of output references the transaction claims.
func (tx Transaction) Consumes() []OutputRef {
	refs := make([]OutputRef, len(tx.Inputs))
	for i, in := range tx.Inputs {
		refs[i] = in.Ref
	}

	return refs
}

// Produces returns the references under which the transaction's outputs are
// recorded in the ledger once the transaction is accepted into a block.
func (tx Transaction) Produces() []OutputRef {
	refs := make([]OutputRef, len(tx.Outputs))
	for i := range tx.Outputs {
		refs[i] = NewOutputRef(tx.ID, i)
	}

	return refs
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("tx(%s)", tx.ID)
}
