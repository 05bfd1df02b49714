package public

import (
	"github.com/utxonet/utxonet/foundation/blockchain/chain"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// newTxInput describes an unspent output being consumed by a submitted
// transaction.
type newTxInput struct {
	TxID  string `json:"tx_id" validate:"required"`
	Index int    `json:"index" validate:"gte=0"`
	Owner string `json:"owner" validate:"required"`
}

// newTxOutput describes an output being produced by a submitted transaction.
type newTxOutput struct {
	Owner  string `json:"owner" validate:"required"`
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

// newTx is what clients post to spend outputs on a node.
type newTx struct {
	Inputs  []newTxInput  `json:"inputs" validate:"required,min=1,dive"`
	Outputs []newTxOutput `json:"outputs" validate:"required,min=1,dive"`
}

// ledgerEntry is the client view of one unspent output.
type ledgerEntry struct {
	TxID   string `json:"tx_id"`
	Index  int    `json:"index"`
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

// block is the client view of a mined block, with its digest computed in.
type block struct {
	Hash     string             `json:"hash"`
	PrevHash string             `json:"prev_hash"`
	Nonce    uint64             `json:"nonce"`
	Trans    []utxo.Transaction `json:"trans"`
}

func toBlock(b chain.Block) block {
	return block{
		Hash:     b.Hash(),
		PrevHash: b.PrevHash,
		Nonce:    b.Nonce,
		Trans:    b.Trans,
	}
}
