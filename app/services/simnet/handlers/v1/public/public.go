// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/utxonet/utxonet/business/sys/validate"
	"github.com/utxonet/utxonet/business/web/errs"
	"github.com/utxonet/utxonet/foundation/blockchain/network"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
	"github.com/utxonet/utxonet/foundation/events"
	"github.com/utxonet/utxonet/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of simulation endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Net  *network.Network
	WS   websocket.Upgrader
	Evts *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis settings shared by the network.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.Net.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Nodes returns the names of the registered nodes.
func (h Handlers) Nodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	names := h.Net.Names()
	return web.Respond(ctx, w, names, http.StatusOK)
}

// Ledger returns the unspent outputs as seen by the specified node.
func (h Handlers) Ledger(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	n, err := h.Net.Node(web.Param(r, "node"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	ledger := n.RetrieveLedger()

	entries := make([]ledgerEntry, 0, len(ledger))
	for _, ref := range n.RetrieveLedgerKeys() {
		output := ledger[ref]
		entries = append(entries, ledgerEntry{
			TxID:   ref.TxID,
			Index:  ref.Index,
			Owner:  output.OwnerID,
			Amount: output.Amount,
		})
	}

	return web.Respond(ctx, w, entries, http.StatusOK)
}

// Mempool returns the set of pending transactions pooled by the specified node.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	n, err := h.Net.Node(web.Param(r, "node"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, n.RetrieveMempool(), http.StatusOK)
}

// Chain returns the blocks accepted by the specified node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	n, err := h.Net.Node(web.Param(r, "node"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	chn := n.RetrieveChain()

	blocks := make([]block, len(chn))
	for i, blk := range chn {
		blocks[i] = toBlock(blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// SubmitTx adds a new transaction to the specified node's pool and gossips
// it across the network.
func (h Handlers) SubmitTx(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	n, err := h.Net.Node(web.Param(r, "node"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	inputs := make([]utxo.Input, len(ntx.Inputs))
	for i, input := range ntx.Inputs {
		inputs[i] = utxo.Input{
			Ref:     utxo.NewOutputRef(input.TxID, input.Index),
			OwnerID: input.Owner,
		}
	}

	outputs := make([]utxo.Output, len(ntx.Outputs))
	for i, output := range ntx.Outputs {
		outputs[i] = utxo.Output{
			OwnerID: output.Owner,
			Amount:  output.Amount,
		}
	}

	tx := utxo.NewTransaction(inputs, outputs)

	h.Log.Infow("submit tran", "traceid", v.TraceID, "node", n.Name(), "tx", tx.ID)
	if err := n.ReceiveTransaction(tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		TxID   string `json:"tx_id"`
	}{
		Status: "transaction added to pool",
		TxID:   tx.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
