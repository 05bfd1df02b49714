// Package miner implements the block producer actor. A miner owns a
// reference to exactly one node and a difficulty, it owns no ledger state
// itself.
package miner

import (
	"context"
	"sync"
	"time"

	"github.com/utxonet/utxonet/foundation/blockchain/chain"
	"github.com/utxonet/utxonet/foundation/blockchain/node"
)

// defaultMineDelay is how long the miner rests between rounds when the
// genesis settings don't specify a delay.
const defaultMineDelay = 200 * time.Millisecond

// Config represents the configuration required to start a miner.
type Config struct {
	Name       string
	Node       *node.Node
	Difficulty int // May be stricter than the network minimum.
	EvHandler  node.EventHandler
}

// Miner repeatedly assembles a candidate block from its node's pool, solves
// the proof of work puzzle and submits the block to its node.
type Miner struct {
	name       string
	node       *node.Node
	difficulty int
	delay      time.Duration
	ev         node.EventHandler

	shut chan struct{}
	wg   sync.WaitGroup
}

// New constructs a miner and starts its mining goroutine.
func New(cfg Config) *Miner {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	delay := cfg.Node.Genesis().MineDelay
	if delay <= 0 {
		delay = defaultMineDelay
	}

	m := Miner{
		name:       cfg.Name,
		node:       cfg.Node,
		difficulty: cfg.Difficulty,
		delay:      delay,
		ev:         ev,
		shut:       make(chan struct{}),
	}

	// We don't want to return until we know the mining G is up and running.
	hasStarted := make(chan struct{})

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		close(hasStarted)
		m.miningOperations()
	}()

	<-hasStarted

	return &m
}

// Shutdown signals the mining goroutine to stop and waits for it. The stop
// is observed at the next yield point of the proof of work search, a partial
// round is abandoned without submitting.
func (m *Miner) Shutdown() {
	m.ev("miner: %s: shutdown: started", m.name)
	defer m.ev("miner: %s: shutdown: completed", m.name)

	close(m.shut)
	m.wg.Wait()
}

// =============================================================================

// miningOperations runs mining rounds until a stop is signaled, resting
// briefly between rounds so freshly gossiped transactions and blocks can
// settle.
func (m *Miner) miningOperations() {
	m.ev("miner: %s: miningOperations: G started", m.name)
	defer m.ev("miner: %s: miningOperations: G completed", m.name)

	for {
		select {
		case <-m.shut:
			m.ev("miner: %s: miningOperations: received shut signal", m.name)
			return
		default:
		}

		m.runMiningOperation()

		select {
		case <-m.shut:
			m.ev("miner: %s: miningOperations: received shut signal", m.name)
			return
		case <-time.After(m.delay):
		}
	}
}

// runMiningOperation performs one round: snapshot the pool, select the
// conflict-free subset, assemble a candidate on the node's current tip and
// search for the proof of work solution.
func (m *Miner) runMiningOperation() {
	trans := m.node.PickTransactions()
	if len(trans) == 0 {
		return
	}

	m.ev("miner: %s: runMiningOperation: MINING: started: txs[%d]", m.name, len(trans))
	defer m.ev("miner: %s: runMiningOperation: MINING: completed", m.name)

	// Create a context so mining can be cancelled by a shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-m.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	tipHash := m.node.RetrieveLatestBlock().Hash()

	block, err := chain.POW(ctx, m.difficulty, tipHash, trans, m.ev)
	if err != nil {
		if ctx.Err() != nil {
			m.ev("miner: %s: runMiningOperation: MINING: CANCELLED: by request", m.name)
			return
		}
		m.ev("miner: %s: runMiningOperation: MINING: ERROR: %s", m.name, err)
		return
	}

	m.ev("miner: %s: runMiningOperation: MINING: mined block[%s]: txs[%d]", m.name, block.Hash(), len(block.Trans))

	// Submit the block regardless of the acceptance outcome. If the node
	// rejects it, the next round starts over from the updated chain tip.
	if err := m.node.ReceiveBlock(block); err != nil {
		m.ev("miner: %s: runMiningOperation: MINING: WARNING: block rejected: %s", m.name, err)
	}
}
