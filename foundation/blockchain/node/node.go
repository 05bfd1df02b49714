// Package node implements the peer actor for the network. A node owns
// exactly one ledger, one pending pool and one chain, and exposes the
// transaction-receipt and block-receipt entry points peers gossip through.
package node

import (
	"sync"

	"github.com/utxonet/utxonet/foundation/blockchain/chain"
	"github.com/utxonet/utxonet/foundation/blockchain/genesis"
	"github.com/utxonet/utxonet/foundation/blockchain/mempool"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// maxGossipMessages represents the max number of inbound gossip deliveries
// that can be outstanding before deliveries are dropped. To keep this simple,
// a buffered channel of this arbitrary number is being used. If the channel
// does become full, deliveries are dropped and logged.
const maxGossipMessages = 100

// EventHandler defines a function that is called when events occur in the
// processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// message is one inbound gossip delivery waiting in a node's inbox.
type message struct {
	tx    *utxo.Transaction
	block *chain.Block
}

// Config represents the configuration required to construct a node.
type Config struct {
	Name      string
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// Node manages one peer's view of the network: its ledger of unspent
// outputs, its pending pool and its chain. Cross-node effects only happen
// through ReceiveTransaction and ReceiveBlock.
type Node struct {
	name    string
	genesis genesis.Genesis
	ev      EventHandler

	// mu makes the whole of ReceiveTransaction and ReceiveBlock a single
	// critical section per node. Gossip to peers goes through each peer's
	// inbox, never a blocking re-entrant call, so cyclic peer graphs
	// cannot deadlock.
	mu      sync.Mutex
	ledger  *utxo.Ledger
	mempool *mempool.Mempool
	chain   *chain.Chain

	peersMu sync.RWMutex
	peers   []*Node // referenced, not owned

	inbox chan message
	shut  chan struct{}
	wg    sync.WaitGroup
}

// New constructs a node, seeds its ledger from genesis and starts the
// goroutine that drains its gossip inbox.
func New(cfg Config) *Node {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	n := Node{
		name:    cfg.Name,
		genesis: cfg.Genesis,
		ev:      ev,
		ledger:  utxo.NewLedger(),
		mempool: mempool.New(),
		chain:   chain.New(chain.Genesis()),
		inbox:   make(chan message, maxGossipMessages),
		shut:    make(chan struct{}),
	}

	for ref, output := range cfg.Genesis.Outputs() {
		n.ledger.Put(ref, output)
	}

	// We don't want to return until we know the gossip G is up and running.
	hasStarted := make(chan struct{})

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		close(hasStarted)
		n.gossipOperations()
	}()

	<-hasStarted

	return &n
}

// Shutdown terminates the goroutine draining the gossip inbox. Deliveries
// already being processed complete their critical section first.
func (n *Node) Shutdown() {
	n.ev("node: %s: shutdown: started", n.name)
	defer n.ev("node: %s: shutdown: completed", n.name)

	close(n.shut)
	n.wg.Wait()
}

// Name returns the node's identity in the network.
func (n *Node) Name() string {
	return n.name
}

// AddPeer records a non-owning link to another node. Linking a node to
// itself or recording the same peer twice is a no-op.
func (n *Node) AddPeer(peer *Node) {
	if peer == nil || peer == n {
		return
	}

	n.peersMu.Lock()
	defer n.peersMu.Unlock()

	for _, p := range n.peers {
		if p == peer {
			return
		}
	}

	n.peers = append(n.peers, peer)
}

// =============================================================================

// gossipOperations drains the inbox, running this node's own receipt
// protocol for every delivery. Rejections are observed locally, they never
// propagate back across the peer boundary.
func (n *Node) gossipOperations() {
	n.ev("node: %s: gossipOperations: G started", n.name)
	defer n.ev("node: %s: gossipOperations: G completed", n.name)

	for {
		select {
		case msg := <-n.inbox:
			switch {
			case msg.tx != nil:
				if err := n.ReceiveTransaction(*msg.tx); err != nil {
					n.ev("node: %s: gossipOperations: %s rejected: %s", n.name, msg.tx, err)
				}

			case msg.block != nil:

				// Duplicate-suppressed delivery: a block this node has
				// already recorded is not processed again.
				if n.chain.Has(msg.block.Hash()) {
					continue
				}
				if err := n.ReceiveBlock(*msg.block); err != nil {
					n.ev("node: %s: gossipOperations: block[%s] rejected: %s", n.name, msg.block.Hash(), err)
				}
			}

		case <-n.shut:
			n.ev("node: %s: gossipOperations: received shut signal", n.name)
			return
		}
	}
}

// sendPeers returns the current set of peer links.
func (n *Node) sendPeers() []*Node {
	n.peersMu.RLock()
	defer n.peersMu.RUnlock()

	peers := make([]*Node, len(n.peers))
	copy(peers, n.peers)

	return peers
}

// enqueueTransaction queues a transaction delivery on this node's inbox. If
// the inbox is full the delivery is dropped.
func (n *Node) enqueueTransaction(tx utxo.Transaction) {
	select {
	case n.inbox <- message{tx: &tx}:
	default:
		n.ev("node: %s: enqueueTransaction: inbox full, %s won't be delivered", n.name, tx)
	}
}

// enqueueBlock queues a block delivery on this node's inbox. If the inbox is
// full the delivery is dropped.
func (n *Node) enqueueBlock(b chain.Block) {
	select {
	case n.inbox <- message{block: &b}:
	default:
		n.ev("node: %s: enqueueBlock: inbox full, block[%s] won't be delivered", n.name, b.Hash())
	}
}
