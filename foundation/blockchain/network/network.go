// Package network maintains the registry of nodes in the simulated network.
// Nodes are held by name and handed out as non-owning handles, peer links are
// symmetric and carry no ownership.
package network

import (
	"fmt"
	"sort"
	"sync"

	"github.com/utxonet/utxonet/foundation/blockchain/genesis"
	"github.com/utxonet/utxonet/foundation/blockchain/node"
)

// Network represents the set of nodes participating in the simulation.
type Network struct {
	genesis genesis.Genesis
	ev      node.EventHandler

	mu    sync.RWMutex
	nodes map[string]*node.Node
}

// New constructs an empty network. Every node added shares the specified
// genesis settings.
func New(gen genesis.Genesis, ev node.EventHandler) *Network {
	return &Network{
		genesis: gen,
		ev:      ev,
		nodes:   make(map[string]*node.Node),
	}
}

// Genesis returns a copy of the genesis settings shared by every node.
func (net *Network) Genesis() genesis.Genesis {
	return net.genesis
}

// AddNode constructs and registers a node under the specified name.
func (net *Network) AddNode(name string) (*node.Node, error) {
	net.mu.Lock()
	defer net.mu.Unlock()

	if _, exists := net.nodes[name]; exists {
		return nil, fmt.Errorf("node %q already exists", name)
	}

	n := node.New(node.Config{
		Name:      name,
		Genesis:   net.genesis,
		EvHandler: net.ev,
	})
	net.nodes[name] = n

	return n, nil
}

// Node returns the node registered under the specified name.
func (net *Network) Node(name string) (*node.Node, error) {
	net.mu.RLock()
	defer net.mu.RUnlock()

	n, exists := net.nodes[name]
	if !exists {
		return nil, fmt.Errorf("node %q does not exist", name)
	}

	return n, nil
}

// Connect records a symmetric peer link between two named nodes.
func (net *Network) Connect(a string, b string) error {
	na, err := net.Node(a)
	if err != nil {
		return err
	}
	nb, err := net.Node(b)
	if err != nil {
		return err
	}

	na.AddPeer(nb)
	nb.AddPeer(na)

	return nil
}

// ConnectAll links every pair of registered nodes into a full mesh.
func (net *Network) ConnectAll() {
	net.mu.RLock()
	defer net.mu.RUnlock()

	for _, a := range net.nodes {
		for _, b := range net.nodes {
			if a != b {
				a.AddPeer(b)
			}
		}
	}
}

// Names returns the registered node names in order.
func (net *Network) Names() []string {
	net.mu.RLock()
	defer net.mu.RUnlock()

	names := make([]string, 0, len(net.nodes))
	for name := range net.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Shutdown cleanly brings every node down.
func (net *Network) Shutdown() {
	net.mu.RLock()
	defer net.mu.RUnlock()

	for _, n := range net.nodes {
		n.Shutdown()
	}
}
