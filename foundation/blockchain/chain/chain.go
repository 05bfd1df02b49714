package chain

import (
	"sync"
)

// Chain is the append-only ordered sequence of blocks one node has accepted.
// Every block links to the block before it by digest, starting from the
// genesis block.
type Chain struct {
	mu     sync.RWMutex
	blocks []Block
}

// New constructs a chain seeded with the specified genesis block.
func New(genesis Block) *Chain {
	return &Chain{
		blocks: []Block{genesis},
	}
}

// Append adds a block to the end of the chain. Acceptance checks belong to
// the node's block receipt protocol, not to the chain.
func (c *Chain) Append(b Block) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.blocks = append(c.blocks, b)
}

// Tip returns the latest block in the chain.
func (c *Chain) Tip() Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.blocks[len(c.blocks)-1]
}

// TipHash returns the digest of the latest block in the chain.
func (c *Chain) TipHash() string {
	return c.Tip().Hash()
}

// Has reports whether the chain contains a block with the specified digest.
func (c *Chain) Has(hash string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.blocks {
		if b.Hash() == hash {
			return true
		}
	}

	return false
}

// Height returns the number of blocks in the chain including genesis.
func (c *Chain) Height() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blocks)
}

// Blocks returns a copy of the chain contents for reporting.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}
