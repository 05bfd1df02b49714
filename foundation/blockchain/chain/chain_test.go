package chain_test

import (
	"context"
	"testing"
	"time"

	"github.com/utxonet/utxonet/foundation/blockchain/chain"
	"github.com/utxonet/utxonet/foundation/blockchain/digest"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func noopEv(v string, args ...any) {}

// =============================================================================

func TestIsSolved(t *testing.T) {
	type table struct {
		name       string
		difficulty int
		hash       string
		solved     bool
	}

	zeros := digest.ZeroHash

	tt := []table{
		{name: "zero difficulty accepts anything", difficulty: 0, hash: "ab" + zeros[2:], solved: true},
		{name: "matching prefix", difficulty: 2, hash: "00ab" + zeros[4:], solved: true},
		{name: "short prefix", difficulty: 2, hash: "0fab" + zeros[4:], solved: false},
		{name: "wrong length", difficulty: 0, hash: "00", solved: false},
		{name: "all zeros", difficulty: 17, hash: zeros, solved: true},
	}

	for _, tst := range tt {
		if got := chain.IsSolved(tst.difficulty, tst.hash); got != tst.solved {
			t.Errorf("%s: got %v, exp %v", tst.name, got, tst.solved)
		}
	}
}

func TestPOW(t *testing.T) {
	t.Log("Given the need to solve the proof of work puzzle.")
	{
		t.Logf("\tTest 0:\tWhen mining with difficulty 0.")
		{
			b, err := chain.POW(context.Background(), 0, chain.Genesis().Hash(), nil, noopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould succeed immediately: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould succeed immediately.", success)

			if !chain.IsSolved(0, b.Hash()) {
				t.Fatalf("\t%s\tTest 0:\tShould produce a solved block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce a solved block.", success)
		}

		t.Logf("\tTest 1:\tWhen mining with difficulty 1.")
		{
			tx := utxo.NewTransaction(
				[]utxo.Input{{Ref: utxo.NewOutputRef("genesis", 0), OwnerID: "Alice"}},
				[]utxo.Output{{OwnerID: "Bob", Amount: 100}},
			)

			b, err := chain.POW(context.Background(), 1, chain.Genesis().Hash(), []utxo.Transaction{tx}, noopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould find a solution: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould find a solution.", success)

			if !chain.IsSolved(1, b.Hash()) {
				t.Fatalf("\t%s\tTest 1:\tShould produce a solved block: hash[%s]", failed, b.Hash())
			}
			t.Logf("\t%s\tTest 1:\tShould produce a solved block.", success)

			if len(b.Trans) != 1 || b.Trans[0].ID != tx.ID {
				t.Fatalf("\t%s\tTest 1:\tShould carry the selected transactions.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould carry the selected transactions.", success)
		}

		t.Logf("\tTest 2:\tWhen the search is cancelled.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			// An impossible difficulty keeps the loop searching forever, the
			// cancel must be observed at the next yield point.
			done := make(chan error, 1)
			go func() {
				_, err := chain.POW(ctx, 17, chain.Genesis().Hash(), nil, noopEv)
				done <- err
			}()

			select {
			case err := <-done:
				if err == nil {
					t.Fatalf("\t%s\tTest 2:\tShould return the context error.", failed)
				}
				t.Logf("\t%s\tTest 2:\tShould return the context error.", success)
			case <-time.After(5 * time.Second):
				t.Fatalf("\t%s\tTest 2:\tShould stop with bounded latency.", failed)
			}
		}
	}
}

func TestChainLinks(t *testing.T) {
	t.Log("Given the need to maintain an append-only chain of blocks.")
	{
		t.Logf("\tTest 0:\tWhen appending mined blocks.")
		{
			genesis := chain.Genesis()
			if genesis.PrevHash != digest.ZeroHash {
				t.Fatalf("\t%s\tTest 0:\tShould start from the zero hash sentinel.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould start from the zero hash sentinel.", success)

			c := chain.New(genesis)

			for i := 0; i < 3; i++ {
				b, err := chain.POW(context.Background(), 1, c.TipHash(), nil, noopEv)
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to mine block %d: %v", failed, i, err)
				}
				c.Append(b)
			}

			if c.Height() != 4 {
				t.Fatalf("\t%s\tTest 0:\tShould have a height of 4: got %d", failed, c.Height())
			}
			t.Logf("\t%s\tTest 0:\tShould have a height of 4.", success)

			blocks := c.Blocks()
			for i := 1; i < len(blocks); i++ {
				if blocks[i].PrevHash != blocks[i-1].Hash() {
					t.Fatalf("\t%s\tTest 0:\tShould link block %d to its predecessor digest.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould link every block to its predecessor digest.", success)

			if !c.Has(blocks[2].Hash()) {
				t.Fatalf("\t%s\tTest 0:\tShould find an accepted block by digest.", failed)
			}
			if c.Has(digest.Hash("not a block")) {
				t.Fatalf("\t%s\tTest 0:\tShould not find an unknown digest.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find accepted blocks by digest.", success)
		}
	}
}
