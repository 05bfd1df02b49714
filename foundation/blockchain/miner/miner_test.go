package miner_test

import (
	"testing"
	"time"

	"github.com/utxonet/utxonet/foundation/blockchain/genesis"
	"github.com/utxonet/utxonet/foundation/blockchain/miner"
	"github.com/utxonet/utxonet/foundation/blockchain/network"
	"github.com/utxonet/utxonet/foundation/blockchain/node"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func noopEv(v string, args ...any) {}

// aliceSpend constructs a transaction consuming the genesis output.
func aliceSpend(to string) utxo.Transaction {
	return utxo.NewTransaction(
		[]utxo.Input{{Ref: utxo.NewOutputRef(genesis.TxID, 0), OwnerID: "Alice"}},
		[]utxo.Output{{OwnerID: to, Amount: 100}},
	)
}

// waitFor polls the condition until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %s", what)
}

// chainSpenders returns which of the candidate transactions appear in the
// node's chain.
func chainSpenders(n *node.Node, candidates ...utxo.Transaction) []string {
	var found []string
	for _, b := range n.RetrieveChain() {
		for _, tx := range b.Trans {
			for _, cand := range candidates {
				if tx.ID == cand.ID {
					found = append(found, cand.ID)
				}
			}
		}
	}

	return found
}

// =============================================================================

func TestDoubleSpendRace(t *testing.T) {
	gen := genesis.Genesis{
		Difficulty: 1,
		MineDelay:  25 * time.Millisecond,
		Balances:   map[string]uint64{"Alice": 100},
	}

	t.Log("Given the need to resolve conflicting spends of the same output.")
	{
		t.Logf("\tTest 0:\tWhen two conflicting transactions race through different entry nodes.")
		{
			net := network.New(gen, noopEv)
			t.Cleanup(net.Shutdown)

			for _, name := range []string{"X", "Y", "Z"} {
				if _, err := net.AddNode(name); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to add node %s: %v", failed, name, err)
				}
			}
			net.ConnectAll()

			x, _ := net.Node("X")
			y, _ := net.Node("Y")
			z, _ := net.Node("Z")

			m := miner.New(miner.Config{
				Name:       "MinerX",
				Node:       x,
				Difficulty: gen.Difficulty,
				EvHandler:  noopEv,
			})
			t.Cleanup(m.Shutdown)

			tx1 := aliceSpend("Bob")
			tx2 := aliceSpend("Mallory")

			// Race the conflicting spends through different entry nodes. One
			// of the submissions may be rejected immediately if the other's
			// gossip arrives first, that is part of the race.
			go func() { _ = x.ReceiveTransaction(tx1) }()
			go func() { _ = y.ReceiveTransaction(tx2) }()

			nodes := []*node.Node{x, y, z}

			waitFor(t, "a block to reach every chain", func() bool {
				for _, n := range nodes {
					if len(n.RetrieveChain()) < 2 {
						return false
					}
				}
				return true
			})
			t.Logf("\t%s\tTest 0:\tShould mine and propagate a block to every chain.", success)

			waitFor(t, "every pool to drain", func() bool {
				for _, n := range nodes {
					if n.QueryMempoolLength() != 0 {
						return false
					}
				}
				return true
			})
			t.Logf("\t%s\tTest 0:\tShould drain every pool once the block propagates.", success)

			m.Shutdown()

			// Every node must have recorded exactly one of the two spenders,
			// and all nodes must agree on which one won.
			winner := chainSpenders(x, tx1, tx2)
			if len(winner) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould record exactly one spender in the chain: got %v", failed, winner)
			}
			for _, n := range nodes {
				got := chainSpenders(n, tx1, tx2)
				if len(got) != 1 || got[0] != winner[0] {
					t.Fatalf("\t%s\tTest 0:\tShould agree on the winning spender at node %s: got %v, exp %v", failed, n.Name(), got, winner)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould agree on the winning spender at every node.", success)

			winning, losing := tx1, tx2
			if winner[0] == tx2.ID {
				winning, losing = tx2, tx1
			}

			genesisRef := utxo.NewOutputRef(genesis.TxID, 0)
			for _, n := range nodes {
				ledger := n.RetrieveLedger()

				if _, exists := ledger[genesisRef]; exists {
					t.Fatalf("\t%s\tTest 0:\tShould have consumed the genesis output at node %s.", failed, n.Name())
				}
				if _, exists := ledger[utxo.NewOutputRef(winning.ID, 0)]; !exists {
					t.Fatalf("\t%s\tTest 0:\tShould hold the winning output at node %s.", failed, n.Name())
				}
				if _, exists := ledger[utxo.NewOutputRef(losing.ID, 0)]; exists {
					t.Fatalf("\t%s\tTest 0:\tShould not hold any output of the losing spender at node %s.", failed, n.Name())
				}
			}
			t.Logf("\t%s\tTest 0:\tShould hold only the winning output in every ledger.", success)
		}
	}
}

func TestMinerShutdown(t *testing.T) {
	gen := genesis.Genesis{
		Difficulty: 1,
		MineDelay:  25 * time.Millisecond,
		Balances:   map[string]uint64{"Alice": 100},
	}

	t.Log("Given the need to stop a miner with bounded latency.")
	{
		t.Logf("\tTest 0:\tWhen the miner is searching at an impossible difficulty.")
		{
			n := node.New(node.Config{
				Name:      "A",
				Genesis:   gen,
				EvHandler: noopEv,
			})
			t.Cleanup(n.Shutdown)

			if err := n.ReceiveTransaction(aliceSpend("Bob")); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to pool a transaction: %v", failed, err)
			}

			// A difficulty of 17 leading zeros is unreachable in test time,
			// the search only ends because the stop is observed.
			m := miner.New(miner.Config{
				Name:       "MinerA",
				Node:       n,
				Difficulty: 17,
				EvHandler:  noopEv,
			})

			// Give the miner time to enter the search loop.
			time.Sleep(100 * time.Millisecond)

			done := make(chan struct{})
			go func() {
				m.Shutdown()
				close(done)
			}()

			select {
			case <-done:
				t.Logf("\t%s\tTest 0:\tShould observe the stop signal at the next yield point.", success)
			case <-time.After(5 * time.Second):
				t.Fatalf("\t%s\tTest 0:\tShould observe the stop signal at the next yield point.", failed)
			}

			if len(n.RetrieveChain()) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not have submitted a partial round.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not have submitted a partial round.", success)
		}
	}
}
