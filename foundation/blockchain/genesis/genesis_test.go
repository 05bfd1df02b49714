package genesis_test

import (
	"testing"
	"time"

	"github.com/utxonet/utxonet/foundation/blockchain/genesis"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func TestOutputs(t *testing.T) {
	t.Log("Given the need to seed every node with the same genesis outputs.")
	{
		gen := genesis.Genesis{
			Date:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			Difficulty: 2,
			Balances: map[string]uint64{
				"Charlie": 25,
				"Alice":   100,
				"Bob":     50,
			},
		}

		t.Logf("\tTest 0:\tWhen mapping balances to outputs.")
		{
			outputs := gen.Outputs()

			if len(outputs) != len(gen.Balances) {
				t.Fatalf("\t%s\tTest 0:\tShould seed one output per balance: got %d, exp %d.", failed, len(outputs), len(gen.Balances))
			}
			t.Logf("\t%s\tTest 0:\tShould seed one output per balance.", success)

			// Owners are indexed in name order under the genesis id.
			exp := map[utxo.OutputRef]utxo.Output{
				utxo.NewOutputRef(genesis.TxID, 0): {OwnerID: "Alice", Amount: 100},
				utxo.NewOutputRef(genesis.TxID, 1): {OwnerID: "Bob", Amount: 50},
				utxo.NewOutputRef(genesis.TxID, 2): {OwnerID: "Charlie", Amount: 25},
			}
			for ref, output := range exp {
				got, exists := outputs[ref]
				if !exists || got != output {
					t.Fatalf("\t%s\tTest 0:\tShould record %s for %s: got %v.", failed, ref, output.OwnerID, got)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould index owners in name order.", success)
		}

		t.Logf("\tTest 1:\tWhen mapping the same balances twice.")
		{
			first := gen.Outputs()
			second := gen.Outputs()

			for ref, output := range first {
				if second[ref] != output {
					t.Fatalf("\t%s\tTest 1:\tShould produce the same outputs every time: %s differs.", failed, ref)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould produce the same outputs every time.", success)
		}
	}
}
