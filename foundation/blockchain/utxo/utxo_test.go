package utxo_test

import (
	"errors"
	"testing"

	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func TestLedgerCRUD(t *testing.T) {
	t.Log("Given the need to manage a ledger of unspent outputs.")
	{
		t.Logf("\tTest 0:\tWhen adding and consuming outputs.")
		{
			lgr := utxo.NewLedger()

			ref := utxo.NewOutputRef("genesis", 0)
			out := utxo.Output{OwnerID: "Alice", Amount: 100}

			lgr.Put(ref, out)
			if !lgr.Has(ref) {
				t.Fatalf("\t%s\tTest 0:\tShould find an output that was added.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find an output that was added.", success)

			got, exists := lgr.Get(ref)
			if !exists || got != out {
				t.Fatalf("\t%s\tTest 0:\tShould get back the output that was added: got %v, exp %v", failed, got, out)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the output that was added.", success)

			if count := lgr.Count(); count != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have a count of 1: got %d", failed, count)
			}
			t.Logf("\t%s\tTest 0:\tShould have a count of 1.", success)

			lgr.Remove(ref)
			if lgr.Has(ref) {
				t.Fatalf("\t%s\tTest 0:\tShould not find an output that was removed.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not find an output that was removed.", success)

			if _, exists := lgr.Get(ref); exists {
				t.Fatalf("\t%s\tTest 0:\tShould treat a removed output as not found.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould treat a removed output as not found.", success)
		}
	}
}

func TestLedgerKeysOrdered(t *testing.T) {
	lgr := utxo.NewLedger()
	lgr.Put(utxo.NewOutputRef("b", 1), utxo.Output{OwnerID: "x", Amount: 1})
	lgr.Put(utxo.NewOutputRef("a", 1), utxo.Output{OwnerID: "x", Amount: 1})
	lgr.Put(utxo.NewOutputRef("a", 0), utxo.Output{OwnerID: "x", Amount: 1})

	exp := []utxo.OutputRef{
		utxo.NewOutputRef("a", 0),
		utxo.NewOutputRef("a", 1),
		utxo.NewOutputRef("b", 1),
	}

	keys := lgr.Keys()
	if len(keys) != len(exp) {
		t.Fatalf("wrong number of keys: got %d, exp %d", len(keys), len(exp))
	}
	for i := range exp {
		if keys[i] != exp[i] {
			t.Fatalf("keys out of order at %d: got %s, exp %s", i, keys[i], exp[i])
		}
	}
}

// =============================================================================

func TestValidateTransaction(t *testing.T) {
	genesisRef := utxo.NewOutputRef("genesis", 0)
	otherRef := utxo.NewOutputRef("other", 0)

	newLedger := func() *utxo.Ledger {
		lgr := utxo.NewLedger()
		lgr.Put(genesisRef, utxo.Output{OwnerID: "Alice", Amount: 100})
		lgr.Put(otherRef, utxo.Output{OwnerID: "Alice", Amount: 50})
		return lgr
	}

	type table struct {
		name    string
		inputs  []utxo.Input
		claimed map[utxo.OutputRef]struct{}
		expErr  error
	}

	tt := []table{
		{
			name:   "valid",
			inputs: []utxo.Input{{Ref: genesisRef, OwnerID: "Alice"}},
		},
		{
			name:   "valid multiple inputs",
			inputs: []utxo.Input{{Ref: genesisRef, OwnerID: "Alice"}, {Ref: otherRef, OwnerID: "Alice"}},
		},
		{
			name:   "missing input",
			inputs: []utxo.Input{{Ref: utxo.NewOutputRef("unknown", 0), OwnerID: "Alice"}},
			expErr: utxo.ErrMissingInput,
		},
		{
			name:   "double spend within transaction",
			inputs: []utxo.Input{{Ref: genesisRef, OwnerID: "Alice"}, {Ref: genesisRef, OwnerID: "Alice"}},
			expErr: utxo.ErrDoubleSpend,
		},
		{
			name:    "double spend against conflict set",
			inputs:  []utxo.Input{{Ref: genesisRef, OwnerID: "Alice"}},
			claimed: map[utxo.OutputRef]struct{}{genesisRef: {}},
			expErr:  utxo.ErrDoubleSpend,
		},
	}

	t.Log("Given the need to validate transactions against a ledger snapshot.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling the %s case.", testID, tst.name)
			{
				tx := utxo.NewTransaction(tst.inputs, []utxo.Output{{OwnerID: "Bob", Amount: 100}})

				err := utxo.ValidateTransaction(newLedger(), tst.claimed, tx)

				switch {
				case tst.expErr == nil:
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould accept the transaction: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould accept the transaction.", success, testID)

				default:
					if !errors.Is(err, tst.expErr) {
						t.Fatalf("\t%s\tTest %d:\tShould reject with %v: got %v", failed, testID, tst.expErr, err)
					}
					t.Logf("\t%s\tTest %d:\tShould reject with %v.", success, testID, tst.expErr)
				}
			}
		}
	}
}

// =============================================================================

func TestTransactionRefs(t *testing.T) {
	ref := utxo.NewOutputRef("genesis", 0)
	tx := utxo.NewTransaction(
		[]utxo.Input{{Ref: ref, OwnerID: "Alice"}},
		[]utxo.Output{{OwnerID: "Bob", Amount: 60}, {OwnerID: "Alice", Amount: 40}},
	)

	if tx.ID == "" {
		t.Fatal("transaction id should be generated at construction")
	}

	consumes := tx.Consumes()
	if len(consumes) != 1 || consumes[0] != ref {
		t.Fatalf("wrong consumed refs: got %v", consumes)
	}

	produces := tx.Produces()
	if len(produces) != 2 {
		t.Fatalf("wrong number of produced refs: got %d, exp 2", len(produces))
	}
	for i, ref := range produces {
		if ref.TxID != tx.ID || ref.Index != i {
			t.Fatalf("wrong produced ref at %d: got %s", i, ref)
		}
	}

	tx2 := utxo.NewTransaction(nil, nil)
	if tx2.ID == tx.ID {
		t.Fatal("transaction ids should be unique")
	}
}
