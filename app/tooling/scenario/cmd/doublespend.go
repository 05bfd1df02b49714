package cmd

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/utxonet/utxonet/foundation/blockchain/genesis"
	"github.com/utxonet/utxonet/foundation/blockchain/miner"
	"github.com/utxonet/utxonet/foundation/blockchain/network"
	"github.com/utxonet/utxonet/foundation/blockchain/node"
	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

var (
	owner string
	payee string
	thief string
)

// doubleSpendCmd represents the doublespend command
var doubleSpendCmd = &cobra.Command{
	Use:   "doublespend",
	Short: "Race two transactions spending the same output through different nodes",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDoubleSpend(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(doubleSpendCmd)
	doubleSpendCmd.Flags().StringVarP(&owner, "owner", "o", "Alice", "Owner whose output is spent twice.")
	doubleSpendCmd.Flags().StringVarP(&payee, "payee", "p", "Bob", "Recipient of the honest spend.")
	doubleSpendCmd.Flags().StringVarP(&thief, "rival", "r", "Mallory", "Recipient of the rival spend.")
}

func runDoubleSpend() error {
	gen, err := genesis.Load(genesisFile)
	if err != nil {
		return fmt.Errorf("unable to load genesis file: %w", err)
	}

	// Locate the output the two transactions will fight over.
	var ref utxo.OutputRef
	var output utxo.Output
	var found bool
	for r, o := range gen.Outputs() {
		if o.OwnerID == owner {
			ref, output, found = r, o, true
			break
		}
	}
	if !found {
		return fmt.Errorf("owner %q holds no genesis output", owner)
	}

	ev := func(v string, args ...any) {
		fmt.Printf(v+"\n", args...)
	}

	// Three nodes, fully connected, one miner.
	net := network.New(gen, ev)
	for _, name := range []string{"NodeA", "NodeB", "NodeC"} {
		if _, err := net.AddNode(name); err != nil {
			return err
		}
	}
	defer net.Shutdown()
	net.ConnectAll()

	nodeA, _ := net.Node("NodeA")
	nodeB, _ := net.Node("NodeB")

	mnr := miner.New(miner.Config{
		Name:       "NodeA",
		Node:       nodeA,
		Difficulty: gen.Difficulty,
		EvHandler:  ev,
	})
	defer mnr.Shutdown()

	// Two transactions spending the same output, entering the network
	// through different nodes at the same time.
	tx1 := utxo.NewTransaction(
		[]utxo.Input{{Ref: ref, OwnerID: owner}},
		[]utxo.Output{{OwnerID: payee, Amount: output.Amount}},
	)
	tx2 := utxo.NewTransaction(
		[]utxo.Input{{Ref: ref, OwnerID: owner}},
		[]utxo.Output{{OwnerID: thief, Amount: output.Amount}},
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := nodeA.ReceiveTransaction(tx1); err != nil {
			fmt.Printf("NodeA rejected %s: %v\n", tx1, err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := nodeB.ReceiveTransaction(tx2); err != nil {
			fmt.Printf("NodeB rejected %s: %v\n", tx2, err)
		}
	}()
	wg.Wait()

	// Wait for a block to win the race and for every pool to drain.
	if err := waitForSettle(net); err != nil {
		return err
	}

	report(net, tx1, tx2)

	return nil
}

// waitForSettle polls until every node has accepted at least one mined block
// and holds no pending transactions.
func waitForSettle(net *network.Network) error {
	deadline := time.Now().Add(time.Duration(waitTimeout) * time.Second)

	for time.Now().Before(deadline) {
		settled := true
		for _, name := range net.Names() {
			n, err := net.Node(name)
			if err != nil {
				return err
			}
			if len(n.RetrieveChain()) < 2 || n.QueryMempoolLength() != 0 {
				settled = false
				break
			}
		}
		if settled {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}

	return errors.New("network did not settle before the timeout")
}

func report(net *network.Network, tx1 utxo.Transaction, tx2 utxo.Transaction) {
	fmt.Println("\n=== FINAL STATE =======================================================")

	for _, name := range net.Names() {
		n, _ := net.Node(name)
		printNode(n)
	}

	// The winner is whichever transaction made it into NodeA's ledger.
	nodeA, _ := net.Node("NodeA")
	ledger := nodeA.RetrieveLedger()
	switch {
	case ledgerHolds(ledger, tx1):
		fmt.Printf("\nwinner: %s, loser: %s\n", tx1, tx2)
	case ledgerHolds(ledger, tx2):
		fmt.Printf("\nwinner: %s, loser: %s\n", tx2, tx1)
	default:
		fmt.Println("\nno winner recorded")
	}
}

func printNode(n *node.Node) {
	fmt.Printf("\n--- %s ---\n", n.Name())

	fmt.Printf("chain height: %d\n", len(n.RetrieveChain()))
	for _, blk := range n.RetrieveChain() {
		for _, tx := range blk.Trans {
			fmt.Printf("  block %s... carries %s\n", blk.Hash()[:12], tx)
		}
	}

	fmt.Printf("pool size: %d\n", n.QueryMempoolLength())

	ledger := n.RetrieveLedger()
	for _, ref := range n.RetrieveLedgerKeys() {
		output := ledger[ref]
		fmt.Printf("  unspent %s: %s %d\n", ref, output.OwnerID, output.Amount)
	}
}

func ledgerHolds(ledger map[utxo.OutputRef]utxo.Output, tx utxo.Transaction) bool {
	for _, ref := range tx.Produces() {
		if _, exists := ledger[ref]; exists {
			return true
		}
	}
	return false
}
