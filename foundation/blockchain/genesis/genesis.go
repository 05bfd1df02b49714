// Package genesis maintains access to the genesis settings for the network.
package genesis

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/utxonet/utxonet/foundation/blockchain/utxo"
)

// TxID is the transaction id the seeded genesis outputs are recorded under.
const TxID = "genesis"

// Genesis represents the genesis file. The difficulty is the network-wide
// minimum every node validates received blocks against, independent of any
// miner's configured difficulty.
type Genesis struct {
	Date       time.Time         `json:"date"`
	Difficulty int               `json:"difficulty"` // Leading zero digits required of every block digest.
	MineDelay  time.Duration     `json:"mine_delay"` // How long a miner rests between rounds.
	Balances   map[string]uint64 `json:"balances"`   // Initial owners and amounts of the seeded outputs.
}

// Outputs returns the seeded outputs in a deterministic order, keyed by the
// genesis transaction id and the owner's position in owner-name order.
func (g Genesis) Outputs() map[utxo.OutputRef]utxo.Output {
	owners := make([]string, 0, len(g.Balances))
	for owner := range g.Balances {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	outputs := make(map[utxo.OutputRef]utxo.Output, len(owners))
	for i, owner := range owners {
		outputs[utxo.NewOutputRef(TxID, i)] = utxo.Output{
			OwnerID: owner,
			Amount:  g.Balances[owner],
		}
	}

	return outputs
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
