package utxo

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned when a transaction references an output that is
// not present in the ledger.
var ErrMissingInput = errors.New("missing input")

// ErrDoubleSpend is returned when a transaction references an output that is
// already claimed, either by the transaction itself or by the conflict set it
// is validated against.
var ErrDoubleSpend = errors.New("double spend")

// ValidateTransaction checks a transaction against a ledger snapshot and a
// conflict set of output references already claimed by other transactions.
// Every input must resolve in the ledger and no output reference may be
// claimed twice. Balance checking (sum of inputs covering the sum of outputs)
// is a known simplification of this model and deliberately not enforced.
func ValidateTransaction(lgr *Ledger, claimed map[OutputRef]struct{}, tx Transaction) error {
	seen := make(map[OutputRef]struct{}, len(tx.Inputs))

	for _, in := range tx.Inputs {
		if !lgr.Has(in.Ref) {
			return fmt.Errorf("input %s: %w", in.Ref, ErrMissingInput)
		}

		if _, exists := seen[in.Ref]; exists {
			return fmt.Errorf("input %s: %w", in.Ref, ErrDoubleSpend)
		}

		if _, exists := claimed[in.Ref]; exists {
			return fmt.Errorf("input %s: %w", in.Ref, ErrDoubleSpend)
		}

		seen[in.Ref] = struct{}{}
	}

	return nil
}
