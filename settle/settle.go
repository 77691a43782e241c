// Package settle turns a royalty payout into BSV transaction outputs.
//
// Payout accounts are P2PKH address strings. Zero-amount entries produce no
// output; the outputs always carry the payout total.
package settle

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	"github.com/bitfsorg/libraffle-go/royalty"
)

// Outputs returns one P2PKH output per non-zero payout entry, in ascending
// account order.
func Outputs(payout royalty.Payout) ([]*transaction.TransactionOutput, error) {
	var outputs []*transaction.TransactionOutput
	for _, account := range payout.Accounts() {
		amount := payout[account]
		if amount == 0 {
			continue
		}
		lock, err := LockingScript(account)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, &transaction.TransactionOutput{
			Satoshis:      amount,
			LockingScript: lock,
		})
	}
	if len(outputs) == 0 {
		return nil, ErrNothingToSettle
	}
	return outputs, nil
}

// AddOutputs appends the payout outputs to tx. On error tx is unchanged.
func AddOutputs(tx *transaction.Transaction, payout royalty.Payout) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction", ErrNilParam)
	}
	outputs, err := Outputs(payout)
	if err != nil {
		return err
	}
	for _, out := range outputs {
		tx.AddOutput(out)
	}
	return nil
}

// LockingScript returns the P2PKH locking script paying account.
func LockingScript(account royalty.Account) (*script.Script, error) {
	addr, err := script.NewAddressFromString(string(account))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, account, err)
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, account, err)
	}
	return lock, nil
}

// OutputTotal returns the sum of output amounts.
func OutputTotal(outputs []*transaction.TransactionOutput) uint64 {
	var total uint64
	for _, out := range outputs {
		total += out.Satoshis
	}
	return total
}
