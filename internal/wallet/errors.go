package wallet

import "errors"

var (
	ErrInvalidAmount = errors.New("Enter a valid amount")
	ErrNoWallet      = errors.New("No wallet found")
	ErrReverted      = errors.New("transaction reverted")
)

// TxError is a failure of one wallet step. Error returns the upstream message
// unchanged.
type TxError struct {
	Step string
	Err  error
}

func (e *TxError) Error() string {
	return e.Err.Error()
}

func (e *TxError) Unwrap() error {
	return e.Err
}

func stepError(step string, err error) error {
	return &TxError{Step: step, Err: err}
}
