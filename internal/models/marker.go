package models

import "math/big"

// Marker is the value a chain adapter watches for change: either the latest
// transaction id at an address, or the address balance in smallest units.
type Marker struct {
	TxID    string
	Balance *big.Int
}

func TxMarker(id string) *Marker {
	return &Marker{TxID: id}
}

func BalanceMarker(b *big.Int) *Marker {
	return &Marker{Balance: new(big.Int).Set(b)}
}

func (m *Marker) IsBalance() bool {
	return m != nil && m.Balance != nil
}

func (m *Marker) String() string {
	switch {
	case m == nil:
		return "<none>"
	case m.Balance != nil:
		return m.Balance.String()
	default:
		return m.TxID
	}
}
