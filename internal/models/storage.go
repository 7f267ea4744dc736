package models

const LedgerVersion = 1

// LedgerFile is the persisted ledger envelope. Latest backs receipt generation only.
type LedgerFile struct {
	Version   int              `json:"version"`
	Donations []DonationRecord `json:"donations"`
	Latest    *DonationRecord  `json:"latest,omitempty"`
}
