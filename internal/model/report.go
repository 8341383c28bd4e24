package model

import "time"

// LedgerReport is the input for the spreadsheet export: the holder's open
// lots plus the full transaction history at one point in time.
type LedgerReport struct {
	HolderID     string
	GeneratedAt  time.Time
	OpenLots     []Lot
	Transactions []Transaction
}
