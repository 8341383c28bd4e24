package model

import "github.com/shopspring/decimal"

type AccountHolder struct {
	ID   string
	Name string
}

type Exchange struct {
	ID   int64
	Name string
}

// AdviceSource is an entity credited as the origin of a trade idea: a
// person, book, website or group.
type AdviceSource struct {
	ID     int64
	Name   string
	Kind   string
	Ticker string
	Notes  string

	// Watched marks the source's ticker as a watchlist entry.
	Watched bool

	// CurrentPrice is filled from the price cache at render time, not part
	// of the backend record.
	CurrentPrice decimal.Decimal
}
