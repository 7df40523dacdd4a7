package database

import (
	"time"

	"github.com/shopspring/decimal"
)

type CachedRate struct {
	BaseCurrency   string          `db:"base_currency"`
	TargetCurrency string          `db:"target_currency"`
	Rate           decimal.Decimal `db:"rate"`
	FetchedAt      time.Time       `db:"fetched_at"`
}

type CachedPrice struct {
	Ticker    string          `db:"ticker" json:"ticker"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Currency  string          `db:"currency" json:"currency"`
	FetchedAt time.Time       `db:"fetched_at" json:"fetched_at"`
}
