package valuation

import (
	"strings"

	"github.com/shopspring/decimal"

	"networth/internal/models"
)

// ExchangeRates maps a currency code to its rate expressed as units of that
// currency per 1 unit of the base currency. The base currency itself maps to
// 1. Converting an amount from a foreign currency into base therefore
// divides by the rate.
type ExchangeRates map[string]decimal.Decimal

// StockPrice is the latest known quote for a ticker, in the security's
// native currency.
type StockPrice struct {
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// PriceMap is keyed by uppercase ticker.
type PriceMap map[string]StockPrice

// ConvertToBase converts an amount from its own currency into the base
// currency. A missing or zero rate means the amount is returned unconverted;
// a partial data set still yields a best-effort aggregate.
func ConvertToBase(amount decimal.Decimal, fromCurrency, baseCurrency string, rates ExchangeRates) decimal.Decimal {
	if fromCurrency == baseCurrency {
		return amount
	}
	rate, ok := rates[fromCurrency]
	if !ok || rate.IsZero() {
		return amount
	}
	return amount.Div(rate)
}

// CashTotal sums cash balances in the base currency. Holdings whose currency
// has no usable rate contribute their raw balance; nothing is dropped.
func CashTotal(holdings []models.CashHolding, baseCurrency string, rates ExchangeRates) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(ConvertToBase(h.Balance, h.Currency, baseCurrency, rates))
	}
	return total
}

// InvestmentValue marks stock positions to market in the base currency.
// Price lookup is by uppercased ticker; a holding with no price contributes
// zero. Each position is valued in the price's native currency and then
// converted with the same divide-by-rate rule as cash.
func InvestmentValue(holdings []models.StockHolding, prices PriceMap, baseCurrency string, rates ExchangeRates) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		pd, ok := prices[strings.ToUpper(h.Ticker)]
		if !ok {
			continue
		}
		native := h.Shares.Mul(pd.Price)
		total = total.Add(ConvertToBase(native, pd.Currency, baseCurrency, rates))
	}
	return total
}

// InvestmentCost is the total cost basis, shares times cost per share. Cost
// basis is entered in the reporting currency by convention, so no conversion
// applies.
func InvestmentCost(holdings []models.StockHolding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Shares.Mul(h.CostBasisPerShare))
	}
	return total
}

type GainLossResult struct {
	Absolute decimal.Decimal `json:"absolute"`
	Percent  decimal.Decimal `json:"percent"`
}

// GainLoss compares market value against cost basis. Percent is zero when
// there is no cost basis to compare against.
func GainLoss(holdings []models.StockHolding, prices PriceMap, baseCurrency string, rates ExchangeRates) GainLossResult {
	value := InvestmentValue(holdings, prices, baseCurrency, rates)
	cost := InvestmentCost(holdings)
	absolute := value.Sub(cost)
	percent := decimal.Zero
	if cost.IsPositive() {
		percent = absolute.Div(cost).Mul(decimal.NewFromInt(100))
	}
	return GainLossResult{Absolute: absolute, Percent: percent}
}
