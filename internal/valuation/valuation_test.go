package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func cash(balance, cur string) models.CashHolding {
	return models.CashHolding{Balance: d(balance), Currency: cur}
}

func TestCashTotal_SameCurrency(t *testing.T) {
	holdings := []models.CashHolding{cash("1000", "USD"), cash("250.50", "USD")}
	total := CashTotal(holdings, "USD", ExchangeRates{})
	assert.True(t, total.Equal(d("1250.50")), "got %s", total)
}

func TestCashTotal_Empty(t *testing.T) {
	assert.True(t, CashTotal(nil, "USD", nil).IsZero())
}

func TestCashTotal_ConvertsByDividing(t *testing.T) {
	// Rates run FROM base TO other, so converting back divides.
	holdings := []models.CashHolding{cash("1000", "EUR")}
	total := CashTotal(holdings, "USD", ExchangeRates{"EUR": d("0.92")})
	assert.Equal(t, "1086.96", total.StringFixed(2))
}

func TestCashTotal_MissingRateUsesRawValue(t *testing.T) {
	holdings := []models.CashHolding{cash("1000", "EUR"), cash("500", "USD")}
	total := CashTotal(holdings, "USD", ExchangeRates{})
	assert.True(t, total.Equal(d("1500")), "raw EUR balance should pass through, got %s", total)
}

func TestCashTotal_ZeroRateUsesRawValue(t *testing.T) {
	holdings := []models.CashHolding{cash("1000", "EUR")}
	total := CashTotal(holdings, "USD", ExchangeRates{"EUR": decimal.Zero})
	assert.True(t, total.Equal(d("1000")), "got %s", total)
}

func TestCashTotal_LargerRateShrinksContribution(t *testing.T) {
	holdings := []models.CashHolding{cash("1000", "SGD")}
	atLow := CashTotal(holdings, "USD", ExchangeRates{"SGD": d("1.30")})
	atHigh := CashTotal(holdings, "USD", ExchangeRates{"SGD": d("1.40")})
	assert.True(t, atHigh.LessThan(atLow))
}

func stock(ticker, shares, cost string) models.StockHolding {
	return models.StockHolding{Ticker: ticker, Shares: d(shares), CostBasisPerShare: d(cost)}
}

func TestInvestmentValue_NativeCurrencyIsBase(t *testing.T) {
	holdings := []models.StockHolding{stock("AAPL", "10", "0")}
	prices := PriceMap{"AAPL": {Price: d("150"), Currency: "USD"}}
	value := InvestmentValue(holdings, prices, "USD", ExchangeRates{})
	assert.True(t, value.Equal(d("1500")), "got %s", value)
}

func TestInvestmentValue_TickerLookupIsCaseInsensitive(t *testing.T) {
	holdings := []models.StockHolding{stock("aapl", "10", "0")}
	prices := PriceMap{"AAPL": {Price: d("150"), Currency: "USD"}}
	value := InvestmentValue(holdings, prices, "USD", ExchangeRates{})
	assert.True(t, value.Equal(d("1500")), "got %s", value)
}

func TestInvestmentValue_MissingPriceContributesZero(t *testing.T) {
	holdings := []models.StockHolding{
		stock("AAPL", "10", "0"),
		stock("UNKNOWN", "100", "0"),
	}
	prices := PriceMap{"AAPL": {Price: d("150"), Currency: "USD"}}
	value := InvestmentValue(holdings, prices, "USD", ExchangeRates{})
	assert.True(t, value.Equal(d("1500")), "got %s", value)
}

func TestInvestmentValue_ConvertsNativeCurrency(t *testing.T) {
	// A London-listed position priced in GBP, reported in USD.
	holdings := []models.StockHolding{stock("VWRA.L", "100", "0")}
	prices := PriceMap{"VWRA.L": {Price: d("98"), Currency: "GBP"}}
	value := InvestmentValue(holdings, prices, "USD", ExchangeRates{"GBP": d("0.80")})
	assert.Equal(t, "12250.00", value.StringFixed(2))
}

func TestInvestmentValue_MissingRateKeepsNativeValue(t *testing.T) {
	holdings := []models.StockHolding{stock("VWRA.L", "100", "0")}
	prices := PriceMap{"VWRA.L": {Price: d("98"), Currency: "GBP"}}
	value := InvestmentValue(holdings, prices, "USD", ExchangeRates{})
	assert.True(t, value.Equal(d("9800")), "got %s", value)
}

func TestInvestmentCost(t *testing.T) {
	holdings := []models.StockHolding{
		stock("AAPL", "10", "150"),
		stock("MSFT", "5", "300"),
	}
	assert.True(t, InvestmentCost(holdings).Equal(d("3000")))
}

func TestGainLoss(t *testing.T) {
	holdings := []models.StockHolding{stock("AAPL", "10", "100")}
	prices := PriceMap{"AAPL": {Price: d("150"), Currency: "USD"}}
	gl := GainLoss(holdings, prices, "USD", ExchangeRates{})
	assert.True(t, gl.Absolute.Equal(d("500")), "got %s", gl.Absolute)
	assert.Equal(t, "50.00", gl.Percent.StringFixed(2))
}

func TestGainLoss_ZeroCostBasis(t *testing.T) {
	holdings := []models.StockHolding{stock("FREE", "10", "0")}
	prices := PriceMap{"FREE": {Price: d("42"), Currency: "USD"}}
	gl := GainLoss(holdings, prices, "USD", ExchangeRates{})
	assert.True(t, gl.Absolute.Equal(d("420")))
	assert.True(t, gl.Percent.IsZero(), "percent must be zero with no cost basis, got %s", gl.Percent)
}

func TestSummarize_BucketsByAccountType(t *testing.T) {
	label := "OA"
	accounts := []models.AccountWithHoldings{
		{
			Account:      models.Account{Type: models.AccountTypeCash},
			CashHoldings: []models.CashHolding{cash("10000", "USD")},
		},
		{
			Account:      models.Account{Type: models.AccountTypeCPF},
			CashHoldings: []models.CashHolding{{Balance: d("40000"), Currency: "USD", Label: &label}},
		},
		{
			Account:      models.Account{Type: models.AccountTypeSRS},
			CashHoldings: []models.CashHolding{cash("5000", "USD")},
		},
		{
			Account:       models.Account{Type: models.AccountTypeInvestment},
			StockHoldings: []models.StockHolding{stock("AAPL", "10", "100")},
		},
	}
	prices := PriceMap{"AAPL": {Price: d("150"), Currency: "USD"}}

	s := Summarize(accounts, prices, "USD", ExchangeRates{})
	require.Equal(t, "USD", s.BaseCurrency)
	assert.True(t, s.CashTotal.Equal(d("10000")))
	assert.True(t, s.CpfTotal.Equal(d("40000")))
	assert.True(t, s.SrsTotal.Equal(d("5000")))
	assert.True(t, s.InvestmentValue.Equal(d("1500")))
	assert.True(t, s.InvestmentCost.Equal(d("1000")))
	assert.True(t, s.GainLoss.Equal(d("500")))
	assert.True(t, s.NetWorthExCpfSrs.Equal(d("11500")))
	assert.True(t, s.NetWorth.Equal(d("56500")))
}
