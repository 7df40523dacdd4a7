package valuation

import (
	"github.com/shopspring/decimal"

	"networth/internal/models"
)

// Summary is the full per-user valuation in the base currency. CPF and SRS
// are cash-like but form a separate retirement bucket, so the net worth is
// reported both with and without them.
type Summary struct {
	BaseCurrency     string          `json:"base_currency"`
	CashTotal        decimal.Decimal `json:"cash_total"`
	CpfTotal         decimal.Decimal `json:"cpf_total"`
	SrsTotal         decimal.Decimal `json:"srs_total"`
	InvestmentValue  decimal.Decimal `json:"investment_value"`
	InvestmentCost   decimal.Decimal `json:"investment_cost"`
	GainLoss         decimal.Decimal `json:"gain_loss"`
	GainLossPercent  decimal.Decimal `json:"gain_loss_percent"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	NetWorthExCpfSrs decimal.Decimal `json:"net_worth_ex_cpf_srs"`
}

// Summarize aggregates every account into a Summary. Cash holdings are
// bucketed by their account's type; stock holdings are valued together
// regardless of which investment account they sit in.
func Summarize(accounts []models.AccountWithHoldings, prices PriceMap, baseCurrency string, rates ExchangeRates) Summary {
	var cash, cpf, srs []models.CashHolding
	var stocks []models.StockHolding
	for _, a := range accounts {
		switch a.Type {
		case models.AccountTypeCash:
			cash = append(cash, a.CashHoldings...)
		case models.AccountTypeCPF:
			cpf = append(cpf, a.CashHoldings...)
		case models.AccountTypeSRS:
			srs = append(srs, a.CashHoldings...)
		case models.AccountTypeInvestment:
			stocks = append(stocks, a.StockHoldings...)
		}
	}

	s := Summary{
		BaseCurrency:    baseCurrency,
		CashTotal:       CashTotal(cash, baseCurrency, rates),
		CpfTotal:        CashTotal(cpf, baseCurrency, rates),
		SrsTotal:        CashTotal(srs, baseCurrency, rates),
		InvestmentValue: InvestmentValue(stocks, prices, baseCurrency, rates),
		InvestmentCost:  InvestmentCost(stocks),
	}
	gl := GainLoss(stocks, prices, baseCurrency, rates)
	s.GainLoss = gl.Absolute
	s.GainLossPercent = gl.Percent
	s.NetWorthExCpfSrs = s.CashTotal.Add(s.InvestmentValue)
	s.NetWorth = s.NetWorthExCpfSrs.Add(s.CpfTotal).Add(s.SrsTotal)
	return s
}
