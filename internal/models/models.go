package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCPF        AccountType = "cpf"
	AccountTypeSRS        AccountType = "srs"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCash, AccountTypeInvestment, AccountTypeCPF, AccountTypeSRS:
		return true
	}
	return false
}

type Account struct {
	ID        string      `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"user_id"`
	Name      string      `db:"name" json:"name"`
	Type      AccountType `db:"type" json:"type"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// CashHolding is a balance in a single currency. Label tags sub-accounts,
// e.g. CPF's OA/SA/MA.
type CashHolding struct {
	ID        string          `db:"id" json:"id"`
	AccountID string          `db:"account_id" json:"account_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	Currency  string          `db:"currency" json:"currency"`
	Label     *string         `db:"label" json:"label,omitempty"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// StockHolding is a position aggregate, not a per-lot record.
type StockHolding struct {
	ID                string          `db:"id" json:"id"`
	AccountID         string          `db:"account_id" json:"account_id"`
	Ticker            string          `db:"ticker" json:"ticker"`
	Shares            decimal.Decimal `db:"shares" json:"shares"`
	CostBasisPerShare decimal.Decimal `db:"cost_basis_per_share" json:"cost_basis_per_share"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

type AccountWithHoldings struct {
	Account
	CashHoldings  []CashHolding  `json:"cash_holdings"`
	StockHoldings []StockHolding `json:"stock_holdings"`
}

// NetWorthSnapshot is at most one row per user per calendar day. SnapshotDate
// is the stored YYYY-MM-DD string; Currency is the base currency the values
// were recorded in at the time.
type NetWorthSnapshot struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"user_id"`
	TotalValue      decimal.Decimal `db:"total_value" json:"total_value"`
	CashValue       decimal.Decimal `db:"cash_value" json:"cash_value"`
	InvestmentValue decimal.Decimal `db:"investment_value" json:"investment_value"`
	SnapshotDate    string          `db:"snapshot_date" json:"snapshot_date"`
	Currency        string          `db:"currency" json:"currency"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

type ExpenseCategory string

const (
	ExpenseRecurring    ExpenseCategory = "recurring"
	ExpenseNonRecurring ExpenseCategory = "non_recurring"
)

type Expense struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    string          `db:"currency" json:"currency"`
	Category    ExpenseCategory `db:"category" json:"category"`
	Subcategory string          `db:"subcategory" json:"subcategory"`
	Description *string         `db:"description" json:"description,omitempty"`
	ExpenseDate string          `db:"expense_date" json:"expense_date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// UserPreferences carries the base currency plus the FIRE planner settings.
type UserPreferences struct {
	UserID             string          `db:"user_id" json:"user_id"`
	BaseCurrency       string          `db:"base_currency" json:"base_currency"`
	FireCurrentAge     int             `db:"fire_current_age" json:"fire_current_age"`
	FireSWR            decimal.Decimal `db:"fire_swr" json:"fire_swr"`
	FireGrowthRate     decimal.Decimal `db:"fire_growth_rate" json:"fire_growth_rate"`
	FireInflationRate  decimal.Decimal `db:"fire_inflation_rate" json:"fire_inflation_rate"`
	FireIncludeCpfSrs  bool            `db:"fire_include_cpf_srs" json:"fire_include_cpf_srs"`
	FireMonthlySavings decimal.Decimal `db:"fire_monthly_savings" json:"fire_monthly_savings"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// DefaultPreferences is returned when a user has no stored preferences row.
func DefaultPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:            userID,
		BaseCurrency:      "USD",
		FireCurrentAge:    35,
		FireSWR:           decimal.NewFromFloat(0.04),
		FireGrowthRate:    decimal.NewFromFloat(0.07),
		FireInflationRate: decimal.NewFromFloat(0.03),
	}
}
