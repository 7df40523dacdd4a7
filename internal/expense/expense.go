// Package expense aggregates logged expenses into the monthly averages and
// category breakdowns that feed the FIRE planner and the dashboard.
package expense

import (
	"sort"

	"github.com/shopspring/decimal"

	"networth/internal/models"
	"networth/internal/valuation"
)

// Subcategory ties a subcategory code to its category and display label.
type Subcategory struct {
	Value    string                 `json:"value"`
	Label    string                 `json:"label"`
	Category models.ExpenseCategory `json:"category"`
}

var Subcategories = []Subcategory{
	{Value: "rent_mortgage", Label: "Rent/Mortgage", Category: models.ExpenseRecurring},
	{Value: "utilities", Label: "Utilities", Category: models.ExpenseRecurring},
	{Value: "insurance", Label: "Insurance", Category: models.ExpenseRecurring},
	{Value: "subscriptions", Label: "Subscriptions", Category: models.ExpenseRecurring},
	{Value: "loan_payments", Label: "Loan Payments", Category: models.ExpenseRecurring},
	{Value: "memberships", Label: "Memberships", Category: models.ExpenseRecurring},
	{Value: "childcare", Label: "Childcare", Category: models.ExpenseRecurring},
	{Value: "phone_internet", Label: "Phone/Internet", Category: models.ExpenseRecurring},
	{Value: "family", Label: "Family", Category: models.ExpenseRecurring},
	{Value: "shopping", Label: "Shopping", Category: models.ExpenseNonRecurring},
	{Value: "food_dining", Label: "Food & Dining", Category: models.ExpenseNonRecurring},
	{Value: "groceries", Label: "Groceries", Category: models.ExpenseNonRecurring},
	{Value: "transportation", Label: "Transportation", Category: models.ExpenseNonRecurring},
	{Value: "entertainment", Label: "Entertainment", Category: models.ExpenseNonRecurring},
	{Value: "travel", Label: "Travel", Category: models.ExpenseNonRecurring},
	{Value: "healthcare", Label: "Healthcare", Category: models.ExpenseNonRecurring},
	{Value: "education", Label: "Education", Category: models.ExpenseNonRecurring},
	{Value: "gifts", Label: "Gifts", Category: models.ExpenseNonRecurring},
	{Value: "home_maintenance", Label: "Home Maintenance", Category: models.ExpenseNonRecurring},
	{Value: "personal_care", Label: "Personal Care", Category: models.ExpenseNonRecurring},
	{Value: "other", Label: "Other", Category: models.ExpenseNonRecurring},
}

// ValidSubcategory reports whether value belongs to category.
func ValidSubcategory(category models.ExpenseCategory, value string) bool {
	for _, s := range Subcategories {
		if s.Value == value {
			return s.Category == category
		}
	}
	return false
}

func SubcategoryLabel(value string) string {
	for _, s := range Subcategories {
		if s.Value == value {
			return s.Label
		}
	}
	return value
}

// AverageMonthly converts every expense to the base currency and divides by
// the number of distinct calendar months that contain expenses, never less
// than one. Passing the expense window (e.g. the last three months) is the
// caller's job.
func AverageMonthly(expenses []models.Expense, baseCurrency string, rates valuation.ExchangeRates) decimal.Decimal {
	total := decimal.Zero
	months := map[string]struct{}{}
	for _, e := range expenses {
		total = total.Add(valuation.ConvertToBase(e.Amount, e.Currency, baseCurrency, rates))
		if len(e.ExpenseDate) >= 7 {
			months[e.ExpenseDate[:7]] = struct{}{}
		}
	}
	n := len(months)
	if n < 1 {
		n = 1
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

// SubcategoryTotal is one slice of the expense breakdown.
type SubcategoryTotal struct {
	Subcategory string                 `json:"subcategory"`
	Label       string                 `json:"label"`
	Category    models.ExpenseCategory `json:"category"`
	Total       decimal.Decimal        `json:"total"`
}

// TotalsBySubcategory sums expenses per subcategory in the base currency,
// ordered as the subcategory directory lists them. Subcategories with no
// expenses are omitted.
func TotalsBySubcategory(expenses []models.Expense, baseCurrency string, rates valuation.ExchangeRates) []SubcategoryTotal {
	sums := map[string]decimal.Decimal{}
	for _, e := range expenses {
		sums[e.Subcategory] = sums[e.Subcategory].Add(valuation.ConvertToBase(e.Amount, e.Currency, baseCurrency, rates))
	}
	out := []SubcategoryTotal{}
	for _, s := range Subcategories {
		if total, ok := sums[s.Value]; ok {
			out = append(out, SubcategoryTotal{
				Subcategory: s.Value,
				Label:       s.Label,
				Category:    s.Category,
				Total:       total,
			})
			delete(sums, s.Value)
		}
	}
	// Unknown subcategories still show up, after the known ones.
	leftover := make([]string, 0, len(sums))
	for sub := range sums {
		leftover = append(leftover, sub)
	}
	sort.Strings(leftover)
	for _, sub := range leftover {
		out = append(out, SubcategoryTotal{Subcategory: sub, Label: sub, Total: sums[sub]})
	}
	return out
}
