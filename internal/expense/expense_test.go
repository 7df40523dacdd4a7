package expense

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth/internal/models"
	"networth/internal/valuation"
)

func exp(date, amount, cur, sub string) models.Expense {
	return models.Expense{
		Amount:      decimal.RequireFromString(amount),
		Currency:    cur,
		Subcategory: sub,
		ExpenseDate: date,
	}
}

func TestAverageMonthly_DividesByDistinctMonths(t *testing.T) {
	expenses := []models.Expense{
		exp("2026-06-10", "1000", "USD", "groceries"),
		exp("2026-06-25", "500", "USD", "travel"),
		exp("2026-07-05", "1500", "USD", "rent_mortgage"),
		exp("2026-08-01", "600", "USD", "groceries"),
	}
	avg := AverageMonthly(expenses, "USD", valuation.ExchangeRates{})
	// 3600 over 3 distinct months.
	assert.Equal(t, "1200.00", avg.StringFixed(2))
}

func TestAverageMonthly_Empty(t *testing.T) {
	avg := AverageMonthly(nil, "USD", valuation.ExchangeRates{})
	assert.True(t, avg.IsZero())
}

func TestAverageMonthly_ConvertsToBase(t *testing.T) {
	expenses := []models.Expense{exp("2026-08-10", "920", "EUR", "travel")}
	avg := AverageMonthly(expenses, "USD", valuation.ExchangeRates{"EUR": decimal.RequireFromString("0.92")})
	assert.Equal(t, "1000.00", avg.StringFixed(2))
}

func TestValidSubcategory(t *testing.T) {
	assert.True(t, ValidSubcategory(models.ExpenseRecurring, "utilities"))
	assert.True(t, ValidSubcategory(models.ExpenseNonRecurring, "groceries"))
	assert.False(t, ValidSubcategory(models.ExpenseRecurring, "groceries"))
	assert.False(t, ValidSubcategory(models.ExpenseNonRecurring, "nonsense"))
}

func TestSubcategoryLabel(t *testing.T) {
	assert.Equal(t, "Food & Dining", SubcategoryLabel("food_dining"))
	assert.Equal(t, "mystery", SubcategoryLabel("mystery"))
}

func TestTotalsBySubcategory(t *testing.T) {
	expenses := []models.Expense{
		exp("2026-08-01", "100", "USD", "groceries"),
		exp("2026-08-02", "50", "USD", "groceries"),
		exp("2026-08-03", "2000", "USD", "rent_mortgage"),
	}
	totals := TotalsBySubcategory(expenses, "USD", valuation.ExchangeRates{})
	require.Len(t, totals, 2)

	// Directory order: recurring subcategories come first.
	assert.Equal(t, "rent_mortgage", totals[0].Subcategory)
	assert.True(t, totals[0].Total.Equal(decimal.RequireFromString("2000")))
	assert.Equal(t, "groceries", totals[1].Subcategory)
	assert.True(t, totals[1].Total.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, models.ExpenseNonRecurring, totals[1].Category)
}

func TestTotalsBySubcategory_UnknownSubcategoryStillCounted(t *testing.T) {
	expenses := []models.Expense{exp("2026-08-01", "10", "USD", "crypto_losses")}
	totals := TotalsBySubcategory(expenses, "USD", valuation.ExchangeRates{})
	require.Len(t, totals, 1)
	assert.Equal(t, "crypto_losses", totals[0].Subcategory)
}
