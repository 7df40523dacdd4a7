package fire

import (
	"github.com/shopspring/decimal"
)

// DefaultMaxYears bounds the years-to-FIRE search.
const DefaultMaxYears = 100

// DefaultProjectionYears is the horizon for the net-worth projection chart.
const DefaultProjectionYears = 40

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Inputs are the economic assumptions the solver runs on. Rates are
// fractions, not percentages (0.04 for 4%).
type Inputs struct {
	CurrentAge         int             `json:"current_age"`
	SafeWithdrawalRate decimal.Decimal `json:"safe_withdrawal_rate"`
	AnnualGrowthRate   decimal.Decimal `json:"annual_growth_rate"`
	InflationRate      decimal.Decimal `json:"inflation_rate"`
	AnnualExpenses     decimal.Decimal `json:"annual_expenses"`
	CurrentNetWorth    decimal.Decimal `json:"current_net_worth"`
	AnnualSavings      decimal.Decimal `json:"annual_savings"`
}

// Results holds every computed FIRE metric. YearsToFire and FireAge are nil
// when the target is unreachable within the year bound; that is a valid
// steady state, not a fault.
type Results struct {
	FireNumber        decimal.Decimal `json:"fire_number"`
	MonthlyWithdrawal decimal.Decimal `json:"monthly_withdrawal"`
	GapToFire         decimal.Decimal `json:"gap_to_fire"`
	ProgressPercent   decimal.Decimal `json:"progress_percent"`
	YearsToFire       *int            `json:"years_to_fire"`
	FireAge           *int            `json:"fire_age"`
	IncomeGap         decimal.Decimal `json:"income_gap"`
}

type ProjectionPoint struct {
	Year       int             `json:"year"`
	Age        int             `json:"age"`
	NetWorth   decimal.Decimal `json:"net_worth"`
	FireNumber decimal.Decimal `json:"fire_number"`
}

// Number is the target net worth: annual expenses / safe withdrawal rate.
// A zero or negative rate makes the target undefined, reported as zero.
func Number(annualExpenses, safeWithdrawalRate decimal.Decimal) decimal.Decimal {
	if !safeWithdrawalRate.IsPositive() {
		return decimal.Zero
	}
	return annualExpenses.Div(safeWithdrawalRate)
}

// RealReturnRate is the Fisher-equation real rate,
// (1+nominal)/(1+inflation) - 1. Can be negative.
func RealReturnRate(nominalRate, inflationRate decimal.Decimal) decimal.Decimal {
	return one.Add(nominalRate).Div(one.Add(inflationRate)).Sub(one)
}

// MonthlyWithdrawal is the monthly income the net worth sustains at the
// safe withdrawal rate.
func MonthlyWithdrawal(netWorth, safeWithdrawalRate decimal.Decimal) decimal.Decimal {
	return netWorth.Mul(safeWithdrawalRate).Div(twelve)
}

// YearsToFire simulates year-by-year compounding with end-of-year savings
// until the target is reached, up to maxYears. ok is false when the target
// cannot be reached within the bound. The simulation loop is deliberate:
// savings and real return can each be negative, which a closed-form annuity
// inversion mishandles.
func YearsToFire(currentNetWorth, fireNumber, annualSavings, realReturnRate decimal.Decimal, maxYears int) (years int, ok bool) {
	if currentNetWorth.GreaterThanOrEqual(fireNumber) {
		return 0, true
	}
	if !annualSavings.IsPositive() && !realReturnRate.IsPositive() {
		return 0, false
	}
	netWorth := currentNetWorth
	growth := one.Add(realReturnRate)
	for years = 0; netWorth.LessThan(fireNumber) && years < maxYears; years++ {
		netWorth = netWorth.Mul(growth).Add(annualSavings)
	}
	if years >= maxYears {
		return 0, false
	}
	return years, true
}

// GenerateProjection runs the same recurrence as YearsToFire for the full
// horizon, returning yearsToProject+1 points starting at the current state.
// Projected values are clamped at zero; the solver itself is not clamped.
func GenerateProjection(currentNetWorth, fireNumber, annualSavings, realReturnRate decimal.Decimal, currentAge, yearsToProject int) []ProjectionPoint {
	projection := make([]ProjectionPoint, 0, yearsToProject+1)
	projection = append(projection, ProjectionPoint{
		Year:       0,
		Age:        currentAge,
		NetWorth:   currentNetWorth,
		FireNumber: fireNumber,
	})
	netWorth := currentNetWorth
	growth := one.Add(realReturnRate)
	for year := 1; year <= yearsToProject; year++ {
		netWorth = netWorth.Mul(growth).Add(annualSavings)
		clamped := netWorth
		if clamped.IsNegative() {
			clamped = decimal.Zero
		}
		projection = append(projection, ProjectionPoint{
			Year:       year,
			Age:        currentAge + year,
			NetWorth:   clamped,
			FireNumber: fireNumber,
		})
	}
	return projection
}

// Metrics computes every FIRE result from one set of inputs.
func Metrics(in Inputs) Results {
	realReturn := RealReturnRate(in.AnnualGrowthRate, in.InflationRate)
	fireNumber := Number(in.AnnualExpenses, in.SafeWithdrawalRate)
	monthly := MonthlyWithdrawal(in.CurrentNetWorth, in.SafeWithdrawalRate)

	gap := fireNumber.Sub(in.CurrentNetWorth)
	if gap.IsNegative() {
		gap = decimal.Zero
	}

	progress := decimal.Zero
	if fireNumber.IsPositive() {
		progress = in.CurrentNetWorth.Div(fireNumber).Mul(hundred)
		if progress.GreaterThan(hundred) {
			progress = hundred
		}
	}

	res := Results{
		FireNumber:        fireNumber,
		MonthlyWithdrawal: monthly,
		GapToFire:         gap,
		ProgressPercent:   progress,
		IncomeGap:         monthly.Sub(in.AnnualExpenses.Div(twelve)),
	}

	if years, ok := YearsToFire(in.CurrentNetWorth, fireNumber, in.AnnualSavings, realReturn, DefaultMaxYears); ok {
		age := in.CurrentAge + years
		res.YearsToFire = &years
		res.FireAge = &age
	}
	return res
}
