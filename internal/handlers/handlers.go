package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"networth/internal/currency"
	"networth/internal/expense"
	"networth/internal/fire"
	"networth/internal/models"
	"networth/internal/rates"
	"networth/internal/stockprice"
	"networth/internal/timeseries"
	"networth/internal/valuation"
)

// Store is the slice of the repository the handlers touch.
type Store interface {
	EnsureUserExists(ctx context.Context, userID, name string) error
	GetPreferences(ctx context.Context, userID string) (models.UserPreferences, error)
	UpsertPreferences(ctx context.Context, p models.UserPreferences) error

	CreateAccount(ctx context.Context, userID, name string, accountType models.AccountType) (models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	GetAccounts(ctx context.Context, userID string) ([]models.AccountWithHoldings, error)

	CreateCashHolding(ctx context.Context, accountID string, balance decimal.Decimal, currency string, label *string) (string, error)
	UpdateCashHolding(ctx context.Context, id string, balance decimal.Decimal, currency string, label *string) error
	DeleteCashHolding(ctx context.Context, id string) error
	CreateStockHolding(ctx context.Context, accountID, ticker string, shares, costBasisPerShare decimal.Decimal) (string, error)
	UpdateStockHolding(ctx context.Context, id, ticker string, shares, costBasisPerShare decimal.Decimal) error
	DeleteStockHolding(ctx context.Context, id string) error

	CreateExpense(ctx context.Context, e models.Expense) (string, error)
	UpdateExpense(ctx context.Context, e models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	GetExpenses(ctx context.Context, userID, since string) ([]models.Expense, error)

	UpsertSnapshot(ctx context.Context, s models.NetWorthSnapshot) error
	GetSnapshots(ctx context.Context, userID string, limit int) ([]models.NetWorthSnapshot, error)
}

type Handler struct {
	store  Store
	rates  rates.Provider
	prices stockprice.Provider
	log    *logrus.Logger
	now    func() time.Time
}

func NewHandler(store Store, r rates.Provider, p stockprice.Provider, log *logrus.Logger) *Handler {
	return &Handler{store: store, rates: r, prices: p, log: log, now: time.Now}
}

const dayLayout = "2006-01-02"

// loadValuation pulls everything a valuation needs and aggregates it. Rate
// provider failure is a hard error; everything downstream degrades per the
// engine's fallback rules.
func (h *Handler) loadValuation(ctx context.Context, userID string) (valuation.Summary, []models.AccountWithHoldings, valuation.ExchangeRates, error) {
	prefs, err := h.store.GetPreferences(ctx, userID)
	if err != nil {
		return valuation.Summary{}, nil, nil, err
	}
	accounts, err := h.store.GetAccounts(ctx, userID)
	if err != nil {
		return valuation.Summary{}, nil, nil, err
	}
	fx, err := h.rates.Rates(ctx, prefs.BaseCurrency)
	if err != nil {
		return valuation.Summary{}, nil, nil, err
	}

	tickers := []string{}
	for _, a := range accounts {
		for _, sh := range a.StockHoldings {
			tickers = append(tickers, sh.Ticker)
		}
	}
	prices, err := h.prices.Prices(ctx, tickers)
	if err != nil {
		return valuation.Summary{}, nil, nil, err
	}

	return valuation.Summarize(accounts, prices, prefs.BaseCurrency, fx), accounts, fx, nil
}

// GetNetWorth computes the current valuation and records today's snapshot.
func (h *Handler) GetNetWorth(c *gin.Context) {
	userID := c.Param("userId")
	ctx := c.Request.Context()

	summary, accounts, _, err := h.loadValuation(ctx, userID)
	if err != nil {
		h.log.Errorf("net worth for %s failed: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "valuation failed"})
		return
	}

	// Snapshot save is best-effort; a failed write must not fail the read.
	if len(accounts) > 0 {
		snap := models.NetWorthSnapshot{
			UserID:          userID,
			TotalValue:      summary.NetWorth,
			CashValue:       summary.CashTotal,
			InvestmentValue: summary.InvestmentValue,
			SnapshotDate:    h.now().UTC().Format(dayLayout),
			Currency:        summary.BaseCurrency,
		}
		if err := h.store.UpsertSnapshot(ctx, snap); err != nil {
			h.log.Warnf("snapshot save for %s failed: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"formatted": gin.H{
			"net_worth":         currency.Format(summary.NetWorth, summary.BaseCurrency),
			"cash_total":        currency.Format(summary.CashTotal, summary.BaseCurrency),
			"investment_value":  currency.Format(summary.InvestmentValue, summary.BaseCurrency),
			"gain_loss":         currency.Format(summary.GainLoss, summary.BaseCurrency),
			"gain_loss_percent": currency.FormatPercent(summary.GainLossPercent),
		},
	})
}

// GetHistory returns the chart series for a range: daily (last 7 days),
// monthly (last 12 months), or yearly (last 5 years). Snapshots recorded in
// a different base currency are re-converted before charting.
func (h *Handler) GetHistory(c *gin.Context) {
	userID := c.Param("userId")
	ctx := c.Request.Context()

	prefs, err := h.store.GetPreferences(ctx, userID)
	if err != nil {
		h.log.Errorf("preferences for %s failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	snapshots, err := h.store.GetSnapshots(ctx, userID, 0)
	if err != nil {
		h.log.Errorf("snapshots for %s failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	fx, err := h.rates.Rates(ctx, prefs.BaseCurrency)
	if err != nil {
		h.log.Errorf("rates for %s failed: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "rates unavailable"})
		return
	}
	snapshots = rebaseSnapshots(snapshots, prefs.BaseCurrency, fx)

	asOf := h.now().UTC()
	var points []timeseries.Point
	switch c.DefaultQuery("range", "daily") {
	case "daily":
		points = timeseries.LastNDays(snapshots, 7, asOf)
	case "monthly":
		points = timeseries.LastNMonths(snapshots, 12, asOf)
	case "yearly":
		points = timeseries.LastNYears(snapshots, 5, asOf)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be daily, monthly or yearly"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"currency": prefs.BaseCurrency, "points": points})
}

// rebaseSnapshots converts snapshot values recorded under an older base
// currency into the current one, using the divide-by-rate rule.
func rebaseSnapshots(snapshots []models.NetWorthSnapshot, baseCurrency string, fx valuation.ExchangeRates) []models.NetWorthSnapshot {
	out := make([]models.NetWorthSnapshot, len(snapshots))
	for i, s := range snapshots {
		if s.Currency != "" && s.Currency != baseCurrency {
			s.TotalValue = valuation.ConvertToBase(s.TotalValue, s.Currency, baseCurrency, fx)
			s.CashValue = valuation.ConvertToBase(s.CashValue, s.Currency, baseCurrency, fx)
			s.InvestmentValue = valuation.ConvertToBase(s.InvestmentValue, s.Currency, baseCurrency, fx)
			s.Currency = baseCurrency
		}
		out[i] = s
	}
	return out
}

// GetFire runs the FIRE solver for a user: net worth from the live
// valuation, annual expenses from the last three months of tracked spending,
// the rest from stored settings.
func (h *Handler) GetFire(c *gin.Context) {
	userID := c.Param("userId")
	ctx := c.Request.Context()

	prefs, err := h.store.GetPreferences(ctx, userID)
	if err != nil {
		h.log.Errorf("preferences for %s failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	summary, _, fx, err := h.loadValuation(ctx, userID)
	if err != nil {
		h.log.Errorf("valuation for %s failed: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "valuation failed"})
		return
	}

	now := h.now().UTC()
	since := time.Date(now.Year(), now.Month()-3, 1, 0, 0, 0, 0, time.UTC).Format(dayLayout)
	expenses, err := h.store.GetExpenses(ctx, userID, since)
	if err != nil {
		h.log.Errorf("expenses for %s failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	monthlyExpenses := expense.AverageMonthly(expenses, prefs.BaseCurrency, fx)

	netWorth := summary.NetWorthExCpfSrs
	if prefs.FireIncludeCpfSrs {
		netWorth = summary.NetWorth
	}

	inputs := fire.Inputs{
		CurrentAge:         prefs.FireCurrentAge,
		SafeWithdrawalRate: prefs.FireSWR,
		AnnualGrowthRate:   prefs.FireGrowthRate,
		InflationRate:      prefs.FireInflationRate,
		AnnualExpenses:     monthlyExpenses.Mul(decimal.NewFromInt(12)),
		CurrentNetWorth:    netWorth,
		AnnualSavings:      prefs.FireMonthlySavings.Mul(decimal.NewFromInt(12)),
	}
	results := fire.Metrics(inputs)
	projection := fire.GenerateProjection(
		inputs.CurrentNetWorth,
		results.FireNumber,
		inputs.AnnualSavings,
		fire.RealReturnRate(inputs.AnnualGrowthRate, inputs.InflationRate),
		inputs.CurrentAge,
		fire.DefaultProjectionYears,
	)

	c.JSON(http.StatusOK, gin.H{
		"inputs":     inputs,
		"results":    results,
		"projection": projection,
	})
}

type fireSettingsRequest struct {
	CurrentAge     *int             `json:"current_age"`
	SWR            *decimal.Decimal `json:"safe_withdrawal_rate"`
	GrowthRate     *decimal.Decimal `json:"annual_growth_rate"`
	InflationRate  *decimal.Decimal `json:"inflation_rate"`
	IncludeCpfSrs  *bool            `json:"include_cpf_srs"`
	MonthlySavings *decimal.Decimal `json:"monthly_savings"`
}

// PutFireSettings merges the provided fields into the stored settings.
func (h *Handler) PutFireSettings(c *gin.Context) {
	userID := c.Param("userId")
	var req fireSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid fire settings body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	prefs, err := h.store.GetPreferences(ctx, userID)
	if err != nil {
		h.log.Errorf("preferences for %s failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if req.CurrentAge != nil {
		prefs.FireCurrentAge = *req.CurrentAge
	}
	if req.SWR != nil {
		prefs.FireSWR = *req.SWR
	}
	if req.GrowthRate != nil {
		prefs.FireGrowthRate = *req.GrowthRate
	}
	if req.InflationRate != nil {
		prefs.FireInflationRate = *req.InflationRate
	}
	if req.IncludeCpfSrs != nil {
		prefs.FireIncludeCpfSrs = *req.IncludeCpfSrs
	}
	if req.MonthlySavings != nil {
		prefs.FireMonthlySavings = *req.MonthlySavings
	}
	if err := h.store.UpsertPreferences(ctx, prefs); err != nil {
		h.log.Errorf("save fire settings for %s failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// GetPreferences returns the user's preferences, defaults included.
func (h *Handler) GetPreferences(c *gin.Context) {
	prefs, err := h.store.GetPreferences(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.log.Errorf("preferences failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

type baseCurrencyRequest struct {
	BaseCurrency string `json:"base_currency" binding:"required"`
}

// PutBaseCurrency switches the base currency all aggregates report in.
func (h *Handler) PutBaseCurrency(c *gin.Context) {
	userID := c.Param("userId")
	var req baseCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !currency.IsSupported(req.BaseCurrency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency"})
		return
	}
	ctx := c.Request.Context()
	prefs, err := h.store.GetPreferences(ctx, userID)
	if err != nil {
		h.log.Errorf("preferences for %s failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	prefs.BaseCurrency = req.BaseCurrency
	if err := h.store.UpsertPreferences(ctx, prefs); err != nil {
		h.log.Errorf("save preferences for %s failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// GetCurrencies lists the supported-currency directory.
func (h *Handler) GetCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, currency.Supported)
}
