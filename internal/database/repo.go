package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"networth/internal/models"
)

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

func (r *Repo) EnsureUserExists(ctx context.Context, userID, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, userID, name)
	return err
}

func (r *Repo) GetPreferences(ctx context.Context, userID string) (models.UserPreferences, error) {
	var p models.UserPreferences
	err := r.db.GetContext(ctx, &p, `
		SELECT user_id, base_currency, fire_current_age, fire_swr, fire_growth_rate,
		       fire_inflation_rate, fire_include_cpf_srs, fire_monthly_savings, updated_at
		FROM user_preferences WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPreferences(userID), nil
	}
	if err != nil {
		return models.UserPreferences{}, err
	}
	return p, nil
}

func (r *Repo) UpsertPreferences(ctx context.Context, p models.UserPreferences) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, base_currency, fire_current_age, fire_swr,
			fire_growth_rate, fire_inflation_rate, fire_include_cpf_srs, fire_monthly_savings, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8::numeric, now())
		ON CONFLICT (user_id) DO UPDATE SET
			base_currency = EXCLUDED.base_currency,
			fire_current_age = EXCLUDED.fire_current_age,
			fire_swr = EXCLUDED.fire_swr,
			fire_growth_rate = EXCLUDED.fire_growth_rate,
			fire_inflation_rate = EXCLUDED.fire_inflation_rate,
			fire_include_cpf_srs = EXCLUDED.fire_include_cpf_srs,
			fire_monthly_savings = EXCLUDED.fire_monthly_savings,
			updated_at = now()`,
		p.UserID, p.BaseCurrency, p.FireCurrentAge, p.FireSWR.String(), p.FireGrowthRate.String(),
		p.FireInflationRate.String(), p.FireIncludeCpfSrs, p.FireMonthlySavings.String())
	return err
}

func (r *Repo) CreateAccount(ctx context.Context, userID, name string, accountType models.AccountType) (models.Account, error) {
	a := models.Account{ID: uuid.NewString(), UserID: userID, Name: name, Type: accountType}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.Name, a.Type).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return models.Account{}, err
	}
	return a, nil
}

func (r *Repo) DeleteAccount(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}

// GetAccounts returns every account for a user with its holdings attached,
// ordered by creation time.
func (r *Repo) GetAccounts(ctx context.Context, userID string) ([]models.AccountWithHoldings, error) {
	var accounts []models.Account
	if err := r.db.SelectContext(ctx, &accounts, `
		SELECT id, user_id, name, type, created_at, updated_at
		FROM accounts WHERE user_id = $1 ORDER BY created_at`, userID); err != nil {
		return nil, err
	}

	res := make([]models.AccountWithHoldings, 0, len(accounts))
	byID := map[string]*models.AccountWithHoldings{}
	for _, a := range accounts {
		res = append(res, models.AccountWithHoldings{
			Account:       a,
			CashHoldings:  []models.CashHolding{},
			StockHoldings: []models.StockHolding{},
		})
	}
	for i := range res {
		byID[res[i].ID] = &res[i]
	}

	cashRows, err := r.db.QueryxContext(ctx, `
		SELECT ch.id, ch.account_id, ch.balance, ch.currency, ch.label, ch.updated_at
		FROM cash_holdings ch JOIN accounts a ON a.id = ch.account_id
		WHERE a.user_id = $1 ORDER BY ch.updated_at`, userID)
	if err != nil {
		return nil, err
	}
	defer cashRows.Close()
	for cashRows.Next() {
		var h models.CashHolding
		if err := cashRows.StructScan(&h); err != nil {
			r.log.Warnf("scan cash holding failed: %v", err)
			continue
		}
		if acc, ok := byID[h.AccountID]; ok {
			acc.CashHoldings = append(acc.CashHoldings, h)
		}
	}

	stockRows, err := r.db.QueryxContext(ctx, `
		SELECT sh.id, sh.account_id, sh.ticker, sh.shares, sh.cost_basis_per_share, sh.updated_at
		FROM stock_holdings sh JOIN accounts a ON a.id = sh.account_id
		WHERE a.user_id = $1 ORDER BY sh.updated_at`, userID)
	if err != nil {
		return nil, err
	}
	defer stockRows.Close()
	for stockRows.Next() {
		var h models.StockHolding
		if err := stockRows.StructScan(&h); err != nil {
			r.log.Warnf("scan stock holding failed: %v", err)
			continue
		}
		if acc, ok := byID[h.AccountID]; ok {
			acc.StockHoldings = append(acc.StockHoldings, h)
		}
	}

	return res, nil
}

func (r *Repo) CreateCashHolding(ctx context.Context, accountID string, balance decimal.Decimal, currency string, label *string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cash_holdings (id, account_id, balance, currency, label, updated_at)
		VALUES ($1, $2, $3::numeric, $4, $5, now())`,
		id, accountID, balance.String(), currency, label)
	return id, err
}

func (r *Repo) UpdateCashHolding(ctx context.Context, id string, balance decimal.Decimal, currency string, label *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cash_holdings SET balance = $1::numeric, currency = $2, label = $3, updated_at = now()
		WHERE id = $4`, balance.String(), currency, label, id)
	return err
}

func (r *Repo) DeleteCashHolding(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cash_holdings WHERE id = $1`, id)
	return err
}

func (r *Repo) CreateStockHolding(ctx context.Context, accountID, ticker string, shares, costBasisPerShare decimal.Decimal) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stock_holdings (id, account_id, ticker, shares, cost_basis_per_share, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, now())`,
		id, accountID, ticker, shares.String(), costBasisPerShare.String())
	return id, err
}

func (r *Repo) UpdateStockHolding(ctx context.Context, id, ticker string, shares, costBasisPerShare decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stock_holdings SET ticker = $1, shares = $2::numeric, cost_basis_per_share = $3::numeric, updated_at = now()
		WHERE id = $4`, ticker, shares.String(), costBasisPerShare.String(), id)
	return err
}

func (r *Repo) DeleteStockHolding(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stock_holdings WHERE id = $1`, id)
	return err
}

func (r *Repo) CreateExpense(ctx context.Context, e models.Expense) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, amount, currency, category, subcategory, description, expense_date, created_at, updated_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8::date, now(), now())`,
		id, e.UserID, e.Amount.String(), e.Currency, e.Category, e.Subcategory, e.Description, e.ExpenseDate)
	return id, err
}

func (r *Repo) UpdateExpense(ctx context.Context, e models.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET amount = $1::numeric, currency = $2, category = $3, subcategory = $4,
			description = $5, expense_date = $6::date, updated_at = now()
		WHERE id = $7`,
		e.Amount.String(), e.Currency, e.Category, e.Subcategory, e.Description, e.ExpenseDate, e.ID)
	return err
}

func (r *Repo) DeleteExpense(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return err
}

// GetExpenses returns a user's expenses on or after since (YYYY-MM-DD),
// newest first. An empty since returns everything.
func (r *Repo) GetExpenses(ctx context.Context, userID, since string) ([]models.Expense, error) {
	q := `
		SELECT id, user_id, amount, currency, category, subcategory, description,
		       expense_date::text AS expense_date, created_at, updated_at
		FROM expenses WHERE user_id = $1`
	args := []interface{}{userID}
	if since != "" {
		q += ` AND expense_date >= $2::date`
		args = append(args, since)
	}
	q += ` ORDER BY expense_date DESC, created_at DESC`

	rows, err := r.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.StructScan(&e); err != nil {
			r.log.Warnf("scan expense failed: %v", err)
			continue
		}
		res = append(res, e)
	}
	return res, nil
}

// UpsertSnapshot records the day's valuation, replacing any earlier snapshot
// for the same user and calendar day.
func (r *Repo) UpsertSnapshot(ctx context.Context, s models.NetWorthSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO net_worth_snapshots (id, user_id, total_value, cash_value, investment_value, snapshot_date, currency, created_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6::date, $7, now())
		ON CONFLICT (user_id, snapshot_date) DO UPDATE SET
			total_value = EXCLUDED.total_value,
			cash_value = EXCLUDED.cash_value,
			investment_value = EXCLUDED.investment_value,
			currency = EXCLUDED.currency`,
		uuid.NewString(), s.UserID, s.TotalValue.String(), s.CashValue.String(),
		s.InvestmentValue.String(), s.SnapshotDate, s.Currency)
	return err
}

// GetSnapshots returns up to limit snapshots in chronological order.
// limit <= 0 means no limit.
func (r *Repo) GetSnapshots(ctx context.Context, userID string, limit int) ([]models.NetWorthSnapshot, error) {
	q := `
		SELECT id, user_id, total_value, cash_value, investment_value,
		       snapshot_date::text AS snapshot_date, currency, created_at
		FROM net_worth_snapshots WHERE user_id = $1 ORDER BY snapshot_date`
	args := []interface{}{userID}
	if limit > 0 {
		q += ` DESC LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.NetWorthSnapshot{}
	for rows.Next() {
		var s models.NetWorthSnapshot
		if err := rows.StructScan(&s); err != nil {
			r.log.Warnf("scan snapshot failed: %v", err)
			continue
		}
		res = append(res, s)
	}
	if limit > 0 {
		// The LIMIT query walks newest-first; flip back to chronological.
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res, nil
}

// GetCachedRates returns the cached rates for a base currency, or ok=false
// when the cache is missing or older than maxAge.
func (r *Repo) GetCachedRates(ctx context.Context, baseCurrency string, maxAge time.Duration) (map[string]decimal.Decimal, bool, error) {
	var rows []CachedRate
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT base_currency, target_currency, rate, fetched_at
		FROM exchange_rates WHERE base_currency = $1`, baseCurrency); err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	rates := map[string]decimal.Decimal{baseCurrency: decimal.NewFromInt(1)}
	now := time.Now().UTC()
	for _, row := range rows {
		if now.Sub(row.FetchedAt) > maxAge {
			return nil, false, nil
		}
		rates[row.TargetCurrency] = row.Rate
	}
	return rates, true, nil
}

func (r *Repo) SaveRates(ctx context.Context, baseCurrency string, rates map[string]decimal.Decimal) error {
	now := time.Now().UTC()
	for target, rate := range rates {
		if target == baseCurrency {
			continue
		}
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO exchange_rates (base_currency, target_currency, rate, fetched_at)
			VALUES ($1, $2, $3::numeric, $4)
			ON CONFLICT (base_currency, target_currency) DO UPDATE SET
				rate = EXCLUDED.rate, fetched_at = EXCLUDED.fetched_at`,
			baseCurrency, target, rate.String(), now); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) GetCachedPrices(ctx context.Context, tickers []string) ([]CachedPrice, error) {
	if len(tickers) == 0 {
		return []CachedPrice{}, nil
	}
	q, args, err := sqlx.In(`SELECT ticker, price, currency, fetched_at FROM stock_prices WHERE ticker IN (?)`, tickers)
	if err != nil {
		return nil, err
	}
	var rows []CachedPrice
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) UpsertStockPrice(ctx context.Context, ticker string, price decimal.Decimal, priceCurrency string, ts time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stock_prices (ticker, price, currency, fetched_at)
		VALUES ($1, $2::numeric, $3, $4)
		ON CONFLICT (ticker) DO UPDATE SET
			price = EXCLUDED.price, currency = EXCLUDED.currency, fetched_at = EXCLUDED.fetched_at`,
		ticker, price.String(), priceCurrency, ts)
	return err
}

func (r *Repo) GetAllTickers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT DISTINCT ticker FROM stock_holdings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			r.log.Warnf("scan ticker failed: %v", err)
			continue
		}
		res = append(res, t)
	}
	return res, nil
}
