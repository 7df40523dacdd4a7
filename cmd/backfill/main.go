// Seeds a demo user with accounts, holdings, expenses and a run of
// historical net-worth snapshots, so the charts have something to show on a
// fresh database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	userID := "demo-user"

	if _, err := db.ExecContext(ctx, `INSERT INTO users (id, name) VALUES ($1, 'Demo User') ON CONFLICT (id) DO NOTHING`, userID); err != nil {
		log.Fatalf("insert user: %v", err)
	}

	cashAccount := uuid.NewString()
	investAccount := uuid.NewString()
	cpfAccount := uuid.NewString()
	accounts := []struct{ id, name, typ string }{
		{cashAccount, "DBS Savings", "cash"},
		{investAccount, "IBKR", "investment"},
		{cpfAccount, "CPF", "cpf"},
	}
	for _, a := range accounts {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO accounts (id, user_id, name, type) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`, a.id, userID, a.name, a.typ); err != nil {
			fmt.Printf("Warning: could not insert account %s: %v\n", a.name, err)
		}
	}

	holdings := []struct {
		accountID, currency, label string
		balance                    string
	}{
		{cashAccount, "SGD", "", "25000"},
		{cashAccount, "USD", "", "4000"},
		{cpfAccount, "SGD", "OA", "40000"},
		{cpfAccount, "SGD", "SA", "20000"},
		{cpfAccount, "SGD", "MA", "15000"},
	}
	for _, h := range holdings {
		var label interface{}
		if h.label != "" {
			label = h.label
		}
		if _, err := db.ExecContext(ctx, `
			INSERT INTO cash_holdings (id, account_id, balance, currency, label)
			VALUES ($1, $2, $3::numeric, $4, $5)`,
			uuid.NewString(), h.accountID, h.balance, h.currency, label); err != nil {
			fmt.Printf("Warning: could not insert cash holding: %v\n", err)
		}
	}

	stocks := []struct{ ticker, shares, cost string }{
		{"AAPL", "10", "150"},
		{"VWRA.L", "100", "95"},
	}
	for _, s := range stocks {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO stock_holdings (id, account_id, ticker, shares, cost_basis_per_share)
			VALUES ($1, $2, $3, $4::numeric, $5::numeric)`,
			uuid.NewString(), investAccount, s.ticker, s.shares, s.cost); err != nil {
			fmt.Printf("Warning: could not insert stock holding: %v\n", err)
		}
	}

	// 90 days of snapshots drifting upward, ending yesterday.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	base := decimal.NewFromInt(95000)
	step := decimal.NewFromInt(120)
	for i := 90; i >= 1; i-- {
		day := today.AddDate(0, 0, -i)
		total := base.Add(step.Mul(decimal.NewFromInt(int64(90 - i))))
		cash := total.Mul(decimal.NewFromFloat(0.6))
		invest := total.Sub(cash)
		if _, err := db.ExecContext(ctx, `
			INSERT INTO net_worth_snapshots (id, user_id, total_value, cash_value, investment_value, snapshot_date, currency)
			VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6::date, 'USD')
			ON CONFLICT (user_id, snapshot_date) DO NOTHING`,
			uuid.NewString(), userID, total.String(), cash.String(), invest.String(),
			day.Format("2006-01-02")); err != nil {
			fmt.Printf("Warning: could not insert snapshot for %s: %v\n", day.Format("2006-01-02"), err)
		}
	}

	fmt.Println("Successfully seeded demo data!")
	fmt.Println("Try: curl localhost:8080/net-worth/demo-user")
}
