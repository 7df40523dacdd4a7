package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"networth/internal/models"
)

func setupDB(t *testing.T) *sqlx.DB {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL is not set; skipping integration tests")
	}
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	files := []string{"../../migrations/0001_init.up.sql"}
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read migration %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Logf("exec migration %s: %v", f, err)
		}
	}
	return db
}

func TestUpsertSnapshot_OnePerDay(t *testing.T) {
	db := setupDB(t)
	logger := logrus.New()
	r := New(db, logger)
	ctx := context.Background()

	userID := "it-snapshot-user"
	if err := r.EnsureUserExists(ctx, userID, ""); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if _, err := db.Exec(`DELETE FROM net_worth_snapshots WHERE user_id = $1`, userID); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	day := "2026-01-15"
	first := models.NetWorthSnapshot{
		UserID: userID, SnapshotDate: day, Currency: "USD",
		TotalValue: decimal.NewFromInt(1000), CashValue: decimal.NewFromInt(600), InvestmentValue: decimal.NewFromInt(400),
	}
	if err := r.UpsertSnapshot(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := first
	second.TotalValue = decimal.NewFromInt(1100)
	if err := r.UpsertSnapshot(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	snaps, err := r.GetSnapshots(ctx, userID, 0)
	if err != nil {
		t.Fatalf("get snapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot for the day, got %d", len(snaps))
	}
	if !snaps[0].TotalValue.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("expected upsert to overwrite total, got %s", snaps[0].TotalValue)
	}
	if snaps[0].SnapshotDate != day {
		t.Fatalf("expected snapshot date %s, got %s", day, snaps[0].SnapshotDate)
	}
}

func TestGetSnapshots_ChronologicalWithLimit(t *testing.T) {
	db := setupDB(t)
	r := New(db, logrus.New())
	ctx := context.Background()

	userID := "it-snapshot-order-user"
	if err := r.EnsureUserExists(ctx, userID, ""); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if _, err := db.Exec(`DELETE FROM net_worth_snapshots WHERE user_id = $1`, userID); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	for i, day := range []string{"2026-01-01", "2026-01-02", "2026-01-03"} {
		s := models.NetWorthSnapshot{
			UserID: userID, SnapshotDate: day, Currency: "USD",
			TotalValue: decimal.NewFromInt(int64(100 + i)),
		}
		if err := r.UpsertSnapshot(ctx, s); err != nil {
			t.Fatalf("upsert %s: %v", day, err)
		}
	}

	snaps, err := r.GetSnapshots(ctx, userID, 2)
	if err != nil {
		t.Fatalf("get snapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].SnapshotDate != "2026-01-02" || snaps[1].SnapshotDate != "2026-01-03" {
		t.Fatalf("expected chronological last-2, got %s, %s", snaps[0].SnapshotDate, snaps[1].SnapshotDate)
	}
}

func TestGetPreferences_DefaultsWhenMissing(t *testing.T) {
	db := setupDB(t)
	r := New(db, logrus.New())
	ctx := context.Background()

	prefs, err := r.GetPreferences(ctx, "no-such-user")
	if err != nil {
		t.Fatalf("get preferences: %v", err)
	}
	if prefs.BaseCurrency != "USD" {
		t.Fatalf("expected USD default, got %s", prefs.BaseCurrency)
	}
	if !prefs.FireSWR.Equal(decimal.NewFromFloat(0.04)) {
		t.Fatalf("expected 0.04 default SWR, got %s", prefs.FireSWR)
	}
}

func TestRateCache_Freshness(t *testing.T) {
	db := setupDB(t)
	r := New(db, logrus.New())
	ctx := context.Background()

	base := "ITC" // test-only base so real rows are untouched
	if _, err := db.Exec(`DELETE FROM exchange_rates WHERE base_currency = $1`, base); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	rates := map[string]decimal.Decimal{
		base:  decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.92"),
	}
	if err := r.SaveRates(ctx, base, rates); err != nil {
		t.Fatalf("save rates: %v", err)
	}

	got, fresh, err := r.GetCachedRates(ctx, base, time.Hour)
	if err != nil {
		t.Fatalf("get cached: %v", err)
	}
	if !fresh {
		t.Fatal("expected a fresh cache right after save")
	}
	if !got["EUR"].Equal(decimal.RequireFromString("0.92")) {
		t.Fatalf("expected cached EUR rate, got %s", got["EUR"])
	}
	if !got[base].Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected base rate 1, got %s", got[base])
	}

	// A zero max age makes everything stale.
	_, fresh, err = r.GetCachedRates(ctx, base, 0)
	if err != nil {
		t.Fatalf("get cached (stale): %v", err)
	}
	if fresh {
		t.Fatal("expected stale cache with zero max age")
	}
}
