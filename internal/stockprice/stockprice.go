// Package stockprice supplies latest stock quotes keyed by uppercase ticker,
// each in the security's native currency, backed by an HTTP quote API with a
// database cache. A ticker the API does not know is simply absent from the
// result; the valuation engine treats that as a zero market-value
// contribution.
package stockprice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"networth/internal/database"
	"networth/internal/valuation"
)

const cacheTTL = 24 * time.Hour

// Provider is what the handlers depend on.
type Provider interface {
	Prices(ctx context.Context, tickers []string) (valuation.PriceMap, error)
}

type Service struct {
	repo    *database.Repo
	log     *logrus.Logger
	client  *http.Client
	baseURL string
}

func NewService(repo *database.Repo, log *logrus.Logger, baseURL string) *Service {
	return &Service{
		repo:    repo,
		log:     log,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Prices returns quotes for the given tickers, uppercased and deduplicated.
// Fresh cache entries are used as-is; stale or missing tickers are fetched
// and re-cached. A failed fetch falls back to the stale cached quote when
// one exists, so a provider outage degrades to old prices rather than
// missing ones.
func (s *Service) Prices(ctx context.Context, tickers []string) (valuation.PriceMap, error) {
	unique := dedupeUpper(tickers)
	prices := valuation.PriceMap{}
	if len(unique) == 0 {
		return prices, nil
	}

	cached, err := s.repo.GetCachedPrices(ctx, unique)
	if err != nil {
		s.log.Warnf("price cache lookup failed: %v", err)
	}
	now := time.Now().UTC()
	stale := []string{}
	seen := map[string]bool{}
	for _, c := range cached {
		prices[c.Ticker] = valuation.StockPrice{Price: c.Price, Currency: c.Currency}
		seen[c.Ticker] = true
		if now.Sub(c.FetchedAt) >= cacheTTL {
			stale = append(stale, c.Ticker)
		}
	}
	for _, t := range unique {
		if !seen[t] {
			stale = append(stale, t)
		}
	}
	if len(stale) == 0 {
		return prices, nil
	}

	quotes, err := s.fetch(ctx, stale)
	if err != nil {
		// Stale prices already in the map stay; price freshness is a
		// caching concern, not a correctness one.
		s.log.Warnf("quote fetch failed, serving cached prices: %v", err)
		return prices, nil
	}
	for ticker, q := range quotes {
		prices[ticker] = q
		if err := s.repo.UpsertStockPrice(ctx, ticker, q.Price, q.Currency, now); err != nil {
			s.log.Warnf("price cache save failed for %s: %v", ticker, err)
		}
	}
	return prices, nil
}

// Start refreshes every known ticker's quote on an interval, in the
// background, until the context is cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("price refresher stopping")
				return
			case <-ticker.C:
				tickers, err := s.repo.GetAllTickers(ctx)
				if err != nil {
					s.log.Warnf("failed to list tickers: %v", err)
					continue
				}
				quotes, err := s.fetch(ctx, dedupeUpper(tickers))
				if err != nil {
					s.log.Warnf("price refresh failed: %v", err)
					continue
				}
				now := time.Now().UTC()
				for t, q := range quotes {
					if err := s.repo.UpsertStockPrice(ctx, t, q.Price, q.Currency, now); err != nil {
						s.log.Warnf("price cache save failed for %s: %v", t, err)
					}
				}
			}
		}
	}()
}

type quoteResponse struct {
	Quotes []struct {
		Symbol   string  `json:"symbol"`
		Price    float64 `json:"price"`
		Currency string  `json:"currency"`
	} `json:"quotes"`
}

func (s *Service) fetch(ctx context.Context, tickers []string) (valuation.PriceMap, error) {
	if len(tickers) == 0 {
		return valuation.PriceMap{}, nil
	}
	u := fmt.Sprintf("%s/quote?symbols=%s", s.baseURL, url.QueryEscape(strings.Join(tickers, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch quotes: status %d", resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}
	prices := valuation.PriceMap{}
	for _, q := range body.Quotes {
		if q.Price <= 0 {
			continue
		}
		cur := q.Currency
		if cur == "" {
			cur = "USD"
		}
		prices[strings.ToUpper(q.Symbol)] = valuation.StockPrice{
			Price:    decimal.NewFromFloat(q.Price),
			Currency: cur,
		}
	}
	return prices, nil
}

func dedupeUpper(tickers []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range tickers {
		u := strings.ToUpper(strings.TrimSpace(t))
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
