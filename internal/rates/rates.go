// Package rates supplies exchange rates for a base currency, backed by a
// frankfurter-style HTTP API with a database cache. Rates are expressed as
// units of the target currency per 1 unit of the base currency; the base
// currency itself always maps to 1.
package rates

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

	"networth/internal/currency"
	"networth/internal/database"
	"networth/internal/valuation"
)

const (
	DefaultBaseURL = "https://api.frankfurter.app"
	cacheDuration  = time.Hour
)

// Provider is what the handlers depend on. A failed fetch falls back to
// stale cached rates; with no cache at all it is a hard error and the
// request-level caller decides what to do.
type Provider interface {
	Rates(ctx context.Context, baseCurrency string) (valuation.ExchangeRates, error)
}

type Service struct {
	repo    *database.Repo
	log     *logrus.Logger
	client  *http.Client
	baseURL string
}

func NewService(repo *database.Repo, log *logrus.Logger, baseURL string) *Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Service{
		repo:    repo,
		log:     log,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Service) Rates(ctx context.Context, baseCurrency string) (valuation.ExchangeRates, error) {
	cached, fresh, err := s.repo.GetCachedRates(ctx, baseCurrency, cacheDuration)
	if err != nil {
		s.log.Warnf("rate cache lookup failed: %v", err)
	}
	if fresh {
		return valuation.ExchangeRates(cached), nil
	}

	fetched, err := s.fetch(ctx, baseCurrency)
	if err != nil {
		if len(cached) > 0 {
			s.log.Warnf("rate fetch failed, serving stale cache: %v", err)
			return valuation.ExchangeRates(cached), nil
		}
		return nil, err
	}
	if err := s.repo.SaveRates(ctx, baseCurrency, fetched); err != nil {
		s.log.Warnf("rate cache save failed: %v", err)
	}
	return valuation.ExchangeRates(fetched), nil
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (s *Service) fetch(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error) {
	targets := make([]string, 0, len(currency.Supported))
	for _, c := range currency.Supported {
		if c.Code != baseCurrency {
			targets = append(targets, c.Code)
		}
	}

	u := fmt.Sprintf("%s/latest?from=%s&to=%s", s.baseURL,
		url.QueryEscape(baseCurrency), url.QueryEscape(strings.Join(targets, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch exchange rates: status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode exchange rates: %w", err)
	}

	rates := map[string]decimal.Decimal{baseCurrency: decimal.NewFromInt(1)}
	for code, rate := range body.Rates {
		rates[code] = decimal.NewFromFloat(rate)
	}
	return rates, nil
}
