// Package catalog fetches the current set of active prediction markets
// from the Gamma API once at startup and hands the registry a flat list
// of market records. It does not poll; refreshing the catalog is an
// operator-driven restart, not a background loop.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/arbcore/pkg/cache"
	"github.com/mselser95/arbcore/pkg/types"
)

const cacheKey = "active-markets"

// Provider lists the currently active markets a registry should be
// built from.
type Provider interface {
	ListActiveMarkets(ctx context.Context) ([]types.MarketRecord, error)
}

// GammaClient fetches active markets from the Polymarket Gamma API,
// paging until a short page signals the end of the result set.
type GammaClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	pageSize   int
	maxPages   int
}

// NewGammaClient builds a GammaClient against baseURL (e.g.
// https://gamma-api.polymarket.com).
func NewGammaClient(baseURL string, logger *zap.Logger) *GammaClient {
	return &GammaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:   logger,
		pageSize: 500,
		maxPages: 20,
	}
}

// ListActiveMarkets fetches every open, active market, paging through
// the Gamma API until a page comes back shorter than the page size.
// Records that fail to decode (missing a yes or no token) are skipped,
// logged, and counted rather than failing the whole fetch.
func (c *GammaClient) ListActiveMarkets(ctx context.Context) ([]types.MarketRecord, error) {
	var all []types.MarketRecord

	for page := 0; page < c.maxPages; page++ {
		offset := page * c.pageSize
		raw, err := c.fetchPage(ctx, c.pageSize, offset)
		if err != nil {
			fetchesTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("fetch markets page at offset %d: %w", offset, err)
		}

		for _, item := range raw {
			var rec types.MarketRecord
			if err := json.Unmarshal(item, &rec); err != nil {
				marketsSkipped.Inc()
				c.logger.Warn("catalog-record-skipped", zap.Error(err))
				continue
			}
			all = append(all, rec)
		}

		if len(raw) < c.pageSize {
			break
		}
	}

	fetchesTotal.WithLabelValues("success").Inc()
	marketsFetched.Set(float64(len(all)))
	c.logger.Info("catalog-fetched", zap.Int("markets", len(all)))

	return all, nil
}

func (c *GammaClient) fetchPage(ctx context.Context, limit, offset int) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Add("closed", "false")
	params.Add("active", "true")
	params.Add("limit", strconv.Itoa(limit))
	params.Add("offset", strconv.Itoa(offset))
	params.Add("order", "volume24hr")
	params.Add("ascending", "false")

	requestURL := fmt.Sprintf("%s/markets?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "arbcore/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return items, nil
}

// CachedProvider wraps a Provider with a TTL cache so a forced re-fetch
// (e.g. a debug-endpoint refresh) within the TTL window doesn't hit the
// network twice.
type CachedProvider struct {
	inner  Provider
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider wraps inner with c, caching the full market list
// under a single key for ttl.
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c, ttl: ttl, logger: logger}
}

func (p *CachedProvider) ListActiveMarkets(ctx context.Context) ([]types.MarketRecord, error) {
	if cached, ok := p.cache.Get(cacheKey); ok {
		records, ok := cached.([]types.MarketRecord)
		if ok {
			p.logger.Debug("catalog-cache-hit", zap.Int("markets", len(records)))
			return records, nil
		}
	}

	records, err := p.inner.ListActiveMarkets(ctx)
	if err != nil {
		return nil, err
	}

	p.cache.Set(cacheKey, records, p.ttl)
	return records, nil
}
