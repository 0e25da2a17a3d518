package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
	"github.com/tropicaldog17/monitorcrypto/internal/metrics"
)

const (
	DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	defaultExternalTimeout  = 15 * time.Second
	maxResponseBytes        = 16 << 20
)

// SourceStatusError carries the HTTP status of a non-2xx upstream response.
type SourceStatusError struct {
	StatusCode int
}

func (e *SourceStatusError) Error() string {
	return fmt.Sprintf("coingecko status %d", e.StatusCode)
}

// CoinGeckoOptions configures a CoinGeckoClient. Zero values take defaults.
type CoinGeckoOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Cache   SourceCache
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// CoinGeckoClient reads listings and coin detail from CoinGecko through a
// read-through cache. Concurrent identical misses share one upstream call.
// Failures are not retried here.
type CoinGeckoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      SourceCache
	group      singleflight.Group
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewCoinGeckoClient(opts CoinGeckoOptions) *CoinGeckoClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultCoinGeckoBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultExternalTimeout
	}
	if opts.Cache == nil {
		opts.Cache = NewMemorySourceCache(DefaultSourceCacheTTL)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &CoinGeckoClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
		cache:      opts.Cache,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
}

// FetchListing returns one page of /coins/markets ordered by market cap.
func (c *CoinGeckoClient) FetchListing(ctx context.Context, vsCurrency string, perPage, page int) ([]AssetQuote, error) {
	key := fmt.Sprintf("prices:%s:%d:%d", vsCurrency, perPage, page)
	return readThrough(ctx, c, key, decodeListing, func(ctx context.Context) ([]byte, []AssetQuote, error) {
		q := url.Values{}
		q.Set("vs_currency", vsCurrency)
		q.Set("order", "market_cap_desc")
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		q.Set("sparkline", "false")
		q.Set("price_change_percentage", "1h,24h,7d")

		raw, err := c.get(ctx, "listing", "/coins/markets", q)
		if err != nil {
			return nil, nil, err
		}
		quotes, err := decodeListing(raw)
		if err != nil {
			c.metrics.SourceFailure("listing")
			return nil, nil, err
		}
		return raw, quotes, nil
	})
}

func decodeListing(body []byte) ([]AssetQuote, error) {
	var quotes []AssetQuote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("%w: decode listing: %v", apperrors.ErrSourceUnavailable, err)
	}
	return quotes, nil
}

// FetchDetail combines /coins/{id} and /coins/{id}/market_chart for the
// given window. Windows of at least one day are requested at daily interval.
func (c *CoinGeckoClient) FetchDetail(ctx context.Context, coinID, vsCurrency string, days int) (*AssetDetail, error) {
	interval := ""
	if days >= 1 {
		interval = "daily"
	}
	key := fmt.Sprintf("coin:%s:%s:%d:%s", coinID, vsCurrency, days, interval)
	detail, err := readThrough(ctx, c, key, decodeDetail, func(ctx context.Context) ([]byte, AssetDetail, error) {
		d, err := c.fetchDetail(ctx, coinID, vsCurrency, days, interval)
		if err != nil {
			return nil, AssetDetail{}, err
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, AssetDetail{}, err
		}
		return raw, *d, nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func decodeDetail(body []byte) (AssetDetail, error) {
	var detail AssetDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return AssetDetail{}, fmt.Errorf("%w: decode detail: %v", apperrors.ErrSourceUnavailable, err)
	}
	return detail, nil
}

func (c *CoinGeckoClient) fetchDetail(ctx context.Context, coinID, vsCurrency string, days int, interval string) (*AssetDetail, error) {
	escaped := url.PathEscape(coinID)

	infoQuery := url.Values{}
	infoQuery.Set("localization", "false")
	infoQuery.Set("tickers", "false")
	infoQuery.Set("market_data", "true")
	infoQuery.Set("community_data", "false")
	infoQuery.Set("developer_data", "false")
	infoQuery.Set("sparkline", "false")
	rawInfo, err := c.get(ctx, "detail", "/coins/"+escaped, infoQuery)
	if err != nil {
		return nil, err
	}
	var info coinInfoPayload
	if err := json.Unmarshal(rawInfo, &info); err != nil {
		c.metrics.SourceFailure("detail")
		return nil, fmt.Errorf("%w: decode detail: %v", apperrors.ErrSourceUnavailable, err)
	}

	chartQuery := url.Values{}
	chartQuery.Set("vs_currency", vsCurrency)
	chartQuery.Set("days", strconv.Itoa(days))
	if interval != "" {
		chartQuery.Set("interval", interval)
	}
	rawChart, err := c.get(ctx, "chart", "/coins/"+escaped+"/market_chart", chartQuery)
	if err != nil {
		return nil, err
	}
	var chart marketChartPayload
	if err := json.Unmarshal(rawChart, &chart); err != nil {
		c.metrics.SourceFailure("chart")
		return nil, fmt.Errorf("%w: decode chart: %v", apperrors.ErrSourceUnavailable, err)
	}

	detail := info.toDetail(vsCurrency)
	if detail.ID == "" {
		detail.ID = coinID
	}
	detail.Prices = chart.points()
	return detail, nil
}

// Ping checks that the upstream answers /ping.
func (c *CoinGeckoClient) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "ping", "/ping", nil)
	return err
}

// readThrough serves key from the cache or runs fetch once for all
// concurrent callers of the same key. The shared fetch is detached from any
// single caller's cancellation and bounded by the HTTP client timeout; each
// caller stops waiting only when its own ctx is done.
func readThrough[T any](
	ctx context.Context,
	c *CoinGeckoClient,
	key string,
	decode func([]byte) (T, error),
	fetch func(context.Context) ([]byte, T, error),
) (T, error) {
	var zero T
	if body, ok := c.cache.Get(ctx, key); ok {
		c.metrics.CacheLookup(true)
		return decode(body)
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// another caller may have filled the entry while we waited
		if body, ok := c.cache.Get(shared, key); ok {
			c.metrics.CacheLookup(true)
			return decode(body)
		}
		c.metrics.CacheLookup(false)
		raw, v, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.cache.Set(shared, key, raw)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *CoinGeckoClient) get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrSourceUnavailable, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.SourceFailure(endpoint)
		c.logger.Warn("coingecko request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrSourceUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.SourceFailure(endpoint)
		c.logger.Warn("coingecko non-success status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, &SourceStatusError{StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.SourceFailure(endpoint)
		return nil, fmt.Errorf("%w: %s: read body: %w", apperrors.ErrSourceUnavailable, endpoint, err)
	}
	return body, nil
}
