// Package prices fetches buy/sell prices from a remote appraisal service.
package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// ErrPriceUnavailable wraps any failure to obtain a complete price
// snapshot. An analysis call either gets a full table or fails with this.
var ErrPriceUnavailable = errors.New("price data unavailable")

// appraisalResponse mirrors the relevant slice of the appraisal JSON.
type appraisalResponse struct {
	Appraisal struct {
		Items []appraisalItem `json:"items"`
	} `json:"appraisal"`
}

type appraisalItem struct {
	TypeName string `json:"typeName"`
	Prices   struct {
		Buy  priceDetail `json:"buy"`
		Sell priceDetail `json:"sell"`
	} `json:"prices"`
}

type priceDetail struct {
	Percentile *float64 `json:"percentile"`
}

// Client fetches batched price snapshots with a TTL cache in front, so
// analyses inside the TTL share one frozen table per market.
type Client struct {
	endpoint string
	market   string
	http     *http.Client
	cache    *gocache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a price client for the given appraisal endpoint and
// market. The timeout bounds each fetch; cacheTTL bounds snapshot reuse
// (zero disables caching).
func NewClient(endpoint, market string, timeout, cacheTTL time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		market:   market,
		http:     &http.Client{Timeout: timeout},
		cache:    gocache.New(cacheTTL, 2*cacheTTL),
		cacheTTL: cacheTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns a price table for the given item names: one batched request
// regardless of how many items are asked for. A cached snapshot for the
// market is returned as-is when still fresh. Missing items are simply
// absent from the table; transport and decode failures surface as
// ErrPriceUnavailable.
func (c *Client) Fetch(ctx context.Context, itemNames []string) (reaction.PriceTable, error) {
	if len(itemNames) == 0 {
		return reaction.PriceTable{}, nil
	}

	if c.cacheTTL > 0 {
		if cached, ok := c.cache.Get(c.market); ok {
			c.logger.Debug("using cached price snapshot", "market", c.market)
			return cached.(reaction.PriceTable), nil
		}
	}

	table, err := c.fetchRemote(ctx, itemNames)
	if err != nil {
		return nil, err
	}

	if c.cacheTTL > 0 {
		c.cache.SetDefault(c.market, table)
	}
	return table, nil
}

// Invalidate drops the cached snapshot for the configured market.
func (c *Client) Invalidate() {
	c.cache.Delete(c.market)
}

// fetchRemote performs the actual appraisal request.
func (c *Client) fetchRemote(ctx context.Context, itemNames []string) (reaction.PriceTable, error) {
	form := url.Values{}
	form.Set("market", c.market)
	form.Set("raw_textarea", strings.Join(itemNames, "\n"))
	form.Set("persist", "no")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrPriceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "moon-reaction-server/1.0")

	c.logger.Debug("fetching prices", "market", c.market, "items", len(itemNames))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: appraisal service returned status %d", ErrPriceUnavailable, resp.StatusCode)
	}

	var decoded appraisalResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrPriceUnavailable, err)
	}

	table := make(reaction.PriceTable, len(decoded.Appraisal.Items))
	for _, item := range decoded.Appraisal.Items {
		table[item.TypeName] = reaction.PriceInfo{
			Buy:  percentileOrZero(item.Prices.Buy),
			Sell: percentileOrZero(item.Prices.Sell),
		}
	}

	return table, nil
}

func percentileOrZero(d priceDetail) float64 {
	if d.Percentile == nil {
		return 0
	}
	return *d.Percentile
}
