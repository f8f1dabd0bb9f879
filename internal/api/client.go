// Package api is a typed client for the MarketIQ REST API
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/analytics"
)

const (
	DefaultBaseURL = "http://localhost:3001/api"
	DefaultTimeout = 10 * time.Second
)

// Client calls the REST API. It performs no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit limits outgoing requests. Zero or negative disables it.
func WithRateLimit(requestsPerSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logging.NewSilent(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Error is returned for non-2xx responses
type Error struct {
	StatusCode int
	Status     string // status text, e.g. "Service Unavailable"
	Endpoint   string
	Message    string // server-provided error message, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.Status)
}

// get performs a GET request and decodes the JSON body into result
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", reqURL).Msg("API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed for %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Endpoint:   path,
		}
		var body struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// GetCrypto lists crypto assets
func (c *Client) GetCrypto(ctx context.Context) ([]models.AssetQuote, error) {
	var out []models.AssetQuote
	return out, c.get(ctx, "/crypto", nil, &out)
}

// GetStocks lists stock assets
func (c *Client) GetStocks(ctx context.Context) ([]models.AssetQuote, error) {
	var out []models.AssetQuote
	return out, c.get(ctx, "/stocks", nil, &out)
}

// GetAssets lists assets of one class, or all
func (c *Client) GetAssets(ctx context.Context, filter models.AssetFilter) ([]models.AssetQuote, error) {
	var out []models.AssetQuote
	return out, c.get(ctx, "/assets", url.Values{"type": {string(filter)}}, &out)
}

// GetAsset returns the profile of one asset
func (c *Client) GetAsset(ctx context.Context, symbol string) (models.AssetProfile, error) {
	var out models.AssetProfile
	return out, c.get(ctx, "/assets/"+url.PathEscape(symbol), nil, &out)
}

// GetMarketOverview returns overall market conditions
func (c *Client) GetMarketOverview(ctx context.Context) (models.MarketOverview, error) {
	var out models.MarketOverview
	return out, c.get(ctx, "/market/overview", nil, &out)
}

// GetTopMovers returns the biggest movers
func (c *Client) GetTopMovers(ctx context.Context, limit int) ([]models.AssetQuote, error) {
	var out []models.AssetQuote
	return out, c.get(ctx, "/assets/top-movers", url.Values{"limit": {strconv.Itoa(limit)}}, &out)
}

// GetPortfolios lists the total view and every sub-portfolio
func (c *Client) GetPortfolios(ctx context.Context) ([]models.PortfolioSummary, error) {
	var out []models.PortfolioSummary
	return out, c.get(ctx, "/portfolios", nil, &out)
}

// GetPortfolio returns one portfolio view
func (c *Client) GetPortfolio(ctx context.Context, id string) (models.PortfolioSummary, error) {
	var out models.PortfolioSummary
	return out, c.get(ctx, "/portfolios/"+url.PathEscape(id), nil, &out)
}

// GetPortfolioPerformance returns portfolio value against the benchmark
func (c *Client) GetPortfolioPerformance(ctx context.Context, id, period string) ([]models.PerformancePoint, error) {
	var out []models.PerformancePoint
	path := "/portfolios/" + url.PathEscape(id) + "/performance"
	return out, c.get(ctx, path, url.Values{"period": {period}}, &out)
}

// GetPortfolioAnalytics returns headline metrics for a portfolio view
func (c *Client) GetPortfolioAnalytics(ctx context.Context, id string) (analytics.Summary, error) {
	var out analytics.Summary
	return out, c.get(ctx, "/portfolios/"+url.PathEscape(id)+"/analytics", nil, &out)
}

// GetPriceHistory returns daily prices for a symbol
func (c *Client) GetPriceHistory(ctx context.Context, symbol, period string) ([]models.PricePoint, error) {
	var out []models.PricePoint
	path := "/assets/" + url.PathEscape(symbol) + "/history"
	return out, c.get(ctx, path, url.Values{"period": {period}}, &out)
}

// GetNarratives lists market narratives
func (c *Client) GetNarratives(ctx context.Context) ([]models.Narrative, error) {
	var out []models.Narrative
	return out, c.get(ctx, "/narratives", nil, &out)
}

// GetLeaderboard ranks one asset class by IQ score
func (c *Client) GetLeaderboard(ctx context.Context, class models.AssetClass) ([]models.AssetQuote, error) {
	var out []models.AssetQuote
	return out, c.get(ctx, "/leaderboard", url.Values{"type": {string(class)}}, &out)
}

// GetContributionReport returns the performance attribution report
func (c *Client) GetContributionReport(ctx context.Context) (analytics.Attribution, error) {
	var out analytics.Attribution
	return out, c.get(ctx, "/reports/contribution", nil, &out)
}
