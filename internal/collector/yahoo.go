package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"ETFScreener/internal/httpclient"
	"ETFScreener/internal/model"
	"ETFScreener/internal/numeric"
)

// Yahoo Finance endpoints.
const (
	DefaultYahooChartURL  = "https://query1.finance.yahoo.com"
	DefaultYahooQuoteURL  = "https://query2.finance.yahoo.com"
	DefaultYahooCookieURL = "https://fc.yahoo.com"
)

// quoteSummaryModules are flattened into one QuoteSnapshot, earlier modules
// taking precedence on duplicate field names.
var quoteSummaryModules = []string{"price", "summaryDetail", "defaultKeyStatistics", "fundProfile"}

// YahooConfig configures the Yahoo Finance fetcher.
type YahooConfig struct {
	ChartURL   string
	QuoteURL   string
	CookieURL  string // empty disables the cookie/crumb handshake
	UserAgent  string
	Proxy      string
	Timeout    time.Duration
	RPS        float64
	Burst      int
	MaxRetries uint
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	cfg    YahooConfig
	client httpclient.Doer

	mu    sync.Mutex
	crumb string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(cfg YahooConfig) *YahooFetcher {
	if cfg.ChartURL == "" {
		cfg.ChartURL = DefaultYahooChartURL
	}
	if cfg.QuoteURL == "" {
		cfg.QuoteURL = DefaultYahooQuoteURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	jar, _ := cookiejar.New(nil)
	client := httpclient.NewClient(httpclient.ClientConfig{
		HttpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			Jar:       jar,
		},
		RateLimitConfig: httpclient.RateLimitConfig{RequestsPerSecond: cfg.RPS, Burst: cfg.Burst},
		RetryConfig: httpclient.RetryConfig{
			MaxRetries:    cfg.MaxRetries,
			BaseDelay:     cfg.BaseDelay,
			MaxDelay:      cfg.MaxDelay,
			RetryOnStatus: []int{http.StatusTooManyRequests, 500, 502, 503, 504},
		},
	})
	return &YahooFetcher{cfg: cfg, client: client}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *yahooError                  `json:"error"`
	} `json:"quoteSummary"`
}

// at returns vals[i], reporting false for a null or out-of-range entry.
func at(vals []interface{}, i int) (float64, bool) {
	if i >= len(vals) {
		return 0, false
	}
	return numeric.ToFloat(vals[i])
}

func (f *YahooFetcher) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("yahoo read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// rangeForDays maps a lookback in calendar days to a Yahoo chart range.
func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

// FetchDailyBars retrieves daily bars covering the last days calendar days.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		strings.TrimRight(f.cfg.ChartURL, "/"), url.PathEscape(symbol), rangeForDays(days))

	body, status, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart %s: status %d, body: %s", symbol, status, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c, ok := at(quote.Close, i)
		if !ok {
			continue // no close, no bar (holidays, halted sessions)
		}
		bar := model.PriceBar{Time: time.Unix(ts, 0), Open: c, High: c, Low: c, Close: c}
		if o, ok := at(quote.Open, i); ok {
			bar.Open = o
		}
		if h, ok := at(quote.High, i); ok {
			bar.High = h
		}
		if l, ok := at(quote.Low, i); ok {
			bar.Low = l
		}
		if i < len(quote.Volume) {
			bar.Volume = numeric.SafeFloat(quote.Volume[i], 0)
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// FetchQuote retrieves the quoteSummary modules for a symbol and flattens
// them into a single snapshot.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (model.QuoteSnapshot, error) {
	crumb, err := f.getCrumb(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("modules", strings.Join(quoteSummaryModules, ","))
	if crumb != "" {
		q.Set("crumb", crumb)
	}
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s",
		strings.TrimRight(f.cfg.QuoteURL, "/"), url.PathEscape(symbol), q.Encode())

	body, status, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		f.resetCrumb()
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo quote %s: status %d, body: %s", symbol, status, string(body))
	}

	var summary yahooQuoteSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quote %s: %w", symbol, ErrNoData)
	}

	snap := model.QuoteSnapshot{}
	for _, module := range quoteSummaryModules {
		raw, ok := summary.QuoteSummary.Result[0][module]
		if !ok {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var fields map[string]any
		if err := dec.Decode(&fields); err != nil {
			continue
		}
		flattenInto(snap, fields)
	}
	return snap, nil
}

// flattenInto copies provider fields into snap. Formatted values of the form
// {"raw": x, "fmt": "..."} collapse to x; other objects are walked so nested
// fields (fund fees, for example) surface at the top level. Existing keys win.
// Scalars at one level are taken before nested objects, which are walked in
// key order. Category-average blocks ("...Cat") repeat the fund's own field
// names and are skipped.
func flattenInto(snap model.QuoteSnapshot, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var nested []map[string]any
	for _, k := range keys {
		v := fields[k]
		obj, isObj := v.(map[string]any)
		if isObj {
			raw, ok := obj["raw"]
			if !ok {
				if !strings.HasSuffix(k, "Cat") {
					nested = append(nested, obj)
				}
				continue
			}
			v = raw
		}
		if _, seen := snap[k]; !seen {
			snap[k] = numeric.Normalize(v)
		}
	}
	for _, obj := range nested {
		flattenInto(snap, obj)
	}
}

func (f *YahooFetcher) getCrumb(ctx context.Context) (string, error) {
	if f.cfg.CookieURL == "" {
		return "", nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crumb != "" {
		return f.crumb, nil
	}

	// The cookie endpoint answers 404 but sets the session cookie.
	if _, _, err := f.get(ctx, f.cfg.CookieURL); err != nil {
		return "", fmt.Errorf("yahoo cookie: %w", err)
	}
	body, status, err := f.get(ctx, strings.TrimRight(f.cfg.QuoteURL, "/")+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if status != http.StatusOK || crumb == "" {
		return "", fmt.Errorf("yahoo crumb: status %d", status)
	}
	f.crumb = crumb
	return crumb, nil
}

func (f *YahooFetcher) resetCrumb() {
	f.mu.Lock()
	f.crumb = ""
	f.mu.Unlock()
}
