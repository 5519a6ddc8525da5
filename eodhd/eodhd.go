// Package eodhd implements a daily series source backed by the EOD Historical Data API.
//
// The series is assembled from three endpoints: end of day prices, dividends
// (at their ex-dividend date) and splits.
package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/date"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the root of the API.
	DefaultBaseURL = "https://eodhd.com/api"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second
)

// exchanges maps market names to EODHD exchange codes, see https://eodhd.com/financial-apis/covered-tickers-eodhd.
// A market missing from the table is rejected.
var exchanges = map[string]string{
	"NYSE":     "US",
	"NASDAQ":   "US",
	"AMEX":     "US",
	"NYSEARCA": "US",
	"BATS":     "US",
	"TSX":      "TO",
	"TSXV":     "V",
	"NEO":      "NEO",
	"LON":      "LSE",
	"LSE":      "LSE",
	"EPA":      "PA",
	"AMS":      "AS",
	"EBR":      "BR",
	"BIT":      "MI",
	"ETR":      "XETRA",
	"XETRA":    "XETRA",
	"FRA":      "F",
	"SWX":      "SW",
	"ASX":      "AU",
}

// Client is an EODHD API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: timeout} }
}

// WithLogger sets a logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new EODHD client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     &log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ticker converts a MARKET:SYMBOL remote symbol into an EODHD ticker: NYSE:KO is KO.US.
func Ticker(symbol string) (string, error) {
	market, sym, ok := strings.Cut(symbol, ":")
	if !ok || market == "" || sym == "" {
		return "", fmt.Errorf("%w: %q is not MARKET:SYMBOL", dividends.ErrInvalidIdentifier, symbol)
	}
	code, ok := exchanges[market]
	if !ok {
		return "", fmt.Errorf("%w: %q: unknown market %q", dividends.ErrInvalidIdentifier, symbol, market)
	}
	return sym + "." + code, nil
}

type eod struct {
	Date          date.Date       `json:"date"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	AdjustedClose decimal.Decimal `json:"adjusted_close"`
	Volume        int64           `json:"volume"`
}

type dividend struct {
	Date  date.Date       `json:"date"` // ex-dividend date
	Value decimal.Decimal `json:"value"`
}

type split struct {
	Date  date.Date `json:"date"`
	Split string    `json:"split"`
}

// FetchDailyAdjusted returns the full daily history of a symbol, most recent first.
//
// symbol is in the MARKET:SYMBOL remote spelling (see dividends.ID.RemoteSymbol).
// A market without an EODHD exchange code is dividends.ErrInvalidIdentifier, and
// no request is made. Every other failure wraps dividends.ErrRemoteUnavailable.
func (c *Client) FetchDailyAdjusted(ctx context.Context, symbol string) (dividends.Series, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", dividends.ErrRemoteUnavailable)
	}
	ticker, err := Ticker(symbol)
	if err != nil {
		return nil, err
	}

	var prices []eod
	var divs []dividend
	var splits []split
	for endpoint, data := range map[string]any{"eod": &prices, "div": &divs, "splits": &splits} {
		if err := c.get(ctx, endpoint, ticker, data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", dividends.ErrRemoteUnavailable, symbol, err)
		}
	}

	series, err := merge(prices, divs, splits)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dividends.ErrRemoteUnavailable, symbol, err)
	}
	c.logger.Info().Str("symbol", symbol).Str("ticker", ticker).Int("rows", len(series)).Msg("eodhd daily")
	return series, nil
}

func (c *Client) get(ctx context.Context, endpoint, ticker string, data any) error {
	params := url.Values{}
	params.Set("fmt", "json")
	addr := fmt.Sprintf("%s/%s/%s", c.baseURL, endpoint, url.PathEscape(ticker))
	c.logger.Debug().Str("url", addr).Msg("eodhd request")
	params.Set("api_token", c.apiKey)
	return jwget(ctx, c.httpClient, addr+"?"+params.Encode(), data)
}

// merge joins dividends and splits to the prices of the same day, or of the
// next trading day when the API dates them on a day without price.
func merge(prices []eod, divs []dividend, splits []split) (dividends.Series, error) {
	series := make(dividends.Series, len(prices))
	for i, p := range prices {
		series[i] = dividends.Record{
			Date:             p.Date,
			Open:             p.Open,
			High:             p.High,
			Low:              p.Low,
			Close:            p.Close,
			AdjustedClose:    p.AdjustedClose,
			Volume:           p.Volume,
			DividendAmount:   decimal.Zero,
			SplitCoefficient: decimal.NewFromInt(1),
		}
	}
	slices.SortFunc(series, func(a, b dividends.Record) int { return a.Date.Compare(b.Date) })

	// on returns the index of the first trading day on or after d.
	on := func(d date.Date) (int, error) {
		i, _ := slices.BinarySearchFunc(series, d, func(r dividends.Record, d date.Date) int { return r.Date.Compare(d) })
		if i == len(series) {
			return 0, fmt.Errorf("no price on or after %s", d)
		}
		return i, nil
	}

	for _, d := range divs {
		i, err := on(d.Date)
		if err != nil {
			return nil, fmt.Errorf("dividend: %w", err)
		}
		series[i].DividendAmount = series[i].DividendAmount.Add(d.Value)
	}
	for _, s := range splits {
		i, err := on(s.Date)
		if err != nil {
			return nil, fmt.Errorf("split: %w", err)
		}
		coef, err := parseSplit(s.Split)
		if err != nil {
			return nil, err
		}
		series[i].SplitCoefficient = coef
	}

	// Same order as Alpha Vantage: most recent first.
	slices.Reverse(series)
	return series, nil
}
