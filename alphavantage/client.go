// Package alphavantage implements the remote source of daily adjusted series,
// backed by the Alpha Vantage API.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/dividends"
	"github.com/etnz/dividends/date"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the query endpoint of the API.
	DefaultBaseURL = "https://www.alphavantage.co/query"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	dailySeriesPath = `$["Time Series (Daily)"]`
)

// Top level fields the API uses to report a failure with a 200 status.
var failureFields = []string{"Error Message", "Note", "Information"}

// Client is an Alpha Vantage API client.
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
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: timeout} }
}

// WithLogger sets a logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new Alpha Vantage client.
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

// FetchDailyAdjusted returns the full daily adjusted history of a symbol, most recent first.
//
// symbol must already be in the remote spelling (see dividends.ID.RemoteSymbol).
// Every failure wraps dividends.ErrRemoteUnavailable.
func (c *Client) FetchDailyAdjusted(ctx context.Context, symbol string) (dividends.Series, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", dividends.ErrRemoteUnavailable)
	}

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	params.Set("symbol", symbol)
	params.Set("outputsize", "full")
	params.Set("datatype", "json")
	c.logger.Debug().Str("url", c.baseURL).Str("symbol", symbol).Msg("alphavantage request")
	params.Set("apikey", c.apiKey)

	body, err := wget(ctx, c.httpClient, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dividends.ErrRemoteUnavailable, symbol, err)
	}

	series, err := parseDailyAdjusted(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dividends.ErrRemoteUnavailable, symbol, err)
	}
	c.logger.Info().Str("symbol", symbol).Int("rows", len(series)).Msg("alphavantage daily adjusted")
	return series, nil
}

// parseDailyAdjusted decodes a TIME_SERIES_DAILY_ADJUSTED payload.
func parseDailyAdjusted(body []byte) (dividends.Series, error) {
	var jobj any
	if err := json.Unmarshal(cleanResponseBody(body), &jobj); err != nil {
		return nil, fmt.Errorf("not a json response: %w", err)
	}

	// The API reports invalid symbols, quota and key problems with a 200 and a message.
	for _, field := range failureFields {
		if msg, err := jsonpath.Get(fmt.Sprintf("$[%q]", field), jobj); err == nil {
			return nil, fmt.Errorf("%s: %v", field, msg)
		}
	}

	jval, err := jsonpath.Get(dailySeriesPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", dailySeriesPath, err)
	}
	days, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not an object", dailySeriesPath)
	}

	series := make(dividends.Series, 0, len(days))
	for day, jday := range days {
		fields, ok := jday.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("day %q: not an object", day)
		}
		r, err := parseRecord(day, fields)
		if err != nil {
			return nil, err
		}
		series = append(series, r)
	}
	// Keep the API order: most recent first.
	slices.SortFunc(series, func(a, b dividends.Record) int { return b.Date.Compare(a.Date) })
	return series, nil
}

func parseRecord(day string, fields map[string]any) (r dividends.Record, err error) {
	if r.Date, err = date.Parse(day); err != nil {
		return r, err
	}
	str := func(name string) (string, error) {
		s, ok := fields[name].(string)
		if !ok {
			return "", fmt.Errorf("day %s: missing field %q", day, name)
		}
		return s, nil
	}
	num := func(name string) (decimal.Decimal, error) {
		s, err := str(name)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("day %s: field %q: %w", day, name, err)
		}
		return d, nil
	}

	var errs []error
	collect := func(d decimal.Decimal, err error) decimal.Decimal {
		errs = append(errs, err)
		return d
	}
	r.Open = collect(num("open"))
	r.High = collect(num("high"))
	r.Low = collect(num("low"))
	r.Close = collect(num("close"))
	r.AdjustedClose = collect(num("adjusted close"))
	r.DividendAmount = collect(num("dividend amount"))
	r.SplitCoefficient = collect(num("split coefficient"))
	if s, err := str("volume"); err != nil {
		errs = append(errs, err)
	} else if r.Volume, err = strconv.ParseInt(s, 10, 64); err != nil {
		errs = append(errs, fmt.Errorf("day %s: field %q: %w", day, "volume", err))
	}
	return r, errors.Join(errs...)
}
