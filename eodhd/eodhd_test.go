package eodhd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTicker(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"NYSE:KO", "KO.US"},
		{"NASDAQ:AAPL", "AAPL.US"},
		{"TSX:REI-UN", "REI-UN.TO"},
		{"XETRA:SAP", "SAP.XETRA"},
		{"ETR:SAP", "SAP.XETRA"},
		{"LON:ULVR", "ULVR.LSE"},
	}
	for _, tt := range tests {
		got, err := Ticker(tt.symbol)
		require.NoError(t, err, tt.symbol)
		require.Equal(t, tt.want, got)
	}
	for _, symbol := range []string{"KO", "FOO:BAR", ":KO", "NYSE:"} {
		_, err := Ticker(symbol)
		require.ErrorIs(t, err, dividends.ErrInvalidIdentifier, symbol)
	}
}

func TestParseSplit(t *testing.T) {
	tests := []struct {
		split string
		want  string
	}{
		{"4.000000/1.000000", "4"},
		{"1.000000/10.000000", "0.1"},
		{"3/2", "1.5"},
	}
	for _, tt := range tests {
		got, err := parseSplit(tt.split)
		require.NoError(t, err, tt.split)
		require.True(t, got.Equal(decimal.RequireFromString(tt.want)), "parseSplit(%q) = %v, want %v", tt.split, got, tt.want)
	}
	for _, bad := range []string{"4", "a/1", "1/b", "1/0"} {
		_, err := parseSplit(bad)
		require.Error(t, err, bad)
	}
}

const (
	eodPayload = `[
		{"date":"2024-03-14","open":60.1,"high":60.5,"low":59.8,"close":60.2,"adjusted_close":59.7,"volume":1200},
		{"date":"2024-03-15","open":60.2,"high":60.9,"low":60.0,"close":60.5,"adjusted_close":60.5,"volume":1500},
		{"date":"2024-03-18","open":60.5,"high":61.0,"low":60.1,"close":60.8,"adjusted_close":60.8,"volume":900}
	]`
	divPayload   = `[{"date":"2024-03-15","value":0.485,"currency":"USD"},{"date":"2024-03-16","value":0.1,"currency":"USD"}]`
	splitPayload = `[{"date":"2024-03-14","split":"2.000000/1.000000"}]`
)

func newServer(t *testing.T, payloads map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_token") != "secret" || r.URL.Query().Get("fmt") != "json" {
			http.Error(w, "bad query", http.StatusUnauthorized)
			return
		}
		payload, ok := payloads[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDailyAdjusted(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/eod/KO.US":    eodPayload,
		"/div/KO.US":    divPayload,
		"/splits/KO.US": splitPayload,
	})
	c := NewClient("secret", WithBaseURL(srv.URL+"/"))

	series, err := c.FetchDailyAdjusted(context.Background(), "NYSE:KO")
	require.NoError(t, err)
	require.NoError(t, series.Validate())
	require.Len(t, series, 3)

	// most recent first
	require.Equal(t, date.New(2024, time.March, 18), series[0].Date)
	// the dividend of saturday is paid on monday
	require.True(t, series[0].DividendAmount.Equal(decimal.RequireFromString("0.1")))
	require.True(t, series[1].DividendAmount.Equal(decimal.RequireFromString("0.485")))
	require.True(t, series[1].Close.Equal(decimal.RequireFromString("60.5")))
	require.Equal(t, int64(1500), series[1].Volume)
	require.True(t, series[1].SplitCoefficient.Equal(decimal.NewFromInt(1)))
	require.True(t, series[2].DividendAmount.IsZero())
	require.True(t, series[2].SplitCoefficient.Equal(decimal.NewFromInt(2)))
}

func TestFetchDailyAdjustedFailures(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient("").FetchDailyAdjusted(ctx, "NYSE:KO")
	require.ErrorIs(t, err, dividends.ErrRemoteUnavailable)

	srv := newServer(t, map[string]string{
		"/eod/KO.US":    eodPayload,
		"/div/KO.US":    `[{"date":"2024-04-15","value":0.485}]`,
		"/splits/KO.US": `[]`,
	})
	_, err = NewClient("secret", WithBaseURL(srv.URL)).FetchDailyAdjusted(ctx, "NYSE:KO")
	require.ErrorIs(t, err, dividends.ErrRemoteUnavailable, "dividend after the last price")

	_, err = NewClient("secret", WithBaseURL(srv.URL)).FetchDailyAdjusted(ctx, "NYSE:PEP")
	require.ErrorIs(t, err, dividends.ErrRemoteUnavailable, "unknown ticker")

	_, err = NewClient("secret", WithBaseURL(srv.URL)).FetchDailyAdjusted(ctx, "FOO:BAR")
	require.ErrorIs(t, err, dividends.ErrInvalidIdentifier, "unknown market")
	require.NotErrorIs(t, err, dividends.ErrRemoteUnavailable)
}
