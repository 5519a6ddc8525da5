package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/cache"
	"github.com/etnz/dividends/config"
	"github.com/etnz/dividends/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// quarterly is a source paying a quarterly dividend of 1 on a constant price of 100.
type quarterly struct{ symbols []string }

func (q *quarterly) FetchDailyAdjusted(_ context.Context, symbol string) (dividends.Series, error) {
	q.symbols = append(q.symbols, symbol)
	var s dividends.Series
	for d := date.New(2024, time.June, 30); !d.Before(date.New(2018, time.January, 1)); d = d.Add(-1) {
		r := dividends.Record{Date: d, Close: decimal.NewFromInt(100), DividendAmount: decimal.Zero}
		if d.Day() == 15 && d.Month()%3 == 0 {
			r.DividendAmount = decimal.NewFromInt(1)
		}
		s = append(s, r)
	}
	return s, nil
}

func newTestCache(t *testing.T) (*cache.Cache, *config.Config, *quarterly) {
	t.Helper()
	cfg := config.Default()
	cfg.DataRoot = t.TempDir()
	src := &quarterly{}
	store := cache.New(cfg, src, cache.WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	return store, cfg, src
}

func TestAnalyzeTool(t *testing.T) {
	ctx := context.Background()
	store, cfg, src := newTestCache(t)
	c := &assistCmd{analysisFlags{years: 3, on: "2024-06-30"}}
	analyze := c.analyzeTool(store, cfg)

	report, err := analyze(ctx, "nyse:ko", 0, 0)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(report, "# Dividend analysis of NYSE:KO\n"), report)
	require.Contains(t, report, "Historical window: 2021-01-01 to 2023-12-31.")
	// 4 dividends of 1 per year at 5%
	require.Contains(t, report, "| Historical target price | $80.00 |")

	report, err = analyze(ctx, "NYSE:KO", 1, 4)
	require.NoError(t, err)
	require.Contains(t, report, "Historical window: 2023-01-01 to 2023-12-31.")
	require.Contains(t, report, "| Historical target price | $100.00 |")
	require.Equal(t, []string{"NYSE:KO"}, src.symbols, "the second analysis is served from the cache")

	_, err = analyze(ctx, "KO", 0, 0)
	require.ErrorIs(t, err, dividends.ErrInvalidIdentifier)

	ids, err := listTool(store)()
	require.NoError(t, err)
	require.Equal(t, []string{"NYSE:KO"}, ids)
}

func TestAnalysisFlags(t *testing.T) {
	ctx := context.Background()
	store, cfg, _ := newTestCache(t)
	id := dividends.MustParseID("NYSE:KO")

	a := analysisFlags{on: "30/06/2024"}
	_, err := a.analyze(ctx, store, cfg, id)
	require.ErrorIs(t, err, dividends.ErrInvalidParameter)

	cfg.Analysis.LookbackYears = 2
	a = analysisFlags{on: "2024-06-30"}
	res, err := a.analyze(ctx, store, cfg, id)
	require.NoError(t, err)
	require.Equal(t, date.New(2022, time.January, 1), res.Summary.Window.From)
	require.True(t, res.Summary.TargetYield.Equal(dividends.Percent(cfg.Analysis.TargetYield)))
}
