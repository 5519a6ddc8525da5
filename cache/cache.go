// Package cache implements a file-backed cache of daily series, one per security.
//
// The data root holds a registry (cache.yaml) mapping each cached identifier to
// its last refresh date, and one series file per identifier. A security present
// in the registry is served from disk, forever: the cache never expires on its
// own, callers ask for a refresh explicitly.
//
// Files are not locked. Concurrent use of a data root, even by two Cache values
// in the same process, is not supported: callers must serialize access.
package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/config"
	"github.com/etnz/dividends/date"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

// Source is the remote source of daily adjusted series.
type Source interface {
	// FetchDailyAdjusted returns the full history of symbol, in the remote spelling.
	FetchDailyAdjusted(ctx context.Context, symbol string) (dividends.Series, error)
}

// Limiter grants one remote request slot, blocking until one is available.
//
// *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewLimiter returns a limiter allowing requestsPerMinute evenly spaced requests.
func NewLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// Cache is the file-backed cache of daily series.
type Cache struct {
	root    string
	freq    date.Period
	source  Source
	limiter Limiter
	today   func() date.Date
	logger  *log.Logger
}

// Option configures the Cache.
type Option func(*Cache)

// WithLimiter replaces the limiter derived from the configuration.
func WithLimiter(l Limiter) Option {
	return func(c *Cache) { c.limiter = l }
}

// WithClock sets the function returning today's date.
func WithClock(today func() date.Date) Option {
	return func(c *Cache) { c.today = today }
}

// WithLogger sets a logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New returns a Cache rooted at cfg.DataRoot, fetching missing series from source.
func New(cfg *config.Config, source Source, opts ...Option) *Cache {
	c := &Cache{
		root:    cfg.DataRoot,
		freq:    cfg.Period(),
		source:  source,
		limiter: NewLimiter(cfg.RequestsPerMinute),
		today:   date.Today,
		logger:  &log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) registryPath() string { return filepath.Join(c.root, registryFilename) }

// SeriesPath returns the path of the series file of id.
func (c *Cache) SeriesPath(id dividends.ID) string {
	return filepath.Join(c.root, id.Filename(c.freq))
}

// Get returns the full series of id.
//
// If id has never been fetched, or refresh is true, the series is fetched from
// the remote source, persisted, and the registry updated with yesterday's date.
// Otherwise it is read from disk as it was persisted.
//
// Remote failures are returned as is: there is no fallback to the data on disk.
func (c *Cache) Get(ctx context.Context, id dividends.ID, refresh bool) (dividends.Series, error) {
	if c.freq != date.Daily {
		return nil, fmt.Errorf("%w: %s series", dividends.ErrNotImplemented, c.freq)
	}
	reg, err := loadRegistry(c.registryPath())
	if err != nil {
		return nil, err
	}

	if !reg.Has(id) || refresh {
		return c.refresh(ctx, reg, id)
	}

	c.logger.Debug().Str("id", id.String()).Msg("cache hit")
	return c.read(id)
}

// refresh fetches id, persists the series then the registry entry.
func (c *Cache) refresh(ctx context.Context, reg *Registry, id dividends.ID) (dividends.Series, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	c.logger.Info().Str("id", id.String()).Str("symbol", id.RemoteSymbol()).Msg("fetching")
	series, err := c.source.FetchDailyAdjusted(ctx, id.RemoteSymbol())
	if err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	path := c.SeriesPath(id)
	if err := writeFile(path, func(w io.Writer) error { return encodeSeries(w, series) }); err != nil {
		return nil, err
	}
	reg.Set(id, c.today().Add(-1))
	if err := saveRegistry(c.registryPath(), reg); err != nil {
		return nil, err
	}
	c.logger.Info().Str("id", id.String()).Int("rows", len(series)).Str("file", path).Msg("persisted")
	return series, nil
}

// read returns the persisted series of id.
func (c *Cache) read(id dividends.ID) (dividends.Series, error) {
	path := c.SeriesPath(id)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open series file of %s: %w", id, err)
	}
	defer f.Close()
	return decodeSeries(path, f)
}

// List returns the registry entries, sorted by ID.
func (c *Cache) List() ([]Entry, error) {
	reg, err := loadRegistry(c.registryPath())
	if err != nil {
		return nil, err
	}
	return reg.Entries(), nil
}

// RefreshResult is the outcome of the refresh of a single identifier.
type RefreshResult struct {
	ID   dividends.ID
	Rows int
	Err  error
}

// RefreshAll refreshes ids one after the other, or every registry entry if ids is empty.
//
// Requests are spaced by the limiter. A failure on one identifier does not stop
// the batch, each outcome is reported in its RefreshResult, in input order.
// The returned error is only about listing the registry.
func (c *Cache) RefreshAll(ctx context.Context, ids ...dividends.ID) ([]RefreshResult, error) {
	if len(ids) == 0 {
		entries, err := c.List()
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
	}

	results := make([]RefreshResult, 0, len(ids))
	for i, id := range ids {
		series, err := c.Get(ctx, id, true)
		res := RefreshResult{ID: id, Rows: len(series), Err: err}
		if err != nil {
			c.logger.Error().Err(err).Str("id", id.String()).Int("item", i+1).Int("of", len(ids)).Msg("refresh failed")
		} else {
			c.logger.Info().Str("id", id.String()).Int("item", i+1).Int("of", len(ids)).Msg("refreshed")
		}
		results = append(results, res)
	}
	return results, nil
}
