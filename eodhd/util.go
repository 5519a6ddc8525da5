package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into data.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}

// parseSplit converts a "2.000000/1.000000" split into its coefficient, 2.
func parseSplit(s string) (decimal.Decimal, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return decimal.Zero, fmt.Errorf("invalid split format %q", s)
	}
	n, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numerator in split %q: %w", s, err)
	}
	d, err := decimal.NewFromString(den)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid denominator in split %q: %w", s, err)
	}
	if d.IsZero() {
		return decimal.Zero, fmt.Errorf("invalid split %q: zero denominator", s)
	}
	return n.Div(d), nil
}
