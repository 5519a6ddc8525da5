package dividends

import (
	"fmt"
	"regexp"
	"strings"
)

// marketRegex checks the market part: uppercase alphanumeric characters.
var marketRegex = regexp.MustCompile(`^[A-Z0-9]+$`)

// symbolRegex checks the symbol part: uppercase alphanumeric characters, dots (class shares, units) and dashes.
var symbolRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]*$`)

// ID represents the identifier of a security, qualified by its market.
//
// The canonical format is "MARKET:SYMBOL", e.g. "NYSE:KO" or "TSX:REI.UN".
//
// An ID has two projections that must never be mixed:
//   - StorageKey is used to name files on disk, and keeps the original spelling.
//   - RemoteSymbol is used only when talking to the remote source, which spells
//     class shares with a '-' instead of a '.'.
type ID string

// ParseID normalizes a raw identifier into its canonical form.
//
// Surrounding spaces are trimmed and letters upper-cased. It fails with
// ErrInvalidIdentifier if the market prefix separator is missing.
func ParseID(raw string) (ID, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	market, symbol, found := strings.Cut(s, ":")
	if !found {
		return "", fmt.Errorf("%w %q: missing ':' between market and symbol, e.g. NYSE:KO", ErrInvalidIdentifier, raw)
	}
	if !marketRegex.MatchString(market) {
		return "", fmt.Errorf("%w %q: market must be alphanumeric, got %q", ErrInvalidIdentifier, raw, market)
	}
	if !symbolRegex.MatchString(symbol) {
		return "", fmt.Errorf("%w %q: symbol must be alphanumeric with '.' or '-', got %q", ErrInvalidIdentifier, raw, symbol)
	}
	return ID(market + ":" + symbol), nil
}

// MustParseID is like ParseID but panics on error.
func MustParseID(raw string) ID {
	id, err := ParseID(raw)
	if err != nil {
		panic(err.Error())
	}
	return id
}

// Market returns the market part of the ID.
func (id ID) Market() string {
	market, _, _ := strings.Cut(string(id), ":")
	return market
}

// Symbol returns the symbol part of the ID.
func (id ID) Symbol() string {
	_, symbol, _ := strings.Cut(string(id), ":")
	return symbol
}

// StorageKey returns the ID as it is used in file names: "MARKET_SYMBOL".
func (id ID) StorageKey() string { return strings.Replace(string(id), ":", "_", 1) }

// RemoteSymbol returns the ID as the remote source expects it.
func (id ID) RemoteSymbol() string { return strings.ReplaceAll(string(id), ".", "-") }

// Filename returns the series file name for a given frequency, e.g. "TSX_REI.UN_daily.csv".
func (id ID) Filename(frequency fmt.Stringer) string {
	return fmt.Sprintf("%s_%s.csv", id.StorageKey(), frequency)
}

func (id ID) String() string { return string(id) }
