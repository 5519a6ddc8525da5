package cache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/date"
	"github.com/shopspring/decimal"
)

// Series file columns, as the remote source names them.
const (
	colTimestamp        = "timestamp"
	colOpen             = "open"
	colHigh             = "high"
	colLow              = "low"
	colClose            = "close"
	colAdjustedClose    = "adjusted_close"
	colVolume           = "volume"
	colDividendAmount   = "dividend_amount"
	colSplitCoefficient = "split_coefficient"
)

var columns = []string{
	colTimestamp, colOpen, colHigh, colLow, colClose,
	colAdjustedClose, colVolume, colDividendAmount, colSplitCoefficient,
}

// encodeSeries writes a header line and one line per record, in the series order.
func encodeSeries(w io.Writer, s dividends.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range s {
		row := []string{
			r.Date.String(),
			r.Open.String(),
			r.High.String(),
			r.Low.String(),
			r.Close.String(),
			r.AdjustedClose.String(),
			strconv.FormatInt(r.Volume, 10),
			r.DividendAmount.String(),
			r.SplitCoefficient.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// decodeSeries reads a series file. filename is for error messages only.
//
// Columns are located by the header when there is one, otherwise the default
// column order is assumed.
func decodeSeries(filename string, r io.Reader) (dividends.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	var series dividends.Series
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse error %s:%d: %w", filename, line, err)
		}
		if line == 1 && len(row) > 0 && row[0] == colTimestamp {
			clear(index)
			for i, name := range row {
				index[name] = i
			}
			for _, c := range []string{colTimestamp, colClose, colDividendAmount} {
				if _, ok := index[c]; !ok {
					return nil, fmt.Errorf("parse error %s:%d: missing column %q", filename, line, c)
				}
			}
			continue
		}
		rec, err := decodeRecord(index, row)
		if err != nil {
			return nil, fmt.Errorf("parse error %s:%d: %w", filename, line, err)
		}
		series = append(series, rec)
	}
	return series, nil
}

func decodeRecord(index map[string]int, row []string) (r dividends.Record, err error) {
	field := func(name string) (string, bool) {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}
	num := func(name string) decimal.Decimal {
		s, ok := field(name)
		if !ok || err != nil {
			return decimal.Zero
		}
		d, perr := decimal.NewFromString(s)
		if perr != nil {
			err = fmt.Errorf("column %q: %w", name, perr)
		}
		return d
	}

	ts, ok := field(colTimestamp)
	if !ok {
		return r, fmt.Errorf("missing column %q", colTimestamp)
	}
	if r.Date, err = date.Parse(ts); err != nil {
		return r, err
	}
	r.Open = num(colOpen)
	r.High = num(colHigh)
	r.Low = num(colLow)
	r.Close = num(colClose)
	r.AdjustedClose = num(colAdjustedClose)
	r.DividendAmount = num(colDividendAmount)
	r.SplitCoefficient = num(colSplitCoefficient)
	if err != nil {
		return r, err
	}
	if s, ok := field(colVolume); ok && s != "" {
		if r.Volume, err = strconv.ParseInt(s, 10, 64); err != nil {
			return r, fmt.Errorf("column %q: %w", colVolume, err)
		}
	}
	return r, nil
}
