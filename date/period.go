package date

import (
	"fmt"
	"strings"
)

// Period is the sampling frequency of a cached series, as it appears in the
// configuration and in series file names.
type Period string

// Frequencies of the adjusted series the remote sources publish.
// Only Daily is fetched, the others are recognized to be reported as not implemented.
const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

func (p Period) String() string { return string(p) }

// ParsePeriod parses a frequency name, ignoring case.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly, Monthly:
		return p, nil
	}
	return "", fmt.Errorf("unknown frequency %q, want %s, %s or %s", s, Daily, Weekly, Monthly)
}
