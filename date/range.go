package date

// Range represents a half-open range of dates: From is included, To is not.
type Range struct{ From, To Date }

// Contains return true if date is in [From, To).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && date.Before(r.To) }

// String returns "From..To".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
