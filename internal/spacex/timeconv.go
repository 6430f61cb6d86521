package spacex

import (
	"fmt"
	"strings"
	"time"
)

const wireTimeLayout = "2006-01-02T15:04:05.999999"

// ParseWireTime parses a date_utc value of the form YYYY-MM-DDTHH:mm:ss.ffffff
// with an optional trailing Z. The fraction must have between 1 and 6 digits.
// The value is always taken as UTC.
func ParseWireTime(value string) (time.Time, error) {
	s := strings.TrimSuffix(value, "Z")

	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: missing fractional seconds", value)
	}
	frac := s[dot+1:]
	if len(frac) < 1 || len(frac) > 6 || strings.Trim(frac, "0123456789") != "" {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: fractional seconds must have 1 to 6 digits", value)
	}

	t, err := time.Parse(wireTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t, nil
}

// UTCToLocal parses a wire timestamp and converts it to loc
func UTCToLocal(value string, loc *time.Location) (time.Time, error) {
	t, err := ParseWireTime(value)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc), nil
}
