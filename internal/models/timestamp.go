package models

import (
	"fmt"
	"strconv"
	"time"
)

// timestampSeconds covers the ledger timestamp down to whole seconds.
const timestampSeconds = "060102150405"

// TimestampLen is the full width of a ledger timestamp: twelve digits for
// yyMMddHHmmss plus six microsecond digits with no separator.
const TimestampLen = 18

// FormatTimestamp renders t in the ledger timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampSeconds) + fmt.Sprintf("%06d", t.Nanosecond()/1000)
}

// ParseTimestamp parses a ledger timestamp produced by FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) != TimestampLen {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: want %d digits, got %d", s, TimestampLen, len(s))
	}

	base, err := time.Parse(timestampSeconds, s[:12])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}

	micros, err := strconv.Atoi(s[12:])
	if err != nil || micros < 0 {
		return time.Time{}, fmt.Errorf("invalid microseconds in timestamp %q", s)
	}

	return base.Add(time.Duration(micros) * time.Microsecond), nil
}
