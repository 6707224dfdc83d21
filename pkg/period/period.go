// Package period maps wall-clock time to discrete voting periods.
// Periods are 12-hour windows split at 18:00 UTC: instants before
// 18:00 on a UTC date belong to that date's "AM" bucket, instants at
// or after 18:00 to its "PM" bucket.
package period

import (
	"fmt"
	"time"
)

// ID returns the voting-period identifier for the given instant,
// formatted as "YYYY-MM-DD-AM" or "YYYY-MM-DD-PM". Only UTC is
// consulted; downstream idempotency depends on this exact bucketing.
func ID(now time.Time) string {
	utc := now.UTC()
	half := "AM"
	if utc.Hour() >= 18 {
		half = "PM"
	}
	return fmt.Sprintf("%04d-%02d-%02d-%s", utc.Year(), utc.Month(), utc.Day(), half)
}

// DateKey returns the UTC calendar date of the instant as "YYYY-MM-DD".
// Daily point records are keyed by this value.
func DateKey(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}
