package period

import (
	"testing"
	"time"
)

func TestID_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"midnight is AM", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "2025-03-10-AM"},
		{"morning is AM", time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC), "2025-03-10-AM"},
		{"noon is AM", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), "2025-03-10-AM"},
		{"17:59:59.999 is AM", time.Date(2025, 3, 10, 17, 59, 59, 999000000, time.UTC), "2025-03-10-AM"},
		{"18:00 exactly is PM", time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), "2025-03-10-PM"},
		{"23:59 is PM", time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC), "2025-03-10-PM"},
		{"next midnight rolls to AM", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), "2025-03-11-AM"},
		{"single digit month and day pad", time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), "2025-01-02-AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ID(tt.at); got != tt.want {
				t.Errorf("ID(%v) = %q, want %q", tt.at, got, tt.want)
			}
		})
	}
}

func TestID_NonUTCInput(t *testing.T) {
	// 19:00 in UTC+2 is 17:00 UTC, still the AM bucket.
	loc := time.FixedZone("UTC+2", 2*3600)
	at := time.Date(2025, 3, 10, 19, 0, 0, 0, loc)
	if got := ID(at); got != "2025-03-10-AM" {
		t.Errorf("ID(%v) = %q, want 2025-03-10-AM", at, got)
	}

	// 20:30 in UTC-5 is 01:30 UTC the next day.
	loc = time.FixedZone("UTC-5", -5*3600)
	at = time.Date(2025, 3, 10, 20, 30, 0, 0, loc)
	if got := ID(at); got != "2025-03-11-AM" {
		t.Errorf("ID(%v) = %q, want 2025-03-11-AM", at, got)
	}
}

func TestID_SameBucketEquality(t *testing.T) {
	// Any two instants inside [00:00, 18:00) of the same UTC date share an ID.
	a := time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC)
	b := time.Date(2025, 6, 1, 17, 59, 58, 0, time.UTC)
	if ID(a) != ID(b) {
		t.Errorf("instants in the same bucket differ: %q vs %q", ID(a), ID(b))
	}

	// Crossing 18:00 changes the ID even one second apart.
	c := time.Date(2025, 6, 1, 17, 59, 59, 0, time.UTC)
	d := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	if ID(c) == ID(d) {
		t.Errorf("instants across the 18:00 boundary share %q", ID(c))
	}
}

func TestDateKey(t *testing.T) {
	at := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	if got := DateKey(at); got != "2025-03-10" {
		t.Errorf("DateKey = %q, want 2025-03-10", got)
	}

	// Evening in UTC-5 is the next UTC date.
	loc := time.FixedZone("UTC-5", -5*3600)
	at = time.Date(2025, 3, 10, 22, 0, 0, 0, loc)
	if got := DateKey(at); got != "2025-03-11" {
		t.Errorf("DateKey = %q, want 2025-03-11", got)
	}
}
