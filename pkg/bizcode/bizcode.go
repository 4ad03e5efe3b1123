// Package bizcode issues the human-readable business codes stamped on
// new records, e.g. IT-SW-25-003: prefix, two-digit year, per-year
// sequence number.
package bizcode

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Generator issues the next code for a prefix. Sequences are unique
// per prefix per year.
type Generator interface {
	NextCode(ctx context.Context, prefix string) (string, error)
}

// Format renders a code from its parts.
func Format(prefix string, year int, seq int) string {
	return fmt.Sprintf("%s-%02d-%03d", prefix, year%100, seq)
}

// Fallback builds a client-generated substitute when the generator is
// unavailable. The timestamp suffix keeps it unique enough for a
// human-facing code; it is never surfaced as an error.
func Fallback(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%02d-T%d", prefix, now.Year()%100, now.UnixMilli())
}

var logf = log.Printf

// NextOrFallback asks the generator for a code and substitutes a
// fallback on failure.
func NextOrFallback(ctx context.Context, gen Generator, prefix string, now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	if gen != nil {
		code, err := gen.NextCode(ctx, prefix)
		if err == nil && code != "" {
			return code
		}
		if err != nil {
			logf("bizcode: next code for %s: %v", prefix, err)
		}
	}
	return Fallback(prefix, now())
}
