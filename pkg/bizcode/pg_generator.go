package bizcode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGGenerator allocates codes from a per-prefix per-year sequence row.
type PGGenerator struct {
	pool pgQuerier
	now  func() time.Time
}

func NewPGGenerator(pool pgQuerier) *PGGenerator {
	return &PGGenerator{pool: pool, now: time.Now}
}

func (g *PGGenerator) NextCode(ctx context.Context, prefix string) (string, error) {
	year := g.now().Year()

	var seq int
	err := g.pool.QueryRow(ctx, `
INSERT INTO backoffice.code_sequences (prefix, year, last_no)
VALUES ($1, $2, 1)
ON CONFLICT (prefix, year)
DO UPDATE SET last_no = backoffice.code_sequences.last_no + 1
RETURNING last_no
`, prefix, year).Scan(&seq)
	if err != nil {
		return "", err
	}
	return Format(prefix, year, seq), nil
}

// MemoryGenerator issues codes from in-process counters; used by
// DB-less dev servers and tests.
type MemoryGenerator struct {
	mu   sync.Mutex
	seqs map[string]int
	now  func() time.Time
}

func NewMemoryGenerator() *MemoryGenerator {
	return &MemoryGenerator{seqs: map[string]int{}, now: time.Now}
}

func (g *MemoryGenerator) NextCode(_ context.Context, prefix string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	year := g.now().Year()
	key := fmt.Sprintf("%s|%d", prefix, year)
	g.seqs[key]++
	return Format(prefix, year, g.seqs[key]), nil
}
