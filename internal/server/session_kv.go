package server

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanbitworks/backoffice/pkg/draft"
)

// SessionKVFactory hands out the durable draft area for one session.
type SessionKVFactory interface {
	KVForSession(sid string) draft.KV
}

type pgSessionKVQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgSessionKVFactory struct {
	pool pgSessionKVQuerier
}

func newPGSessionKVFactory(pool pgSessionKVQuerier) SessionKVFactory {
	return &pgSessionKVFactory{pool: pool}
}

func (f *pgSessionKVFactory) KVForSession(sid string) draft.KV {
	return &pgSessionKV{pool: f.pool, sid: sid}
}

// pgSessionKV stores one session's draft entries as rows keyed by
// (session_id, key). Rows are upserted on every staging write.
type pgSessionKV struct {
	pool pgSessionKVQuerier
	sid  string
}

var _ draft.KV = (*pgSessionKV)(nil)

func (kv *pgSessionKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := kv.pool.Exec(ctx, `
INSERT INTO backoffice.session_kv (session_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (session_id, key)
DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`, kv.sid, key, value)
	return err
}

func (kv *pgSessionKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := kv.pool.QueryRow(ctx, `
SELECT value
FROM backoffice.session_kv
WHERE session_id = $1 AND key = $2
`, kv.sid, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (kv *pgSessionKV) Delete(ctx context.Context, key string) error {
	_, err := kv.pool.Exec(ctx, `
DELETE FROM backoffice.session_kv
WHERE session_id = $1 AND key = $2
`, kv.sid, key)
	return err
}

func (kv *pgSessionKV) DeleteByPrefix(ctx context.Context, prefix string) error {
	_, err := kv.pool.Exec(ctx, `
DELETE FROM backoffice.session_kv
WHERE session_id = $1 AND key LIKE $2 || '%'
`, kv.sid, prefix)
	return err
}

// memorySessionKVFactory backs DB-less dev servers and tests.
type memorySessionKVFactory struct {
	mu  sync.Mutex
	kvs map[string]*draft.MemoryKV
}

func newMemorySessionKVFactory() *memorySessionKVFactory {
	return &memorySessionKVFactory{kvs: map[string]*draft.MemoryKV{}}
}

func (f *memorySessionKVFactory) KVForSession(sid string) draft.KV {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv, ok := f.kvs[sid]
	if !ok {
		kv = draft.NewMemoryKV()
		f.kvs[sid] = kv
	}
	return kv
}
