package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// batch is a thin wrapper around pgx.Batch + pool.SendBatch, mirroring the
// teacher's batch-insert idiom in pkg/db/discovery.go (StoreNetworkSightings
// builds a pgx.Batch of parameterized upserts and sends it in one round trip).
type batch struct {
	pool *pgxpool.Pool
	b    *pgx.Batch
}

func newBatch(pool *pgxpool.Pool) *batch {
	return &batch{pool: pool, b: &pgx.Batch{}}
}

func (bt *batch) Queue(sql string, args ...any) {
	bt.b.Queue(sql, args...)
}

func (bt *batch) send(ctx context.Context) error {
	if bt.b.Len() == 0 {
		return nil
	}

	br := bt.pool.SendBatch(ctx, bt.b)
	defer br.Close()

	for i := 0; i < bt.b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("inventory: batch exec %d/%d: %w", i+1, bt.b.Len(), err)
		}
	}

	return nil
}
