package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"turnero/pkg/platform/sentinel"
	"turnero/pkg/platform/tx"
)

// PostgresTx runs lifecycle transactions at SERIALIZABLE isolation. The
// transaction handle travels through context so the same store methods serve
// transactional and standalone calls.
type PostgresTx struct {
	db *sql.DB
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db}
}

func (p *PostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return translateSerialization(err)
	}

	if err := sqlTx.Commit(); err != nil {
		return translateSerialization(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// translateSerialization maps Postgres serialization failures (40001) and
// deadlocks (40P01) to sentinel.ErrRetry so the service layer re-runs the
// transaction with a fresh read.
func translateSerialization(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "40001" || pqErr.Code == "40P01" {
			return fmt.Errorf("%v: %w", pqErr.Message, sentinel.ErrRetry)
		}
	}
	return err
}
