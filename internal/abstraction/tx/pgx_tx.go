package tx

import (
	"context"
	"fmt"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTxManager struct {
	db *pgxpool.Pool
}

func NewPgxTxManager(db *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{db: db}
}

func (m *PgxTxManager) Begin(ctx context.Context) (Tx, *app_errors.AppError) {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, app_errors.NewInternalError(err)
	}

	return &PgxTx{Tx: tx}, nil
}

type PgxTx struct {
	Tx pgx.Tx
}

func (t *PgxTx) Commit(ctx context.Context) *app_errors.AppError {
	if err := t.Tx.Commit(ctx); err != nil {
		return app_errors.MapPgxError(err)
	}
	return nil
}

func (t *PgxTx) Rollback(ctx context.Context) *app_errors.AppError {
	_ = t.Tx.Rollback(ctx)
	return nil
}

// PgxFrom unwraps a Tx started by PgxTxManager.
func PgxFrom(t Tx) (pgx.Tx, *app_errors.AppError) {
	pt, ok := t.(*PgxTx)
	if !ok || pt == nil {
		return nil, app_errors.NewInternalError(fmt.Errorf("tx: expected *tx.PgxTx, got %T", t))
	}
	return pt.Tx, nil
}
