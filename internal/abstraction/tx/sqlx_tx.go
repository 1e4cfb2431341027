package tx

import (
	"context"
	"fmt"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/jmoiron/sqlx"
)

type SqlxTxManager struct {
	db *sqlx.DB
}

func NewSqlxTxManager(db *sqlx.DB) *SqlxTxManager {
	return &SqlxTxManager{db: db}
}

func (m *SqlxTxManager) Begin(ctx context.Context) (Tx, *app_errors.AppError) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, app_errors.NewInternalError(err)
	}

	return &SqlxTx{Tx: tx}, nil
}

type SqlxTx struct {
	Tx *sqlx.Tx
}

func (t *SqlxTx) Commit(ctx context.Context) *app_errors.AppError {
	if err := t.Tx.Commit(); err != nil {
		return app_errors.MapSQLiteError(err)
	}
	return nil
}

func (t *SqlxTx) Rollback(ctx context.Context) *app_errors.AppError {
	_ = t.Tx.Rollback()
	return nil
}

// SqlxFrom unwraps a Tx started by SqlxTxManager.
func SqlxFrom(t Tx) (*sqlx.Tx, *app_errors.AppError) {
	st, ok := t.(*SqlxTx)
	if !ok || st == nil {
		return nil, app_errors.NewInternalError(fmt.Errorf("tx: expected *tx.SqlxTx, got %T", t))
	}
	return st.Tx, nil
}
