package tx

import (
	"context"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
)

// Tx is the unit of work handed to repositories. Each persistence adapter
// unwraps it into its own driver transaction.
type Tx interface {
	Commit(ctx context.Context) *app_errors.AppError
	Rollback(ctx context.Context) *app_errors.AppError
}

type TxManager interface {
	Begin(ctx context.Context) (Tx, *app_errors.AppError)
}
