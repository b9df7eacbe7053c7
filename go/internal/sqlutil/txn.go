package sqlutil

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Run executes fn inside a pgx.Tx.
// If fn returns an error the tx rolls back, else it commits.
func Run[T any](
	ctx context.Context,
	db TxBeginner,
	opts pgx.TxOptions,
	newQueries func(pgx.Tx) *T,
	fn func(q *T) error,
) error {
	tx, err := db.BeginTx(ctx, opts) // BEGIN
	if err != nil {
		return err
	}
	q := newQueries(tx) // bind the unit to this tx
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) { // ROLLBACK
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx) // COMMIT
}
