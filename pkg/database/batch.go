package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BatchOp is one step of a batch. Each op is atomic on its own; the batch
// decides whether the steps commit together.
type BatchOp func(ctx context.Context, tx pgx.Tx) (any, error)

// BatchError wraps the failure of a batch with the index of the failing op.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch operation %d failed: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// RunBatch executes ops in order inside one transaction.
//
// With rollbackOnFailure=true the batch is all-or-nothing: the first failure
// rolls everything back and no side effect is visible to subsequent readers.
// With rollbackOnFailure=false each op runs under a savepoint; a failure
// discards only the failing op and commits everything that preceded it.
//
// The batch holds exactly one transaction on the calling goroutine;
// serialisation between concurrent writers is the store's job.
func RunBatch(ctx context.Context, pool *pgxpool.Pool, ops []BatchOp, rollbackOnFailure bool) ([]any, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin batch transaction: %w", err)
	}

	results := make([]any, 0, len(ops))
	var batchErr *BatchError

	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			// Transport disconnect mid-batch is a fatal error: roll back.
			tx.Rollback(ctx)
			return nil, &BatchError{Index: i, Err: err}
		}

		if rollbackOnFailure {
			result, err := op(ctx, tx)
			if err != nil {
				tx.Rollback(ctx)
				return nil, &BatchError{Index: i, Err: err}
			}
			results = append(results, result)
			continue
		}

		// Prefix-commit mode: guard each op with a savepoint so a failing op
		// leaves no partial state of its own.
		nested, err := tx.Begin(ctx)
		if err != nil {
			batchErr = &BatchError{Index: i, Err: err}
			break
		}
		result, err := op(ctx, nested)
		if err != nil {
			nested.Rollback(ctx)
			batchErr = &BatchError{Index: i, Err: err}
			break
		}
		if err := nested.Commit(ctx); err != nil {
			batchErr = &BatchError{Index: i, Err: err}
			break
		}
		results = append(results, result)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit batch transaction: %w", err)
	}

	if batchErr != nil {
		return results, batchErr
	}
	return results, nil
}

// Constraint-violation detection, used by handlers to pick between
// BUSINESS_ERROR and DATABASE_ERROR.

const (
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
)

// IsConstraintViolation reports whether err is a uniqueness, not-null or
// foreign-key violation.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgUniqueViolation, pgNotNullViolation, pgForeignKeyViolation:
		return true
	}
	return false
}

// IsUniqueViolation reports whether err is specifically a unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
