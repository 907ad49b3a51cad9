package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/pricing-engine/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// querier — общее подмножество pgx.Tx и pgxpool.Pool.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// connFromCtx возвращает транзакцию из контекста, а без неё — пул.
func connFromCtx(ctx context.Context, pool querier) querier {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}
	return pool
}

func postgresDuplicate(err error) bool {
	return pgErrorCode(err) == uniqueViolation
}

// postgresConflict — ошибки, после которых запись можно повторить в новой транзакции.
func postgresConflict(err error) bool {
	switch pgErrorCode(err) {
	case uniqueViolation, serializationFailure, deadlockDetected:
		return true
	default:
		return false
	}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
