package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/DRSN-tech/pricing-engine/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// PriceHistoryRepo — журнал цен в PostgreSQL. Записи только добавляются.
type PriceHistoryRepo struct {
	pool *pgxpool.Pool
	conv converter.PriceHistoryConverter
}

func NewPriceHistoryRepo(pool *pgxpool.Pool, conv converter.PriceHistoryConverter) *PriceHistoryRepo {
	return &PriceHistoryRepo{
		pool: pool,
		conv: conv,
	}
}

// LockProduct берёт транзакционную advisory-блокировку на продукт.
// Блокировка снимается при коммите или откате.
func (r *PriceHistoryRepo) LockProduct(ctx context.Context, productID string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, productID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetLatest возвращает последнюю запись истории продукта или nil.
func (r *PriceHistoryRepo) GetLatest(ctx context.Context, productID string) (*domain.PriceHistoryEntry, error) {
	query := `
		SELECT id::text, product_id, discount_percentage, original_price, discounted_price, applied_at, applied_by, seq
		FROM price_history
		WHERE product_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`

	var m converter.PriceHistoryModel
	err := connFromCtx(ctx, r.pool).QueryRow(ctx, query, productID).Scan(
		&m.ID, &m.ProductID, &m.DiscountPercentage, &m.OriginalPrice,
		&m.DiscountedPrice, &m.AppliedAt, &m.AppliedBy, &m.Seq,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&m), nil
}

// Create добавляет запись истории в текущую транзакцию и заполняет entry.Seq.
func (r *PriceHistoryRepo) Create(ctx context.Context, entry *domain.PriceHistoryEntry) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	m := r.conv.ToModel(entry)
	query := `
		INSERT INTO price_history (
			id,
			product_id,
			discount_percentage,
			original_price,
			discounted_price,
			applied_at,
			applied_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`

	if err := tx.QueryRow(ctx, query,
		m.ID,
		m.ProductID,
		m.DiscountPercentage,
		m.OriginalPrice,
		m.DiscountedPrice,
		m.AppliedAt,
		m.AppliedBy,
	).Scan(&entry.Seq); err != nil {
		if postgresConflict(err) {
			return e.Wrap(fmt.Sprintf("product %s", entry.ProductID), e.ErrHistoryWriteConflict)
		}
		return fmt.Errorf("%s: failed to insert price history: %w", whereami.WhereAmI(), err)
	}

	return nil
}

// ListByProduct возвращает до limit последних записей, новые первыми.
func (r *PriceHistoryRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*domain.PriceHistoryEntry, error) {
	query := `
		SELECT id::text, product_id, discount_percentage, original_price, discounted_price, applied_at, applied_by, seq
		FROM price_history
		WHERE product_id = $1
		ORDER BY seq DESC
		LIMIT $2
	`

	rows, err := connFromCtx(ctx, r.pool).Query(ctx, query, productID, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.PriceHistoryModel
	for rows.Next() {
		var m converter.PriceHistoryModel
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.DiscountPercentage, &m.OriginalPrice,
			&m.DiscountedPrice, &m.AppliedAt, &m.AppliedBy, &m.Seq,
		); err != nil {
			return nil, fmt.Errorf("%s: failed to scan price history: %w", whereami.WhereAmI(), err)
		}
		models = append(models, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iterator error: %w", whereami.WhereAmI(), err)
	}

	return r.conv.ToArrEntity(models), nil
}
