package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo читает продукты и атрибуты их категорий из PostgreSQL.
// Каталог ведёт другой сервис, поэтому методов записи нет.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

const selectProduct = `
	SELECT
		p.id, p.name, p.category, p.base_price, p.total_stock, p.current_stock,
		p.max_profit_margin, p.current_profit_margin, p.created_at, p.updated_at,

		pa.product_id, pa.manufacturing_date, pa.expiry_date, pa.max_shelf_life_days,
		pa.current_daily_selling_rate, pa.current_demand_level, pa.quality_score,

		ea.product_id, ea.event_date, ea.venue, ea.total_capacity, ea.seats_booked,
		ea.min_ticket_price, ea.max_ticket_price,

		sa.product_id, sa.standard_duration_days, sa.grace_period_days, sa.total_subscribers,
		sa.active_subscribers, sa.renewal_rate, sa.average_subscription_length,

		sea.product_id, sea.season_start, sea.season_end, sea.peak_price, sea.off_peak_price
	FROM products p
	LEFT JOIN perishable_attributes pa ON pa.product_id = p.id
	LEFT JOIN event_attributes ea ON ea.product_id = p.id
	LEFT JOIN subscription_attributes sa ON sa.product_id = p.id
	LEFT JOIN seasonal_attributes sea ON sea.product_id = p.id
`

// GetByID возвращает продукт с атрибутами его категории.
func (p *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := selectProduct + ` WHERE p.id = $1`

	var m converter.ProductModel
	err := connFromCtx(ctx, p.pool).QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Category, &m.BasePrice, &m.TotalStock, &m.CurrentStock,
		&m.MaxProfitMargin, &m.CurrentProfitMargin, &m.CreatedAt, &m.UpdatedAt,

		&m.Perishable.ProductID, &m.Perishable.ManufacturingDate, &m.Perishable.ExpiryDate,
		&m.Perishable.MaxShelfLifeDays, &m.Perishable.CurrentDailySellingRate,
		&m.Perishable.CurrentDemandLevel, &m.Perishable.QualityScore,

		&m.Event.ProductID, &m.Event.EventDate, &m.Event.Venue, &m.Event.TotalCapacity,
		&m.Event.SeatsBooked, &m.Event.MinTicketPrice, &m.Event.MaxTicketPrice,

		&m.Subscription.ProductID, &m.Subscription.StandardDurationDays, &m.Subscription.GracePeriodDays,
		&m.Subscription.TotalSubscribers, &m.Subscription.ActiveSubscribers, &m.Subscription.RenewalRate,
		&m.Subscription.AverageSubscriptionLength,

		&m.Seasonal.ProductID, &m.Seasonal.SeasonStart, &m.Seasonal.SeasonEnd,
		&m.Seasonal.PeakPrice, &m.Seasonal.OffPeakPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(fmt.Sprintf("product %s", id), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	product, err := p.conv.ToEntity(&m)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

// ListIDs возвращает идентификаторы продуктов в стабильном порядке.
func (p *ProductRepo) ListIDs(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT id FROM products ORDER BY id LIMIT $1`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return ids, nil
}
