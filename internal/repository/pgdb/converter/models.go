package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel — строка products вместе с LEFT JOIN таблиц атрибутов категорий.
// Поля атрибутов пустые, если у продукта нет строки в соответствующей таблице.
type ProductModel struct {
	ID                  string              `db:"id"`
	Name                string              `db:"name"`
	Category            string              `db:"category"`
	BasePrice           decimal.NullDecimal `db:"base_price"`
	TotalStock          int64               `db:"total_stock"`
	CurrentStock        int64               `db:"current_stock"`
	MaxProfitMargin     decimal.Decimal     `db:"max_profit_margin"`
	CurrentProfitMargin decimal.Decimal     `db:"current_profit_margin"`
	CreatedAt           time.Time           `db:"created_at"`
	UpdatedAt           *time.Time          `db:"updated_at"`

	Perishable   PerishableModel
	Event        EventModel
	Subscription SubscriptionModel
	Seasonal     SeasonalModel
}

// PerishableModel — запись perishable_attributes.
type PerishableModel struct {
	ProductID               *string             `db:"product_id"`
	ManufacturingDate       *time.Time          `db:"manufacturing_date"`
	ExpiryDate              *time.Time          `db:"expiry_date"`
	MaxShelfLifeDays        *int64              `db:"max_shelf_life_days"`
	CurrentDailySellingRate decimal.NullDecimal `db:"current_daily_selling_rate"`
	CurrentDemandLevel      decimal.NullDecimal `db:"current_demand_level"`
	QualityScore            decimal.NullDecimal `db:"quality_score"`
}

// EventModel — запись event_attributes.
type EventModel struct {
	ProductID      *string             `db:"product_id"`
	EventDate      *time.Time          `db:"event_date"`
	Venue          *string             `db:"venue"`
	TotalCapacity  *int64              `db:"total_capacity"`
	SeatsBooked    *int64              `db:"seats_booked"`
	MinTicketPrice decimal.NullDecimal `db:"min_ticket_price"`
	MaxTicketPrice decimal.NullDecimal `db:"max_ticket_price"`
}

// SubscriptionModel — запись subscription_attributes.
type SubscriptionModel struct {
	ProductID                 *string             `db:"product_id"`
	StandardDurationDays      *int64              `db:"standard_duration_days"`
	GracePeriodDays           *int64              `db:"grace_period_days"`
	TotalSubscribers          *int64              `db:"total_subscribers"`
	ActiveSubscribers         *int64              `db:"active_subscribers"`
	RenewalRate               decimal.NullDecimal `db:"renewal_rate"`
	AverageSubscriptionLength decimal.NullDecimal `db:"average_subscription_length"`
}

// SeasonalModel — запись seasonal_attributes.
type SeasonalModel struct {
	ProductID    *string             `db:"product_id"`
	SeasonStart  *time.Time          `db:"season_start"`
	SeasonEnd    *time.Time          `db:"season_end"`
	PeakPrice    decimal.NullDecimal `db:"peak_price"`
	OffPeakPrice decimal.NullDecimal `db:"off_peak_price"`
}

// PriceHistoryModel — запись таблицы price_history.
type PriceHistoryModel struct {
	ID                 string          `db:"id"`
	ProductID          string          `db:"product_id"`
	DiscountPercentage decimal.Decimal `db:"discount_percentage"`
	OriginalPrice      decimal.Decimal `db:"original_price"`
	DiscountedPrice    decimal.Decimal `db:"discounted_price"`
	AppliedAt          time.Time       `db:"applied_at"`
	AppliedBy          string          `db:"applied_by"`
	Seq                int64           `db:"seq"`
}

// OutboxEventModel — запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   string     `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	Attempts    int        `db:"attempts"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
