package usecase

import (
	"context"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListIDs(ctx context.Context, limit int) ([]string, error)
}

// PriceHistoryRepository — журнал цен. LockProduct и Create работают только внутри транзакции.
type PriceHistoryRepository interface {
	LockProduct(ctx context.Context, productID string) error
	// GetLatest возвращает nil, nil, если истории по продукту ещё нет.
	GetLatest(ctx context.Context, productID string) (*domain.PriceHistoryEntry, error)
	Create(ctx context.Context, entry *domain.PriceHistoryEntry) error
	ListByProduct(ctx context.Context, productID string, limit int) ([]*domain.PriceHistoryEntry, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReturnToPending(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	// GetLatestPrice возвращает nil, nil при промахе.
	GetLatestPrice(ctx context.Context, productID string) (*LatestPrice, error)
	// SetLatestPrice ничего не меняет, если в кэше уже лежит цена с Version не меньше price.Version.
	SetLatestPrice(ctx context.Context, price *LatestPrice) error
	DeleteLatestPrices(ctx context.Context, productIDs []string) error
}

type CalculationLogRepository interface {
	Upload(ctx context.Context, log *domain.CalculationLog) (string, error)
}
