package usecase

import (
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// PRICING USECASE

// ComputePriceRes — результат расчёта цены одного продукта.
type ComputePriceRes struct {
	ProductID          string
	Category           domain.Category
	OriginalPrice      decimal.Decimal
	DiscountedPrice    decimal.Decimal
	DiscountPercentage decimal.Decimal
	HistoryWritten     bool
	CalculatedAt       time.Time
}

// ComputeAllItem — итог по одному продукту пакетного расчёта. Ровно одно из Result и Err не пустое.
type ComputeAllItem struct {
	ProductID string
	Result    *ComputePriceRes
	Err       error
}

type ComputeAllRes struct {
	Items     []ComputeAllItem
	Succeeded int
	Failed    int
}

// LatestPrice — действующая цена продукта. FromHistory == false означает,
// что истории нет и возвращена базовая цена.
type LatestPrice struct {
	ProductID          string
	OriginalPrice      decimal.Decimal
	DiscountedPrice    decimal.Decimal
	DiscountPercentage decimal.Decimal
	AppliedAt          *time.Time
	AppliedBy          string
	FromHistory        bool
	// Version — Seq записи истории, 0 у базовой цены. Кэш не заменяет цену более старой.
	Version int64
}

type GetHistoryReq struct {
	ProductID string
	Limit     int // 0 — лимит по умолчанию
}

type GetHistoryRes struct {
	ProductID string
	Entries   []*domain.PriceHistoryEntry
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
	Failed     OutboxStatus = "failed"
)

type OutboxEventType string

const PriceChanged OutboxEventType = "price.changed"

// OutboxEvent — событие, записанное в одной транзакции с изменением истории цен.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   string
	Payload     []byte
	Status      OutboxStatus
	Attempts    int
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// PriceChangedEvent — тело сообщения price.changed в Kafka.
type PriceChangedEvent struct {
	EventID            string          `json:"event_id"`
	ProductID          string          `json:"product_id"`
	Category           domain.Category `json:"category"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	AppliedAt          time.Time       `json:"applied_at"`
	AppliedBy          string          `json:"applied_by"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ProductID string
	Payload   []byte
}

// MAPPERS

func NewComputePriceRes(product *domain.Product, price, pct decimal.Decimal, written bool, at time.Time) *ComputePriceRes {
	return &ComputePriceRes{
		ProductID:          product.ID,
		Category:           product.Category,
		OriginalPrice:      *product.BasePrice,
		DiscountedPrice:    price,
		DiscountPercentage: pct,
		HistoryWritten:     written,
		CalculatedAt:       at,
	}
}

func NewLatestPriceFromEntry(entry *domain.PriceHistoryEntry) *LatestPrice {
	appliedAt := entry.AppliedAt
	return &LatestPrice{
		ProductID:          entry.ProductID,
		OriginalPrice:      entry.OriginalPrice,
		DiscountedPrice:    entry.DiscountedPrice,
		DiscountPercentage: entry.DiscountPercentage,
		AppliedAt:          &appliedAt,
		AppliedBy:          entry.AppliedBy,
		FromHistory:        true,
		Version:            entry.Seq,
	}
}

func NewBaseLatestPrice(productID string, base decimal.Decimal) *LatestPrice {
	return &LatestPrice{
		ProductID:          productID,
		OriginalPrice:      base,
		DiscountedPrice:    base,
		DiscountPercentage: decimal.Zero,
	}
}

func NewPriceChangedEvent(eventID string, entry *domain.PriceHistoryEntry, category domain.Category) *PriceChangedEvent {
	return &PriceChangedEvent{
		EventID:            eventID,
		ProductID:          entry.ProductID,
		Category:           category,
		OriginalPrice:      entry.OriginalPrice,
		DiscountedPrice:    entry.DiscountedPrice,
		DiscountPercentage: entry.DiscountPercentage,
		AppliedAt:          entry.AppliedAt,
		AppliedBy:          entry.AppliedBy,
	}
}

func NewWriteRawMessageReq(productID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}
