package usecase

import (
	"context"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
)

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// CalculationLogArchiver сохраняет журнал расчёта в фоне. Ошибки архивации на расчёт не влияют.
type CalculationLogArchiver interface {
	Archive(log *domain.CalculationLog)
}
