package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/pricing-engine/internal/cfg"
	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// CalcLogRepo хранит журналы расчётов в MinIO, по одному JSON-объекту на расчёт.
type CalcLogRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewCalcLogRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *CalcLogRepo {
	return &CalcLogRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload сохраняет журнал и возвращает ключ объекта.
func (c *CalcLogRepo) Upload(ctx context.Context, log *domain.CalculationLog) (string, error) {
	data, err := json.Marshal(log)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	info, err := c.mc.PutObject(ctx, c.cfg.BucketName, ObjectKey(log), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// ObjectKey раскладывает журналы по продукту и дню расчёта:
// <product_id>/<yyyy-mm-dd>/<log_id>.json
func ObjectKey(log *domain.CalculationLog) string {
	return fmt.Sprintf("%s/%s/%s.json", log.ProductID, log.CalculatedAt.Format("2006-01-02"), log.ID)
}
