package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/cfg"
	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/internal/pricing"
	"github.com/DRSN-tech/pricing-engine/pkg/clock"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PricingUseCase связывает чистый движок цен с хранилищами: поиск продукта, расчёт,
// дедупликация и запись истории в транзакции, outbox-событие, обновление кэша.
type PricingUseCase struct {
	engine      *pricing.Engine
	productRepo ProductRepository
	historyRepo PriceHistoryRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	archiver    CalculationLogArchiver
	txManager   TxManager
	clock       clock.Clock
	cfg         *cfg.PricingCfg
	logger      logger.Logger
}

func NewPricingUC(
	engine *pricing.Engine,
	productRepo ProductRepository,
	historyRepo PriceHistoryRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	archiver CalculationLogArchiver,
	txManager TxManager,
	clock clock.Clock,
	cfg *cfg.PricingCfg,
	logger logger.Logger,
) *PricingUseCase {
	return &PricingUseCase{
		engine:      engine,
		productRepo: productRepo,
		historyRepo: historyRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		archiver:    archiver,
		txManager:   txManager,
		clock:       clock,
		cfg:         cfg,
		logger:      logger,
	}
}

// ComputeDiscountedPrice считает цену продукта и записывает её в историю,
// если цена или процент изменились с прошлой записи.
func (p *PricingUseCase) ComputeDiscountedPrice(ctx context.Context, product *domain.Product) (*ComputePriceRes, error) {
	const op = "PricingUseCase.ComputeDiscountedPrice"

	now := p.clock.Now()
	quote, err := p.engine.Quote(product, now)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var written *domain.PriceHistoryEntry
	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		// Блокировка по продукту сериализует конкурентные пересчёты одного продукта
		if err := p.historyRepo.LockProduct(ctx, product.ID); err != nil {
			return err
		}

		last, err := p.historyRepo.GetLatest(ctx, product.ID)
		if err != nil {
			return err
		}

		if !pricing.ShouldRecord(last, quote) {
			return nil
		}

		entry := domain.NewPriceHistoryEntry(
			uuid.NewString(),
			product.ID,
			quote.Percentage,
			quote.OriginalPrice,
			quote.FinalPrice,
			now,
			p.cfg.Actor,
		)
		if err := p.historyRepo.Create(ctx, entry); err != nil {
			return err
		}

		if err := p.enqueuePriceChanged(ctx, entry, product.Category); err != nil {
			return err
		}

		written = entry
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if written != nil {
		p.logger.Infof("price history written: product_id=%s, price=%s, percentage=%s",
			product.ID, quote.FinalPrice, quote.Percentage)
		p.refreshCachedPrice(ctx, written)
	} else {
		p.logger.Debugf("price unchanged, history skipped: product_id=%s", product.ID)
	}

	if p.cfg.CalcLogEnabled {
		p.archiver.Archive(quote.CalculationLog(uuid.NewString()))
	}

	return NewComputePriceRes(product, quote.FinalPrice, quote.Percentage, written != nil, now), nil
}

// refreshCachedPrice кладёт в кэш только что закоммиченную цену. Запись версионная,
// поэтому запоздавшее фоновое заполнение из GetLatestPrice её не перетрёт.
// Если записать не удалось, ключ удаляется.
func (p *PricingUseCase) refreshCachedPrice(ctx context.Context, entry *domain.PriceHistoryEntry) {
	const op = "PricingUseCase.refreshCachedPrice"

	err := p.cacheRepo.SetLatestPrice(ctx, NewLatestPriceFromEntry(entry))
	if err == nil {
		return
	}
	p.logger.Warnf("Failed to cache new price: %v", e.Wrap(op, err))

	if err := p.cacheRepo.DeleteLatestPrices(ctx, []string{entry.ProductID}); err != nil {
		p.logger.Warnf("Failed to invalidate cached price: %v", e.Wrap(op, err))
	}
}

// ComputeByID находит продукт и считает его цену.
func (p *PricingUseCase) ComputeByID(ctx context.Context, productID string) (*ComputePriceRes, error) {
	const op = "PricingUseCase.ComputeByID"

	product, err := p.getProduct(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return p.ComputeDiscountedPrice(ctx, product)
}

// ComputeAll пересчитывает цены всех продуктов каталога. Ошибка по одному продукту
// попадает в результат и не прерывает остальные.
func (p *PricingUseCase) ComputeAll(ctx context.Context) (*ComputeAllRes, error) {
	const op = "PricingUseCase.ComputeAll"

	ids, err := p.productRepo.ListIDs(ctx, p.cfg.ComputeAllLimit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	workers := p.cfg.ComputeWorkers
	if workers <= 0 {
		workers = 1
	}

	items := make([]ComputeAllItem, len(ids))

	// Ошибки по продуктам собираются в items, группа их не видит и не отменяет соседей.
	var g errgroup.Group
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			items[i].ProductID = id
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}

			res, err := p.ComputeByID(ctx, id)
			if err != nil {
				if IsUnprocessable(err) {
					p.logger.Warnf("product skipped: product_id=%s, error=%v", id, err)
				} else {
					p.logger.Errorf(err, "compute failed: product_id=%s", id)
				}
				items[i].Err = err
				return nil
			}
			items[i].Result = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(op, err)
	}

	res := &ComputeAllRes{Items: items}
	for _, item := range items {
		if item.Err != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}

	p.logger.Infof("compute all finished: total=%d, succeeded=%d, failed=%d", len(items), res.Succeeded, res.Failed)
	return res, nil
}

// GetLatestPrice возвращает последнюю цену из истории, а без истории — базовую цену продукта.
func (p *PricingUseCase) GetLatestPrice(ctx context.Context, productID string) (*LatestPrice, error) {
	const op = "PricingUseCase.GetLatestPrice"

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, e.Wrap(op, e.ErrInvalidProductID)
	}

	cached, err := p.cacheRepo.GetLatestPrice(ctx, productID)
	if err != nil {
		p.logger.Warnf("Failed to read cached price: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	entry, err := p.historyRepo.GetLatest(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if entry == nil {
		product, err := p.getProduct(ctx, productID)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if product.BasePrice == nil {
			return nil, e.Wrap(op, e.ErrMissingBasePrice)
		}
		// Базовая цена не кэшируется: она меняется вне сервиса.
		return NewBaseLatestPrice(product.ID, *product.BasePrice), nil
	}

	latest := NewLatestPriceFromEntry(entry)

	// Фоновое добавление цены в кэш. Если за это время записалась новая цена,
	// кэш отклонит эту запись по Version.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetLatestPrice(bgCtx, latest); err != nil {
			p.logger.Warnf("Failed to cache price in background: %v", e.Wrap(op, err))
		}
	}()

	return latest, nil
}

// GetHistory возвращает историю цен продукта, новые записи первыми.
func (p *PricingUseCase) GetHistory(ctx context.Context, req *GetHistoryReq) (*GetHistoryRes, error) {
	const op = "PricingUseCase.GetHistory"

	limit := req.Limit
	if limit == 0 {
		limit = p.cfg.DefaultHistoryLimit
	}
	if limit < 0 || limit > p.cfg.MaxHistoryLimit {
		return nil, e.Wrap(op, e.ErrInvalidLimit)
	}

	product, err := p.getProduct(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entries, err := p.historyRepo.ListByProduct(ctx, product.ID, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &GetHistoryRes{ProductID: product.ID, Entries: entries}, nil
}

// getProduct проверяет идентификатор и загружает продукт.
func (p *PricingUseCase) getProduct(ctx context.Context, productID string) (*domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, e.ErrInvalidProductID
	}

	product, err := p.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, e.ErrProductNotFound
	}

	return product, nil
}

// enqueuePriceChanged пишет событие price.changed в outbox текущей транзакции.
func (p *PricingUseCase) enqueuePriceChanged(ctx context.Context, entry *domain.PriceHistoryEntry, category domain.Category) error {
	eventID := uuid.NewString()
	payload, err := json.Marshal(NewPriceChangedEvent(eventID, entry, category))
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   eventID,
		EventType: PriceChanged,
		ProductID: entry.ProductID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: entry.AppliedAt,
	})
	return err
}

// IsUnprocessable сообщает, что продукт нельзя оценить из-за его данных.
func IsUnprocessable(err error) bool {
	return errors.Is(err, e.ErrUnsupportedCategory) ||
		errors.Is(err, e.ErrMissingAttachment) ||
		errors.Is(err, e.ErrInvalidAttributeRange) ||
		errors.Is(err, e.ErrMissingBasePrice)
}
