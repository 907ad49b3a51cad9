package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/cfg"
	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/jitter"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
)

const (
	archiveTimeout   = 30 * time.Second
	defaultQueueSize = 1024
)

var uploadBackoff = jitter.Backoff{Base: 200 * time.Millisecond, Max: 5 * time.Second, Factor: jitter.DefaultJitter}

// MinioInfrastructure архивирует журналы расчётов в MinIO в фоне. Журналы ждут в очереди
// ограниченного размера, её разбирают ArchiveWorkers воркеров, каждая загрузка с повторами
// и экспоненциальной задержкой. При переполненной очереди журнал отбрасывается.
type MinioInfrastructure struct {
	calcLogRepo usecase.CalculationLogRepository
	logger      logger.Logger
	shutdownCtx context.Context
	retries     int

	queue chan *domain.CalculationLog
	// mu защищает closed и закрытие queue от конкурентной отправки
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewMinioInfrastructure(calcLogRepo usecase.CalculationLogRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	workers := cfg.ArchiveWorkers
	if workers <= 0 {
		workers = 1
	}
	queueSize := cfg.ArchiveQueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	m := &MinioInfrastructure{
		calcLogRepo: calcLogRepo,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		retries:     cfg.ArchiveRetries,
		queue:       make(chan *domain.CalculationLog, queueSize),
	}

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker()
	}

	return m
}

// Archive ставит журнал в очередь и сразу возвращает управление. После начала
// завершения приложения и при полной очереди журнал отбрасывается.
func (m *MinioInfrastructure) Archive(log *domain.CalculationLog) {
	if log == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || m.shutdownCtx.Err() != nil {
		m.logger.Warnf("calculation log dropped on shutdown, log_id=%s", log.ID)
		return
	}

	select {
	case m.queue <- log:
	default:
		m.logger.Warnf("calculation log queue is full, log dropped, log_id=%s", log.ID)
	}
}

func (m *MinioInfrastructure) worker() {
	defer m.wg.Done()

	for log := range m.queue {
		m.upload(log)
	}
}

// upload загружает журнал с повторами. Последняя ошибка только логируется.
func (m *MinioInfrastructure) upload(log *domain.CalculationLog) {
	const op = "MinioInfrastructure.upload"

	ctx, cancel := context.WithTimeout(m.shutdownCtx, archiveTimeout)
	defer cancel()

	attempts := m.retries + 1
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var key string
		if key, err = m.calcLogRepo.Upload(ctx, log); err == nil {
			m.logger.Debugf("%s: calculation log archived, key=%s", op, key)
			return
		}

		if attempt == attempts-1 {
			break
		}

		if !uploadBackoff.Wait(ctx.Done(), attempt) {
			m.logger.Warnf("%s: archiving interrupted, log_id=%s: %v", op, log.ID, ctx.Err())
			return
		}
	}

	m.logger.Warnf("%s: failed to archive calculation log, log_id=%s: %v", op, log.ID, err)
}

// WaitForFlush закрывает очередь для новых журналов и ждёт, пока воркеры загрузят
// оставшиеся, но не дольше shutdownTimeoutCtx.
func (m *MinioInfrastructure) WaitForFlush(shutdownTimeoutCtx context.Context) error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("calculation log archive timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
