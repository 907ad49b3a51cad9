package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ListIDs(_ context.Context, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// fakeHistoryRepo хранит историю в памяти. LockProduct реализован как мьютекс на продукт,
// который снимает fakeTxManager в конце транзакции.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []*domain.PriceHistoryEntry
	locks   map[string]*sync.Mutex
	creates int
	seq     int64
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{locks: make(map[string]*sync.Mutex)}
}

func (r *fakeHistoryRepo) LockProduct(ctx context.Context, productID string) error {
	r.mu.Lock()
	l, ok := r.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[productID] = l
	}
	r.mu.Unlock()

	l.Lock()
	txFrom(ctx).onEnd(l.Unlock)
	return nil
}

func (r *fakeHistoryRepo) GetLatest(_ context.Context, productID string) (*domain.PriceHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ProductID == productID {
			return r.entries[i], nil
		}
	}
	return nil, nil
}

func (r *fakeHistoryRepo) Create(ctx context.Context, entry *domain.PriceHistoryEntry) error {
	txFrom(ctx).stage(func() {
		r.mu.Lock()
		r.seq++
		entry.Seq = r.seq
		r.entries = append(r.entries, entry)
		r.creates++
		r.mu.Unlock()
	})
	return nil
}

func (r *fakeHistoryRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*domain.PriceHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PriceHistoryEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].ProductID == productID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) count(productID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, en := range r.entries {
		if en.ProductID == productID {
			n++
		}
	}
	return n
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
	err    error
}

func (r *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if r.err != nil {
		return nil, r.err
	}
	txFrom(ctx).stage(func() {
		r.mu.Lock()
		event.ID = int64(len(r.events) + 1)
		r.events = append(r.events, event)
		r.mu.Unlock()
	})
	return event, nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*OutboxEvent
	for _, ev := range r.events {
		if ev.Status == Pending && len(out) < limit {
			ev.Status = Processing
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	return r.setStatus(id, Processed)
}

func (r *fakeOutboxRepo) ReturnToPending(_ context.Context, id int64) error {
	return r.setStatus(id, Pending)
}

func (r *fakeOutboxRepo) MarkAsFailed(_ context.Context, id int64) error {
	return r.setStatus(id, Failed)
}

func (r *fakeOutboxRepo) setStatus(id int64, s OutboxStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.ID == id {
			ev.Status = s
		}
	}
	return nil
}

func (r *fakeOutboxRepo) snapshot() []*OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*OutboxEvent(nil), r.events...)
}

// fakeCacheRepo повторяет версионную запись CacheRepo. sets получает сигнал после
// каждого SetLatestPrice, пока в буфере есть место.
type fakeCacheRepo struct {
	mu      sync.Mutex
	prices  map[string]*LatestPrice
	deleted []string
	sets    chan struct{}
	setErr  error

	// hold задержит следующий SetLatestPrice до закрытия release
	hold    chan struct{}
	release chan struct{}
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{prices: make(map[string]*LatestPrice), sets: make(chan struct{}, 16)}
}

// holdNextSet задерживает следующий SetLatestPrice. Возвращает канал, который закрывается,
// когда запись дошла до кэша, и функцию, отпускающую её.
func (c *fakeCacheRepo) holdNextSet() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hold = make(chan struct{})
	c.release = make(chan struct{})
	return c.hold, func() { close(c.release) }
}

func (c *fakeCacheRepo) evict(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.prices, productID)
}

func (c *fakeCacheRepo) GetLatestPrice(_ context.Context, productID string) (*LatestPrice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prices[productID], nil
}

func (c *fakeCacheRepo) SetLatestPrice(_ context.Context, price *LatestPrice) error {
	c.mu.Lock()
	hold, release := c.hold, c.release
	c.hold, c.release = nil, nil
	c.mu.Unlock()

	if hold != nil {
		close(hold)
		<-release
	}

	c.mu.Lock()
	if c.setErr != nil {
		c.mu.Unlock()
		return c.setErr
	}
	if cur, ok := c.prices[price.ProductID]; !ok || cur.Version < price.Version {
		c.prices[price.ProductID] = price
	}
	c.mu.Unlock()

	select {
	case c.sets <- struct{}{}:
	default:
	}
	return nil
}

func (c *fakeCacheRepo) DeleteLatestPrices(_ context.Context, productIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range productIDs {
		delete(c.prices, id)
		c.deleted = append(c.deleted, id)
	}
	return nil
}

type fakeArchiver struct {
	mu   sync.Mutex
	logs []*domain.CalculationLog
}

func (a *fakeArchiver) Archive(log *domain.CalculationLog) {
	a.mu.Lock()
	a.logs = append(a.logs, log)
	a.mu.Unlock()
}

// fakeTx копит изменения и применяет их только при коммите.
type fakeTx struct {
	staged []func()
	ends   []func()
}

func (tx *fakeTx) stage(f func()) { tx.staged = append(tx.staged, f) }
func (tx *fakeTx) onEnd(f func())  { tx.ends = append(tx.ends, f) }

type fakeTxKey struct{}

func txFrom(ctx context.Context) *fakeTx {
	tx, ok := ctx.Value(fakeTxKey{}).(*fakeTx)
	if !ok {
		panic("no transaction in context")
	}
	return tx
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &fakeTx{}
	defer func() {
		for _, end := range tx.ends {
			end()
		}
	}()

	if err := fn(context.WithValue(ctx, fakeTxKey{}, tx)); err != nil {
		return err
	}
	for _, f := range tx.staged {
		f()
	}
	return nil
}
