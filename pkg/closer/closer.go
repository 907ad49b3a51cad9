// Package closer закрывает ресурсы приложения в обратном порядке регистрации.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// ErrInterrupted — контекст Close истёк раньше, чем закрылись все ресурсы.
var ErrInterrupted = errors.New("shutdown interrupted")

// Func — функция закрытия ресурса.
type Func func(ctx context.Context) error

// Error — ошибка закрытия одного ресурса.
type Error struct {
	Name string
	// Forced — ресурс закрывался принудительно после истечения контекста Close.
	Forced bool
	Err    error
}

func (e *Error) Error() string {
	if e.Forced {
		return fmt.Sprintf("[FORCED] %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("[!] %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type resource struct {
	name  string
	close Func
}

// Closer потокобезопасен. Close выполняется один раз.
type Closer struct {
	mu            sync.Mutex
	resources     []resource
	once          sync.Once
	err           error
	forcedTimeout time.Duration
}

// NewCloser создаёт Closer. forcedTimeout ограничивает принудительное закрытие
// ресурсов, не успевших закрыться до истечения контекста Close; 0 означает 2 секунды.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}
	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс. name попадает в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы по одному, начиная с последнего добавленного. Если ctx истекает,
// оставшиеся ресурсы закрываются параллельно с собственным таймаутом.
// Повторные вызовы возвращают результат первого.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		c.err = c.close(ctx, resources)
	})
	return c.err
}

func (c *Closer) close(ctx context.Context, resources []resource) error {
	var errs []error

	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		done := make(chan error, 1)
		go func() { done <- res.close(ctx) }()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, &Error{Name: res.name, Err: err})
			}
		case <-ctx.Done():
			interrupted := fmt.Errorf("%w after %d/%d funcs", ErrInterrupted, len(resources)-1-i, len(resources))
			errs = append([]error{interrupted}, errs...)
			errs = append(errs, c.force(resources[:i+1])...)
			return errors.Join(errs...)
		}
	}

	return errors.Join(errs...)
}

// force закрывает ресурсы параллельно, не дольше forcedTimeout.
func (c *Closer) force(resources []resource) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := res.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, &Error{Name: res.name, Forced: true, Err: err})
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errs
}
