// Package jitter считает задержки между повторами с экспоненциальным ростом и случайной добавкой,
// чтобы инстансы не ломились в зависимость одновременно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — добавка до 50% от задержки.
const DefaultJitter = 0.5

// Duration возвращает d с добавкой в диапазоне [0, d*factor].
func Duration(d time.Duration, factor float64) time.Duration {
	return d + time.Duration(rand.Float64()*factor*float64(d))
}

// Backoff — экспоненциальная задержка: Base, 2*Base, 4*Base ... не больше Max, плюс джиттер.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

// Delay возвращает задержку перед повтором номер attempt (с нуля).
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt && d < b.Max; i++ {
		d *= 2
	}
	if d > b.Max {
		d = b.Max
	}
	return Duration(d, b.Factor)
}

// Wait ждёт Delay(attempt). Возвращает false, если done закрылся раньше.
func (b Backoff) Wait(done <-chan struct{}, attempt int) bool {
	t := time.NewTimer(b.Delay(attempt))
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-done:
		return false
	}
}
