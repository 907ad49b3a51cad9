package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_Bounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := Duration(time.Second, DefaultJitter)
		assert.GreaterOrEqual(t, got, time.Second)
		assert.LessOrEqual(t, got, 1500*time.Millisecond)
	}
	assert.Equal(t, time.Second, Duration(time.Second, 0))
}

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Base: 200 * time.Millisecond, Max: 5 * time.Second}

	assert.Equal(t, 200*time.Millisecond, b.Delay(0))
	assert.Equal(t, 800*time.Millisecond, b.Delay(2))
	assert.Equal(t, 5*time.Second, b.Delay(10))
	assert.Equal(t, 5*time.Second, b.Delay(1000))

	b.Factor = DefaultJitter
	assert.LessOrEqual(t, b.Delay(10), 7500*time.Millisecond)
}

func TestBackoff_Wait(t *testing.T) {
	t.Run("waits delay", func(t *testing.T) {
		b := Backoff{Base: time.Millisecond, Max: time.Millisecond}
		assert.True(t, b.Wait(make(chan struct{}), 0))
	})

	t.Run("interrupted", func(t *testing.T) {
		done := make(chan struct{})
		close(done)
		b := Backoff{Base: time.Hour, Max: time.Hour}
		assert.False(t, b.Wait(done, 0))
	})
}
