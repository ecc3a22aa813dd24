package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		d.Do(func() { calls.Add(1) })
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 },
		500*time.Millisecond, 5*time.Millisecond)

	// quiet period passed, a new burst fires again
	d.Do(func() { calls.Add(1) })
	assert.Eventually(t, func() bool { return calls.Load() == 2 },
		500*time.Millisecond, 5*time.Millisecond)
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var calls atomic.Int32

	d.Do(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestThrottlerDropsInsideCooldown(t *testing.T) {
	th := NewThrottler(time.Hour)
	var calls int

	assert.True(t, th.Do(func() { calls++ }))
	assert.False(t, th.Do(func() { calls++ }))
	assert.Equal(t, 1, calls)
}
