// fetch/budget.go

package fetch

import (
	"sync"
	"time"
)

// Budget enforces the upstream call quota. It uses a tumbling window: when
// windowLength has elapsed since the window started, the counter resets and a
// new window begins at the next acquisition. Within one window the counter
// never exceeds the quota, even across window boundaries, which a token
// bucket cannot guarantee.
type Budget struct {
	mu          sync.Mutex
	quota       int
	window      time.Duration
	windowStart time.Time
	calls       int
	now         func() time.Time
}

func NewBudget(quota int, window time.Duration) *Budget {
	return &Budget{
		quota:  quota,
		window: window,
		now:    time.Now,
	}
}

// TryAcquire consumes one call from the current window's budget. It returns
// false when the quota is spent; callers must then skip the upstream call
// rather than wait for the window to reset.
func (b *Budget) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.windowStart.IsZero() || now.Sub(b.windowStart) >= b.window {
		b.windowStart = now
		b.calls = 0
	}

	if b.calls >= b.quota {
		return false
	}
	b.calls++
	return true
}

// Remaining reports how many calls are left in the current window.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.windowStart.IsZero() || b.now().Sub(b.windowStart) >= b.window {
		return b.quota
	}
	return b.quota - b.calls
}

// SetNowFunc overrides the clock. Test hook.
func (b *Budget) SetNowFunc(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}
