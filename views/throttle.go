package views

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAttempts is how many sign in attempts a client may make per minute.
const DefaultAttempts = 5

// refill is how long an unused limiter takes to fill back up, after which it
// is no different from a new one and can be dropped.
const refill = time.Minute

// throttle limits sign in attempts per client address.
type throttle struct {
	lock     *sync.Mutex
	clock    func() time.Time
	every    rate.Limit
	burst    int
	limiters map[string]*limiter
	swept    time.Time
}

type limiter struct {
	*rate.Limiter
	last time.Time
}

func newThrottle(attempts int, clock func() time.Time) *throttle {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &throttle{
		lock:     new(sync.Mutex),
		clock:    clock,
		every:    rate.Every(refill / time.Duration(attempts)),
		burst:    attempts,
		limiters: make(map[string]*limiter),
		swept:    clock(),
	}
}

func (t *throttle) allow(address string) bool {
	now := t.clock()

	t.lock.Lock()
	defer t.lock.Unlock()

	t.sweep(now)

	l, exists := t.limiters[address]
	if !exists {
		l = &limiter{Limiter: rate.NewLimiter(t.every, t.burst)}
		t.limiters[address] = l
	}
	l.last = now
	return l.AllowN(now, 1)
}

// sweep drops the limiters of clients gone quiet; called with the lock held.
func (t *throttle) sweep(now time.Time) {
	if now.Sub(t.swept) < refill {
		return
	}
	for address, l := range t.limiters {
		if now.Sub(l.last) >= refill {
			delete(t.limiters, address)
		}
	}
	t.swept = now
}
