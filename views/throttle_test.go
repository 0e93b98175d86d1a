package views

import (
	"testing"
	"time"

	"github.com/shoenig/test/must"
)

func (t *throttle) size() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.limiters)
}

func TestThrottle_allow(t *testing.T) {
	t.Parallel()

	now := open
	th := newThrottle(2, func() time.Time { return now })

	must.True(t, th.allow("192.0.2.1"))
	must.True(t, th.allow("192.0.2.1"))
	must.False(t, th.allow("192.0.2.1"))
	must.True(t, th.allow("192.0.2.2"))

	// one attempt comes back every half minute
	now = now.Add(30 * time.Second)
	must.True(t, th.allow("192.0.2.1"))
	must.False(t, th.allow("192.0.2.1"))
}

func TestThrottle_sweep(t *testing.T) {
	t.Parallel()

	now := open
	th := newThrottle(5, func() time.Time { return now })

	th.allow("192.0.2.1")
	th.allow("192.0.2.2")
	must.Eq(t, 2, th.size())

	now = now.Add(40 * time.Second)
	th.allow("192.0.2.2")
	must.Eq(t, 2, th.size())

	// a minute after the sweep clock started only the quiet client goes
	now = now.Add(30 * time.Second)
	th.allow("192.0.2.3")
	must.Eq(t, 2, th.size())

	now = now.Add(2 * time.Minute)
	th.allow("192.0.2.4")
	must.Eq(t, 1, th.size())
}
