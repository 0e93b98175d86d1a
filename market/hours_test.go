package market

import (
	"context"
	"testing"
	"time"

	"github.com/shoenig/test/must"
)

func TestIsOpen(t *testing.T) {
	t.Parallel()

	// 2025-01-06 is a Monday
	at := func(day, hour, minute int) time.Time {
		return time.Date(2025, 1, day, hour, minute, 0, 0, IST)
	}

	cases := []struct {
		name string
		when time.Time
		exp  bool
	}{
		{"before open", at(6, 9, 14), false},
		{"at open", at(6, 9, 15), true},
		{"midday", at(7, 12, 0), true},
		{"at close", at(8, 15, 30), true},
		{"after close", at(8, 15, 31), false},
		{"friday", at(10, 10, 0), true},
		{"saturday", at(11, 10, 0), false},
		{"sunday", at(12, 10, 0), false},
		{"utc input", time.Date(2025, 1, 6, 4, 0, 0, 0, time.UTC), true}, // 09:30 IST
		{"utc evening", time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			must.Eq(t, tc.exp, IsOpen(tc.when))
		})
	}
}

func TestWatch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	clock := func() time.Time { return time.Date(2025, 1, 6, 10, 0, 0, 0, IST) }

	calls := make(chan bool, 16)
	done := make(chan struct{})
	go func() {
		Watch(ctx, 5*time.Millisecond, clock, func(open bool) { calls <- open })
		close(done)
	}()

	must.True(t, <-calls) // evaluated immediately
	must.True(t, <-calls) // and again on the tick

	cancel()
	<-done
}
