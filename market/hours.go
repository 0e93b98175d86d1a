// Package market holds the display logic of the dashboard: whether the
// Indian equity market is trading, and rupee formatting.
package market

import (
	"context"
	"time"
)

// IST is Indian Standard Time; India observes no daylight saving.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Trading session of the NSE, in minutes after midnight IST. Both ends are
// inclusive.
const (
	opens  = 9*60 + 15
	closes = 15*60 + 30
)

// DefaultInterval is how often the dashboard re-evaluates IsOpen.
const DefaultInterval = 1 * time.Minute

// IsOpen reports whether the market trades at t: Monday to Friday between
// 09:15 and 15:30 IST. Exchange holidays are not considered.
func IsOpen(t time.Time) bool {
	ist := t.In(IST)

	switch ist.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minute := ist.Hour()*60 + ist.Minute()
	return minute >= opens && minute <= closes
}

// Watch calls fn with the market status right away and then every interval
// until ctx is done.
func Watch(ctx context.Context, interval time.Duration, clock func() time.Time, fn func(open bool)) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = time.Now
	}

	fn(IsOpen(clock()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(IsOpen(clock()))
		}
	}
}
