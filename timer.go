// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// timer drives the burst schedule: it invokes fn count times at a fixed
// period on its own goroutine, the first invocation immediately. The
// pacing comes from a rate limiter releasing one event per period.
type timer struct {
	limiter *rate.Limiter
	count   int
	fn      func()
}

func newTimer(period time.Duration, count int, fn func()) *timer {
	return &timer{
		limiter: rate.NewLimiter(rate.Every(period), 1),
		count:   count,
		fn:      fn,
	}
}

// start launches the schedule and returns a channel closed once the
// final invocation has returned.
func (t *timer) start() <-chan struct{} {
	finished := make(chan struct{})

	go func() {
		defer close(finished)

		for i := 0; i < t.count; i++ {
			_ = t.limiter.Wait(context.Background())
			t.fn()
		}
	}()

	return finished
}
