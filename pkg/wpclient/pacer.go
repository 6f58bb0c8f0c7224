package wpclient

import "time"

// Pacer is the scheduling policy applied before every outbound request.
// The pipeline runs strictly sequentially against a third-party site, so
// the policy is a blocking pause on the calling goroutine. Implementations
// other than FixedDelay (e.g. a token bucket) can be swapped in without
// touching the fetcher.
type Pacer interface {
	Pause()
}

// FixedDelay pauses for a constant duration before each request.
type FixedDelay struct {
	Delay time.Duration
}

func (f FixedDelay) Pause() {
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
}
