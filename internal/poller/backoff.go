package poller

import "time"

// Backoff tracks the retry budget and the delay between cycles.
// The delay doubles after every failed cycle, clamped at maxDelay.
type Backoff struct {
	attempts    int
	delay       time.Duration
	maxDelay    time.Duration
	maxAttempts int
}

func NewBackoff(initialDelay, maxDelay time.Duration, maxAttempts int) *Backoff {
	return &Backoff{
		delay:       initialDelay,
		maxDelay:    maxDelay,
		maxAttempts: maxAttempts,
	}
}

// Fail records a failed cycle. It returns the delay to wait before the next
// cycle, or false when the attempt budget is spent.
func (b *Backoff) Fail() (time.Duration, bool) {
	b.attempts++
	if b.attempts >= b.maxAttempts {
		return 0, false
	}

	delay := b.delay
	b.delay = min(b.delay*2, b.maxDelay)

	return delay, true
}

// Attempts returns the number of failed cycles recorded so far.
func (b *Backoff) Attempts() int {
	return b.attempts
}
