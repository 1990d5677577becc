package poller_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/readiness-gate/internal/poller"
)

var _ = Describe("Backoff", func() {
	Describe("Fail", func() {
		It("should start at the initial delay", func() {
			b := poller.NewBackoff(5*time.Second, 60*time.Second, 12)

			delay, more := b.Fail()
			Expect(more).To(BeTrue())
			Expect(delay).To(Equal(5 * time.Second))
		})

		It("should double the delay after each failed cycle", func() {
			b := poller.NewBackoff(5*time.Second, 60*time.Second, 12)

			var delays []time.Duration
			for {
				delay, more := b.Fail()
				if !more {
					break
				}
				delays = append(delays, delay)
			}

			Expect(delays[:4]).To(Equal([]time.Duration{
				5 * time.Second,
				10 * time.Second,
				20 * time.Second,
				40 * time.Second,
			}))
		})

		It("should clamp the delay at the cap", func() {
			b := poller.NewBackoff(5*time.Second, 60*time.Second, 12)

			var delays []time.Duration
			for {
				delay, more := b.Fail()
				if !more {
					break
				}
				delays = append(delays, delay)
			}

			// 11 sleeps separate 12 attempts; capped from the 5th on.
			Expect(delays).To(HaveLen(11))
			for _, delay := range delays[4:] {
				Expect(delay).To(Equal(60 * time.Second))
			}
		})

		It("should respect the delay doubling invariant", func() {
			initial := 3 * time.Second
			max := 48 * time.Second
			b := poller.NewBackoff(initial, max, 10)

			previous, more := b.Fail()
			Expect(more).To(BeTrue())
			Expect(previous).To(Equal(initial))

			for {
				delay, more := b.Fail()
				if !more {
					break
				}
				Expect(delay).To(Equal(min(previous*2, max)))
				previous = delay
			}
		})

		It("should exhaust after the attempt ceiling", func() {
			b := poller.NewBackoff(time.Second, time.Minute, 3)

			_, more := b.Fail()
			Expect(more).To(BeTrue())
			_, more = b.Fail()
			Expect(more).To(BeTrue())
			_, more = b.Fail()
			Expect(more).To(BeFalse())
			Expect(b.Attempts()).To(Equal(3))
		})

		It("should exhaust immediately with a single attempt", func() {
			b := poller.NewBackoff(time.Second, time.Minute, 1)

			_, more := b.Fail()
			Expect(more).To(BeFalse())
		})
	})
})
