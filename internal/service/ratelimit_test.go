package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sawmill.app/ledger/internal/service"
)

var _ = Describe("RateLimiter", func() {
	It("keys counters by chat and clock minute", func() {
		t := time.Date(2024, 6, 12, 10, 30, 15, 0, time.UTC)

		key := service.RateLimitKey(42, t)
		Expect(key).To(HavePrefix("sawmill:ratelimit:42:"))
		Expect(service.RateLimitKey(42, t.Add(40*time.Second))).To(Equal(key))
		Expect(service.RateLimitKey(42, t.Add(50*time.Second))).NotTo(Equal(key))
		Expect(service.RateLimitKey(43, t)).NotTo(Equal(key))
	})

	It("admits everything when the limit is disabled", func() {
		limiter := service.NewRedisRateLimiter(nil, 0)

		allowed, err := limiter.Allow(context.Background(), 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(allowed).To(BeTrue())
	})
})
