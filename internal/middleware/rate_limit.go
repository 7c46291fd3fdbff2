package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/Ananth-NQI/transitlink-ussd/internal/metrics"
)

// MsgTooManyRequests is the USSD body returned to throttled subscribers
const MsgTooManyRequests = "END Too many requests. Please try again shortly."

// PhoneLimiter applies a token bucket per subscriber phone number and
// periodically evicts idle entries.
type PhoneLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	byPhone map[string]*limiterEntry
	hits    uint64
	idleTTL time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewPhoneLimiter returns nil when rps or burst is not positive, which
// disables throttling.
func NewPhoneLimiter(rps float64, burst int, idleTTL time.Duration) *PhoneLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &PhoneLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		byPhone: make(map[string]*limiterEntry),
		idleTTL: idleTTL,
	}
}

// Allow reports whether one more callback from phone is accepted at now
func (l *PhoneLimiter) Allow(phone string, now time.Time) bool {
	if l == nil {
		return true
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byPhone[phone]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byPhone[phone] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byPhone {
			if v.lastSeen.Before(cutoff) {
				delete(l.byPhone, k)
			}
		}
	}
	return allowed
}

// RateLimitUSSD throttles aggregator callbacks per phoneNumber form field.
// Throttled callbacks still get HTTP 200 so the aggregator shows the text.
func RateLimitUSSD(limiter *PhoneLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		if limiter.Allow(c.FormValue("phoneNumber"), time.Now()) {
			return c.Next()
		}
		metrics.CountRateLimited()
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusOK).SendString(MsgTooManyRequests)
	}
}
