package middleware

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestPhoneLimiterBurst(t *testing.T) {
	l := NewPhoneLimiter(1, 2, time.Minute)
	now := time.Unix(1700000000, 0)

	if !l.Allow("+254711000111", now) || !l.Allow("+254711000111", now) {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("+254711000111", now) {
		t.Fatal("third callback in the same instant should be throttled")
	}
	if !l.Allow("+254722000222", now) {
		t.Fatal("another subscriber has its own bucket")
	}
	if !l.Allow("+254711000111", now.Add(time.Second)) {
		t.Fatal("bucket should refill after one second")
	}
}

func TestPhoneLimiterDisabled(t *testing.T) {
	tests := []struct {
		name  string
		rps   float64
		burst int
	}{
		{"zero rps", 0, 5},
		{"zero burst", 1, 0},
		{"negative", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewPhoneLimiter(tt.rps, tt.burst, 0)
			if l != nil {
				t.Fatalf("NewPhoneLimiter(%v, %d) = %v, want nil", tt.rps, tt.burst, l)
			}
			for i := 0; i < 100; i++ {
				if !l.Allow("+254711000111", time.Now()) {
					t.Fatal("nil limiter must allow everything")
				}
			}
		})
	}
}

func TestPhoneLimiterIgnoresEmptyPhone(t *testing.T) {
	l := NewPhoneLimiter(1, 1, time.Minute)
	now := time.Now()
	for i := 0; i < 3; i++ {
		if !l.Allow("  ", now) {
			t.Fatal("empty phone should not be throttled")
		}
	}
}

func TestRateLimitUSSD(t *testing.T) {
	app := fiber.New()
	app.Post("/ussd", RateLimitUSSD(NewPhoneLimiter(0.001, 1, time.Minute)), func(c *fiber.Ctx) error {
		return c.SendString("CON ok")
	})

	form := url.Values{"sessionId": {"s1"}, "phoneNumber": {"+254711000111"}, "text": {""}}
	send := func() (int, string) {
		req := httptest.NewRequest("POST", "/ussd", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	if code, body := send(); code != 200 || body != "CON ok" {
		t.Fatalf("first callback = %d %q", code, body)
	}
	if code, body := send(); code != 200 || body != MsgTooManyRequests {
		t.Fatalf("second callback = %d %q", code, body)
	}
}
