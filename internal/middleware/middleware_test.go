package middleware

import (
	contextPkg "SmileApp/pkg/context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func newTestApp(m Middleware) *fiber.App {
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Use(m.NewLoggingMiddleware())
	app.Get("/ping", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})
	return app
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRequestIDIsGeneratedAndEchoed(t *testing.T) {
	app := newTestApp(New(quietLogger()))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)

	header := resp.Header.Get(contextPkg.RequestIDHeader)
	if len(header) != 26 {
		t.Errorf("generated request id %q is not a ULID", header)
	}
	if string(body) != header {
		t.Errorf("handler saw %q, header is %q", body, header)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	app := newTestApp(New(quietLogger()))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(contextPkg.RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	if got := resp.Header.Get(contextPkg.RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	app := newTestApp(New(quietLogger(), WithRateLimit(0.001, 2)))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		if err != nil {
			t.Fatalf("app.Test error: %v", err)
		}
		statuses = append(statuses, resp.StatusCode)
	}

	if statuses[0] != fiber.StatusOK || statuses[1] != fiber.StatusOK {
		t.Errorf("first two statuses = %v, want 200", statuses[:2])
	}
	if statuses[2] != fiber.StatusTooManyRequests {
		t.Errorf("third status = %d, want 429", statuses[2])
	}
}

func TestSanitizeRequestBody(t *testing.T) {
	got := sanitizeRequestBody("application/json", []byte(`{"image_base64":"aGVsbG8=","caption":"hi"}`))
	if !strings.Contains(got, `"image_base64":"[IMAGE 8 bytes]"`) || !strings.Contains(got, `"caption":"hi"`) {
		t.Errorf("sanitized = %s", got)
	}

	if got := sanitizeRequestBody("multipart/form-data; boundary=x", []byte("--x")); got != "[multipart body]" {
		t.Errorf("multipart sanitized = %s", got)
	}
	if got := sanitizeRequestBody("text/plain", []byte("hello")); got != "[non-JSON body]" {
		t.Errorf("text sanitized = %s", got)
	}
}
