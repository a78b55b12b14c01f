package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flock/utils"

	"github.com/gin-gonic/gin"
)

func TestRateLimitMiddlewareRejectsBurstOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	// The limiter store is keyed by IP and shared process-wide, so this test
	// uses an address no other test sends from.
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.77:4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 200; i++ {
		if w := do(); w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want %d", i, w.Code, http.StatusOK)
		}
	}

	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	var body utils.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Rate limit exceeded. Try again later." {
		t.Errorf("got message %q", body.Message)
	}
	if body.Details != "198.51.100.77" {
		t.Errorf("got details %q, want the client IP", body.Details)
	}
}
