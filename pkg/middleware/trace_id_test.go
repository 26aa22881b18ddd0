package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"placery/pkg/middleware"
)

func TestTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(middleware.TraceID())
	r.GET("/", func(c *gin.Context) {
		if v, ok := c.Request.Context().Value(middleware.CtxKeyTraceID).(string); ok {
			seen = v
		}
		c.Status(http.StatusOK)
	})

	t.Run("a fresh id is generated and echoed", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if seen == "" {
			t.Fatal("expected a trace id on the request context")
		}
		if got := w.Header().Get("x-trace-id"); got != seen {
			t.Errorf("response header %q does not match context id %q", got, seen)
		}
	})

	t.Run("a caller-supplied id is reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("x-trace-id", "caller-id")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if seen != "caller-id" {
			t.Errorf("got %q, want the caller-supplied id", seen)
		}
		if got := w.Header().Get("x-trace-id"); got != "caller-id" {
			t.Errorf("response header %q, want caller-id", got)
		}
	})
}
