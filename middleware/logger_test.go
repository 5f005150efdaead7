package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bbq-storefront/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := metrics.NewRegistry()

	r := gin.New()
	r.Use(RequestLogger(zap.New(core), reg))
	r.GET("/menu/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/menu/coleslaw", "/boom", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(entries))
	}
	if route := entries[0].ContextMap()["route"]; route != "/menu/:id" {
		t.Errorf("expected the route template, got %v", route)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("expected a 500 to log at error, got %v", entries[1].Level)
	}
	if entries[2].Level != zapcore.WarnLevel || entries[2].ContextMap()["route"] != "unmatched" {
		t.Errorf("unexpected 404 entry: %v %v", entries[2].Level, entries[2].ContextMap())
	}

	if n := testutil.CollectAndCount(reg.RequestDurationSeconds); n != 3 {
		t.Errorf("expected 3 latency series, got %d", n)
	}
}
