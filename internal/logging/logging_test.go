package logging

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/josh-kartchner/traction/internal/config"
)

func TestNewFallsBackToInfo(t *testing.T) {
	logger := New(config.LogConfig{Level: "chatty", Format: "text"})
	if logger.GetLevel() != log.InfoLevel {
		t.Fatalf("level = %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*log.TextFormatter); !ok {
		t.Fatalf("formatter = %T", logger.Formatter)
	}
}

func TestMiddlewareLogsRouteAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(Middleware(logger))
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != log.WarnLevel {
		t.Fatalf("level = %s", entry.Level)
	}
	if entry.Data["route"] != "/things/:id" || entry.Data["status"] != http.StatusNotFound {
		t.Fatalf("fields = %v", entry.Data)
	}
}

func TestMiddlewareRecordsUserAndErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(Middleware(logger))
	r.GET("/boom", func(c *gin.Context) {
		c.Set("user_id", "u1")
		_ = c.Error(errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entry := hook.LastEntry()
	if entry == nil || entry.Level != log.ErrorLevel {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.Data["user_id"] != "u1" {
		t.Fatalf("user_id = %v", entry.Data["user_id"])
	}
	if s, _ := entry.Data["error"].(string); !strings.Contains(s, "db down") {
		t.Fatalf("error = %v", entry.Data["error"])
	}
}
