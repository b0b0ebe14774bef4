// Package logging builds the process logger and the request logging middleware.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/josh-kartchner/traction/internal/config"
)

// New returns a logger configured from cfg. Unknown levels fall back to info.
func New(cfg config.LogConfig) *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// Middleware writes one entry per request once the handler chain returns.
func Middleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := log.Fields{
			"method":     c.Request.Method,
			"route":      route,
			"status":     status,
			"latency_ms": durationToMillis(time.Since(start)),
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields["user_id"] = uid
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("http.request")
		case status >= 400:
			entry.Warn("http.request")
		default:
			entry.Info("http.request")
		}
	}
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
