package server

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/UnknownOlympus/jharkhand/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	visitorHeader   = "X-Visitor-ID"
	visitorCookie   = "visitor_id"

	requestIDKey = "request_id"
	visitorKey   = "visitor_id"

	visitorCookieAge = 365 * 24 * 60 * 60
	unmatchedRoute   = "unmatched"
)

// RequestID ensures every request carries a request id in its headers and context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// RequestLogging logs every completed request, raising the level for error responses.
func RequestLogging(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			log.ErrorContext(ctx, "Request completed with server error", attrs...)
		case status >= http.StatusBadRequest:
			log.WarnContext(ctx, "Request completed with client error", attrs...)
		default:
			log.InfoContext(ctx, "Request completed", attrs...)
		}
	}
}

// Recovery converts panics to 500 responses and logs the stack trace.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.ErrorContext(c.Request.Context(), "Panic recovered",
					"request_id", c.GetString(requestIDKey),
					"panic", r,
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "internal server error",
					"request_id": c.GetString(requestIDKey),
				})
			}
		}()
		c.Next()
	}
}

// Instrument counts requests and observes their duration per route template.
func Instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPSeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Visitor identifies the anonymous visitor by header or cookie and issues a new id
// in both when neither is present.
func Visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(visitorHeader)
		if id == "" {
			if cookie, err := c.Cookie(visitorCookie); err == nil {
				id = cookie
			}
		}
		if id == "" {
			id = uuid.New().String()
			c.SetCookie(visitorCookie, id, visitorCookieAge, "/", "", false, true)
		}

		c.Set(visitorKey, id)
		c.Header(visitorHeader, id)
		c.Next()
	}
}
