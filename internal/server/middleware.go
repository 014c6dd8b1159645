package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// authMiddleware accepts only "Authorization: Bearer <jwt>" and stores the
// subject and role on the gin context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithMessage(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortWithMessage(c, http.StatusUnauthorized, "Invalid token format (must be Bearer)")
			return
		}

		claims, err := s.issuer.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			zap.L().Debug("Rejected bearer token", zap.Error(err))
			abortWithMessage(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != role {
			abortWithMessage(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

// limitBody caps request bodies; proof images make deposits the largest requests
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	factory := promauto.With(reg)
	return &httpMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "balance_sandbox_http_requests_total",
			Help: "Requests served by the sandbox balance API",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "balance_sandbox_http_request_duration_seconds",
			Help:    "Latency of the sandbox balance API",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *httpMetrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
