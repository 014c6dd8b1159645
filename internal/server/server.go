package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"upi-balance-go/internal/auth"
	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"
	"upi-balance-go/internal/validate"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func init() {
	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Server is the sandbox balance backend the client talks to in development
type Server struct {
	router    *gin.Engine
	logger    *zap.Logger
	store     store.LedgerStore
	issuer    *auth.Issuer
	cfg       models.ServerConfig
	validator *validator.Validate
	metrics   *httpMetrics
	gatherer  prometheus.Gatherer
}

// NewServer wires routes and middleware. A nil registry uses the prometheus defaults.
func NewServer(logger *zap.Logger, ledger store.LedgerStore, issuer *auth.Issuer, cfg models.ServerConfig, registry *prometheus.Registry) *Server {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if registry != nil {
		registerer = registry
		gatherer = registry
	}

	s := &Server{
		logger:    logger,
		store:     ledger,
		issuer:    issuer,
		cfg:       cfg,
		validator: validate.New(),
		metrics:   newHTTPMetrics(registerer),
		gatherer:  gatherer,
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(s.metrics.middleware())
	router.Use(limitBody(cfg.MaxBodyBytes))

	s.router = router
	s.registerRoutes()
	return s
}

// Router returns the gin engine, mostly for httptest
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	balance := s.router.Group("/balance")
	balance.Use(s.authMiddleware())
	{
		balance.GET("", s.getBalance)
		balance.GET("/money-history", s.getMoneyHistory)
		balance.GET("/user", s.getUserBalanceSummary)
		balance.GET("/withdrawal-requests/user", s.getUserWithdrawalRequests)
		balance.GET("/proof-images/:id", s.getProofImage)
		balance.POST("/deposit", s.requestDeposit)
		balance.POST("/withdraw", s.requestWithdrawal)
	}

	admin := s.router.Group("/admin")
	admin.Use(s.authMiddleware(), requireRole(models.RoleAdmin))
	{
		admin.POST("/deposits/:id/approve", s.approveDeposit)
		admin.POST("/deposits/:id/reject", s.rejectDeposit)
		admin.POST("/withdrawals/:id/approve", s.approveWithdrawal)
		admin.POST("/withdrawals/:id/reject", s.rejectWithdrawal)
		admin.POST("/earnings", s.recordEarning)
	}
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting sandbox balance API", zap.String("addr", s.cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("sandbox server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down sandbox balance API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shut down cleanly: %w", err)
	}
	return nil
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
