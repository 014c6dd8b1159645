package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"upi-balance-go/internal/api"
	"upi-balance-go/internal/database"
	"upi-balance-go/internal/models"
	"upi-balance-go/internal/transport"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// init loads a .env file when one is present. Plain environment variables work too.
func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: no .env file loaded: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeClient builds the balance client from config. The bearer token is
// read from cfg.Client.TokenEnv on every call. A nil registerer disables metrics.
func InitializeClient(cfg *models.Config, reg prometheus.Registerer) (*api.BalanceClient, error) {
	var opts []transport.Option
	if reg != nil {
		opts = append(opts, transport.WithMetrics(transport.NewMetrics(reg)))
	}

	httpClient, err := transport.NewClient(cfg.Client, transport.EnvToken(cfg.Client.TokenEnv), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create balance api client: %w", err)
	}

	zap.L().Info("Balance API client ready",
		zap.String("base_url", httpClient.BaseURL()),
		zap.String("token_env", cfg.Client.TokenEnv),
		zap.Duration("deposit_timeout", cfg.Client.DepositTimeout))

	return api.NewBalanceClient(httpClient, cfg.Client.DepositTimeout), nil
}

// InitializeDatabase opens the sandbox ledger and applies the seed file if one is configured
func InitializeDatabase(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.SeedFile == "" {
		return dbService, nil
	}

	seed, err := LoadSeedConfig(cfg.Database.SeedFile)
	if err != nil {
		dbService.Close()
		return nil, err
	}
	if err := ApplySeed(ctx, dbService, seed); err != nil {
		dbService.Close()
		return nil, err
	}
	return dbService, nil
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
