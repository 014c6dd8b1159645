/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.LedgerStore.
var _ store.LedgerStore = (*Service)(nil)

type Service struct {
	db        *sql.DB
	subledger *SubledgerService
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", dsn(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	if cfg.Path == ":memory:" {
		// every new connection would open its own empty database
		pinSingleConnection(db)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := newServiceFromDB(db)
	if err := service.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after schema failure", zap.Error(closeErr))
		}
		return nil, err
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return ":memory:?_foreign_keys=on"
	}
	return path + "?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_foreign_keys=on&_busy_timeout=5000"
}

func pinSingleConnection(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
}

func newServiceFromDB(db *sql.DB) *Service {
	return &Service{db: db, subledger: NewSubledgerService(db)}
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'worker',
		upi_id TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	CREATE INDEX IF NOT EXISTS idx_users_active ON users(active);

	-- Deposit claims awaiting admin review
	CREATE TABLE IF NOT EXISTS deposit_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Review',
		upi_ref_number TEXT NOT NULL,
		admin_upi_id TEXT NOT NULL,
		user_upi_id TEXT NOT NULL,
		rejection_reason TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_deposit_requests_user ON deposit_requests(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_deposit_requests_ref ON deposit_requests(upi_ref_number);

	CREATE TABLE IF NOT EXISTS proof_images (
		id TEXT PRIMARY KEY,
		deposit_id TEXT NOT NULL REFERENCES deposit_requests(id) ON DELETE CASCADE,
		file_name TEXT NOT NULL,
		content_type TEXT NOT NULL,
		data BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_proof_images_deposit ON proof_images(deposit_id);

	CREATE TABLE IF NOT EXISTS withdrawal_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		upi_id TEXT NOT NULL,
		rejection_reason TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_withdrawal_requests_user ON withdrawal_requests(user_id, created_at);

	CREATE TABLE IF NOT EXISTS earnings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		task_id TEXT NOT NULL,
		task_title TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_earnings_user ON earnings(user_id, created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("unable to initialize schema: %w", err)
	}

	if err := s.subledger.InitSchema(); err != nil {
		return fmt.Errorf("unable to initialize subledger schema: %w", err)
	}
	return nil
}

// Subledger convenience methods

func (s *Service) GetUserBalance(ctx context.Context, userId string) (decimal.Decimal, error) {
	return s.subledger.GetBalance(ctx, userId, models.DefaultCurrency)
}

// GetBalanceTotals returns the wallet balance with completed deposits and
// withdrawals that have left the wallet (pending or completed).
func (s *Service) GetBalanceTotals(ctx context.Context, userId string) (*store.BalanceTotals, error) {
	balance, err := s.GetUserBalance(ctx, userId)
	if err != nil {
		return nil, err
	}

	deposits, err := s.ListDeposits(ctx, userId)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.ListWithdrawals(ctx, userId)
	if err != nil {
		return nil, err
	}

	totals := &store.BalanceTotals{
		Balance:          balance,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
	}
	for _, deposit := range deposits {
		if deposit.Status == models.StatusCompleted {
			totals.TotalDeposits = totals.TotalDeposits.Add(deposit.Amount)
		}
	}
	for _, withdrawal := range withdrawals {
		if withdrawal.Status != models.StatusRejected {
			totals.TotalWithdrawals = totals.TotalWithdrawals.Add(withdrawal.Amount)
		}
	}
	return totals, nil
}

func (s *Service) GetLedgerHistory(ctx context.Context, userId string, limit, offset int) ([]models.LedgerEntry, error) {
	return s.subledger.GetTransactionHistory(ctx, userId, models.DefaultCurrency, limit, offset)
}

func (s *Service) ReconcileUserBalance(ctx context.Context, userId string) error {
	return s.subledger.ReconcileBalance(ctx, userId, models.DefaultCurrency)
}

// closeRows is the deferred rows cleanup used by every list query
func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zap.L().Warn("Failed to close rows", zap.Error(err))
	}
}
