package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetBalance returns current balance for user/asset (O(1) lookup)
func (s *SubledgerService) GetBalance(ctx context.Context, userId, asset string) (decimal.Decimal, error) {
	zap.L().Debug("Getting balance", zap.String("user_id", userId), zap.String("asset", asset))

	var balanceStr string
	err := s.db.QueryRowContext(ctx, queryGetBalance, userId, asset).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		// No balance record means zero balance
		return decimal.Zero, nil
	}
	if err != nil {
		zap.L().Error("Failed to get balance", zap.String("user_id", userId), zap.String("asset", asset), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		zap.L().Error("Failed to parse balance", zap.String("balance_str", balanceStr), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to parse balance: %w", err)
	}

	return balance, nil
}

// ReconcileBalance verifies that current balance matches sum of all transactions
func (s *SubledgerService) ReconcileBalance(ctx context.Context, userId, asset string) error {
	zap.L().Info("Reconciling balance", zap.String("user_id", userId), zap.String("asset", asset))

	currentBalance, err := s.GetBalance(ctx, userId, asset)
	if err != nil {
		return fmt.Errorf("failed to get current balance: %w", err)
	}

	// Amounts are stored as decimal text, so the sum happens here rather than in SQL
	rows, err := s.db.QueryContext(ctx, queryReconcileAmounts, userId, asset)
	if err != nil {
		return fmt.Errorf("failed to calculate balance from transactions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	calculatedBalance := decimal.Zero
	for rows.Next() {
		var amountStr string
		if err := rows.Scan(&amountStr); err != nil {
			return fmt.Errorf("failed to scan transaction amount: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return fmt.Errorf("failed to parse transaction amount '%s': %w", amountStr, err)
		}
		calculatedBalance = calculatedBalance.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating transaction rows: %w", err)
	}

	if !currentBalance.Equal(calculatedBalance) {
		zap.L().Error("Balance reconciliation failed",
			zap.String("user_id", userId),
			zap.String("asset", asset),
			zap.String("current_balance", currentBalance.String()),
			zap.String("calculated_balance", calculatedBalance.String()),
			zap.String("difference", currentBalance.Sub(calculatedBalance).String()))
		return fmt.Errorf("balance mismatch: current=%s, calculated=%s", currentBalance.String(), calculatedBalance.String())
	}

	zap.L().Info("Balance reconciliation successful",
		zap.String("user_id", userId),
		zap.String("asset", asset),
		zap.String("balance", currentBalance.String()))
	return nil
}
