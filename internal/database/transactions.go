package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"upi-balance-go/internal/models"
)

// ProcessTransactionParams contains the parameters for processing a transaction
type ProcessTransactionParams struct {
	UserId          string
	Asset           string
	TransactionType string
	Amount          decimal.Decimal
	ExternalTxId    string
	Reference       string
	// RejectOverdraft fails the transaction instead of letting the balance go negative
	RejectOverdraft bool
}

// ProcessTransaction atomically updates balance and records transaction
func (s *SubledgerService) ProcessTransaction(ctx context.Context, params ProcessTransactionParams) (*models.LedgerEntry, error) {
	if params.Asset == "" {
		params.Asset = models.DefaultCurrency
	}

	zap.L().Info("Processing transaction",
		zap.String("user_id", params.UserId),
		zap.String("asset", params.Asset),
		zap.String("type", params.TransactionType),
		zap.String("amount", params.Amount.String()),
		zap.String("external_tx_id", params.ExternalTxId))

	// Check for duplicate external transaction Id
	if params.ExternalTxId != "" {
		var existingTxId string
		err := s.db.QueryRowContext(ctx, queryCheckDuplicateTransaction, params.ExternalTxId).Scan(&existingTxId)
		if err == nil {
			zap.L().Warn("Duplicate external transaction Id detected, skipping",
				zap.String("external_tx_id", params.ExternalTxId),
				zap.String("existing_internal_tx_id", existingTxId))
			return nil, fmt.Errorf("%w: external_transaction_id %s already exists", ErrDuplicateTransaction, params.ExternalTxId)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check for duplicate transaction: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentBalanceStr string
	var accountId string
	var version int64

	err = tx.QueryRowContext(ctx, queryGetAccountBalance, params.UserId, params.Asset).Scan(&accountId, &currentBalanceStr, &version)

	var currentBalance decimal.Decimal
	if errors.Is(err, sql.ErrNoRows) {
		accountId = uuid.New().String()
		currentBalance = decimal.Zero
		version = 1

		_, err = tx.ExecContext(ctx, queryInsertAccountBalance, accountId, params.UserId, params.Asset, "0", 1)
		if err != nil {
			return nil, fmt.Errorf("failed to create account balance: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get current balance: %w", err)
	} else {
		currentBalance, err = decimal.NewFromString(currentBalanceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current balance '%s': %w", currentBalanceStr, err)
		}
	}

	newBalance := currentBalance.Add(params.Amount)
	if params.RejectOverdraft && newBalance.IsNegative() {
		zap.L().Warn("Rejecting transaction that would overdraw account",
			zap.String("user_id", params.UserId),
			zap.String("balance", currentBalance.String()),
			zap.String("amount", params.Amount.String()))
		return nil, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientBalance, currentBalance.String(), params.Amount.Neg().String())
	}

	now := time.Now().UTC()
	entry := &models.LedgerEntry{
		Id:                    uuid.New().String(),
		UserId:                params.UserId,
		Asset:                 params.Asset,
		TransactionType:       params.TransactionType,
		Amount:                params.Amount,
		BalanceBefore:         currentBalance,
		BalanceAfter:          newBalance,
		ExternalTransactionId: params.ExternalTxId,
		Reference:             params.Reference,
		Status:                "confirmed",
		CreatedAt:             now,
		ProcessedAt:           now,
	}

	_, err = tx.ExecContext(ctx, queryInsertTransaction,
		entry.Id, entry.UserId, entry.Asset, entry.TransactionType,
		entry.Amount.String(), entry.BalanceBefore.String(), entry.BalanceAfter.String(),
		entry.ExternalTransactionId, entry.Reference, entry.Status, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	// Optimistic locking on the balance row
	result, err := tx.ExecContext(ctx, queryUpdateAccountBalance, newBalance.String(), entry.Id, params.UserId, params.Asset, version)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("balance update failed - %w", ErrConcurrentModification)
	}

	if err := s.addJournalEntries(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to add journal entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Transaction processed successfully",
		zap.String("transaction_id", entry.Id),
		zap.String("user_id", params.UserId),
		zap.String("asset", params.Asset),
		zap.String("old_balance", currentBalance.String()),
		zap.String("new_balance", newBalance.String()))

	return entry, nil
}

type journalLine struct {
	accountType  string
	accountId    string
	debitAmount  decimal.Decimal
	creditAmount decimal.Decimal
}

// addJournalEntries creates double-entry bookkeeping entries.
// Credits to the user wallet are debits on the user asset account and
// credits on the platform payable account; debits mirror that.
func (s *SubledgerService) addJournalEntries(ctx context.Context, tx *sql.Tx, entry *models.LedgerEntry) error {
	userAccount := fmt.Sprintf("%s_%s", entry.UserId, entry.Asset)
	payableAccount := fmt.Sprintf("user_payable_%s", entry.Asset)

	var lines []journalLine
	switch {
	case entry.Amount.IsPositive():
		lines = []journalLine{
			{"user_asset", userAccount, entry.Amount, decimal.Zero},
			{"system_liability", payableAccount, decimal.Zero, entry.Amount},
		}
	case entry.Amount.IsNegative():
		lines = []journalLine{
			{"user_asset", userAccount, decimal.Zero, entry.Amount.Neg()},
			{"system_liability", payableAccount, entry.Amount.Neg(), decimal.Zero},
		}
	}

	for _, line := range lines {
		_, err := tx.ExecContext(ctx, queryInsertJournalEntry,
			uuid.New().String(), entry.Id, line.accountType, line.accountId, line.debitAmount.String(), line.creditAmount.String())
		if err != nil {
			return err
		}
	}

	return nil
}

// GetTransactionHistory returns paginated ledger history for a user
func (s *SubledgerService) GetTransactionHistory(ctx context.Context, userId, asset string, limit, offset int) ([]models.LedgerEntry, error) {
	zap.L().Debug("Getting transaction history",
		zap.String("user_id", userId),
		zap.String("asset", asset),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	rows, err := s.db.QueryContext(ctx, queryGetTransactionHistory, userId, asset, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		var amountStr, balanceBeforeStr, balanceAfterStr string
		err := rows.Scan(&entry.Id, &entry.UserId, &entry.Asset, &entry.TransactionType,
			&amountStr, &balanceBeforeStr, &balanceAfterStr,
			&entry.ExternalTransactionId, &entry.Reference,
			&entry.Status, &entry.CreatedAt, &entry.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if entry.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
		}
		if entry.BalanceBefore, err = decimal.NewFromString(balanceBeforeStr); err != nil {
			return nil, fmt.Errorf("failed to parse balance before '%s': %w", balanceBeforeStr, err)
		}
		if entry.BalanceAfter, err = decimal.NewFromString(balanceAfterStr); err != nil {
			return nil, fmt.Errorf("failed to parse balance after '%s': %w", balanceAfterStr, err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during transaction row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return entries, nil
}
