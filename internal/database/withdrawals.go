package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateWithdrawal debits the amount immediately (reserving the funds) and
// records a Pending request. Returns the balance after the debit.
func (s *Service) CreateWithdrawal(ctx context.Context, params store.CreateWithdrawalParams) (*models.WithdrawalRequest, decimal.Decimal, error) {
	if !params.Amount.IsPositive() {
		return nil, decimal.Zero, store.ErrInvalidAmount
	}

	user, err := s.GetUserById(ctx, params.UserId)
	if err != nil {
		return nil, decimal.Zero, err
	}

	upiId := params.UpiId
	if upiId == "" {
		upiId = user.UpiId
	}
	if upiId == "" {
		return nil, decimal.Zero, fmt.Errorf("no UPI ID on file for user %s", params.UserId)
	}

	now := time.Now().UTC()
	request := &models.WithdrawalRequest{
		Id:        uuid.New().String(),
		UserId:    params.UserId,
		Amount:    params.Amount,
		Status:    models.StatusPending,
		UpiId:     upiId,
		CreatedAt: models.NewTimestamp(now),
		UpdatedAt: models.NewTimestamp(now),
	}

	entry, err := s.subledger.ProcessTransaction(ctx, ProcessTransactionParams{
		UserId:          params.UserId,
		TransactionType: txTypeWithdrawal,
		Amount:          params.Amount.Neg(),
		ExternalTxId:    withdrawalTxId(request.Id),
		Reference:       "UPI payout to " + upiId,
		RejectOverdraft: true,
	})
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("unable to reserve withdrawal funds: %w", err)
	}

	_, err = s.db.ExecContext(ctx, queryInsertWithdrawal,
		request.Id, request.UserId, request.Amount.String(), string(request.Status), request.UpiId, now, now)
	if err != nil {
		zap.L().Error("Failed to record withdrawal request, reversing debit",
			zap.String("withdrawal_id", request.Id),
			zap.Error(err))
		if revErr := s.reverseWithdrawal(ctx, request); revErr != nil {
			zap.L().Error("Failed to reverse withdrawal debit", zap.String("withdrawal_id", request.Id), zap.Error(revErr))
		}
		return nil, decimal.Zero, fmt.Errorf("unable to insert withdrawal request: %w", err)
	}

	zap.L().Info("Withdrawal request created",
		zap.String("withdrawal_id", request.Id),
		zap.String("user_id", request.UserId),
		zap.String("amount", request.Amount.String()),
		zap.String("new_balance", entry.BalanceAfter.String()))
	return request, entry.BalanceAfter, nil
}

func (s *Service) GetWithdrawal(ctx context.Context, withdrawalId string) (*models.WithdrawalRequest, error) {
	request, err := scanWithdrawal(s.db.QueryRowContext(ctx, queryGetWithdrawal, withdrawalId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrWithdrawalNotFound, withdrawalId)
		}
		return nil, fmt.Errorf("unable to query withdrawal request: %w", err)
	}
	return request, nil
}

func (s *Service) ListWithdrawals(ctx context.Context, userId string) ([]models.WithdrawalRequest, error) {
	rows, err := s.db.QueryContext(ctx, queryListWithdrawals, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query withdrawal requests: %w", err)
	}
	defer closeRows(rows)

	requests := []models.WithdrawalRequest{}
	for rows.Next() {
		request, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan withdrawal request: %w", err)
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withdrawal rows: %w", err)
	}
	return requests, nil
}

// ApproveWithdrawal marks a Pending request as paid out. The funds already left the balance.
func (s *Service) ApproveWithdrawal(ctx context.Context, withdrawalId string) (*models.WithdrawalRequest, error) {
	if err := s.reviewWithdrawal(ctx, withdrawalId, models.StatusCompleted, ""); err != nil {
		return nil, err
	}

	zap.L().Info("Withdrawal approved", zap.String("withdrawal_id", withdrawalId))
	return s.GetWithdrawal(ctx, withdrawalId)
}

// RejectWithdrawal marks a Pending request Rejected and credits the reserved funds back.
func (s *Service) RejectWithdrawal(ctx context.Context, withdrawalId, reason string) (*models.WithdrawalRequest, error) {
	if err := s.reviewWithdrawal(ctx, withdrawalId, models.StatusRejected, reason); err != nil {
		return nil, err
	}

	request, err := s.GetWithdrawal(ctx, withdrawalId)
	if err != nil {
		return nil, err
	}

	if err := s.reverseWithdrawal(ctx, request); err != nil {
		return nil, err
	}

	zap.L().Info("Withdrawal rejected",
		zap.String("withdrawal_id", withdrawalId),
		zap.String("reason", reason))
	return request, nil
}

// reverseWithdrawal credits back a withdrawal that will not be paid out
func (s *Service) reverseWithdrawal(ctx context.Context, request *models.WithdrawalRequest) error {
	reversalTxId := withdrawalTxId(request.Id) + ":reversal"

	zap.L().Info("Reversing withdrawal",
		zap.String("user_id", request.UserId),
		zap.String("amount", request.Amount.String()),
		zap.String("reversal_tx", reversalTxId))

	_, err := s.subledger.ProcessTransaction(ctx, ProcessTransactionParams{
		UserId:          request.UserId,
		TransactionType: txTypeWithdrawalReversal,
		Amount:          request.Amount,
		ExternalTxId:    reversalTxId,
		Reference:       "Reversal of rejected withdrawal",
	})
	if err != nil && !errors.Is(err, ErrDuplicateTransaction) {
		return fmt.Errorf("error reversing withdrawal: %w", err)
	}
	return nil
}

func (s *Service) reviewWithdrawal(ctx context.Context, withdrawalId string, status models.TransactionStatus, reason string) error {
	result, err := s.db.ExecContext(ctx, queryReviewWithdrawal, string(status), reason, time.Now().UTC(), withdrawalId)
	if err != nil {
		return fmt.Errorf("unable to update withdrawal request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	if _, err := s.GetWithdrawal(ctx, withdrawalId); err != nil {
		return err
	}
	return fmt.Errorf("%w: withdrawal %s", store.ErrAlreadyReviewed, withdrawalId)
}

func withdrawalTxId(withdrawalId string) string {
	return "withdrawal:" + withdrawalId
}

func scanWithdrawal(row rowScanner) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	var amountStr, status string
	err := row.Scan(&request.Id, &request.UserId, &amountStr, &status, &request.UpiId,
		&request.RejectionReason, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return nil, err
	}

	request.Status = models.TransactionStatus(status)
	if request.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse withdrawal amount '%s': %w", amountStr, err)
	}
	return &request, nil
}
