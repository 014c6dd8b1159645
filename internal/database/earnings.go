package database

import (
	"context"
	"fmt"
	"time"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordEarning stores a task payout. Completed earnings are credited to the
// wallet straight away; Pending ones only show up in the summary.
func (s *Service) RecordEarning(ctx context.Context, params store.RecordEarningParams) (*models.EarningRecord, error) {
	if !params.Amount.IsPositive() {
		return nil, store.ErrInvalidAmount
	}
	if _, err := s.GetUserById(ctx, params.UserId); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = models.StatusCompleted
	}
	if status != models.StatusCompleted && status != models.StatusPending {
		return nil, fmt.Errorf("earning status must be %s or %s, got %q", models.StatusCompleted, models.StatusPending, status)
	}

	now := time.Now().UTC()
	record := &models.EarningRecord{
		Id:        uuid.New().String(),
		UserId:    params.UserId,
		TaskId:    params.TaskId,
		TaskTitle: params.TaskTitle,
		Amount:    params.Amount,
		Status:    status,
		CreatedAt: models.NewTimestamp(now),
	}

	_, err := s.db.ExecContext(ctx, queryInsertEarning,
		record.Id, record.UserId, record.TaskId, record.TaskTitle, record.Amount.String(), string(record.Status), now)
	if err != nil {
		return nil, fmt.Errorf("unable to insert earning: %w", err)
	}

	if status == models.StatusCompleted {
		_, err := s.subledger.ProcessTransaction(ctx, ProcessTransactionParams{
			UserId:          record.UserId,
			TransactionType: txTypeEarning,
			Amount:          record.Amount,
			ExternalTxId:    "earning:" + record.Id,
			Reference:       "Task " + record.TaskId,
		})
		if err != nil {
			return nil, fmt.Errorf("error crediting earning: %w", err)
		}
	}

	zap.L().Info("Earning recorded",
		zap.String("earning_id", record.Id),
		zap.String("user_id", record.UserId),
		zap.String("task_id", record.TaskId),
		zap.String("amount", record.Amount.String()),
		zap.String("status", string(record.Status)))
	return record, nil
}

func (s *Service) ListEarnings(ctx context.Context, userId string) ([]models.EarningRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryListEarnings, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query earnings: %w", err)
	}
	defer closeRows(rows)

	var records []models.EarningRecord
	for rows.Next() {
		var record models.EarningRecord
		var amountStr, status string
		err := rows.Scan(&record.Id, &record.UserId, &record.TaskId, &record.TaskTitle, &amountStr, &status, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan earning: %w", err)
		}
		record.Status = models.TransactionStatus(status)
		if record.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse earning amount '%s': %w", amountStr, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating earning rows: %w", err)
	}
	return records, nil
}
