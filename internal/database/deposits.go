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

// CreateDeposit stores a deposit claim and its proof images in Review status.
// Nothing is credited until an admin approves it.
func (s *Service) CreateDeposit(ctx context.Context, params store.CreateDepositParams) (*models.DepositRecord, error) {
	if !params.Amount.IsPositive() {
		return nil, store.ErrInvalidAmount
	}
	if _, err := s.GetUserById(ctx, params.UserId); err != nil {
		return nil, err
	}

	var existingId string
	err := s.db.QueryRowContext(ctx, queryCheckDuplicateReference, params.UpiRefNumber).Scan(&existingId)
	if err == nil {
		zap.L().Warn("Duplicate UPI reference submitted",
			zap.String("upi_ref_number", params.UpiRefNumber),
			zap.String("existing_deposit_id", existingId))
		return nil, fmt.Errorf("%w: %s", store.ErrDuplicateReference, params.UpiRefNumber)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check upi reference: %w", err)
	}

	now := time.Now().UTC()
	record := &models.DepositRecord{
		Id:           uuid.New().String(),
		UserId:       params.UserId,
		Amount:       params.Amount,
		Status:       models.StatusReview,
		UpiRefNumber: params.UpiRefNumber,
		AdminUpiId:   params.AdminUpiId,
		UserUpiId:    params.UserUpiId,
		CreatedAt:    models.NewTimestamp(now),
		UpdatedAt:    models.NewTimestamp(now),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, queryInsertDeposit,
		record.Id, record.UserId, record.Amount.String(), string(record.Status),
		record.UpiRefNumber, record.AdminUpiId, record.UserUpiId, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert deposit request: %w", err)
	}

	for _, img := range params.ProofImages {
		image := models.ProofImageRecord{
			Id:          uuid.New().String(),
			DepositId:   record.Id,
			FileName:    img.FileName,
			ContentType: img.ContentType,
			CreatedAt:   now,
		}
		_, err := tx.ExecContext(ctx, queryInsertProofImage,
			image.Id, image.DepositId, image.FileName, image.ContentType, img.Data, now)
		if err != nil {
			return nil, fmt.Errorf("failed to insert proof image %s: %w", img.FileName, err)
		}
		record.ProofImages = append(record.ProofImages, image)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit deposit request: %w", err)
	}

	zap.L().Info("Deposit request stored",
		zap.String("deposit_id", record.Id),
		zap.String("user_id", record.UserId),
		zap.String("amount", record.Amount.String()),
		zap.Int("proof_images", len(record.ProofImages)))
	return record, nil
}

func (s *Service) GetDeposit(ctx context.Context, depositId string) (*models.DepositRecord, error) {
	record, err := scanDeposit(s.db.QueryRowContext(ctx, queryGetDeposit, depositId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrDepositNotFound, depositId)
		}
		return nil, fmt.Errorf("unable to query deposit request: %w", err)
	}

	if record.ProofImages, err = s.listProofImageMeta(ctx, record.Id); err != nil {
		return nil, err
	}
	return record, nil
}

// ListDeposits returns the user's deposits newest first, with proof image metadata
func (s *Service) ListDeposits(ctx context.Context, userId string) ([]models.DepositRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryListDeposits, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query deposit requests: %w", err)
	}

	var records []models.DepositRecord
	for rows.Next() {
		record, err := scanDeposit(rows)
		if err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("unable to scan deposit request: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		closeRows(rows)
		return nil, fmt.Errorf("error iterating deposit rows: %w", err)
	}
	// Released before the image queries so a single-connection pool cannot deadlock
	closeRows(rows)

	for i := range records {
		if records[i].ProofImages, err = s.listProofImageMeta(ctx, records[i].Id); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ApproveDeposit credits the deposit amount and marks the request Completed.
// The ledger credit is keyed on the deposit id, so a request is credited at most once.
func (s *Service) ApproveDeposit(ctx context.Context, depositId string) (*models.DepositRecord, error) {
	record, err := s.GetDeposit(ctx, depositId)
	if err != nil {
		return nil, err
	}
	if record.Status != models.StatusReview {
		return nil, fmt.Errorf("%w: deposit %s is %s", store.ErrAlreadyReviewed, depositId, record.Status)
	}

	_, err = s.subledger.ProcessTransaction(ctx, ProcessTransactionParams{
		UserId:          record.UserId,
		TransactionType: txTypeDeposit,
		Amount:          record.Amount,
		ExternalTxId:    "deposit:" + record.Id,
		Reference:       "UPI " + record.UpiRefNumber,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateTransaction) {
			return nil, fmt.Errorf("%w: deposit %s", store.ErrAlreadyReviewed, depositId)
		}
		return nil, fmt.Errorf("error crediting deposit: %w", err)
	}

	if err := s.reviewDeposit(ctx, depositId, models.StatusCompleted, ""); err != nil {
		return nil, err
	}

	zap.L().Info("Deposit approved",
		zap.String("deposit_id", depositId),
		zap.String("user_id", record.UserId),
		zap.String("amount", record.Amount.String()))
	return s.GetDeposit(ctx, depositId)
}

func (s *Service) RejectDeposit(ctx context.Context, depositId, reason string) (*models.DepositRecord, error) {
	if err := s.reviewDeposit(ctx, depositId, models.StatusRejected, reason); err != nil {
		return nil, err
	}

	zap.L().Info("Deposit rejected", zap.String("deposit_id", depositId), zap.String("reason", reason))
	return s.GetDeposit(ctx, depositId)
}

func (s *Service) reviewDeposit(ctx context.Context, depositId string, status models.TransactionStatus, reason string) error {
	result, err := s.db.ExecContext(ctx, queryReviewDeposit, string(status), reason, time.Now().UTC(), depositId)
	if err != nil {
		return fmt.Errorf("unable to update deposit request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Either the deposit does not exist or it has left Review
	if _, err := s.GetDeposit(ctx, depositId); err != nil {
		return err
	}
	return fmt.Errorf("%w: deposit %s", store.ErrAlreadyReviewed, depositId)
}

func (s *Service) GetProofImage(ctx context.Context, imageId string) (*models.ProofImageRecord, error) {
	var image models.ProofImageRecord
	err := s.db.QueryRowContext(ctx, queryGetProofImage, imageId).Scan(
		&image.Id, &image.DepositId, &image.FileName, &image.ContentType, &image.Data, &image.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrProofImageNotFound, imageId)
		}
		return nil, fmt.Errorf("unable to query proof image: %w", err)
	}
	return &image, nil
}

func (s *Service) listProofImageMeta(ctx context.Context, depositId string) ([]models.ProofImageRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryListProofImageMeta, depositId)
	if err != nil {
		return nil, fmt.Errorf("unable to query proof images: %w", err)
	}
	defer closeRows(rows)

	var images []models.ProofImageRecord
	for rows.Next() {
		var image models.ProofImageRecord
		if err := rows.Scan(&image.Id, &image.DepositId, &image.FileName, &image.ContentType, &image.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan proof image: %w", err)
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proof image rows: %w", err)
	}
	return images, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeposit(row rowScanner) (*models.DepositRecord, error) {
	var record models.DepositRecord
	var amountStr, status string
	err := row.Scan(&record.Id, &record.UserId, &amountStr, &status,
		&record.UpiRefNumber, &record.AdminUpiId, &record.UserUpiId,
		&record.RejectionReason, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}

	record.Status = models.TransactionStatus(status)
	if record.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse deposit amount '%s': %w", amountStr, err)
	}
	return &record, nil
}
