package database

import (
	"context"
	"errors"
	"testing"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	"github.com/shopspring/decimal"
)

func newDepositParams(ref string) store.CreateDepositParams {
	return store.CreateDepositParams{
		UserId:       "user1",
		Amount:       decimal.NewFromInt(500),
		UpiRefNumber: ref,
		AdminUpiId:   "admin@upi",
		UserUpiId:    "worker@upi",
		ProofImages: []store.ProofImageParams{
			{FileName: "a.png", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\nfake")},
			{FileName: "b.jpg", ContentType: "image/jpeg", Data: []byte("\xff\xd8\xfffake")},
		},
	}
}

func TestCreateDeposit(t *testing.T) {
	service := setupServiceTestDb(t)
	ctx := context.Background()

	record, err := service.CreateDeposit(ctx, newDepositParams("REF123"))
	if err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}

	if record.Status != models.StatusReview {
		t.Errorf("Expected status Review, got %s", record.Status)
	}
	if len(record.ProofImages) != 2 {
		t.Fatalf("Expected 2 proof images, got %d", len(record.ProofImages))
	}

	// a deposit in review does not move the balance
	balance, err := service.GetUserBalance(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUserBalance failed: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("Expected zero balance before approval, got %s", balance.String())
	}

	image, err := service.GetProofImage(ctx, record.ProofImages[0].Id)
	if err != nil {
		t.Fatalf("GetProofImage failed: %v", err)
	}
	if image.ContentType != "image/png" || string(image.Data) != "\x89PNG\r\n\x1a\nfake" {
		t.Errorf("Unexpected proof image %s (%s)", image.FileName, image.ContentType)
	}

	deposits, err := service.ListDeposits(ctx, "user1")
	if err != nil {
		t.Fatalf("ListDeposits failed: %v", err)
	}
	if len(deposits) != 1 || deposits[0].Id != record.Id {
		t.Fatalf("Expected the created deposit to be listed, got %+v", deposits)
	}
	if len(deposits[0].ProofImages) != 2 {
		t.Errorf("Expected listed deposit to carry 2 proof images, got %d", len(deposits[0].ProofImages))
	}
	if deposits[0].ProofImages[0].Data != nil {
		t.Errorf("Expected listing to omit image bytes")
	}
}

func TestCreateDepositRejectsBadInput(t *testing.T) {
	service := setupServiceTestDb(t)
	ctx := context.Background()

	if _, err := service.CreateDeposit(ctx, newDepositParams("REF1")); err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*store.CreateDepositParams)
		wantErr error
	}{
		{"zero amount", func(p *store.CreateDepositParams) { p.Amount = decimal.Zero }, store.ErrInvalidAmount},
		{"unknown user", func(p *store.CreateDepositParams) { p.UserId = "ghost" }, store.ErrUserNotFound},
		{"reused reference", func(p *store.CreateDepositParams) { p.UpiRefNumber = "REF1" }, store.ErrDuplicateReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := newDepositParams("REF-new")
			tt.mutate(&params)

			_, err := service.CreateDeposit(ctx, params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApproveDeposit(t *testing.T) {
	service := setupServiceTestDb(t)
	ctx := context.Background()

	record, err := service.CreateDeposit(ctx, newDepositParams("REF1"))
	if err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}

	approved, err := service.ApproveDeposit(ctx, record.Id)
	if err != nil {
		t.Fatalf("ApproveDeposit failed: %v", err)
	}
	if approved.Status != models.StatusCompleted {
		t.Errorf("Expected status Completed, got %s", approved.Status)
	}

	balance, err := service.GetUserBalance(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUserBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance 500, got %s", balance.String())
	}

	// approving twice must not credit twice
	if _, err := service.ApproveDeposit(ctx, record.Id); !errors.Is(err, store.ErrAlreadyReviewed) {
		t.Errorf("Expected ErrAlreadyReviewed, got %v", err)
	}
	if _, err := service.RejectDeposit(ctx, record.Id, "late"); !errors.Is(err, store.ErrAlreadyReviewed) {
		t.Errorf("Expected ErrAlreadyReviewed on reject after approve, got %v", err)
	}

	balance, _ = service.GetUserBalance(ctx, "user1")
	if !balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance to stay 500, got %s", balance.String())
	}
}

func TestRejectDeposit(t *testing.T) {
	service := setupServiceTestDb(t)
	ctx := context.Background()

	record, err := service.CreateDeposit(ctx, newDepositParams("REF1"))
	if err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}

	rejected, err := service.RejectDeposit(ctx, record.Id, "Reference not found in bank statement")
	if err != nil {
		t.Fatalf("RejectDeposit failed: %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Errorf("Expected status Rejected, got %s", rejected.Status)
	}
	if rejected.RejectionReason != "Reference not found in bank statement" {
		t.Errorf("Unexpected rejection reason %q", rejected.RejectionReason)
	}

	// a rejected reference can be submitted again
	if _, err := service.CreateDeposit(ctx, newDepositParams("REF1")); err != nil {
		t.Errorf("Expected resubmission of rejected reference to succeed, got %v", err)
	}

	if _, err := service.RejectDeposit(ctx, "missing", "x"); !errors.Is(err, store.ErrDepositNotFound) {
		t.Errorf("Expected ErrDepositNotFound, got %v", err)
	}
	if _, err := service.GetProofImage(ctx, "missing"); !errors.Is(err, store.ErrProofImageNotFound) {
		t.Errorf("Expected ErrProofImageNotFound, got %v", err)
	}
}
