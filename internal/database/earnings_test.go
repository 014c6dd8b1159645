package database

import (
	"context"
	"errors"
	"testing"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestRecordEarning(t *testing.T) {
	service := setupServiceTestDb(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		params      store.RecordEarningParams
		wantBalance decimal.Decimal
		wantErr     bool
	}{
		{
			name:        "completed earning is credited",
			params:      store.RecordEarningParams{UserId: "user1", TaskId: "t1", TaskTitle: "Label images", Amount: decimal.NewFromInt(40)},
			wantBalance: decimal.NewFromInt(40),
		},
		{
			name:        "pending earning is not credited",
			params:      store.RecordEarningParams{UserId: "user1", TaskId: "t2", TaskTitle: "Survey", Amount: decimal.NewFromInt(15), Status: models.StatusPending},
			wantBalance: decimal.NewFromInt(40),
		},
		{
			name:        "rejected status is not accepted",
			params:      store.RecordEarningParams{UserId: "user1", TaskId: "t3", TaskTitle: "Survey", Amount: decimal.NewFromInt(15), Status: models.StatusRejected},
			wantBalance: decimal.NewFromInt(40),
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.RecordEarning(ctx, tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RecordEarning error = %v, wantErr %v", err, tt.wantErr)
			}

			balance, err := service.GetUserBalance(ctx, "user1")
			if err != nil {
				t.Fatalf("GetUserBalance failed: %v", err)
			}
			if !balance.Equal(tt.wantBalance) {
				t.Errorf("Expected balance %s, got %s", tt.wantBalance.String(), balance.String())
			}
		})
	}

	earnings, err := service.ListEarnings(ctx, "user1")
	if err != nil {
		t.Fatalf("ListEarnings failed: %v", err)
	}
	if len(earnings) != 2 {
		t.Fatalf("Expected 2 earnings, got %d", len(earnings))
	}
	if earnings[0].TaskId != "t2" {
		t.Errorf("Expected newest earning first, got %s", earnings[0].TaskId)
	}

	if _, err := service.RecordEarning(ctx, store.RecordEarningParams{UserId: "user1", Amount: decimal.Zero}); !errors.Is(err, store.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}
