package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*SubledgerService, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	pinSingleConnection(db)

	service := NewSubledgerService(db)

	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func TestProcessTransaction_Deposit(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	amount := decimal.RequireFromString("1500.50")

	result, err := service.ProcessTransaction(ctx, ProcessTransactionParams{
		UserId: "user1", TransactionType: txTypeDeposit, Amount: amount, ExternalTxId: "tx1", Reference: "UPI REF1",
	})
	if err != nil {
		t.Fatalf("ProcessTransaction failed: %v", err)
	}

	if result.UserId != "user1" {
		t.Errorf("Expected userId user1, got %s", result.UserId)
	}
	if result.Asset != "INR" {
		t.Errorf("Expected default asset INR, got %s", result.Asset)
	}
	if !result.Amount.Equal(amount) {
		t.Errorf("Expected amount %s, got %s", amount.String(), result.Amount.String())
	}
	if !result.BalanceAfter.Equal(amount) {
		t.Errorf("Expected balance %s, got %s", amount.String(), result.BalanceAfter.String())
	}

	balance, err := service.GetBalance(ctx, "user1", "INR")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(amount) {
		t.Errorf("Expected stored balance %s, got %s", amount.String(), balance.String())
	}
}

func TestProcessTransaction_Withdrawal(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.ProcessTransaction(ctx, ProcessTransactionParams{
		UserId: "user1", TransactionType: txTypeDeposit, Amount: decimal.NewFromInt(2000), ExternalTxId: "tx1",
	})
	if err != nil {
		t.Fatalf("Initial deposit failed: %v", err)
	}

	result, err := service.ProcessTransaction(ctx, ProcessTransactionParams{
		UserId: "user1", TransactionType: txTypeWithdrawal, Amount: decimal.NewFromInt(-500), ExternalTxId: "tx2", RejectOverdraft: true,
	})
	if err != nil {
		t.Fatalf("ProcessTransaction withdrawal failed: %v", err)
	}

	expectedBalance := decimal.NewFromInt(1500)
	if !result.BalanceAfter.Equal(expectedBalance) {
		t.Errorf("Expected balance %s, got %s", expectedBalance.String(), result.BalanceAfter.String())
	}
	if !result.BalanceBefore.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected balance before 2000, got %s", result.BalanceBefore.String())
	}
}

func TestProcessTransaction_DuplicateHandling(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	params := ProcessTransactionParams{
		UserId: "user1", TransactionType: txTypeDeposit, Amount: decimal.NewFromInt(100), ExternalTxId: "duplicate-tx",
	}

	if _, err := service.ProcessTransaction(ctx, params); err != nil {
		t.Fatalf("First ProcessTransaction failed: %v", err)
	}

	_, err := service.ProcessTransaction(ctx, params)
	if err == nil {
		t.Fatalf("Expected duplicate transaction error, got nil")
	}
	if !errors.Is(err, ErrDuplicateTransaction) {
		t.Errorf("Expected duplicate transaction error, got: %v", err)
	}
}

func TestProcessTransaction_OverdraftRejected(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.ProcessTransaction(ctx, ProcessTransactionParams{
		UserId: "user1", TransactionType: txTypeDeposit, Amount: decimal.NewFromInt(100), ExternalTxId: "tx1",
	})
	if err != nil {
		t.Fatalf("Initial deposit failed: %v", err)
	}

	_, err = service.ProcessTransaction(ctx, ProcessTransactionParams{
		UserId: "user1", TransactionType: txTypeWithdrawal, Amount: decimal.NewFromInt(-101), ExternalTxId: "tx2", RejectOverdraft: true,
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("Expected insufficient balance error, got: %v", err)
	}

	balance, err := service.GetBalance(ctx, "user1", "INR")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance to stay 100, got %s", balance.String())
	}
}

func TestProcessTransaction_NegativeBalanceAllowedWithoutGuard(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	withdrawalAmount := decimal.NewFromInt(-10)
	result, err := service.ProcessTransaction(context.Background(), ProcessTransactionParams{
		UserId: "user1", TransactionType: txTypeWithdrawal, Amount: withdrawalAmount, ExternalTxId: "tx1",
	})
	if err != nil {
		t.Fatalf("ProcessTransaction with negative balance failed: %v", err)
	}

	if !result.BalanceAfter.Equal(withdrawalAmount) {
		t.Errorf("Expected negative balance %s, got %s", withdrawalAmount.String(), result.BalanceAfter.String())
	}
}

func TestProcessTransaction_JournalBalances(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	entries := []ProcessTransactionParams{
		{UserId: "user1", TransactionType: txTypeDeposit, Amount: decimal.NewFromInt(300), ExternalTxId: "tx1"},
		{UserId: "user1", TransactionType: txTypeWithdrawal, Amount: decimal.NewFromInt(-120), ExternalTxId: "tx2"},
		{UserId: "user1", TransactionType: txTypeEarning, Amount: decimal.RequireFromString("45.5"), ExternalTxId: "tx3"},
	}
	for _, params := range entries {
		if _, err := service.ProcessTransaction(ctx, params); err != nil {
			t.Fatalf("ProcessTransaction failed: %v", err)
		}
	}

	rows, err := service.db.QueryContext(ctx, "SELECT debit_amount, credit_amount FROM journal_entries")
	if err != nil {
		t.Fatalf("Failed to query journal: %v", err)
	}
	defer rows.Close()

	debits, credits := decimal.Zero, decimal.Zero
	count := 0
	for rows.Next() {
		var debitStr, creditStr string
		if err := rows.Scan(&debitStr, &creditStr); err != nil {
			t.Fatalf("Failed to scan journal entry: %v", err)
		}
		debits = debits.Add(decimal.RequireFromString(debitStr))
		credits = credits.Add(decimal.RequireFromString(creditStr))
		count++
	}

	if count != 6 {
		t.Errorf("Expected 6 journal lines, got %d", count)
	}
	if !debits.Equal(credits) {
		t.Errorf("Journal out of balance: debits=%s credits=%s", debits.String(), credits.String())
	}
}

func TestGetTransactionHistory(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	for i, amount := range []int64{100, -40, 25} {
		_, err := service.ProcessTransaction(ctx, ProcessTransactionParams{
			UserId: "user1", TransactionType: txTypeDeposit, Amount: decimal.NewFromInt(amount),
			ExternalTxId: "tx" + string(rune('a'+i)),
		})
		if err != nil {
			t.Fatalf("ProcessTransaction failed: %v", err)
		}
	}

	history, err := service.GetTransactionHistory(ctx, "user1", "INR", 2, 0)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 entries with limit 2, got %d", len(history))
	}
	if !history[0].Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected most recent entry first, got amount %s", history[0].Amount.String())
	}
	if !history[0].BalanceAfter.Equal(decimal.NewFromInt(85)) {
		t.Errorf("Expected running balance 85, got %s", history[0].BalanceAfter.String())
	}

	if err := service.ReconcileBalance(ctx, "user1", "INR"); err != nil {
		t.Errorf("ReconcileBalance failed: %v", err)
	}
}
