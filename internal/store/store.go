package store

import (
	"context"
	"errors"

	"upi-balance-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared by all LedgerStore backends
var (
	ErrDuplicateTransaction   = errors.New("duplicate transaction")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrUserNotFound           = errors.New("user not found")
	ErrDepositNotFound        = errors.New("deposit request not found")
	ErrWithdrawalNotFound     = errors.New("withdrawal request not found")
	ErrProofImageNotFound     = errors.New("proof image not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrAlreadyReviewed        = errors.New("request has already been reviewed")
	ErrDuplicateReference     = errors.New("upi reference number already submitted")
)

// CreateUserParams contains the parameters for registering a marketplace user.
type CreateUserParams struct {
	Id    string
	Name  string
	Email string
	Role  string
	UpiId string
}

// ProofImageParams is a decoded proof image ready to persist.
type ProofImageParams struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CreateDepositParams captures a deposit claim submitted for admin review.
type CreateDepositParams struct {
	UserId       string
	Amount       decimal.Decimal
	UpiRefNumber string
	AdminUpiId   string
	UserUpiId    string
	ProofImages  []ProofImageParams
}

// CreateWithdrawalParams captures a payout request. The amount is debited
// immediately and credited back if an admin rejects the request.
type CreateWithdrawalParams struct {
	UserId string
	Amount decimal.Decimal
	UpiId  string
}

// RecordEarningParams captures a task payout. Only Completed earnings move the balance.
type RecordEarningParams struct {
	UserId    string
	TaskId    string
	TaskTitle string
	Amount    decimal.Decimal
	Status    models.TransactionStatus
}

// BalanceTotals is the wallet snapshot served on GET /balance
type BalanceTotals struct {
	Balance          decimal.Decimal
	TotalDeposits    decimal.Decimal
	TotalWithdrawals decimal.Decimal
}

// LedgerStore defines the contract the sandbox backend persists through.
type LedgerStore interface {
	// --- Users ---
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)

	// --- Balances ---
	GetUserBalance(ctx context.Context, userId string) (decimal.Decimal, error)
	GetBalanceTotals(ctx context.Context, userId string) (*BalanceTotals, error)
	GetLedgerHistory(ctx context.Context, userId string, limit, offset int) ([]models.LedgerEntry, error)
	ReconcileUserBalance(ctx context.Context, userId string) error

	// --- Deposits ---
	CreateDeposit(ctx context.Context, params CreateDepositParams) (*models.DepositRecord, error)
	GetDeposit(ctx context.Context, depositId string) (*models.DepositRecord, error)
	ListDeposits(ctx context.Context, userId string) ([]models.DepositRecord, error)
	ApproveDeposit(ctx context.Context, depositId string) (*models.DepositRecord, error)
	RejectDeposit(ctx context.Context, depositId, reason string) (*models.DepositRecord, error)
	GetProofImage(ctx context.Context, imageId string) (*models.ProofImageRecord, error)

	// --- Withdrawals ---
	CreateWithdrawal(ctx context.Context, params CreateWithdrawalParams) (*models.WithdrawalRequest, decimal.Decimal, error)
	ListWithdrawals(ctx context.Context, userId string) ([]models.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, withdrawalId string) (*models.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, withdrawalId, reason string) (*models.WithdrawalRequest, error)

	// --- Earnings ---
	RecordEarning(ctx context.Context, params RecordEarningParams) (*models.EarningRecord, error)
	ListEarnings(ctx context.Context, userId string) ([]models.EarningRecord, error)

	// --- Lifecycle ---
	Close()
}
