package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleWorker = "worker"
	RoleAdmin  = "admin"

	// DefaultCurrency is the only asset the sandbox subledger tracks
	DefaultCurrency = "INR"
)

// User represents a marketplace account in the sandbox backend
type User struct {
	Id        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	UpiId     string    `db:"upi_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AccountBalance represents current balance state (hot data)
type AccountBalance struct {
	Id                string          `db:"id"`
	UserId            string          `db:"user_id"`
	Asset             string          `db:"asset"`
	Balance           decimal.Decimal `db:"balance"`
	LastTransactionId string          `db:"last_transaction_id"`
	Version           int64           `db:"version"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// LedgerEntry represents immutable subledger history (cold data)
type LedgerEntry struct {
	Id                    string          `db:"id"`
	UserId                string          `db:"user_id"`
	Asset                 string          `db:"asset"`
	TransactionType       string          `db:"transaction_type"`
	Amount                decimal.Decimal `db:"amount"`
	BalanceBefore         decimal.Decimal `db:"balance_before"`
	BalanceAfter          decimal.Decimal `db:"balance_after"`
	ExternalTransactionId string          `db:"external_transaction_id"`
	Reference             string          `db:"reference"`
	Status                string          `db:"status"`
	CreatedAt             time.Time       `db:"created_at"`
	ProcessedAt           time.Time       `db:"processed_at"`
}

// DepositRecord is a deposit claim awaiting or past admin review
type DepositRecord struct {
	Id              string            `db:"id"`
	UserId          string            `db:"user_id"`
	Amount          decimal.Decimal   `db:"amount"`
	Status          TransactionStatus `db:"status"`
	UpiRefNumber    string            `db:"upi_ref_number"`
	AdminUpiId      string            `db:"admin_upi_id"`
	UserUpiId       string            `db:"user_upi_id"`
	RejectionReason string            `db:"rejection_reason"`
	CreatedAt       Timestamp         `db:"created_at"`
	UpdatedAt       Timestamp         `db:"updated_at"`
	ProofImages     []ProofImageRecord
}

// ProofImageRecord is a decoded proof image attached to a deposit
type ProofImageRecord struct {
	Id          string    `db:"id"`
	DepositId   string    `db:"deposit_id"`
	FileName    string    `db:"file_name"`
	ContentType string    `db:"content_type"`
	Data        []byte    `db:"data"`
	CreatedAt   time.Time `db:"created_at"`
}

// EarningRecord is a task payout credited (or pending credit) to a worker
type EarningRecord struct {
	Id        string            `db:"id"`
	UserId    string            `db:"user_id"`
	TaskId    string            `db:"task_id"`
	TaskTitle string            `db:"task_title"`
	Amount    decimal.Decimal   `db:"amount"`
	Status    TransactionStatus `db:"status"`
	CreatedAt Timestamp         `db:"created_at"`
}
