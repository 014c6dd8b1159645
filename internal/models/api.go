/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement shown in a user's history
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "Deposit"
	TransactionTypeWithdraw TransactionType = "Withdraw"
	TransactionTypeEarning  TransactionType = "Earning"
)

// TransactionStatus is the backend-authoritative state of a history entry
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "Completed"
	StatusRejected  TransactionStatus = "Rejected"
	StatusReview    TransactionStatus = "Review"
	StatusPending   TransactionStatus = "Pending"
)

// TransactionCategory separates deposits/withdrawals from task earnings
type TransactionCategory string

const (
	CategoryTransaction TransactionCategory = "transaction"
	CategoryEarning     TransactionCategory = "earning"
)

// Balance is a snapshot of the caller's wallet
type Balance struct {
	Balance          decimal.Decimal `json:"balance"`
	UserId           string          `json:"userId"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
}

// Transaction is a single deposit, withdrawal or earning entry
type Transaction struct {
	Id        string              `json:"id"`
	Type      TransactionType     `json:"type"`
	Date      Timestamp           `json:"date"`
	Amount    decimal.Decimal     `json:"amount"`
	Status    TransactionStatus   `json:"status"`
	Method    string              `json:"method,omitempty"`
	TaskTitle string              `json:"taskTitle,omitempty"`
	Category  TransactionCategory `json:"category"`
}

// BalanceHistory groups deposits/withdrawals and earnings.
// CombinedHistory is expected most-recent-first but the order is not enforced on decode.
type BalanceHistory struct {
	Transactions    []Transaction `json:"transactions"`
	Earnings        []Transaction `json:"earnings"`
	CombinedHistory []Transaction `json:"combinedHistory"`
}

// EarningEntry is one task payout in the user balance summary
type EarningEntry struct {
	TaskName string            `json:"taskName"`
	Date     Timestamp         `json:"date"`
	Amount   decimal.Decimal   `json:"amount"`
	Status   TransactionStatus `json:"status"`
	TaskId   string            `json:"taskId"`
}

// UserBalanceSummary is the aggregated earnings view
type UserBalanceSummary struct {
	UserId           string          `json:"userId"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings"`
	Pending          decimal.Decimal `json:"pending"`
	EarningsHistory  []EarningEntry  `json:"earningsHistory"`
}

// WithdrawalRequest is a payout request and its review state
type WithdrawalRequest struct {
	Id              string            `json:"id" db:"id"`
	UserId          string            `json:"userId" db:"user_id"`
	Amount          decimal.Decimal   `json:"amount" db:"amount"`
	Status          TransactionStatus `json:"status" db:"status"`
	UpiId           string            `json:"upiId,omitempty" db:"upi_id"`
	RejectionReason string            `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       Timestamp         `json:"createdAt" db:"created_at"`
	UpdatedAt       Timestamp         `json:"updatedAt" db:"updated_at"`
}

// WithdrawalResult is returned after the backend accepts a withdrawal request
type WithdrawalResult struct {
	Success           bool               `json:"success"`
	Message           string             `json:"message"`
	WithdrawalRequest *WithdrawalRequest `json:"withdrawalRequest,omitempty"`
	NewBalance        *decimal.Decimal   `json:"newBalance,omitempty"`
}

// ProofImage is a deposit proof as sent by the client
type ProofImage struct {
	FileName   string `json:"fileName" validate:"required"`
	Base64Data string `json:"base64Data" validate:"required"`
}

// DepositRequest is constructed by the caller, validated and sent once.
// Field order is the validation order.
type DepositRequest struct {
	Amount       decimal.Decimal `json:"amount" validate:"required,gt=0"`
	UpiId        string          `json:"upiId" validate:"required"`
	AdminUpiId   string          `json:"adminUpiId" validate:"required"`
	UpiRefNumber string          `json:"upiRefNumber" validate:"required"`
	ProofImages  []ProofImage    `json:"proofImages" validate:"required,min=1,dive"`
}

// StoredProofImage is a proof image after the backend persisted it
type StoredProofImage struct {
	Id       string `json:"id"`
	ImageUrl string `json:"imageUrl"`
	FileName string `json:"fileName"`
}

// DepositTransaction is the server-side record of a deposit request
type DepositTransaction struct {
	Id           string             `json:"id"`
	Amount       decimal.Decimal    `json:"amount"`
	Status       TransactionStatus  `json:"status"`
	UpiRefNumber string             `json:"upiRefNumber"`
	AdminUpiId   string             `json:"adminUpiId"`
	UserUpiId    string             `json:"userUpiId"`
	ProofImages  []StoredProofImage `json:"proofImages"`
}

// DepositResponse is the normalized result of a deposit submission
type DepositResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Transaction DepositTransaction `json:"transaction"`
}
