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

package database

const (
	// User queries
	queryGetActiveUsers = `
		SELECT id, name, email, role, upi_id, created_at, updated_at
		FROM users
		WHERE active = 1
		ORDER BY created_at`

	queryInsertUser = `
		INSERT OR IGNORE INTO users (id, name, email, role, upi_id) VALUES (?, ?, ?, ?, ?)`

	queryGetUserById = `
		SELECT id, name, email, role, upi_id, created_at, updated_at
		FROM users
		WHERE id = ? AND active = 1`

	queryGetUserByEmail = `
		SELECT id, name, email, role, upi_id, created_at, updated_at
		FROM users
		WHERE email = ? AND active = 1`

	// Deposit queries
	queryCheckDuplicateReference = `
		SELECT id FROM deposit_requests WHERE upi_ref_number = ? AND status != 'Rejected' LIMIT 1`

	queryInsertDeposit = `
		INSERT INTO deposit_requests (id, user_id, amount, status, upi_ref_number, admin_upi_id, user_upi_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryInsertProofImage = `
		INSERT INTO proof_images (id, deposit_id, file_name, content_type, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetDeposit = `
		SELECT id, user_id, amount, status, upi_ref_number, admin_upi_id, user_upi_id,
		       COALESCE(rejection_reason, ''), created_at, updated_at
		FROM deposit_requests
		WHERE id = ?`

	queryListDeposits = `
		SELECT id, user_id, amount, status, upi_ref_number, admin_upi_id, user_upi_id,
		       COALESCE(rejection_reason, ''), created_at, updated_at
		FROM deposit_requests
		WHERE user_id = ?
		ORDER BY created_at DESC`

	queryListProofImageMeta = `
		SELECT id, deposit_id, file_name, content_type, created_at
		FROM proof_images
		WHERE deposit_id = ?
		ORDER BY created_at, file_name`

	queryGetProofImage = `
		SELECT id, deposit_id, file_name, content_type, data, created_at
		FROM proof_images
		WHERE id = ?`

	queryReviewDeposit = `
		UPDATE deposit_requests
		SET status = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND status = 'Review'`

	// Withdrawal queries
	queryInsertWithdrawal = `
		INSERT INTO withdrawal_requests (id, user_id, amount, status, upi_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetWithdrawal = `
		SELECT id, user_id, amount, status, upi_id, COALESCE(rejection_reason, ''), created_at, updated_at
		FROM withdrawal_requests
		WHERE id = ?`

	queryListWithdrawals = `
		SELECT id, user_id, amount, status, upi_id, COALESCE(rejection_reason, ''), created_at, updated_at
		FROM withdrawal_requests
		WHERE user_id = ?
		ORDER BY created_at DESC`

	queryReviewWithdrawal = `
		UPDATE withdrawal_requests
		SET status = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND status = 'Pending'`

	// Earning queries
	queryInsertEarning = `
		INSERT INTO earnings (id, user_id, task_id, task_title, amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryListEarnings = `
		SELECT id, user_id, task_id, task_title, amount, status, created_at
		FROM earnings
		WHERE user_id = ?
		ORDER BY created_at DESC`

	// Balance queries
	queryGetBalance = `
		SELECT balance
		FROM account_balances
		WHERE user_id = ? AND asset = ?`

	queryReconcileAmounts = `
		SELECT amount
		FROM transactions
		WHERE user_id = ? AND asset = ? AND status = 'confirmed'`

	// Transaction queries
	queryCheckDuplicateTransaction = `
		SELECT id FROM transactions WHERE external_transaction_id = ? LIMIT 1`

	queryGetAccountBalance = `
		SELECT id, balance, version
		FROM account_balances
		WHERE user_id = ? AND asset = ?`

	queryInsertAccountBalance = `
		INSERT INTO account_balances (id, user_id, asset, balance, version)
		VALUES (?, ?, ?, ?, ?)`

	queryInsertTransaction = `
		INSERT INTO transactions (
			id, user_id, asset, transaction_type, amount, balance_before, balance_after,
			external_transaction_id, reference, status, created_at, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryUpdateAccountBalance = `
		UPDATE account_balances
		SET balance = ?, last_transaction_id = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND asset = ? AND version = ?`

	queryInsertJournalEntry = `
		INSERT INTO journal_entries (id, transaction_id, account_type, account_id, debit_amount, credit_amount)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetTransactionHistory = `
		SELECT id, user_id, asset, transaction_type, amount, balance_before, balance_after,
		       COALESCE(external_transaction_id, ''), COALESCE(reference, ''), status, created_at, processed_at
		FROM transactions
		WHERE user_id = ? AND asset = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`
)
