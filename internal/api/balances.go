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

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/transport"

	"go.uber.org/zap"
)

// GetBalance returns the caller's current balance snapshot
func (c *BalanceClient) GetBalance(ctx context.Context) (*models.Balance, error) {
	var balance models.Balance
	if err := c.http.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathBalance}, &balance); err != nil {
		zap.L().Error("Failed to get balance", zap.Error(err))
		return nil, err
	}

	zap.L().Debug("Retrieved balance",
		zap.String("user_id", balance.UserId),
		zap.String("balance", balance.Balance.String()))
	return &balance, nil
}

// GetBalanceHistory returns deposits, withdrawals and earnings.
// The backend's ordering is passed through untouched.
func (c *BalanceClient) GetBalanceHistory(ctx context.Context) (*models.BalanceHistory, error) {
	var history models.BalanceHistory
	if err := c.http.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathMoneyHistory}, &history); err != nil {
		zap.L().Error("Failed to get balance history", zap.Error(err))
		return nil, err
	}

	zap.L().Debug("Retrieved balance history",
		zap.Int("transactions", len(history.Transactions)),
		zap.Int("earnings", len(history.Earnings)),
		zap.Int("combined", len(history.CombinedHistory)))
	return &history, nil
}

// GetUserBalanceSummary returns the aggregated earnings view
func (c *BalanceClient) GetUserBalanceSummary(ctx context.Context) (*models.UserBalanceSummary, error) {
	var summary models.UserBalanceSummary
	if err := c.http.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathUserSummary}, &summary); err != nil {
		zap.L().Error("Failed to get user balance summary", zap.Error(err))
		return nil, err
	}
	return &summary, nil
}

// GetUserWithdrawalRequests returns every withdrawal request of the caller.
// Accepts a bare array or an object carrying withdrawalRequests.
func (c *BalanceClient) GetUserWithdrawalRequests(ctx context.Context) ([]models.WithdrawalRequest, error) {
	var raw json.RawMessage
	if err := c.http.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathWithdrawalRequests}, &raw); err != nil {
		zap.L().Error("Failed to get withdrawal requests", zap.Error(err))
		return nil, err
	}

	requests, err := decodeWithdrawalRequests(raw)
	if err != nil {
		zap.L().Error("Failed to decode withdrawal requests", zap.Error(err))
		return nil, &transport.APIError{Status: http.StatusOK, Message: transport.GenericErrorMessage, Err: err}
	}

	zap.L().Debug("Retrieved withdrawal requests", zap.Int("count", len(requests)))
	return requests, nil
}

func decodeWithdrawalRequests(raw json.RawMessage) ([]models.WithdrawalRequest, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []models.WithdrawalRequest{}, nil
	}

	var list []models.WithdrawalRequest
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var envelope struct {
		WithdrawalRequests []models.WithdrawalRequest `json:"withdrawalRequests"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if envelope.WithdrawalRequests == nil {
		return []models.WithdrawalRequest{}, nil
	}
	return envelope.WithdrawalRequests, nil
}
