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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/transport"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultWithdrawalMessage = "Withdrawal request submitted successfully"

type withdrawalPayload struct {
	Amount json.Number `json:"amount"`
}

type withdrawalReply struct {
	Success           *bool                     `json:"success"`
	Message           string                    `json:"message"`
	WithdrawalRequest *models.WithdrawalRequest `json:"withdrawalRequest"`
	NewBalance        *decimal.Decimal          `json:"newBalance"`
}

// RequestWithdrawal asks the backend to pay amount out to the caller's UPI ID.
// The amount is not checked here; limits and balance checks belong to the backend,
// whose rejection message is returned verbatim in an *transport.APIError.
func (c *BalanceClient) RequestWithdrawal(ctx context.Context, amount decimal.Decimal) (*models.WithdrawalResult, error) {
	zap.L().Info("Submitting withdrawal request", zap.String("amount", amount.String()))

	status, body, err := c.http.DoRaw(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   pathWithdraw,
		Body:   withdrawalPayload{Amount: json.Number(amount.String())},
	})
	if err != nil {
		zap.L().Error("Withdrawal request failed", zap.String("amount", amount.String()), zap.Error(err))
		return nil, err
	}

	var reply withdrawalReply
	if len(bytes.TrimSpace(body)) > 0 {
		if err := decodeReply(body, &reply); err != nil {
			return nil, &transport.APIError{
				Status:  status,
				Message: transport.GenericErrorMessage,
				Err:     fmt.Errorf("unable to decode withdrawal response: %w", err),
			}
		}
	}

	if reply.Success != nil && !*reply.Success {
		message := reply.Message
		if message == "" {
			message = transport.GenericErrorMessage
		}
		return nil, &transport.APIError{Status: status, Message: message}
	}

	result := &models.WithdrawalResult{
		Success:           true,
		Message:           reply.Message,
		WithdrawalRequest: reply.WithdrawalRequest,
		NewBalance:        reply.NewBalance,
	}
	if result.Message == "" {
		result.Message = DefaultWithdrawalMessage
	}

	fields := []zap.Field{zap.String("amount", amount.String())}
	if result.WithdrawalRequest != nil {
		fields = append(fields, zap.String("withdrawal_id", result.WithdrawalRequest.Id))
	}
	zap.L().Info("Withdrawal request submitted", fields...)
	return result, nil
}
