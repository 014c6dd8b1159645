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

	"go.uber.org/zap"
)

const DefaultDepositMessage = "Deposit request submitted successfully"

type depositPayload struct {
	Amount       json.Number         `json:"amount"`
	UpiId        string              `json:"upiId"`
	AdminUpiId   string              `json:"adminUpiId"`
	UpiRefNumber string              `json:"upiRefNumber"`
	ProofImages  []models.ProofImage `json:"proofImages"`
}

type depositReply struct {
	Success     *bool                     `json:"success"`
	Message     string                    `json:"message"`
	Transaction models.DepositTransaction `json:"transaction"`
}

// RequestDeposit validates req, strips data-URI headers from the proof images
// and submits it once. Validation failures never reach the network.
func (c *BalanceClient) RequestDeposit(ctx context.Context, req models.DepositRequest) (*models.DepositResponse, error) {
	// Validate what will be sent: a bare data-URI header carries no image.
	stripped := req
	stripped.ProofImages = make([]models.ProofImage, len(req.ProofImages))
	for i, img := range req.ProofImages {
		stripped.ProofImages[i] = models.ProofImage{
			FileName:   img.FileName,
			Base64Data: stripDataURI(img.Base64Data),
		}
	}

	if err := c.validator.Check(stripped); err != nil {
		zap.L().Info("Deposit request failed validation", zap.Error(err))
		return nil, err
	}

	payload := depositPayload{
		Amount:       json.Number(req.Amount.String()),
		UpiId:        req.UpiId,
		AdminUpiId:   req.AdminUpiId,
		UpiRefNumber: req.UpiRefNumber,
		ProofImages:  stripped.ProofImages,
	}

	zap.L().Info("Submitting deposit request",
		zap.String("amount", req.Amount.String()),
		zap.String("upi_ref_number", req.UpiRefNumber),
		zap.Int("proof_images", len(payload.ProofImages)))

	status, body, err := c.http.DoRaw(ctx, transport.Request{
		Method:  http.MethodPost,
		Path:    pathDeposit,
		Body:    payload,
		Timeout: c.depositTimeout,
	})
	if err != nil {
		zap.L().Error("Deposit request failed", zap.String("upi_ref_number", req.UpiRefNumber), zap.Error(err))
		return nil, err
	}

	var reply depositReply
	if len(bytes.TrimSpace(body)) > 0 {
		if err := decodeReply(body, &reply); err != nil {
			return nil, &transport.APIError{
				Status:  status,
				Message: transport.GenericErrorMessage,
				Err:     fmt.Errorf("unable to decode deposit response: %w", err),
			}
		}
	}

	if reply.Success != nil && !*reply.Success {
		message := reply.Message
		if message == "" {
			message = transport.GenericErrorMessage
		}
		zap.L().Warn("Deposit request declined", zap.Int("status", status), zap.String("message", message))
		return nil, &transport.APIError{Status: status, Message: message}
	}

	response := &models.DepositResponse{
		Success:     true,
		Message:     reply.Message,
		Transaction: reply.Transaction,
	}
	if response.Message == "" {
		response.Message = DefaultDepositMessage
	}

	zap.L().Info("Deposit request submitted",
		zap.String("transaction_id", response.Transaction.Id),
		zap.String("status", string(response.Transaction.Status)))
	return response, nil
}
