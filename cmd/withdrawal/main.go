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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"upi-balance-go/internal/common"
	"upi-balance-go/internal/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func parseAmount() (decimal.Decimal, error) {
	amountFlag := flag.String("amount", "", "Amount to withdraw to your UPI id (required)")
	flag.Parse()

	if *amountFlag == "" {
		return decimal.Zero, fmt.Errorf("--amount is required")
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format: %w", err)
	}
	return amount, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	amount, err := parseAmount()
	if err != nil {
		logger.Fatal("Invalid withdrawal flags", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	client, err := common.InitializeClient(cfg, nil)
	if err != nil {
		logger.Fatal("Failed to initialize client", zap.Error(err))
	}

	// Limits and available balance are enforced by the backend.
	logger.Info("Submitting withdrawal request", zap.String("amount", amount.String()))
	result, err := client.RequestWithdrawal(ctx, amount)
	if err != nil {
		common.ReportClientError(logger, "Withdrawal request", cfg.Client.TokenEnv, err)
	}

	common.PrintHeader("WITHDRAWAL REQUESTED", common.DefaultWidth)
	fmt.Printf("Message:      %s\n", result.Message)
	if req := result.WithdrawalRequest; req != nil {
		fmt.Printf("Request ID:   %s\n", req.Id)
		fmt.Printf("Amount:       %s\n", common.FormatINR(req.Amount))
		fmt.Printf("Status:       %s\n", req.Status)
		if req.UpiId != "" {
			fmt.Printf("Paid to:      %s\n", req.UpiId)
		}
	}
	if result.NewBalance != nil {
		fmt.Printf("New balance:  %s\n", common.FormatINR(*result.NewBalance))
	}
	common.PrintFooter("Payouts are sent after admin review.", common.DefaultWidth)
}
