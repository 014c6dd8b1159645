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
	"strings"
	"syscall"

	"upi-balance-go/internal/api"
	"upi-balance-go/internal/common"
	"upi-balance-go/internal/config"
	"upi-balance-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func parseFlags() (*models.DepositRequest, error) {
	amountFlag := flag.String("amount", "", "Amount sent over UPI (required)")
	upiIdFlag := flag.String("upi-id", "", "Your UPI id the payment came from (required)")
	adminUpiFlag := flag.String("admin-upi-id", "", "UPI id the payment was sent to (required)")
	refFlag := flag.String("ref", "", "UPI reference number from the payment app (required)")
	proofFlag := flag.String("proof", "", "Comma-separated PNG/JPEG screenshots of the payment (required)")
	flag.Parse()

	// Missing fields are left for the client validator so messages match the app.
	req := &models.DepositRequest{
		UpiId:        strings.TrimSpace(*upiIdFlag),
		AdminUpiId:   strings.TrimSpace(*adminUpiFlag),
		UpiRefNumber: strings.TrimSpace(*refFlag),
	}

	if *amountFlag != "" {
		amount, err := decimal.NewFromString(*amountFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid amount format: %w", err)
		}
		req.Amount = amount
	}

	for _, path := range strings.Split(*proofFlag, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		image, err := api.LoadProofImage(path)
		if err != nil {
			return nil, err
		}
		req.ProofImages = append(req.ProofImages, image)
	}

	return req, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseFlags()
	if err != nil {
		logger.Fatal("Invalid deposit flags", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	client, err := common.InitializeClient(cfg, nil)
	if err != nil {
		logger.Fatal("Failed to initialize client", zap.Error(err))
	}

	logger.Info("Submitting deposit request",
		zap.String("amount", req.Amount.String()),
		zap.String("upi_ref_number", req.UpiRefNumber),
		zap.Int("proof_images", len(req.ProofImages)))

	result, err := client.RequestDeposit(ctx, *req)
	if err != nil {
		common.ReportClientError(logger, "Deposit request", cfg.Client.TokenEnv, err)
	}

	common.PrintHeader("DEPOSIT SUBMITTED", common.DefaultWidth)
	fmt.Printf("Message:        %s\n", result.Message)
	fmt.Printf("Deposit ID:     %s\n", result.Transaction.Id)
	fmt.Printf("Amount:         %s\n", common.FormatINR(result.Transaction.Amount))
	fmt.Printf("Status:         %s\n", result.Transaction.Status)
	fmt.Printf("UPI reference:  %s\n", result.Transaction.UpiRefNumber)
	for i, img := range result.Transaction.ProofImages {
		fmt.Printf("%s %s %s\n", common.BoxPrefix(i == len(result.Transaction.ProofImages)-1), img.FileName, img.ImageUrl)
	}
	common.PrintFooter("Funds are credited once an admin reviews the proof.", common.DefaultWidth)
}
