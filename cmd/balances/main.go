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
	"upi-balance-go/internal/models"

	"go.uber.org/zap"
)

func printSummary(balance *models.Balance, summary *models.UserBalanceSummary) {
	fmt.Printf("\n┌─ User: %s\n", balance.UserId)
	common.PrintBoxSeparator(78)
	fmt.Printf("%s %-20s %s\n", common.BoxPrefix(false), "Available", common.FormatINR(balance.Balance))
	fmt.Printf("%s %-20s %s\n", common.BoxPrefix(false), "Total deposits", common.FormatINR(balance.TotalDeposits))
	fmt.Printf("%s %-20s %s\n", common.BoxPrefix(false), "Total withdrawals", common.FormatINR(balance.TotalWithdrawals))
	fmt.Printf("%s %-20s %s\n", common.BoxPrefix(false), "Total earnings", common.FormatINR(summary.TotalEarnings))
	fmt.Printf("%s %-20s %s\n", common.BoxPrefix(true), "Pending earnings", common.FormatINR(summary.Pending))
}

func printEarnings(entries []models.EarningEntry, limit int) {
	if len(entries) == 0 {
		return
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	fmt.Println("\nRecent earnings")
	common.PrintBoxSeparator(78)
	for i, e := range entries {
		fmt.Printf("%s %-16s %-32s %16s  %s\n",
			common.BoxPrefix(i == len(entries)-1),
			common.FormatDate(e.Date),
			e.TaskName,
			common.FormatINR(e.Amount),
			e.Status)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	earningsFlag := flag.Int("earnings", 5, "Number of recent earnings to show (0 for all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	client, err := common.InitializeClient(cfg, nil)
	if err != nil {
		logger.Fatal("Failed to initialize client", zap.Error(err))
	}

	balance, err := client.GetBalance(ctx)
	if err != nil {
		common.ReportClientError(logger, "Balance query", cfg.Client.TokenEnv, err)
	}

	summary, err := client.GetUserBalanceSummary(ctx)
	if err != nil {
		common.ReportClientError(logger, "Balance summary query", cfg.Client.TokenEnv, err)
	}

	common.PrintHeader("BALANCE", common.DefaultWidth)
	printSummary(balance, summary)
	printEarnings(summary.EarningsHistory, *earningsFlag)
	common.PrintFooter(fmt.Sprintf("AVAILABLE: %s", common.FormatINR(balance.Balance)), common.DefaultWidth)

	logger.Info("Balance query completed",
		zap.String("user_id", balance.UserId),
		zap.String("balance", balance.Balance.String()))
}
