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

func printEntries(entries []models.Transaction, limit int) {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if len(entries) == 0 {
		fmt.Println("No transactions yet.")
		return
	}
	for _, tx := range entries {
		fmt.Println(common.FormatEntry(tx))
	}
}

func printWithdrawalRequests(requests []models.WithdrawalRequest) {
	fmt.Println("\nWithdrawal requests")
	common.PrintBoxSeparator(78)
	if len(requests) == 0 {
		fmt.Println(common.BoxPrefix(true) + "none")
		return
	}
	for i, r := range requests {
		line := fmt.Sprintf("%-16s %16s  %-10s %s", common.FormatDate(r.CreatedAt), common.FormatINR(r.Amount), r.Status, r.UpiId)
		if r.RejectionReason != "" {
			line += " (" + r.RejectionReason + ")"
		}
		fmt.Println(common.BoxPrefix(i == len(requests)-1) + line)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	limitFlag := flag.Int("limit", 20, "Maximum entries to print (0 for all)")
	viewFlag := flag.String("view", "all", "Which list to show: all, transactions or earnings")
	withdrawalsFlag := flag.Bool("withdrawals", false, "Also list withdrawal requests")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	client, err := common.InitializeClient(cfg, nil)
	if err != nil {
		logger.Fatal("Failed to initialize client", zap.Error(err))
	}

	history, err := client.GetBalanceHistory(ctx)
	if err != nil {
		common.ReportClientError(logger, "History query", cfg.Client.TokenEnv, err)
	}

	var entries []models.Transaction
	switch *viewFlag {
	case "all":
		entries = history.Combined()
	case "transactions":
		entries = history.Transactions
		models.SortByDateDesc(entries)
	case "earnings":
		entries = history.Earnings
		models.SortByDateDesc(entries)
	default:
		logger.Fatal("Unknown view", zap.String("view", *viewFlag))
	}

	common.PrintHeader(fmt.Sprintf("MONEY HISTORY (%s)", *viewFlag), common.WideWidth)
	printEntries(entries, *limitFlag)

	if *withdrawalsFlag {
		requests, err := client.GetUserWithdrawalRequests(ctx)
		if err != nil {
			common.ReportClientError(logger, "Withdrawal request query", cfg.Client.TokenEnv, err)
		}
		printWithdrawalRequests(requests)
	}

	summary := history.Summarize()
	common.PrintFooter(fmt.Sprintf("SUMMARY: %d entries, net %s, in flight %s, %d rejected",
		summary.Entries,
		common.FormatINR(summary.Net()),
		common.FormatINR(summary.InFlight),
		summary.Rejected), common.WideWidth)

	logger.Info("History query completed", zap.Int("entries", summary.Entries))
}
