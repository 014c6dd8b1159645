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

	"upi-balance-go/internal/auth"
	"upi-balance-go/internal/common"
	"upi-balance-go/internal/config"
	"upi-balance-go/internal/models"
	"upi-balance-go/internal/server"
	"upi-balance-go/internal/store"

	"go.uber.org/zap"
)

// printTokens issues a bearer token per sandbox user so the CLIs can log in
func printTokens(ctx context.Context, ledger store.LedgerStore, issuer *auth.Issuer, emailFilter, tokenEnv string) error {
	users, err := common.SandboxUsers(ctx, ledger, emailFilter)
	if err != nil {
		return err
	}

	common.PrintHeader("SANDBOX TOKENS", common.WideWidth)
	for i, user := range users {
		token, err := issuer.Generate(user.Id, user.Role)
		if err != nil {
			return fmt.Errorf("unable to issue token for %s: %w", user.Email, err)
		}
		fmt.Printf("\n┌─ %s (%s) role=%s upi=%s\n", user.Name, user.Email, user.Role, user.UpiId)
		fmt.Printf("%s export %s=%s\n", common.BoxPrefix(i == len(users)-1), tokenEnv, token)
	}
	common.PrintFooter(fmt.Sprintf("%d users", len(users)), common.WideWidth)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	printTokensFlag := flag.Bool("print-tokens", false, "Print a bearer token for each sandbox user and exit")
	emailFlag := flag.String("email", "", "Only print the token for this user (with -print-tokens)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	issuer, err := auth.NewIssuer(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	if err != nil {
		logger.Fatal("Failed to create token issuer", zap.Error(err))
	}

	if *printTokensFlag {
		if err := printTokens(ctx, dbService, issuer, *emailFlag, cfg.Client.TokenEnv); err != nil {
			logger.Fatal("Failed to print tokens", zap.Error(err))
		}
		return
	}

	if err := reconcileAll(ctx, dbService); err != nil {
		logger.Fatal("Ledger reconciliation failed", zap.Error(err))
	}

	srv := server.NewServer(logger, dbService, issuer, cfg.Server, nil)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal("Sandbox server stopped with error", zap.Error(err))
	}
	logger.Info("Sandbox server stopped")
}

// reconcileAll checks each wallet against its journal before serving
func reconcileAll(ctx context.Context, ledger store.LedgerStore) error {
	users, err := ledger.GetUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if user.Role == models.RoleAdmin {
			continue
		}
		if err := ledger.ReconcileUserBalance(ctx, user.Id); err != nil {
			return fmt.Errorf("user %s: %w", user.Id, err)
		}
	}
	zap.L().Info("Ledger reconciled", zap.Int("users", len(users)))
	return nil
}
