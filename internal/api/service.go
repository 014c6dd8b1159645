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
	"time"

	"upi-balance-go/internal/transport"
)

const (
	pathHealth             = "/health"
	pathBalance            = "/balance"
	pathMoneyHistory       = "/balance/money-history"
	pathUserSummary        = "/balance/user"
	pathWithdrawalRequests = "/balance/withdrawal-requests/user"
	pathDeposit            = "/balance/deposit"
	pathWithdraw           = "/balance/withdraw"
)

// Doer is the slice of transport.Client the balance client depends on
type Doer interface {
	Do(ctx context.Context, req transport.Request, out any) error
	DoRaw(ctx context.Context, req transport.Request) (int, []byte, error)
}

// BalanceClient is the single typed entry point for balance, history,
// deposit and withdrawal calls. It holds no per-user state and never caches,
// so one instance can serve concurrent callers.
type BalanceClient struct {
	http           Doer
	depositTimeout time.Duration
	validator      *depositValidator
}

func NewBalanceClient(doer Doer, depositTimeout time.Duration) *BalanceClient {
	return &BalanceClient{
		http:           doer,
		depositTimeout: depositTimeout,
		validator:      newDepositValidator(),
	}
}

func (c *BalanceClient) HealthCheck(ctx context.Context) error {
	err := c.http.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathHealth, Anonymous: true}, nil)
	if err != nil {
		return fmt.Errorf("balance api health check failed: %w", err)
	}
	return nil
}

// decodeReply decodes a submission reply. Fields inside a {"data": ...}
// envelope override the same fields at the top level.
func decodeReply(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return err
	}
	if inner := transport.UnwrapData(body); !bytes.Equal(inner, body) {
		return json.Unmarshal(inner, out)
	}
	return nil
}
