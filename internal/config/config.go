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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"upi-balance-go/internal/models"
)

// MinDepositTimeout is the floor for the deposit request timeout; proof images are large.
const MinDepositTimeout = 30 * time.Second

func Load() (*models.Config, error) {
	requestTimeout, err := getEnvDuration("BALANCE_REQUEST_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	depositTimeout, err := getEnvDuration("BALANCE_DEPOSIT_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	if depositTimeout < MinDepositTimeout {
		return nil, fmt.Errorf("BALANCE_DEPOSIT_TIMEOUT must be at least %s, got %s", MinDepositTimeout, depositTimeout)
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	tokenTTL, err := getEnvDuration("DEVSERVER_TOKEN_TTL", 72*time.Hour)
	if err != nil {
		return nil, err
	}

	addr := getEnvString("DEVSERVER_ADDR", ":8080")

	return &models.Config{
		Client: models.ClientConfig{
			BaseURL:        strings.TrimRight(getEnvString("BALANCE_API_BASE_URL", "http://localhost:8080"), "/"),
			TokenEnv:       getEnvString("BALANCE_TOKEN_ENV", "BALANCE_API_TOKEN"),
			RequestTimeout: requestTimeout,
			DepositTimeout: depositTimeout,
			MaxIdleConns:   getEnvInt("BALANCE_MAX_IDLE_CONNS", 10),
			EnableHTTP2:    getEnvBool("BALANCE_ENABLE_HTTP2", true),
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "balances.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			SeedFile:        getEnvString("SEED_FILE", ""),
		},
		Server: models.ServerConfig{
			Addr:          addr,
			JWTSecret:     getEnvString("DEVSERVER_JWT_SECRET", "sandbox-secret-change-me"),
			TokenTTL:      tokenTTL,
			AdminUpiId:    getEnvString("DEVSERVER_ADMIN_UPI_ID", "admin@upi"),
			PublicBaseURL: strings.TrimRight(getEnvString("DEVSERVER_PUBLIC_URL", "http://localhost"+addr), "/"),
			MaxBodyBytes:  int64(getEnvInt("DEVSERVER_MAX_BODY_BYTES", 20<<20)),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
