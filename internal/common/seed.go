package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// SeedEarning is a task payout to credit when seeding
type SeedEarning struct {
	TaskId    string `yaml:"taskId"`
	TaskTitle string `yaml:"taskTitle"`
	Amount    string `yaml:"amount"`
	Status    string `yaml:"status"`
}

type SeedUser struct {
	Id       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Email    string        `yaml:"email"`
	Role     string        `yaml:"role"`
	UpiId    string        `yaml:"upiId"`
	Earnings []SeedEarning `yaml:"earnings"`
}

// SeedConfig is the sandbox fixture file
type SeedConfig struct {
	Users []SeedUser `yaml:"users"`
}

func LoadSeedConfig(seedFile string) (*SeedConfig, error) {
	seedPath := seedFile
	if !filepath.IsAbs(seedFile) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	return ParseSeedConfig(data)
}

func ParseSeedConfig(data []byte) (*SeedConfig, error) {
	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse seed file: %w", err)
	}

	for i, user := range config.Users {
		if user.Id == "" {
			return nil, fmt.Errorf("user at index %d missing id", i)
		}
		if user.Email == "" {
			return nil, fmt.Errorf("user %s missing email", user.Id)
		}
		for j, earning := range user.Earnings {
			if earning.TaskId == "" {
				return nil, fmt.Errorf("user %s earning %d missing taskId", user.Id, j)
			}
			if _, err := decimal.NewFromString(earning.Amount); err != nil {
				return nil, fmt.Errorf("user %s earning %s has invalid amount %q", user.Id, earning.TaskId, earning.Amount)
			}
		}
	}

	return &config, nil
}

// ApplySeed creates missing users and credits their earnings.
// Users that already exist are left untouched, earnings included.
func ApplySeed(ctx context.Context, ledger store.LedgerStore, config *SeedConfig) error {
	for _, user := range config.Users {
		_, err := ledger.GetUserByEmail(ctx, user.Email)
		if err == nil {
			zap.L().Debug("Seed user already exists", zap.String("email", user.Email))
			continue
		}
		if !errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("unable to look up seed user %s: %w", user.Email, err)
		}

		if _, err := ledger.CreateUser(ctx, store.CreateUserParams{
			Id:    user.Id,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
			UpiId: user.UpiId,
		}); err != nil {
			return fmt.Errorf("unable to create seed user %s: %w", user.Email, err)
		}

		for _, earning := range user.Earnings {
			amount, err := decimal.NewFromString(earning.Amount)
			if err != nil {
				return fmt.Errorf("invalid seed amount %q: %w", earning.Amount, err)
			}
			if _, err := ledger.RecordEarning(ctx, store.RecordEarningParams{
				UserId:    user.Id,
				TaskId:    earning.TaskId,
				TaskTitle: earning.TaskTitle,
				Amount:    amount,
				Status:    models.TransactionStatus(earning.Status),
			}); err != nil {
				return fmt.Errorf("unable to seed earning %s for %s: %w", earning.TaskId, user.Email, err)
			}
		}
	}

	zap.L().Info("Seed applied", zap.Int("users", len(config.Users)))
	return nil
}
