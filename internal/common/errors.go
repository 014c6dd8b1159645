package common

import (
	"errors"
	"fmt"
	"os"

	"upi-balance-go/internal/transport"

	"go.uber.org/zap"
)

const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitAuthRequired = 3
)

// ExitCode maps a client error onto a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, transport.ErrAuthRequired):
		return ExitAuthRequired
	default:
		return ExitFailure
	}
}

// ReportClientError prints the user-facing message for err and exits.
// Missing credentials get a login hint naming the token variable.
func ReportClientError(logger *zap.Logger, action, tokenEnv string, err error) {
	logger.Error(action+" failed",
		zap.Bool("retryable", transport.IsRetryable(err)),
		zap.Error(err))

	fmt.Fprintln(os.Stderr, transport.UserMessage(err))
	if errors.Is(err, transport.ErrAuthRequired) {
		fmt.Fprintf(os.Stderr, "Log in with devserver -print-tokens and export %s.\n", tokenEnv)
	}
	if transport.IsRetryable(err) {
		fmt.Fprintln(os.Stderr, "Check your money history before submitting the same request again.")
	}
	os.Exit(ExitCode(err))
}
