package server

import (
	"errors"
	"net/http"

	"upi-balance-go/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// writeStoreError maps ledger errors onto HTTP statuses. Unknown errors are
// logged and reported without detail.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidAmount):
		abortWithMessage(c, http.StatusBadRequest, "Amount must be greater than zero")
	case errors.Is(err, store.ErrInsufficientBalance):
		abortWithMessage(c, http.StatusBadRequest, "Insufficient balance")
	case errors.Is(err, store.ErrDuplicateReference):
		abortWithMessage(c, http.StatusConflict, "This UPI reference number has already been submitted")
	case errors.Is(err, store.ErrAlreadyReviewed):
		abortWithMessage(c, http.StatusConflict, "Request has already been reviewed")
	case errors.Is(err, store.ErrUserNotFound):
		abortWithMessage(c, http.StatusNotFound, "User not found")
	case errors.Is(err, store.ErrDepositNotFound):
		abortWithMessage(c, http.StatusNotFound, "Deposit request not found")
	case errors.Is(err, store.ErrWithdrawalNotFound):
		abortWithMessage(c, http.StatusNotFound, "Withdrawal request not found")
	case errors.Is(err, store.ErrProofImageNotFound):
		abortWithMessage(c, http.StatusNotFound, "Proof image not found")
	default:
		zap.L().Error("Sandbox request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		abortWithMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}

// bindJSON decodes and validates the body, writing a 400 on failure
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			abortWithMessage(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := s.validator.Struct(dst); err != nil {
		abortWithMessage(c, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request body"
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "min":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
