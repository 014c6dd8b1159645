package server

import (
	"net/http"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const withdrawalAcceptedMessage = "Withdrawal request submitted successfully"

type withdrawalInput struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	UpiId  string          `json:"upiId"`
}

func (s *Server) requestWithdrawal(c *gin.Context) {
	var input withdrawalInput
	if !s.bindJSON(c, &input) {
		return
	}

	request, newBalance, err := s.store.CreateWithdrawal(c.Request.Context(), store.CreateWithdrawalParams{
		UserId: c.GetString(ctxUserID),
		Amount: input.Amount,
		UpiId:  input.UpiId,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.WithdrawalResult{
		Success:           true,
		Message:           withdrawalAcceptedMessage,
		WithdrawalRequest: request,
		NewBalance:        &newBalance,
	})
}
