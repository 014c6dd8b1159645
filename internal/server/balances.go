package server

import (
	"net/http"

	"upi-balance-go/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) getBalance(c *gin.Context) {
	userId := c.GetString(ctxUserID)

	totals, err := s.store.GetBalanceTotals(c.Request.Context(), userId)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Balance{
		Balance:          totals.Balance,
		UserId:           userId,
		TotalDeposits:    totals.TotalDeposits,
		TotalWithdrawals: totals.TotalWithdrawals,
	})
}

func (s *Server) getMoneyHistory(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetString(ctxUserID)

	deposits, err := s.store.ListDeposits(ctx, userId)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	withdrawals, err := s.store.ListWithdrawals(ctx, userId)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	earnings, err := s.store.ListEarnings(ctx, userId)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildHistory(deposits, withdrawals, earnings))
}

func (s *Server) getUserBalanceSummary(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetString(ctxUserID)

	balance, err := s.store.GetUserBalance(ctx, userId)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	earnings, err := s.store.ListEarnings(ctx, userId)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	summary := models.UserBalanceSummary{
		UserId:           userId,
		AvailableBalance: balance,
		TotalEarnings:    decimal.Zero,
		Pending:          decimal.Zero,
		EarningsHistory:  make([]models.EarningEntry, 0, len(earnings)),
	}
	for _, earning := range earnings {
		switch earning.Status {
		case models.StatusCompleted:
			summary.TotalEarnings = summary.TotalEarnings.Add(earning.Amount)
		case models.StatusPending:
			summary.Pending = summary.Pending.Add(earning.Amount)
		}
		summary.EarningsHistory = append(summary.EarningsHistory, earningEntry(earning))
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) getUserWithdrawalRequests(c *gin.Context) {
	requests, err := s.store.ListWithdrawals(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawalRequests": requests})
}
