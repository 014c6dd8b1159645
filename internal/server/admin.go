package server

import (
	"net/http"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type rejectInput struct {
	Reason string `json:"reason" validate:"required"`
}

type earningInput struct {
	UserId    string                   `json:"userId" validate:"required"`
	TaskId    string                   `json:"taskId" validate:"required"`
	TaskTitle string                   `json:"taskTitle" validate:"required"`
	Amount    decimal.Decimal          `json:"amount" validate:"required,gt=0"`
	Status    models.TransactionStatus `json:"status" validate:"omitempty,oneof=Completed Pending"`
}

func (s *Server) approveDeposit(c *gin.Context) {
	record, err := s.store.ApproveDeposit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deposit": s.depositTransaction(record)})
}

func (s *Server) rejectDeposit(c *gin.Context) {
	var input rejectInput
	if !s.bindJSON(c, &input) {
		return
	}

	record, err := s.store.RejectDeposit(c.Request.Context(), c.Param("id"), input.Reason)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deposit": s.depositTransaction(record)})
}

func (s *Server) approveWithdrawal(c *gin.Context) {
	request, err := s.store.ApproveWithdrawal(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawalRequest": request})
}

func (s *Server) rejectWithdrawal(c *gin.Context) {
	var input rejectInput
	if !s.bindJSON(c, &input) {
		return
	}

	request, err := s.store.RejectWithdrawal(c.Request.Context(), c.Param("id"), input.Reason)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawalRequest": request})
}

func (s *Server) recordEarning(c *gin.Context) {
	var input earningInput
	if !s.bindJSON(c, &input) {
		return
	}

	record, err := s.store.RecordEarning(c.Request.Context(), store.RecordEarningParams{
		UserId:    input.UserId,
		TaskId:    input.TaskId,
		TaskTitle: input.TaskTitle,
		Amount:    input.Amount,
		Status:    input.Status,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "earning": earningEntry(*record)})
}
