package server

import (
	"upi-balance-go/internal/models"
)

const methodUPI = "UPI"

// buildHistory shapes stored records into the money-history payload.
// Every list is newest first and never null.
func buildHistory(deposits []models.DepositRecord, withdrawals []models.WithdrawalRequest, earnings []models.EarningRecord) models.BalanceHistory {
	transactions := make([]models.Transaction, 0, len(deposits)+len(withdrawals))
	for _, d := range deposits {
		transactions = append(transactions, models.Transaction{
			Id:       d.Id,
			Type:     models.TransactionTypeDeposit,
			Date:     d.CreatedAt,
			Amount:   d.Amount,
			Status:   d.Status,
			Method:   methodUPI,
			Category: models.CategoryTransaction,
		})
	}
	for _, w := range withdrawals {
		transactions = append(transactions, models.Transaction{
			Id:       w.Id,
			Type:     models.TransactionTypeWithdraw,
			Date:     w.CreatedAt,
			Amount:   w.Amount,
			Status:   w.Status,
			Method:   methodUPI,
			Category: models.CategoryTransaction,
		})
	}
	models.SortByDateDesc(transactions)

	earned := make([]models.Transaction, 0, len(earnings))
	for _, e := range earnings {
		earned = append(earned, models.Transaction{
			Id:        e.Id,
			Type:      models.TransactionTypeEarning,
			Date:      e.CreatedAt,
			Amount:    e.Amount,
			Status:    e.Status,
			TaskTitle: e.TaskTitle,
			Category:  models.CategoryEarning,
		})
	}
	models.SortByDateDesc(earned)

	return models.BalanceHistory{
		Transactions:    transactions,
		Earnings:        earned,
		CombinedHistory: models.MergeHistory(transactions, earned),
	}
}

func earningEntry(e models.EarningRecord) models.EarningEntry {
	return models.EarningEntry{
		TaskName: e.TaskTitle,
		Date:     e.CreatedAt,
		Amount:   e.Amount,
		Status:   e.Status,
		TaskId:   e.TaskId,
	}
}

func (s *Server) depositTransaction(d *models.DepositRecord) models.DepositTransaction {
	images := make([]models.StoredProofImage, 0, len(d.ProofImages))
	for _, img := range d.ProofImages {
		images = append(images, models.StoredProofImage{
			Id:       img.Id,
			ImageUrl: s.cfg.PublicBaseURL + "/balance/proof-images/" + img.Id,
			FileName: img.FileName,
		})
	}

	return models.DepositTransaction{
		Id:           d.Id,
		Amount:       d.Amount,
		Status:       d.Status,
		UpiRefNumber: d.UpiRefNumber,
		AdminUpiId:   d.AdminUpiId,
		UserUpiId:    d.UserUpiId,
		ProofImages:  images,
	}
}
