package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Layouts accepted from the backend, most specific first
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes the loosely formatted dates the backend emits
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses any of the supported layouts. An empty string is the zero time.
func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp format: %q", value)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// Scan lets sqlite rows land directly in a Timestamp
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
	case time.Time:
		*t = Timestamp{Time: v}
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseTimestamp(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	return t.Time, nil
}

// SortByDateDesc orders entries most-recent-first. Ties keep their input order.
func SortByDateDesc(entries []Transaction) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date.Time)
	})
}

// MergeHistory returns transactions and earnings as one most-recent-first slice
func MergeHistory(transactions, earnings []Transaction) []Transaction {
	merged := make([]Transaction, 0, len(transactions)+len(earnings))
	merged = append(merged, transactions...)
	merged = append(merged, earnings...)
	SortByDateDesc(merged)
	return merged
}

// Combined returns the backend's combined history when it sent one,
// otherwise a local merge of transactions and earnings.
func (h *BalanceHistory) Combined() []Transaction {
	if len(h.CombinedHistory) > 0 {
		return h.CombinedHistory
	}
	return MergeHistory(h.Transactions, h.Earnings)
}

// HistorySummary totals a balance history by outcome
type HistorySummary struct {
	CompletedDeposits    decimal.Decimal
	CompletedWithdrawals decimal.Decimal
	CompletedEarnings    decimal.Decimal
	InFlight             decimal.Decimal
	Rejected             int
	Entries              int
}

// Summarize aggregates the combined history. Review and Pending entries count as in flight.
func (h *BalanceHistory) Summarize() HistorySummary {
	summary := HistorySummary{
		CompletedDeposits:    decimal.Zero,
		CompletedWithdrawals: decimal.Zero,
		CompletedEarnings:    decimal.Zero,
		InFlight:             decimal.Zero,
	}

	for _, tx := range h.Combined() {
		summary.Entries++
		switch tx.Status {
		case StatusRejected:
			summary.Rejected++
		case StatusReview, StatusPending:
			summary.InFlight = summary.InFlight.Add(tx.Amount.Abs())
		case StatusCompleted:
			switch tx.Type {
			case TransactionTypeDeposit:
				summary.CompletedDeposits = summary.CompletedDeposits.Add(tx.Amount.Abs())
			case TransactionTypeWithdraw:
				summary.CompletedWithdrawals = summary.CompletedWithdrawals.Add(tx.Amount.Abs())
			case TransactionTypeEarning:
				summary.CompletedEarnings = summary.CompletedEarnings.Add(tx.Amount.Abs())
			}
		}
	}

	return summary
}

// Net is completed deposits plus earnings minus completed withdrawals
func (s HistorySummary) Net() decimal.Decimal {
	return s.CompletedDeposits.Add(s.CompletedEarnings).Sub(s.CompletedWithdrawals)
}
