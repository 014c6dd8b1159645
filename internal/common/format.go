package common

import (
	"fmt"
	"strings"

	"upi-balance-go/internal/models"

	"github.com/shopspring/decimal"
)

const (
	DefaultWidth = 80
	WideWidth    = 100

	dateLayout = "2006-01-02 15:04"
)

func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

func PrintSeparatorNewline(char string, width int) {
	fmt.Println("\n" + strings.Repeat(char, width))
}

// PrintHeader prints a title between two rules
func PrintHeader(title string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(title)
	PrintSeparator("=", width)
}

func PrintFooter(message string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

func PrintBoxSeparator(width int) {
	fmt.Println("├" + strings.Repeat("─", width))
}

// BoxPrefix returns the tree glyph for a list item
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// FormatINR renders an amount in Indian digit grouping, e.g. ₹12,34,567.50
func FormatINR(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	whole, fraction, _ := strings.Cut(fixed, ".")

	return sign + "₹" + groupIndian(whole) + "." + fraction
}

// groupIndian puts a comma after the last three digits, then every two
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

// FormatDate renders a backend timestamp for terminal output; unknown dates print as "-"
func FormatDate(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(dateLayout)
}

// FormatEntry renders one history line
func FormatEntry(tx models.Transaction) string {
	label := string(tx.Type)
	if tx.Type == models.TransactionTypeEarning && tx.TaskTitle != "" {
		label = fmt.Sprintf("%s (%s)", label, tx.TaskTitle)
	}
	return fmt.Sprintf("%-16s %-32s %16s  %s", FormatDate(tx.Date), label, FormatINR(tx.Amount), tx.Status)
}
