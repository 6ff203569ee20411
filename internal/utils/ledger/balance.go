// Package ledger holds the computed balance invariant for financial
// transactions. The result is always re-derived from the lines, never stored
// as a flag that could drift from the underlying data.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// Epsilon is the absolute tolerance for the zero-sum check.
var Epsilon = decimal.NewFromFloat(0.01)

// BalanceStatus is the caller-visible verdict of a balance check.
type BalanceStatus string

const (
	Balanced   BalanceStatus = "balanced"
	Unbalanced BalanceStatus = "unbalanced"
)

// SumLines computes the algebraic sum of the signed line amounts.
func SumLines(lines []domain.TransactionLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.LineAmount)
	}
	return sum
}

// GrossAmount computes the economic value of a balanced financial
// transaction: the sum of its positive (debit-side) lines. For a balanced
// posting the debit and credit sides are equal, so one side represents the
// actual money movement.
func GrossAmount(lines []domain.TransactionLine) decimal.Decimal {
	gross := decimal.Zero
	for _, line := range lines {
		if line.LineAmount.IsPositive() {
			gross = gross.Add(line.LineAmount)
		}
	}
	return gross
}

// ValidateBalance checks the zero-sum invariant for a transaction's lines.
// The delta is reported in both outcomes so a caller can surface the exact
// imbalance instead of a generic failure.
func ValidateBalance(txn domain.Transaction, lines []domain.TransactionLine) (BalanceStatus, decimal.Decimal) {
	delta := SumLines(lines)
	if !txn.IsFinancial() {
		// Non-financial postings carry no balance invariant.
		return Balanced, decimal.Zero
	}
	if delta.Abs().LessThan(Epsilon) {
		return Balanced, decimal.Zero
	}
	return Unbalanced, delta
}
