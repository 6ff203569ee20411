// Package dedupe scores how likely a candidate transaction is a resubmission
// of an existing one. The score is a heuristic for callers to act on, not a
// hard constraint.
package dedupe

import (
	"github.com/shopspring/decimal"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// Signal weights. Each matching signal only ever adds to the score, so the
// confidence is monotonic in every individual signal. The accumulated value
// is capped at 1 before it is reported.
var (
	weightCounterpart = 0.3
	weightAmount      = 0.3
	weightReference   = 0.4
	weightDate        = 0.1

	amountTolerance = decimal.NewFromFloat(0.01)
)

const (
	// BlockThreshold flags the candidate as a duplicate.
	BlockThreshold = 0.85
	// ReviewThreshold flags the candidate as a possible match needing review.
	ReviewThreshold = 0.7

	dateWindowDays = 7
)

// Evidence explains which signals matched against one existing transaction.
type Evidence struct {
	TransactionID   string  `json:"transactionID"`
	Confidence      float64 `json:"confidence"`
	SameCounterpart bool    `json:"sameCounterpart"`
	SameAmount      bool    `json:"sameAmount"`
	SameReference   bool    `json:"sameReference"`
	CloseDate       bool    `json:"closeDate"`
}

// IsDuplicate reports whether the evidence crosses the blocking threshold.
func (e Evidence) IsDuplicate() bool {
	return e.Confidence > BlockThreshold
}

// NeedsReview reports whether the evidence is a possible match.
func (e Evidence) NeedsReview() bool {
	return e.Confidence > ReviewThreshold && e.Confidence <= BlockThreshold
}

func sameCounterpart(candidate, existing domain.Transaction) bool {
	if candidate.SourceEntityID != nil && existing.SourceEntityID != nil &&
		*candidate.SourceEntityID == *existing.SourceEntityID {
		return true
	}
	if candidate.TargetEntityID != nil && existing.TargetEntityID != nil &&
		*candidate.TargetEntityID == *existing.TargetEntityID {
		return true
	}
	return false
}

// ScoreAgainst computes the confidence that candidate duplicates existing.
func ScoreAgainst(candidate, existing domain.Transaction) Evidence {
	ev := Evidence{TransactionID: existing.TransactionID}

	if sameCounterpart(candidate, existing) {
		ev.SameCounterpart = true
		ev.Confidence += weightCounterpart
	}
	if candidate.TotalAmount.Sub(existing.TotalAmount).Abs().LessThanOrEqual(amountTolerance) {
		ev.SameAmount = true
		ev.Confidence += weightAmount
	}
	if candidate.ReferenceNumber != "" && candidate.ReferenceNumber == existing.ReferenceNumber {
		ev.SameReference = true
		ev.Confidence += weightReference
	}
	days := candidate.TransactionDate.Sub(existing.TransactionDate).Hours() / 24
	if days < 0 {
		days = -days
	}
	if days <= dateWindowDays {
		ev.CloseDate = true
		ev.Confidence += weightDate
	}
	if ev.Confidence > 1 {
		ev.Confidence = 1
	}
	return ev
}

// Score runs the candidate against a set of existing transactions and returns
// the strongest evidence, or a zero Evidence when the set is empty.
func Score(candidate domain.Transaction, existing []domain.Transaction) Evidence {
	var best Evidence
	for _, ex := range existing {
		if ev := ScoreAgainst(candidate, ex); ev.Confidence > best.Confidence {
			best = ev
		}
	}
	return best
}
