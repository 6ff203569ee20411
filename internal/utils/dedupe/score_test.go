package dedupe_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/dedupe"
)

func stringPtr(s string) *string { return &s }

func baseTxn(id string, date time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID:   id,
		SourceEntityID:  stringPtr("customer-1"),
		TotalAmount:     decimal.NewFromFloat(157.50),
		ReferenceNumber: "INV-1001",
		TransactionDate: date,
	}
}

func TestScoreAgainst(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	existing := baseTxn("existing", date)

	t.Run("all signals match caps confidence at one", func(t *testing.T) {
		ev := dedupe.ScoreAgainst(baseTxn("candidate", date.AddDate(0, 0, 2)), existing)
		assert.True(t, ev.SameCounterpart)
		assert.True(t, ev.SameAmount)
		assert.True(t, ev.SameReference)
		assert.True(t, ev.CloseDate)
		assert.InDelta(t, 1.0, ev.Confidence, 1e-9)
		assert.True(t, ev.IsDuplicate())
		assert.False(t, ev.NeedsReview())
	})

	t.Run("counterpart amount and date only lands in review band", func(t *testing.T) {
		candidate := baseTxn("candidate", date.AddDate(0, 0, 3))
		candidate.ReferenceNumber = "INV-9999"
		ev := dedupe.ScoreAgainst(candidate, existing)
		assert.InDelta(t, 0.7, ev.Confidence, 1e-9)
		assert.False(t, ev.IsDuplicate())
		assert.False(t, ev.NeedsReview()) // exactly at the review threshold, not above
	})

	t.Run("amount tolerance of one cent", func(t *testing.T) {
		candidate := baseTxn("candidate", date)
		candidate.TotalAmount = decimal.NewFromFloat(157.51)
		ev := dedupe.ScoreAgainst(candidate, existing)
		assert.True(t, ev.SameAmount)

		candidate.TotalAmount = decimal.NewFromFloat(157.52)
		ev = dedupe.ScoreAgainst(candidate, existing)
		assert.False(t, ev.SameAmount)
	})

	t.Run("empty reference never matches", func(t *testing.T) {
		candidate := baseTxn("candidate", date)
		candidate.ReferenceNumber = ""
		blank := existing
		blank.ReferenceNumber = ""
		ev := dedupe.ScoreAgainst(candidate, blank)
		assert.False(t, ev.SameReference)
	})

	t.Run("date outside the seven day window", func(t *testing.T) {
		ev := dedupe.ScoreAgainst(baseTxn("candidate", date.AddDate(0, 0, 8)), existing)
		assert.False(t, ev.CloseDate)
	})

	t.Run("adding a signal never lowers the score", func(t *testing.T) {
		candidate := baseTxn("candidate", date.AddDate(0, 0, 30))
		candidate.ReferenceNumber = ""
		candidate.SourceEntityID = nil
		weak := dedupe.ScoreAgainst(candidate, existing)

		candidate.SourceEntityID = stringPtr("customer-1")
		stronger := dedupe.ScoreAgainst(candidate, existing)
		assert.GreaterOrEqual(t, stronger.Confidence, weak.Confidence)
	})
}

func TestScorePicksStrongestMatch(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	candidate := baseTxn("candidate", date)

	weak := baseTxn("weak", date.AddDate(0, 0, -30))
	weak.ReferenceNumber = "OTHER"
	weak.SourceEntityID = stringPtr("customer-2")

	strong := baseTxn("strong", date)

	best := dedupe.Score(candidate, []domain.Transaction{weak, strong})
	assert.Equal(t, "strong", best.TransactionID)
	assert.True(t, best.IsDuplicate())
}

func TestScoreEmptySet(t *testing.T) {
	ev := dedupe.Score(baseTxn("candidate", time.Now()), nil)
	assert.Zero(t, ev.Confidence)
	assert.Empty(t, ev.TransactionID)
	assert.False(t, ev.IsDuplicate())
	assert.False(t, ev.NeedsReview())
}
