package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/ledger"
)

func line(amount float64) domain.TransactionLine {
	return domain.TransactionLine{LineAmount: decimal.NewFromFloat(amount)}
}

func TestValidateBalance(t *testing.T) {
	tests := []struct {
		name      string
		txnType   string
		lines     []domain.TransactionLine
		want      ledger.BalanceStatus
		wantDelta string
	}{
		{
			name:      "balanced sale with tax and payment",
			txnType:   "SALE",
			lines:     []domain.TransactionLine{line(150.00), line(7.50), line(-157.50)},
			want:      ledger.Balanced,
			wantDelta: "0",
		},
		{
			name:      "unbalanced journal missing credit side",
			txnType:   "JOURNAL",
			lines:     []domain.TransactionLine{line(100.00)},
			want:      ledger.Unbalanced,
			wantDelta: "100",
		},
		{
			name:      "sub-epsilon rounding residue is balanced",
			txnType:   "PAYMENT",
			lines:     []domain.TransactionLine{line(33.333), line(33.333), line(-66.661)},
			want:      ledger.Balanced,
			wantDelta: "0",
		},
		{
			name:      "non-financial event skips the invariant",
			txnType:   "MESSAGE",
			lines:     []domain.TransactionLine{line(42.00)},
			want:      ledger.Balanced,
			wantDelta: "0",
		},
		{
			name:      "empty financial transaction sums to zero",
			txnType:   "ADJUSTMENT",
			lines:     nil,
			want:      ledger.Balanced,
			wantDelta: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{TransactionType: tt.txnType}
			status, delta := ledger.ValidateBalance(txn, tt.lines)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.wantDelta, delta.String())
		})
	}
}

func TestGrossAmount(t *testing.T) {
	lines := []domain.TransactionLine{line(150.00), line(7.50), line(-157.50)}
	assert.Equal(t, "157.5", ledger.GrossAmount(lines).String())

	assert.True(t, ledger.GrossAmount(nil).IsZero())
}

func TestSumLines(t *testing.T) {
	lines := []domain.TransactionLine{line(10), line(-4), line(1.5)}
	assert.Equal(t, "7.5", ledger.SumLines(lines).String())
}
