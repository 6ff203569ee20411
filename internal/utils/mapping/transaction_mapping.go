package mapping

import (
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		OrganizationID:  d.OrganizationID,
		TransactionType: d.TransactionType,
		TransactionCode: d.TransactionCode,
		SmartCode:       d.SmartCode,
		TransactionDate: d.TransactionDate,
		SourceEntityID:  d.SourceEntityID,
		TargetEntityID:  d.TargetEntityID,
		TotalAmount:     d.TotalAmount,
		Status:          models.TransactionStatus(d.Status),
		ReferenceNumber: d.ReferenceNumber,
		Metadata:        d.Metadata,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		OrganizationID:  m.OrganizationID,
		TransactionType: m.TransactionType,
		TransactionCode: m.TransactionCode,
		SmartCode:       m.SmartCode,
		TransactionDate: m.TransactionDate,
		SourceEntityID:  m.SourceEntityID,
		TargetEntityID:  m.TargetEntityID,
		TotalAmount:     m.TotalAmount,
		Status:          domain.TransactionStatus(m.Status),
		ReferenceNumber: m.ReferenceNumber,
		Metadata:        m.Metadata,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTransactionLine converts a domain TransactionLine to a model TransactionLine
func ToModelTransactionLine(d domain.TransactionLine) models.TransactionLine {
	return models.TransactionLine{
		LineID:        d.LineID,
		TransactionID: d.TransactionID,
		LineNumber:    d.LineNumber,
		LineType:      d.LineType,
		LineEntityID:  d.LineEntityID,
		Quantity:      d.Quantity,
		UnitAmount:    d.UnitAmount,
		LineAmount:    d.LineAmount,
		SmartCode:     d.SmartCode,
		LineData:      d.LineData,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransactionLine converts a model TransactionLine to a domain TransactionLine
func ToDomainTransactionLine(m models.TransactionLine) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:        m.LineID,
		TransactionID: m.TransactionID,
		LineNumber:    m.LineNumber,
		LineType:      m.LineType,
		LineEntityID:  m.LineEntityID,
		Quantity:      m.Quantity,
		UnitAmount:    m.UnitAmount,
		LineAmount:    m.LineAmount,
		SmartCode:     m.SmartCode,
		LineData:      m.LineData,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionLineSlice converts a slice of model TransactionLines
func ToDomainTransactionLineSlice(ms []models.TransactionLine) []domain.TransactionLine {
	ds := make([]domain.TransactionLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionLine(m)
	}
	return ds
}
