package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/billing"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// The invoice number carries a global unique index; the billing cycle
// generator relies on that index rejecting duplicate numbers.
type InvoiceModel struct {
	SocietyAggregateModel
	InvoiceNumber string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_number"`
	UnitID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	UnitLabel     string                `gorm:"type:varchar(20);not null"`
	ResidentID    *uuid.UUID            `gorm:"type:uuid;index"`
	Period        string                `gorm:"type:varchar(7);not null;index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Status        billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DueDate       time.Time             `gorm:"not null;index"`
	PaidDate      *time.Time
	PaymentMode   *billing.PaymentMode `gorm:"type:varchar(20)"`
	Remark        string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		SocietyAggregateRoot: m.ToDomainSocietyAggregateRoot(),
		InvoiceNumber:        m.InvoiceNumber,
		UnitID:               m.UnitID,
		UnitLabel:            m.UnitLabel,
		ResidentID:           m.ResidentID,
		Period:               m.Period,
		Amount:               m.Amount,
		Status:               m.Status,
		DueDate:              m.DueDate,
		PaidDate:             m.PaidDate,
		PaymentMode:          m.PaymentMode,
		Remark:               m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainSocietyAggregateRoot(inv.SocietyAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.UnitID = inv.UnitID
	m.UnitLabel = inv.UnitLabel
	m.ResidentID = inv.ResidentID
	m.Period = inv.Period
	m.Amount = inv.Amount
	m.Status = inv.Status
	m.DueDate = inv.DueDate
	m.PaidDate = inv.PaidDate
	m.PaymentMode = inv.PaymentMode
	m.Remark = inv.Remark
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// TransactionModel is the persistence model for the Transaction aggregate
// root. ReferenceNo is a loose string reference, not a foreign key, so
// ledger rows survive invoice cancellation.
type TransactionModel struct {
	SocietyAggregateModel
	Type        billing.TransactionType `gorm:"type:varchar(10);not null;index"`
	Category    string                  `gorm:"type:varchar(100);not null;index"`
	Amount      decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	Mode        billing.PaymentMode     `gorm:"type:varchar(20);not null"`
	TxnDate     time.Time               `gorm:"not null;index"`
	ReferenceNo string                  `gorm:"type:varchar(50);index"`
	Description string                  `gorm:"type:text"`
	RecordedBy  uuid.UUID               `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *billing.Transaction {
	return &billing.Transaction{
		SocietyAggregateRoot: m.ToDomainSocietyAggregateRoot(),
		Type:                 m.Type,
		Category:             m.Category,
		Amount:               m.Amount,
		Mode:                 m.Mode,
		TxnDate:              m.TxnDate,
		ReferenceNo:          m.ReferenceNo,
		Description:          m.Description,
		RecordedBy:           m.RecordedBy,
	}
}

// FromDomain populates the persistence model from a domain Transaction
func (m *TransactionModel) FromDomain(txn *billing.Transaction) {
	m.FromDomainSocietyAggregateRoot(txn.SocietyAggregateRoot)
	m.Type = txn.Type
	m.Category = txn.Category
	m.Amount = txn.Amount
	m.Mode = txn.Mode
	m.TxnDate = txn.TxnDate
	m.ReferenceNo = txn.ReferenceNo
	m.Description = txn.Description
	m.RecordedBy = txn.RecordedBy
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction
func TransactionModelFromDomain(txn *billing.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(txn)
	return m
}

// PlatformInvoiceModel is the persistence model for the PlatformInvoice
// aggregate root. Platform invoices are not society-scoped data; the
// billed society is an ordinary indexed column.
type PlatformInvoiceModel struct {
	AggregateModel
	InvoiceNumber string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_platform_invoice_number"`
	SocietyID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	SocietyCode   string                `gorm:"type:varchar(20);not null"`
	Period        string                `gorm:"type:varchar(7);not null;index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Status        billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DueDate       time.Time             `gorm:"not null"`
	PaidDate      *time.Time
	PaymentMode   *billing.PaymentMode `gorm:"type:varchar(20)"`
	Remark        string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PlatformInvoiceModel) TableName() string {
	return "platform_invoices"
}

// ToDomain converts the persistence model to a domain PlatformInvoice
func (m *PlatformInvoiceModel) ToDomain() *billing.PlatformInvoice {
	return &billing.PlatformInvoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		SocietyID:         m.SocietyID,
		SocietyCode:       m.SocietyCode,
		Period:            m.Period,
		Amount:            m.Amount,
		Status:            m.Status,
		DueDate:           m.DueDate,
		PaidDate:          m.PaidDate,
		PaymentMode:       m.PaymentMode,
		Remark:            m.Remark,
	}
}

// FromDomain populates the persistence model from a domain PlatformInvoice
func (m *PlatformInvoiceModel) FromDomain(inv *billing.PlatformInvoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.SocietyID = inv.SocietyID
	m.SocietyCode = inv.SocietyCode
	m.Period = inv.Period
	m.Amount = inv.Amount
	m.Status = inv.Status
	m.DueDate = inv.DueDate
	m.PaidDate = inv.PaidDate
	m.PaymentMode = inv.PaymentMode
	m.Remark = inv.Remark
}

// PlatformInvoiceModelFromDomain creates a new persistence model from a domain PlatformInvoice
func PlatformInvoiceModelFromDomain(inv *billing.PlatformInvoice) *PlatformInvoiceModel {
	m := &PlatformInvoiceModel{}
	m.FromDomain(inv)
	return m
}
