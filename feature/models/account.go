package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account situations shared by payables and receivables.
const (
	AccountOpen      int16 = 1
	AccountSettled   int16 = 2
	AccountPartially int16 = 3
	AccountReturned  int16 = 4
	AccountCancelled int16 = 5
)

// AccountSituation maps an ERP situation code, defaulting to open.
func AccountSituation(code int) int16 {
	if code >= int(AccountOpen) && code <= int(AccountCancelled) {
		return int16(code)
	}
	return AccountOpen
}

// Account holds the columns payables and receivables share.
type Account struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	IDOriginal      string          `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	PersonID        *uint           `gorm:"column:id_pessoa;index" json:"personId,omitempty"`
	IssuedAt        *time.Time      `gorm:"column:data_emissao;type:date" json:"issuedAt,omitempty"`
	DueAt           *time.Time      `gorm:"column:data_vencimento;type:date" json:"dueAt,omitempty"`
	CompetenceAt    *time.Time      `gorm:"column:data_competencia;type:date" json:"competenceAt,omitempty"`
	DocumentNumber  string          `gorm:"column:numero_documento;size:50" json:"documentNumber"`
	History         string          `gorm:"column:historico;type:text" json:"history"`
	Situation       int16           `gorm:"column:situacao;default:1" json:"situation"`
	PaymentMethodID *uint           `gorm:"column:id_forma_pagamento;index" json:"paymentMethodId,omitempty"`
	Value           decimal.Decimal `gorm:"column:valor;type:numeric(14,2)" json:"value"`
	CarrierID       *uint           `gorm:"column:id_portador;index" json:"carrierId,omitempty"`
	ChartAccountID  *uint           `gorm:"column:id_plano_conta;index" json:"chartAccountId,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Payable is an account to pay.
type Payable struct {
	Account
}

// TableName overrides the table name used by Payable.
func (Payable) TableName() string {
	return "conta_pagar"
}

// Receivable is an account to receive.
type Receivable struct {
	Account
}

// TableName overrides the table name used by Receivable.
func (Receivable) TableName() string {
	return "conta_receber"
}

// Settlement holds the columns payments and receipts share.
type Settlement struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	PaidAt    time.Time       `gorm:"column:data_pagamento;type:date;not null" json:"paidAt"`
	CarrierID *uint           `gorm:"column:id_portador;index" json:"carrierId,omitempty"`
	Value     decimal.Decimal `gorm:"column:valor;type:numeric(14,2)" json:"value"`
}

// PayablePayment is a payment settling part of a payable.
type PayablePayment struct {
	Settlement
	PayableID uint `gorm:"column:id_conta_pagar;index;not null" json:"payableId"`
}

// TableName overrides the table name used by PayablePayment.
func (PayablePayment) TableName() string {
	return "pagamento"
}

// ReceivableReceipt is a receipt settling part of a receivable.
type ReceivableReceipt struct {
	Settlement
	ReceivableID uint `gorm:"column:id_conta_receber;index;not null" json:"receivableId"`
}

// TableName overrides the table name used by ReceivableReceipt.
func (ReceivableReceipt) TableName() string {
	return "recebimento"
}
