package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order states.
const (
	OrderClosed    = "F"
	OrderCompleted = "C"
)

// Order is a sales order with its lines and installments.
type Order struct {
	ID                  uint               `gorm:"primaryKey" json:"id"`
	IDOriginal          string             `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Identifier          string             `gorm:"column:identificador;size:50" json:"identifier"`
	CompanyID           uint               `gorm:"column:id_empresa" json:"companyId"`
	State               string             `gorm:"column:estado;size:1" json:"state"`
	IssuedAt            *time.Time         `gorm:"column:data_emissao;type:date" json:"issuedAt,omitempty"`
	ShippedAt           *time.Time         `gorm:"column:data_saida;type:date" json:"shippedAt,omitempty"`
	PersonID            *uint              `gorm:"column:id_pessoa;index" json:"personId,omitempty"`
	SalespersonID       *uint              `gorm:"column:id_vendedor;index" json:"salespersonId,omitempty"`
	Subtotal            decimal.Decimal    `gorm:"column:subtotal;type:numeric(14,2)" json:"subtotal"`
	DiscountValue       decimal.Decimal    `gorm:"column:desconto_valor;type:numeric(14,6)" json:"discountValue"`
	DistributedDiscount decimal.Decimal    `gorm:"column:desconto_rateado_valor;type:numeric(14,6)" json:"distributedDiscount"`
	DiscountRatio       decimal.Decimal    `gorm:"column:desconto_percentual;type:numeric(14,10)" json:"discountRatio"`
	OtherExpenses       decimal.Decimal    `gorm:"column:outras_despesas;type:numeric(14,2)" json:"otherExpenses"`
	Freight             decimal.Decimal    `gorm:"column:frete;type:numeric(14,2)" json:"freight"`
	Total               decimal.Decimal    `gorm:"column:total;type:numeric(14,2)" json:"total"`
	Items               []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Installments        []OrderInstallment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"installments,omitempty"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// TableName overrides the table name used by Order.
func (Order) TableName() string {
	return "venda"
}

// OrderItem is a line of an order.
type OrderItem struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	OrderID             uint            `gorm:"column:id_venda;index;not null" json:"orderId"`
	IDOriginal          string          `gorm:"column:id_original;size:50" json:"idOriginal"`
	Date                *time.Time      `gorm:"column:data;type:date" json:"date,omitempty"`
	Status              string          `gorm:"column:situacao;size:1" json:"status"`
	ProductID           *uint           `gorm:"column:id_produto;index" json:"productId,omitempty"`
	Unit                string          `gorm:"column:unidade;size:6" json:"unit"`
	Quantity            decimal.Decimal `gorm:"column:quantidade;type:numeric(14,4)" json:"quantity"`
	Price               decimal.Decimal `gorm:"column:valor;type:numeric(14,6)" json:"price"`
	DiscountValue       decimal.Decimal `gorm:"column:desconto_valor;type:numeric(14,6)" json:"discountValue"`
	DiscountPercent     decimal.Decimal `gorm:"column:desconto_percentual;type:numeric(14,10)" json:"discountPercent"`
	DistributedDiscount decimal.Decimal `gorm:"column:desconto_rateado_valor;type:numeric(14,6)" json:"distributedDiscount"`
	Total               decimal.Decimal `gorm:"column:total;type:numeric(14,2)" json:"total"`
}

// TableName overrides the table name used by OrderItem.
func (OrderItem) TableName() string {
	return "venda_item"
}

// OrderInstallment is a payment installment of an order.
type OrderInstallment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"column:id_venda;index;not null" json:"orderId"`
	IDOriginal      string          `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Installment     string          `gorm:"column:parcela;size:7" json:"installment"`
	Notes           string          `gorm:"column:observacao;size:200" json:"notes"`
	IssuedAt        *time.Time      `gorm:"column:data_emissao" json:"issuedAt,omitempty"`
	DueAt           *time.Time      `gorm:"column:data_vencimento" json:"dueAt,omitempty"`
	PaymentMethodID *uint           `gorm:"column:id_forma_pagamento;index" json:"paymentMethodId,omitempty"`
	Value           decimal.Decimal `gorm:"column:valor;type:numeric(14,2)" json:"value"`
}

// TableName overrides the table name used by OrderInstallment.
func (OrderInstallment) TableName() string {
	return "venda_pagamento"
}
