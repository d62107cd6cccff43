package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Salesperson links a person to its commission rules.
type Salesperson struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	IDOriginal  string       `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	PersonID    *uint        `gorm:"column:id_pessoa;index" json:"personId,omitempty"`
	Status      int16        `gorm:"column:situacao" json:"status"`
	Commissions []Commission `gorm:"foreignKey:SalespersonID;constraint:OnDelete:CASCADE" json:"commissions,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName overrides the table name used by Salesperson.
func (Salesperson) TableName() string {
	return "vendedor"
}

// Commission is a commission rule of a salesperson.
type Commission struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SalespersonID   uint            `gorm:"column:id_vendedor;index;not null" json:"salespersonId"`
	CommissionRate  decimal.Decimal `gorm:"column:percentual_comissao;type:numeric(5,2)" json:"commissionRate"`
	DiscountMaximum decimal.Decimal `gorm:"column:percentual_desconto;type:numeric(5,2)" json:"discountMaximum"`
}

// TableName overrides the table name used by Commission.
func (Commission) TableName() string {
	return "vendedor_comissao"
}

// PaymentMethod is a payment or receipt method.
type PaymentMethod struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	IDOriginal  string          `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Name        string          `gorm:"column:nome;size:100;uniqueIndex;not null" json:"name"`
	PaymentType int16           `gorm:"column:tipo_pagamento" json:"paymentType"`
	Purpose     int16           `gorm:"column:finalidade" json:"purpose"`
	Status      int16           `gorm:"column:situacao" json:"status"`
	FeeRate     decimal.Decimal `gorm:"column:taxa_aliquota;type:numeric(14,2)" json:"feeRate"`
	FeeValue    decimal.Decimal `gorm:"column:taxa_valor;type:numeric(14,2)" json:"feeValue"`
	CardBrand   *int16          `gorm:"column:bandeira_cartao" json:"cardBrand,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TableName overrides the table name used by PaymentMethod.
func (PaymentMethod) TableName() string {
	return "forma_pagamento"
}

// Chart account types.
const (
	ChartExpense           = "D"
	ChartRevenue           = "R"
	ChartRevenueAndExpense = "RD"
)

// ChartAccount is a revenue and expense category.
type ChartAccount struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	IDOriginal  string `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Description string `gorm:"column:descricao;size:150" json:"description"`
	Type        string `gorm:"column:tipo;size:2" json:"type"`
	ParentID    *uint  `gorm:"column:id_plano_conta_pai;index" json:"parentId,omitempty"`
}

// TableName overrides the table name used by ChartAccount.
func (ChartAccount) TableName() string {
	return "plano_conta"
}

// Carrier is the bank or cash account a settlement goes through.
type Carrier struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	IDOriginal  string `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Description string `gorm:"column:descricao;size:150" json:"description"`
}

// TableName overrides the table name used by Carrier.
func (Carrier) TableName() string {
	return "portador"
}

// InvoiceCategory is the operation nature of an invoice.
type InvoiceCategory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	IDOriginal  string `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Description string `gorm:"column:descricao;type:text" json:"description"`
}

// TableName overrides the table name used by InvoiceCategory.
func (InvoiceCategory) TableName() string {
	return "nfe_categoria"
}

// Product is a catalog product or one of its variations.
type Product struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	IDOriginal       string          `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Identifier       string          `gorm:"column:identificador;size:60" json:"identifier"`
	Description      string          `gorm:"column:descricao;size:200" json:"description"`
	ShortDescription string          `gorm:"column:descricao_curta;type:text" json:"shortDescription"`
	Status           int16           `gorm:"column:situacao" json:"status"`
	Format           string          `gorm:"column:formato;size:1" json:"format"`
	Unit             string          `gorm:"column:unidade;size:6" json:"unit"`
	GTIN             string          `gorm:"column:gtin;size:14" json:"gtin"`
	PackageGTIN      string          `gorm:"column:gtin_embalagem;size:14" json:"packageGtin"`
	Notes            string          `gorm:"column:observacoes;type:text" json:"notes"`
	ImageURL         string          `gorm:"column:url_imagem;type:text" json:"imageUrl"`
	Price            decimal.Decimal `gorm:"column:valor_preco;type:numeric(14,6)" json:"price"`
	Cost             decimal.Decimal `gorm:"column:valor_custo;type:numeric(14,6)" json:"cost"`
	SupplierID       *uint           `gorm:"column:id_fornecedor;index" json:"supplierId,omitempty"`
	ParentID         *uint           `gorm:"column:id_produto_pai;index" json:"parentId,omitempty"`
	Variation        string          `gorm:"column:variacao;size:120" json:"variation,omitempty"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// TableName overrides the table name used by Product.
func (Product) TableName() string {
	return "produto"
}
