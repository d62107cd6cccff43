package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an inbound or outbound NF-e.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	IDOriginal    string          `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Number        string          `gorm:"column:numero;size:20" json:"number"`
	IssuedAt      *time.Time      `gorm:"column:data_emissao" json:"issuedAt,omitempty"`
	OperationAt   *time.Time      `gorm:"column:data_operacao" json:"operationAt,omitempty"`
	Type          int16           `gorm:"column:tipo" json:"type"`
	Situation     int16           `gorm:"column:situacao" json:"situation"`
	PersonID      *uint           `gorm:"column:id_pessoa;index" json:"personId,omitempty"`
	CategoryID    *uint           `gorm:"column:id_nfe_categoria;index" json:"categoryId,omitempty"`
	SalespersonID *uint           `gorm:"column:id_vendedor;index" json:"salespersonId,omitempty"`
	Value         decimal.Decimal `gorm:"column:valor;type:numeric(14,2)" json:"value"`
	AccessKey     string          `gorm:"column:chave_acesso;size:44" json:"accessKey"`
	Series        int16           `gorm:"column:serie" json:"series"`
	XMLLink       string          `gorm:"column:xml_link;type:text" json:"xmlLink"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TableName overrides the table name used by Invoice.
func (Invoice) TableName() string {
	return "nfe"
}
