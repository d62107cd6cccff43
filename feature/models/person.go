package models

import "time"

// Person types.
const (
	PersonIndividual = "F"
	PersonCompany    = "J"
)

// Person is a customer, supplier or salesperson contact.
type Person struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	IDOriginal        string     `gorm:"column:id_original;size:50;uniqueIndex;not null" json:"idOriginal"`
	Identifier        string     `gorm:"column:identificador;size:50" json:"identifier"`
	Type              string     `gorm:"column:tipo_pessoa;size:1" json:"type"`
	Name              string     `gorm:"column:nome;size:200" json:"name"`
	DocumentNumber    *string    `gorm:"column:numero_documento;size:14;uniqueIndex" json:"documentNumber,omitempty"`
	TradeName         string     `gorm:"column:fantasia;size:200" json:"tradeName"`
	StateRegIndicator int        `gorm:"column:indicador_inscricao_estadual" json:"stateRegIndicator"`
	StateRegistration string     `gorm:"column:inscricao_estadual;size:20" json:"stateRegistration"`
	RG                *string    `gorm:"column:rg;size:30;uniqueIndex" json:"rg,omitempty"`
	IssuingAgency     string     `gorm:"column:orgao_emissor;size:20" json:"issuingAgency"`
	Email             string     `gorm:"column:email;size:200" json:"email"`
	Status            int16      `gorm:"column:situacao" json:"status"`
	BirthDate         *time.Time `gorm:"column:data_nascimento;type:date" json:"birthDate,omitempty"`
	Sex               string     `gorm:"column:sexo;size:1" json:"sex"`
	Birthplace        string     `gorm:"column:naturalidade;size:100" json:"birthplace"`
	Addresses         []Address  `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// TableName overrides the table name used by Person.
func (Person) TableName() string {
	return "pessoa"
}

// Address is the main address of a person.
type Address struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PersonID   uint   `gorm:"column:id_pessoa;index;not null" json:"personId"`
	Street     string `gorm:"column:logradouro;size:200" json:"street"`
	ZipCode    string `gorm:"column:cep;size:8" json:"zipCode"`
	District   string `gorm:"column:bairro;size:50" json:"district"`
	City       string `gorm:"column:municipio;size:150" json:"city"`
	State      string `gorm:"column:uf;size:2" json:"state"`
	Number     string `gorm:"column:numero;size:10" json:"number"`
	Complement string `gorm:"column:complemento;size:200" json:"complement"`
}

// TableName overrides the table name used by Address.
func (Address) TableName() string {
	return "pessoa_endereco"
}

// Supplier marks a person as a product supplier.
type Supplier struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	PersonID uint  `gorm:"column:id_pessoa;uniqueIndex;not null" json:"personId"`
	Status   int16 `gorm:"column:situacao" json:"status"`
}

// TableName overrides the table name used by Supplier.
func (Supplier) TableName() string {
	return "fornecedor"
}
