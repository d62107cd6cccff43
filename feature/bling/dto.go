package bling

import "github.com/shopspring/decimal"

// Ref is a nested reference to another ERP resource.
type Ref struct {
	ID int64 `json:"id"`
}

// Situation is the {id, valor} pair orders carry.
type Situation struct {
	ID    int64 `json:"id"`
	Value int64 `json:"valor"`
}

// Order situations.
const (
	OrderSituationClosed    = 9
	OrderSituationCompleted = 12
)

// OrderSummary is a row of the order listing.
type OrderSummary struct {
	ID            int64           `json:"id"`
	Number        int64           `json:"numero"`
	Date          string          `json:"data"`
	ProductsTotal decimal.Decimal `json:"totalProdutos"`
	Total         decimal.Decimal `json:"total"`
	Contact       Ref             `json:"contato"`
	Situation     Situation       `json:"situacao"`
}

// Discount is the order-level discount.
type Discount struct {
	Value decimal.Decimal `json:"valor"`
	Unit  string          `json:"unidade"`
}

// DiscountUnitPercent marks a percentage order discount.
const DiscountUnitPercent = "PERCENTUAL"

// OrderItem is a line of an order.
type OrderItem struct {
	ID          int64           `json:"id"`
	Code        string          `json:"codigo"`
	Unit        string          `json:"unidade"`
	Quantity    decimal.Decimal `json:"quantidade"`
	Discount    decimal.Decimal `json:"desconto"`
	Value       decimal.Decimal `json:"valor"`
	Description string          `json:"descricao"`
	Product     Ref             `json:"produto"`
}

// OrderInstallment is a payment installment of an order.
type OrderInstallment struct {
	ID            int64           `json:"id"`
	DueDate       string          `json:"dataVencimento"`
	Value         decimal.Decimal `json:"valor"`
	Notes         string          `json:"observacoes"`
	PaymentMethod Ref             `json:"formaPagamento"`
}

// Shipping holds the transport block of an order.
type Shipping struct {
	Freight decimal.Decimal `json:"frete"`
}

// Order is the order detail.
type Order struct {
	ID            int64              `json:"id"`
	Number        int64              `json:"numero"`
	Date          string             `json:"data"`
	ShippingDate  string             `json:"dataSaida"`
	ProductsTotal decimal.Decimal    `json:"totalProdutos"`
	Total         decimal.Decimal    `json:"total"`
	OtherExpenses decimal.Decimal    `json:"outrasDespesas"`
	Contact       Ref                `json:"contato"`
	Situation     Situation          `json:"situacao"`
	Discount      Discount           `json:"desconto"`
	Items         []OrderItem        `json:"itens"`
	Installments  []OrderInstallment `json:"parcelas"`
	Shipping      Shipping           `json:"transporte"`
	Salesperson   Ref                `json:"vendedor"`
}

// AccountSummary is a row of the payable and receivable listings.
type AccountSummary struct {
	ID        int64           `json:"id"`
	Situation int             `json:"situacao"`
	DueDate   string          `json:"vencimento"`
	Value     decimal.Decimal `json:"valor"`
	Contact   Ref             `json:"contato"`
}

// Account is the detail of a payable or receivable.
type Account struct {
	ID             int64           `json:"id"`
	Situation      int             `json:"situacao"`
	DueDate        string          `json:"vencimento"`
	Value          decimal.Decimal `json:"valor"`
	Balance        decimal.Decimal `json:"saldo"`
	IssueDate      string          `json:"dataEmissao"`
	DocumentNumber string          `json:"numeroDocumento"`
	Competence     string          `json:"competencia"`
	History        string          `json:"historico"`
	Contact        Ref             `json:"contato"`
	PaymentMethod  Ref             `json:"formaPagamento"`
	Carrier        Ref             `json:"portador"`
	Category       Ref             `json:"categoria"`
	Bordereaux     []int64         `json:"borderos"`
}

// DocumentUpdate is the body of the payable document fix.
type DocumentUpdate struct {
	Contact        Ref             `json:"contato"`
	Value          decimal.Decimal `json:"valor"`
	DueDate        string          `json:"vencimento"`
	IssueDate      string          `json:"dataEmissao,omitempty"`
	Competence     string          `json:"competencia,omitempty"`
	DocumentNumber string          `json:"numeroDocumento"`
}

// BordereauPayment is one settlement inside a bordereau.
type BordereauPayment struct {
	ID             int64           `json:"id"`
	Contact        Ref             `json:"contato"`
	DocumentNumber string          `json:"numeroDocumento"`
	Paid           decimal.Decimal `json:"valorPago"`
	Interest       decimal.Decimal `json:"juro"`
	Discount       decimal.Decimal `json:"desconto"`
}

// Bordereau groups the settlements of one day and carrier.
type Bordereau struct {
	ID       int64              `json:"id"`
	Date     string             `json:"data"`
	History  string             `json:"historico"`
	Carrier  Ref                `json:"portador"`
	Category Ref                `json:"categoria"`
	Payments []BordereauPayment `json:"pagamentos"`
}

// Invoice types.
const (
	InvoiceInbound  = 0
	InvoiceOutbound = 1
)

// Invoice is the NF-e detail.
type Invoice struct {
	ID              int64           `json:"id"`
	Type            int             `json:"tipo"`
	Situation       int             `json:"situacao"`
	Number          string          `json:"numero"`
	IssuedAt        string          `json:"dataEmissao"`
	OperationAt     string          `json:"dataOperacao"`
	AccessKey       string          `json:"chaveAcesso"`
	Contact         Ref             `json:"contato"`
	OperationNature Ref             `json:"naturezaOperacao"`
	Series          int             `json:"serie"`
	Value           decimal.Decimal `json:"valorNota"`
	XML             string          `json:"xml"`
	Salesperson     Ref             `json:"vendedor"`
}

// Address is one address block of a contact.
type Address struct {
	Street     string `json:"endereco"`
	ZipCode    string `json:"cep"`
	District   string `json:"bairro"`
	City       string `json:"municipio"`
	State      string `json:"uf"`
	Number     string `json:"numero"`
	Complement string `json:"complemento"`
}

// ContactAddresses holds the addresses of a contact.
type ContactAddresses struct {
	General Address `json:"geral"`
	Billing Address `json:"cobranca"`
}

// ContactExtra holds personal data of individuals.
type ContactExtra struct {
	BirthDate  string `json:"dataNascimento"`
	Sex        string `json:"sexo"`
	Birthplace string `json:"naturalidade"`
}

// Contact is the contact detail.
type Contact struct {
	ID                int64            `json:"id"`
	Name              string           `json:"nome"`
	Code              string           `json:"codigo"`
	Situation         string           `json:"situacao"`
	DocumentNumber    string           `json:"numeroDocumento"`
	TradeName         string           `json:"fantasia"`
	Type              string           `json:"tipo"`
	StateRegIndicator int              `json:"indicadorIe"`
	StateRegistration string           `json:"ie"`
	RG                string           `json:"rg"`
	IssuingAgency     string           `json:"orgaoEmissor"`
	Email             string           `json:"email"`
	Address           ContactAddresses `json:"endereco"`
	Extra             ContactExtra     `json:"dadosAdicionais"`
}

// Commission is a commission rule of a salesperson.
type Commission struct {
	MaxDiscount decimal.Decimal `json:"descontoMaximo"`
	Rate        decimal.Decimal `json:"aliquota"`
}

// Salesperson is the salesperson detail.
type Salesperson struct {
	ID            int64           `json:"id"`
	DiscountLimit decimal.Decimal `json:"descontoLimite"`
	Commissions   []Commission    `json:"comissoes"`
	Contact       Ref             `json:"contato"`
}

// PaymentFees are the fees of a payment method.
type PaymentFees struct {
	Rate  decimal.Decimal `json:"aliquota"`
	Value decimal.Decimal `json:"valor"`
}

// CardData describes card payment methods.
type CardData struct {
	Brand int `json:"bandeira"`
}

// PaymentMethod is the payment method detail.
type PaymentMethod struct {
	ID          int64       `json:"id"`
	Description string      `json:"descricao"`
	PaymentType int         `json:"tipoPagamento"`
	Situation   int         `json:"situacao"`
	Purpose     int         `json:"finalidade"`
	Fees        PaymentFees `json:"taxas"`
	Card        *CardData   `json:"dadosCartao"`
}

// Category is a revenue and expense category.
type Category struct {
	ID          int64  `json:"id"`
	ParentID    int64  `json:"idCategoriaPai"`
	Description string `json:"descricao"`
	Type        int    `json:"tipo"`
}

// LedgerAccount is a bank or cash account.
type LedgerAccount struct {
	ID          int64  `json:"id"`
	Description string `json:"descricao"`
}

// ProductSupplier is the supplier block of a product.
type ProductSupplier struct {
	ID        int64           `json:"id"`
	Contact   Ref             `json:"contato"`
	CostPrice decimal.Decimal `json:"precoCusto"`
}

// ProductVariation links a variation to its parent product.
type ProductVariation struct {
	Name   string `json:"nome"`
	Parent Ref    `json:"produtoPai"`
}

// Product is the product detail.
type Product struct {
	ID               int64             `json:"id"`
	Name             string            `json:"nome"`
	Code             string            `json:"codigo"`
	Price            decimal.Decimal   `json:"preco"`
	Situation        string            `json:"situacao"`
	Format           string            `json:"formato"`
	ShortDescription string            `json:"descricaoCurta"`
	Unit             string            `json:"unidade"`
	GTIN             string            `json:"gtin"`
	PackageGTIN      string            `json:"gtinEmbalagem"`
	Notes            string            `json:"observacoes"`
	ImageURL         string            `json:"imagemURL"`
	Supplier         *ProductSupplier  `json:"fornecedor"`
	Variation        *ProductVariation `json:"variacao"`
}

// OperationNature is an invoice operation nature. The API only lists them.
type OperationNature struct {
	ID          int64  `json:"id"`
	Situation   int    `json:"situacao"`
	Default     int    `json:"padrao"`
	Description string `json:"descricao"`
}

// Summary is the minimal listing row of catalog resources.
type Summary struct {
	ID int64 `json:"id"`
}
