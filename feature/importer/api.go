package importer

import (
	"context"
	"time"

	"bling-sync/feature/bling"
)

// API is the part of the Bling client the importers use.
type API interface {
	ListOrders(ctx context.Context, page int, day time.Time) ([]bling.OrderSummary, error)
	OrderPayload(ctx context.Context, id int64) ([]byte, error)

	ListPayables(ctx context.Context, page int, day time.Time, by bling.DateFilter) ([]bling.AccountSummary, error)
	ListReceivables(ctx context.Context, page int, day time.Time, by bling.DateFilter) ([]bling.AccountSummary, error)
	PayablePayload(ctx context.Context, id int64) ([]byte, error)
	ReceivablePayload(ctx context.Context, id int64) ([]byte, error)
	UpdatePayableDocument(ctx context.Context, account *bling.Account, document string) error
	BordereauPayload(ctx context.Context, id int64) ([]byte, error)

	ListInvoices(ctx context.Context, page int, day time.Time, kind int) ([]bling.Summary, error)
	InvoicePayload(ctx context.Context, id int64) ([]byte, error)

	ListContacts(ctx context.Context, page int) ([]int64, error)
	GetContact(ctx context.Context, id int64) (*bling.Contact, error)
	ListSalespeople(ctx context.Context, page int) ([]int64, error)
	GetSalesperson(ctx context.Context, id int64) (*bling.Salesperson, error)
	ListPaymentMethods(ctx context.Context, page int) ([]int64, error)
	GetPaymentMethod(ctx context.Context, id int64) (*bling.PaymentMethod, error)
	ListCategories(ctx context.Context, page int) ([]int64, error)
	GetCategory(ctx context.Context, id int64) (*bling.Category, error)
	ListLedgerAccounts(ctx context.Context, page int) ([]int64, error)
	GetLedgerAccount(ctx context.Context, id int64) (*bling.LedgerAccount, error)
	ListProducts(ctx context.Context, page int) ([]int64, error)
	GetProduct(ctx context.Context, id int64) (*bling.Product, error)
	ListOperationNatures(ctx context.Context, page int) ([]bling.OperationNature, error)
}

var _ API = (*bling.Client)(nil)
