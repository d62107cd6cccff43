package importer_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"bling-sync/core/cache"
	"bling-sync/core/database"
	"bling-sync/core/utils"
	"bling-sync/feature/bling"
	"bling-sync/feature/importer"
	"bling-sync/feature/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeAPI serves canned ERP data. Listings only have a first page.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	orderPages   map[string][]bling.OrderSummary
	orders       map[int64]string
	accountPages map[string][]bling.AccountSummary
	payables     map[int64]string
	receivables  map[int64]string
	bordereaux   map[int64]string
	invoicePages map[string][]bling.Summary
	invoices     map[int64]string

	contacts    map[int64]*bling.Contact
	salespeople map[int64]*bling.Salesperson
	methods     map[int64]*bling.PaymentMethod
	categories  map[int64]*bling.Category
	ledger      map[int64]*bling.LedgerAccount
	products    map[int64]*bling.Product
	natures     []bling.OperationNature

	documents map[int64]string
	updateErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:        map[string]int{},
		orderPages:   map[string][]bling.OrderSummary{},
		orders:       map[int64]string{},
		accountPages: map[string][]bling.AccountSummary{},
		payables:     map[int64]string{},
		receivables:  map[int64]string{},
		bordereaux:   map[int64]string{},
		invoicePages: map[string][]bling.Summary{},
		invoices:     map[int64]string{},
		contacts:     map[int64]*bling.Contact{},
		salespeople:  map[int64]*bling.Salesperson{},
		methods:      map[int64]*bling.PaymentMethod{},
		categories:   map[int64]*bling.Category{},
		ledger:       map[int64]*bling.LedgerAccount{},
		products:     map[int64]*bling.Product{},
		documents:    map[int64]string{},
	}
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func lookup[T any](m map[int64]T, kind string, id int64) (T, error) {
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", kind, id, bling.ErrNotFound)
	}
	return v, nil
}

func firstPage[T any](page int, rows []T) []T {
	if page > 1 {
		return nil
	}
	return rows
}

func accountKey(receivable bool, by bling.DateFilter, day time.Time) string {
	return fmt.Sprintf("%t|%d|%s", receivable, by, utils.FormatDate(day))
}

func (f *fakeAPI) ListOrders(_ context.Context, page int, day time.Time) ([]bling.OrderSummary, error) {
	f.hit("ListOrders")
	return firstPage(page, f.orderPages[utils.FormatDate(day)]), nil
}

func (f *fakeAPI) OrderPayload(_ context.Context, id int64) ([]byte, error) {
	f.hit("OrderPayload")
	raw, err := lookup(f.orders, "order", id)
	return []byte(raw), err
}

func (f *fakeAPI) ListPayables(_ context.Context, page int, day time.Time, by bling.DateFilter) ([]bling.AccountSummary, error) {
	f.hit("ListPayables")
	return firstPage(page, f.accountPages[accountKey(false, by, day)]), nil
}

func (f *fakeAPI) ListReceivables(_ context.Context, page int, day time.Time, by bling.DateFilter) ([]bling.AccountSummary, error) {
	f.hit("ListReceivables")
	return firstPage(page, f.accountPages[accountKey(true, by, day)]), nil
}

func (f *fakeAPI) PayablePayload(_ context.Context, id int64) ([]byte, error) {
	f.hit("PayablePayload")
	raw, err := lookup(f.payables, "payable", id)
	return []byte(raw), err
}

func (f *fakeAPI) ReceivablePayload(_ context.Context, id int64) ([]byte, error) {
	f.hit("ReceivablePayload")
	raw, err := lookup(f.receivables, "receivable", id)
	return []byte(raw), err
}

func (f *fakeAPI) UpdatePayableDocument(_ context.Context, a *bling.Account, document string) error {
	f.hit("UpdatePayableDocument")
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents[a.ID] = document
	return nil
}

func (f *fakeAPI) BordereauPayload(_ context.Context, id int64) ([]byte, error) {
	f.hit("BordereauPayload")
	raw, err := lookup(f.bordereaux, "bordereau", id)
	return []byte(raw), err
}

func (f *fakeAPI) ListInvoices(_ context.Context, page int, day time.Time, kind int) ([]bling.Summary, error) {
	f.hit("ListInvoices")
	return firstPage(page, f.invoicePages[fmt.Sprintf("%d|%s", kind, utils.FormatDate(day))]), nil
}

func (f *fakeAPI) InvoicePayload(_ context.Context, id int64) ([]byte, error) {
	f.hit("InvoicePayload")
	raw, err := lookup(f.invoices, "invoice", id)
	return []byte(raw), err
}

func (f *fakeAPI) ListContacts(_ context.Context, page int) ([]int64, error) {
	return firstPage(page, keys(f.contacts)), nil
}

func (f *fakeAPI) GetContact(_ context.Context, id int64) (*bling.Contact, error) {
	f.hit("GetContact")
	return lookup(f.contacts, "contact", id)
}

func (f *fakeAPI) ListSalespeople(_ context.Context, page int) ([]int64, error) {
	return firstPage(page, keys(f.salespeople)), nil
}

func (f *fakeAPI) GetSalesperson(_ context.Context, id int64) (*bling.Salesperson, error) {
	f.hit("GetSalesperson")
	return lookup(f.salespeople, "salesperson", id)
}

func (f *fakeAPI) ListPaymentMethods(_ context.Context, page int) ([]int64, error) {
	return firstPage(page, keys(f.methods)), nil
}

func (f *fakeAPI) GetPaymentMethod(_ context.Context, id int64) (*bling.PaymentMethod, error) {
	f.hit("GetPaymentMethod")
	return lookup(f.methods, "payment method", id)
}

func (f *fakeAPI) ListCategories(_ context.Context, page int) ([]int64, error) {
	return firstPage(page, keys(f.categories)), nil
}

func (f *fakeAPI) GetCategory(_ context.Context, id int64) (*bling.Category, error) {
	f.hit("GetCategory")
	return lookup(f.categories, "category", id)
}

func (f *fakeAPI) ListLedgerAccounts(_ context.Context, page int) ([]int64, error) {
	return firstPage(page, keys(f.ledger)), nil
}

func (f *fakeAPI) GetLedgerAccount(_ context.Context, id int64) (*bling.LedgerAccount, error) {
	f.hit("GetLedgerAccount")
	return lookup(f.ledger, "ledger account", id)
}

func (f *fakeAPI) ListProducts(_ context.Context, page int) ([]int64, error) {
	return firstPage(page, keys(f.products)), nil
}

func (f *fakeAPI) GetProduct(_ context.Context, id int64) (*bling.Product, error) {
	f.hit("GetProduct")
	return lookup(f.products, "product", id)
}

func (f *fakeAPI) ListOperationNatures(_ context.Context, page int) ([]bling.OperationNature, error) {
	f.hit("ListOperationNatures")
	return firstPage(page, f.natures), nil
}

func keys[T any](m map[int64]T) []int64 {
	out := make([]int64, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

type sleepLog struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (s *sleepLog) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, d)
	return nil
}

func testConfig() importer.Config {
	return importer.Config{
		CompanyID:        7,
		Timezone:         "UTC",
		BordereauDelayMS: 330,
		OrdersStart:      "2024-01-01",
		AccountsStart:    "2024-01-01",
		SettlementsStart: "2023-01-01",
		InvoicesStart:    "2023-01-01",
	}
}

type fixture struct {
	db     *gorm.DB
	api    *fakeAPI
	im     *importer.Importer
	cache  *cache.Cache
	sleeps *sleepLog
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, append(models.All(), &cache.Entry{})...))

	f := &fixture{db: db, api: newFakeAPI(), cache: cache.New(db, nil), sleeps: &sleepLog{}}
	f.im, err = importer.New(importer.Deps{
		DB:     db,
		API:    f.api,
		Cache:  f.cache,
		Config: testConfig(),
		Sleep:  f.sleeps.sleep,
	})
	require.NoError(t, err)

	// Shared catalog: one company contact and one payment method.
	f.api.contacts[10] = &bling.Contact{
		ID:             10,
		Name:           "Mercado Central",
		Code:           "C10",
		Situation:      "A",
		DocumentNumber: "11.222.333/0001-81",
		Type:           "J",
		Address: bling.ContactAddresses{General: bling.Address{
			Street: "Av. Paulista", ZipCode: "01310-100", City: "São Paulo", State: "SP", Number: "1000",
		}},
	}
	f.api.methods[4] = &bling.PaymentMethod{ID: 4, Description: "Pix", PaymentType: 17, Situation: 1}
	return f
}

func count(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func day(s string) time.Time {
	t, err := time.ParseInLocation(utils.DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}
