package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"bling-sync/core/cursor"
	"bling-sync/core/walker"
	"bling-sync/feature/bling"
	"bling-sync/feature/importer"
	"bling-sync/feature/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const orderPayload = `{"data":{
	"id": 500, "numero": 42, "data": "2024-03-05", "dataSaida": "2024-03-06",
	"totalProdutos": 47.5, "total": 42.75, "outrasDespesas": 0,
	"contato": {"id": 10}, "situacao": {"id": 9, "valor": 1},
	"desconto": {"valor": 10, "unidade": "PERCENTUAL"},
	"transporte": {"frete": 0},
	"vendedor": {"id": 0},
	"itens": [
		{"id": 3, "codigo": "P8", "unidade": "UN", "quantidade": 2, "desconto": 0, "valor": 10, "produto": {"id": 8}},
		{"id": 1, "unidade": "UN", "quantidade": 2, "desconto": 0, "valor": 10, "produto": {"id": 0}},
		{"id": 2, "unidade": "UN", "quantidade": 1, "desconto": 10, "valor": 7.5, "produto": {"id": 0}}
	],
	"parcelas": [
		{"id": 71, "dataVencimento": "2024-04-05", "valor": 21.37, "formaPagamento": {"id": 4}},
		{"id": 70, "dataVencimento": "2024-03-05", "valor": 21.38, "formaPagamento": {"id": 4}}
	]
}}`

func withOrder(f *fixture) {
	f.api.orders[500] = orderPayload
	f.api.products[8] = &bling.Product{ID: 8, Name: "Café 500g", Code: "P8", Price: decimal.RequireFromString("10.05"), Situation: "A"}
}

func loadOrder(t *testing.T, db *gorm.DB, id string) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, db.
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("id") }).
		Preload("Installments", func(q *gorm.DB) *gorm.DB { return q.Order("id") }).
		Where("id_original = ?", id).Take(&o).Error)
	return o
}

func fixed(d decimal.Decimal) string { return d.StringFixed(2) }

func TestSyncOrder_DistributesDiscount(t *testing.T) {
	f := setup(t)
	withOrder(f)

	_, err := f.im.SyncOrder(context.Background(), 500, true)
	require.NoError(t, err)

	o := loadOrder(t, f.db, "500")
	assert.Equal(t, models.OrderClosed, o.State)
	assert.Equal(t, uint(7), o.CompanyID)
	assert.Equal(t, "42", o.Identifier)
	assert.NotNil(t, o.PersonID)
	assert.Nil(t, o.SalespersonID)

	// 20.00 + 8.33 + 20.10: the discounted item recovers its list price and
	// the third snaps to the product price.
	assert.Equal(t, "48.43", fixed(o.Subtotal))
	assert.Equal(t, "0.83", fixed(o.DiscountValue))
	assert.Equal(t, "4.75", fixed(o.DistributedDiscount))
	assert.Equal(t, "0.1152178402", o.DiscountRatio.StringFixed(10))
	assert.Equal(t, "42.75", fixed(o.Total))

	require.Len(t, o.Items, 3)
	want := []struct {
		id, price, distributed, total string
	}{
		{"1", "10.00", "2.00", "18.00"},
		{"2", "8.33", "0.76", "6.74"},
		{"3", "10.05", "1.99", "18.01"},
	}
	itemsTotal := decimal.Zero
	for i, w := range want {
		it := o.Items[i]
		assert.Equal(t, w.id, it.IDOriginal)
		assert.Equal(t, w.price, fixed(it.Price), "price of item %s", w.id)
		assert.Equal(t, w.distributed, fixed(it.DistributedDiscount), "discount of item %s", w.id)
		assert.Equal(t, w.total, fixed(it.Total), "total of item %s", w.id)
		itemsTotal = itemsTotal.Add(it.Total)
	}
	assert.Equal(t, "42.75", fixed(itemsTotal))
	assert.NotNil(t, o.Items[2].ProductID)
	assert.Nil(t, o.Items[0].ProductID)

	require.Len(t, o.Installments, 2)
	assert.Equal(t, "70", o.Installments[0].IDOriginal)
	assert.Equal(t, "1/2", o.Installments[0].Installment)
	assert.Equal(t, "2/2", o.Installments[1].Installment)
	assert.NotNil(t, o.Installments[0].PaymentMethodID)
	require.NotNil(t, o.Installments[0].IssuedAt)
	assert.Equal(t, "2024-03-06", o.Installments[0].IssuedAt.Format("2006-01-02"))
}

func TestSyncOrder_OrderDiscountAmount(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		discount string
		want     string
	}{
		{"percent of products total", `"total": 42.75`, `{"valor": 10, "unidade": "PERCENTUAL"}`, "4.75"},
		{"percent ignores charged total", `"total": 43.00`, `{"valor": 10, "unidade": "PERCENTUAL"}`, "4.75"},
		{"percent rounds half up", `"total": 42.75`, `{"valor": 12.5, "unidade": "PERCENTUAL"}`, "5.94"},
		{"absolute amount", `"total": 42.75`, `{"valor": 3, "unidade": "REAL"}`, "3.00"},
		{"no discount", `"total": 42.75`, `{"valor": 0, "unidade": "PERCENTUAL"}`, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			withOrder(f)
			payload := strings.Replace(orderPayload, `"total": 42.75`, tt.total, 1)
			f.api.orders[500] = strings.Replace(payload, `{"valor": 10, "unidade": "PERCENTUAL"}`, tt.discount, 1)

			_, err := f.im.SyncOrder(context.Background(), 500, true)
			require.NoError(t, err)

			o := loadOrder(t, f.db, "500")
			assert.Equal(t, tt.want, fixed(o.DistributedDiscount))
			spread := decimal.Zero
			for _, it := range o.Items {
				spread = spread.Add(it.DistributedDiscount)
			}
			assert.Equal(t, tt.want, fixed(spread))
		})
	}
}

func TestSyncOrder_ClosedOrdersReuseLoggedPayload(t *testing.T) {
	f := setup(t)
	withOrder(f)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.im.SyncOrder(ctx, 500, true)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.api.count("OrderPayload"))
	assert.Equal(t, int64(1), count(t, f.db, &models.Order{}, ""))
	assert.Equal(t, int64(3), count(t, f.db, &models.OrderItem{}, ""))
	assert.Equal(t, int64(2), count(t, f.db, &models.OrderInstallment{}, ""))
}

func TestSyncOrder_OpenOrdersAreRefetched(t *testing.T) {
	f := setup(t)
	withOrder(f)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		o, err := f.im.SyncOrder(ctx, 500, false)
		require.NoError(t, err)
		assert.NotZero(t, o.ID)
	}
	assert.Equal(t, 2, f.api.count("OrderPayload"))
	assert.Equal(t, int64(3), count(t, f.db, &models.OrderItem{}, ""))
	assert.Equal(t, int64(2), count(t, f.db, &models.OrderInstallment{}, ""))
	// The person and the product were resolved once and reused afterwards.
	assert.Equal(t, 1, f.api.count("GetContact"))
	assert.Equal(t, 1, f.api.count("GetProduct"))

	_, found, err := f.cache.Get(ctx, "venda", "500")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestOrderSource_WalksWindowsAndSkipsZeroTotals(t *testing.T) {
	f := setup(t)
	withOrder(f)
	f.api.orderPages["2024-03-05"] = []bling.OrderSummary{
		{ID: 499, Total: decimal.Zero, Situation: bling.Situation{ID: 12}},
		{ID: 500, Total: decimal.RequireFromString("42.75"), Situation: bling.Situation{ID: 9}},
	}

	src, err := f.im.Source(importer.KindOrder)
	require.NoError(t, err)
	assert.True(t, src.Windowed())

	store := cursor.NewStore(f.db)
	require.NoError(t, f.db.AutoMigrate(&cursor.ImportCursor{}))
	start := day("2024-03-05")
	_, err = store.LoadOrCreate(context.Background(), importer.KindOrder, &start)
	require.NoError(t, err)

	w := walker.New(src, store, walker.Options{
		Now:   func() time.Time { return day("2024-03-06") },
		Sleep: f.sleeps.sleep,
	})
	report, err := w.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, walker.StateComplete, report.State)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, f.api.count("OrderPayload"))
	assert.Equal(t, int64(1), count(t, f.db, &models.Order{}, ""))
}
